package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("loadConfig", func() {
	write := func(body string) string {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600)).To(Succeed())
		return dir
	}

	BeforeEach(func() {
		GinkgoT().Setenv("APP_ENV", "")
		GinkgoT().Setenv("DOCKER_ENV", "")
	})

	It("fills defaults the file leaves out", func() {
		dir := write(`
http_server:
  port: 9090
database:
  max_open_conns: 10
  max_idle_conns: 2
  source: postgres://localhost/shop
security:
  jwt_secret: a-development-secret-of-thirty-two-chars
`)
		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(9090))
		Expect(cfg.Security.AccessTokenDuration).To(Equal(24 * time.Hour))
		Expect(cfg.Security.DefaultRole).To(Equal(internal.DefaultRegistrationRole))
		Expect(cfg.Security.JWTIssuer).To(Equal(internal.DefaultJWTIssuer))
		Expect(cfg.Observability.Metrics.Path).To(Equal("/metrics"))
	})

	It("rejects a short signing secret", func() {
		dir := write(`
security:
  jwt_secret: short
`)
		_, err := loadConfig(dir)
		Expect(err).To(MatchError(ContainSubstring("jwt_secret")))
	})

	It("reads the environment in container mode", func() {
		GinkgoT().Setenv("APP_ENV", "production")
		GinkgoT().Setenv("JWT_SECRET", "a-production-secret-of-thirty-two-chars")
		GinkgoT().Setenv("ACCESS_TOKEN_DURATION", "2h")

		cfg, err := loadConfig(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Security.AccessTokenDuration).To(Equal(2 * time.Hour))
	})
})

var _ = Describe("publishTestEvent", func() {
	It("refuses event types the services never emit", func() {
		Expect(publishTestEvent("expense.created")).To(MatchError(ContainSubstring("unknown event type")))
	})

	It("delivers identity events to the audit log", func() {
		Expect(publishTestEvent("user.registered")).To(Succeed())
		Expect(publishTestEvent("role.deleted")).To(Succeed())
	})
})
