package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	"github.com/Ansari839/ecommerce-dashboard/internal/user"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
)

type failingAuthorizer struct{}

func (failingAuthorizer) Can(context.Context, Identity, Requirement) (Decision, error) {
	return Decision{}, internal.ErrAuthorizationCheckFailed.Wrap(errors.New("connection refused"))
}

// counterValue reads one labelled series from a registry.
func counterValue(reg *prometheus.Registry, outcome, code string) float64 {
	families, err := reg.Gather()
	gomega.Expect(err).ToNot(gomega.HaveOccurred())
	for _, mf := range families {
		if mf.GetName() != "authz_guard_verdicts_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["outcome"] == outcome && labels["code"] == code {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

var _ = ginkgo.Describe("Guard", func() {
	var (
		s      *store
		tokens *JWTTokenService
		reg    *prometheus.Registry
		guard  *Guard
	)

	ginkgo.BeforeEach(func() {
		s = newStore()
		tokens = NewJWTTokenService(testSecret, internal.DefaultJWTIssuer, time.Hour)
		reg = prometheus.NewRegistry()
		guard = NewGuard(
			NewAuthenticator(tokens, s.users, s.roles, discardLogger()),
			NewAuthorizer(s.roles, discardLogger()),
			discardLogger(),
			reg,
		)
	})

	requestAs := func(u *user.User) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/anything", nil)
		if u != nil {
			token, err := tokens.Issue(SubjectClaims{UserID: u.ID, Email: u.Email})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return req
	}

	ginkgo.Describe("a Marketing user", func() {
		var marketer *user.User

		ginkgo.BeforeEach(func() {
			marketer = s.addUser("mkt@shop.io", "Marketing", user.StatusActive)
		})

		ginkgo.It("may create marketing content", func() {
			v := guard.Check(requestAs(marketer), Requirement{Module: "marketing", Action: "create"})
			gomega.Expect(v.Allowed).To(gomega.BeTrue())
			gomega.Expect(v.Identity.ID).To(gomega.Equal(marketer.ID))
			gomega.Expect(v.Identity.RoleName()).To(gomega.Equal("Marketing"))
		})

		ginkgo.It("may not delete marketing content", func() {
			v := guard.Check(requestAs(marketer), Requirement{Module: "marketing", Action: "delete"})
			gomega.Expect(v.Allowed).To(gomega.BeFalse())
			gomega.Expect(v.Status).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(v.Code).To(gomega.Equal(internal.ErrCodeActionNotPermitted))
			gomega.Expect(v.Message).To(gomega.Equal("Access denied: you don't have permission to delete marketing"))
		})

		ginkgo.It("has no access to users", func() {
			v := guard.Check(requestAs(marketer), Requirement{Module: "users", Action: "view"})
			gomega.Expect(v.Status).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(v.Code).To(gomega.Equal(internal.ErrCodeNoModuleAccess))
			gomega.Expect(v.Message).To(gomega.Equal("Access denied: you don't have access to users"))
		})

		ginkgo.It("is refused by a coarse list naming other roles", func() {
			v := guard.Check(requestAs(marketer), Requirement{Roles: []string{"Admin", "Finance"}})
			gomega.Expect(v.Status).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(v.Code).To(gomega.Equal(internal.ErrCodeInsufficientRole))
			gomega.Expect(v.Message).To(gomega.Equal("Access denied: insufficient role"))
		})

		ginkgo.It("counts every verdict", func() {
			guard.Check(requestAs(marketer), Requirement{Module: "marketing", Action: "view"})
			guard.Check(requestAs(marketer), Requirement{Module: "users", Action: "view"})
			guard.Check(requestAs(nil), Requirement{})

			gomega.Expect(counterValue(reg, outcomeAllowed, "")).To(gomega.Equal(1.0))
			gomega.Expect(counterValue(reg, outcomeDenied, string(internal.ErrCodeNoModuleAccess))).To(gomega.Equal(1.0))
			gomega.Expect(counterValue(reg, outcomeUnauthentic, string(internal.ErrCodeMissingCredential))).To(gomega.Equal(1.0))
		})
	})

	ginkgo.It("lets an Admin with an empty grant list do anything", func() {
		admin := s.addUser("root@shop.io", "Admin", user.StatusActive)
		v := guard.Check(requestAs(admin), Requirement{Module: "anything", Action: "delete"})
		gomega.Expect(v.Allowed).To(gomega.BeTrue())
	})

	ginkgo.DescribeTable("authentication failures are 401s",
		func(header string, code internal.ErrorCode, message string) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			v := guard.Check(req, Requirement{Module: "marketing", Action: "view"})
			gomega.Expect(v.Allowed).To(gomega.BeFalse())
			gomega.Expect(v.Status).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(v.Code).To(gomega.Equal(code))
			gomega.Expect(v.Message).To(gomega.Equal(message))
		},
		ginkgo.Entry("missing header", "", internal.ErrCodeMissingCredential, "Missing bearer token"),
		ginkgo.Entry("garbage token", "Bearer abc.def.ghi", internal.ErrCodeInvalidToken, "Session invalid, please log in again"),
	)

	ginkgo.It("reports an expired session distinctly", func() {
		u := s.addUser("mkt@shop.io", "Marketing", user.StatusActive)
		token, err := tokens.IssueWithTTL(SubjectClaims{UserID: u.ID}, 0)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		v := guard.Check(req, Requirement{})
		gomega.Expect(v.Status).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(v.Message).To(gomega.Equal("Session expired, please log in again"))
	})

	ginkgo.It("refuses inactive users with a 401", func() {
		u := s.addUser("off@shop.io", "Marketing", user.StatusInactive)
		v := guard.Check(requestAs(u), Requirement{})
		gomega.Expect(v.Status).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(v.Code).To(gomega.Equal(internal.ErrCodeUserInactive))
	})

	ginkgo.It("answers a cancelled request with a 500, not a deny", func() {
		marketer := s.addUser("mkt@shop.io", "Marketing", user.StatusActive)
		req := requestAs(marketer)
		cancelled, cancel := context.WithCancel(req.Context())
		cancel()

		verdict := guard.Check(req.WithContext(cancelled), Requirement{Module: "marketing", Action: "view"})
		gomega.Expect(verdict.Allowed).To(gomega.BeFalse())
		gomega.Expect(verdict.Status).To(gomega.Equal(http.StatusInternalServerError))
		gomega.Expect(verdict.Code).To(gomega.Equal(internal.ErrCodeAuthorizationCheckFailed))
	})

	ginkgo.It("renders a broken check as a 500", func() {
		u := s.addUser("mkt@shop.io", "Marketing", user.StatusActive)
		guard = NewGuard(NewAuthenticator(tokens, s.users, s.roles, discardLogger()), failingAuthorizer{}, discardLogger(), reg)

		v := guard.Check(requestAs(u), Requirement{Module: "marketing", Action: "view"})
		gomega.Expect(v.Allowed).To(gomega.BeFalse())
		gomega.Expect(v.Status).To(gomega.Equal(http.StatusInternalServerError))
		gomega.Expect(v.Code).To(gomega.Equal(internal.ErrCodeAuthorizationCheckFailed))
		gomega.Expect(counterValue(reg, outcomeFailed, string(internal.ErrCodeAuthorizationCheckFailed))).To(gomega.Equal(1.0))
	})
})
