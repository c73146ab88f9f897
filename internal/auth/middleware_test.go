package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	"github.com/Ansari839/ecommerce-dashboard/internal/transport"
	"github.com/Ansari839/ecommerce-dashboard/internal/user"
	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Middleware and Handler", func() {
	var (
		s       *store
		tokens  *JWTTokenService
		router  chi.Router
		seenIDs []string
	)

	ginkgo.BeforeEach(func() {
		s = newStore()
		tokens = NewJWTTokenService(testSecret, internal.DefaultJWTIssuer, time.Hour)
		base := transport.NewBaseHandler(discardLogger())
		guard := NewGuard(
			NewAuthenticator(tokens, s.users, s.roles, discardLogger()),
			NewAuthorizer(s.roles, discardLogger()),
			discardLogger(),
			nil,
		)
		mw := NewMiddleware(base, guard)
		handler := NewHandler(base, NewService(s.users, s.roles, s.hasher, tokens, "Marketing", discardLogger()))
		seenIDs = nil

		router = chi.NewRouter()
		router.Post("/auth/login", handler.Login)
		router.Post("/auth/register", handler.Register)
		router.With(mw.Authenticated()).Get("/auth/me", handler.Me)
		router.With(mw.Require("marketing", "create")).Post("/campaigns", func(w http.ResponseWriter, r *http.Request) {
			seenIDs = append(seenIDs, internal.UserIDFromContext(r.Context()))
			w.WriteHeader(http.StatusCreated)
		})
		router.With(mw.RequireRoles("Admin", "Finance")).Get("/reports", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	do := func(method, path, token, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	login := func(email string) string {
		rec := do(http.MethodPost, "/auth/login", "", `{"email":"`+email+`","password":"correct-horse"}`)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		var resp TokenResponse
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
		return resp.AccessToken
	}

	ginkgo.It("passes the identity on to the protected handler", func() {
		u := s.addUser("mkt@shop.io", "Marketing", user.StatusActive)
		rec := do(http.MethodPost, "/campaigns", login("mkt@shop.io"), "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))
		gomega.Expect(seenIDs).To(gomega.Equal([]string{u.ID}))
	})

	ginkgo.It("renders a deny as a 403 naming what was missing", func() {
		s.addUser("fin@shop.io", "Finance", user.StatusActive)
		rec := do(http.MethodPost, "/campaigns", login("fin@shop.io"), "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("you don't have access to marketing"))
		gomega.Expect(seenIDs).To(gomega.BeEmpty())
	})

	ginkgo.It("applies the coarse role list", func() {
		s.addUser("fin@shop.io", "Finance", user.StatusActive)
		s.addUser("mkt@shop.io", "Marketing", user.StatusActive)

		gomega.Expect(do(http.MethodGet, "/reports", login("fin@shop.io"), "").Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(do(http.MethodGet, "/reports", login("mkt@shop.io"), "").Code).To(gomega.Equal(http.StatusForbidden))
	})

	ginkgo.It("answers 401 without a token", func() {
		rec := do(http.MethodGet, "/auth/me", "", "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(string(internal.ErrCodeMissingCredential)))
	})

	ginkgo.It("describes the caller on /auth/me", func() {
		s.addUser("mkt@shop.io", "Marketing", user.StatusActive)
		rec := do(http.MethodGet, "/auth/me", login("mkt@shop.io"), "")
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

		var me IdentityResponse
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &me)).To(gomega.Succeed())
		gomega.Expect(me.Email).To(gomega.Equal("mkt@shop.io"))
		gomega.Expect(me.RoleName).To(gomega.Equal("Marketing"))
		gomega.Expect(me.Permissions).To(gomega.HaveLen(1))
		gomega.Expect(rec.Body.String()).ToNot(gomega.ContainSubstring("password"))
	})

	ginkgo.It("registers with a 201 and rejects bad credentials with a 401", func() {
		rec := do(http.MethodPost, "/auth/register", "", `{"name":"New","email":"new@shop.io","password":"correct-horse"}`)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))

		rec = do(http.MethodPost, "/auth/login", "", `{"email":"new@shop.io","password":"wrong-horse"}`)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(string(internal.ErrCodeInvalidCredentials)))
	})

	ginkgo.It("rejects malformed bodies with a 400", func() {
		rec := do(http.MethodPost, "/auth/login", "", `{"email":`)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
	})
})
