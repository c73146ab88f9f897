package auth

import (
	"context"
	"time"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	"github.com/Ansari839/ecommerce-dashboard/internal/user"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("AuthService", func() {
	var (
		ctx     context.Context
		s       *store
		tokens  *JWTTokenService
		service *Service
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		s = newStore()
		tokens = NewJWTTokenService(testSecret, internal.DefaultJWTIssuer, 2*time.Hour)
		service = NewService(s.users, s.roles, s.hasher, tokens, "Marketing", discardLogger())
	})

	ginkgo.Describe("Login", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return a token for the user", func() {
				// Given
				u := s.addUser("jane@shop.io", "Finance", user.StatusActive)

				// When
				resp, err := service.Login(ctx, LoginDTO{Email: "Jane@Shop.io", Password: "correct-horse"})

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(resp.TokenType).To(gomega.Equal("Bearer"))
				gomega.Expect(resp.ExpiresIn).To(gomega.Equal(int64(7200)))
				gomega.Expect(resp.User.RoleID).To(gomega.Equal(u.Role.ID()))
				gomega.Expect(resp.User.RoleName).To(gomega.Equal("Finance"))

				claims, err := tokens.Verify(resp.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal(u.ID))
				gomega.Expect(claims.Email).To(gomega.Equal("jane@shop.io"))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.BeforeEach(func() {
				s.addUser("jane@shop.io", "Finance", user.StatusActive)
			})

			ginkgo.It("should not distinguish a wrong password from an unknown email", func() {
				_, wrongPassword := service.Login(ctx, LoginDTO{Email: "jane@shop.io", Password: "battery-staple"})
				_, unknownEmail := service.Login(ctx, LoginDTO{Email: "bob@shop.io", Password: "correct-horse"})

				gomega.Expect(wrongPassword).To(gomega.MatchError(internal.ErrInvalidCredentials))
				gomega.Expect(unknownEmail).To(gomega.MatchError(internal.ErrInvalidCredentials))
			})

			ginkgo.It("should return a validation error for missing fields", func() {
				_, err := service.Login(ctx, LoginDTO{Email: "", Password: ""})
				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeValidationFailed))
			})
		})

		ginkgo.Context("when the user is inactive", func() {
			ginkgo.It("should refuse the login", func() {
				s.addUser("off@shop.io", "Finance", user.StatusInactive)
				_, err := service.Login(ctx, LoginDTO{Email: "off@shop.io", Password: "correct-horse"})
				gomega.Expect(err).To(gomega.MatchError(internal.ErrUserInactive))
			})
		})
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("should bind the default role and sign the user in", func() {
			resp, err := service.Register(ctx, RegisterDTO{Name: "New Hire", Email: "new@shop.io", Password: "correct-horse"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.User.RoleName).To(gomega.Equal("Marketing"))
			gomega.Expect(resp.User.Status).To(gomega.Equal(user.StatusActive))

			_, err = service.Login(ctx, LoginDTO{Email: "new@shop.io", Password: "correct-horse"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should reject a taken email", func() {
			s.addUser("jane@shop.io", "Finance", user.StatusActive)
			_, err := service.Register(ctx, RegisterDTO{Name: "Jane", Email: "jane@shop.io", Password: "correct-horse"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrDuplicateEmail))
		})

		ginkgo.It("should enforce the password policy", func() {
			_, err := service.Register(ctx, RegisterDTO{Name: "Jane", Email: "jane@shop.io", Password: "short"})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.GetDetailedMessage()).To(gomega.Equal("password must be at least 8 characters"))
		})

		ginkgo.It("should fail when the default role is not configured", func() {
			service = NewService(s.users, s.roles, s.hasher, tokens, "Ghost", discardLogger())
			_, err := service.Register(ctx, RegisterDTO{Name: "Jane", Email: "jane@shop.io", Password: "correct-horse"})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeInternal))
		})
	})
})
