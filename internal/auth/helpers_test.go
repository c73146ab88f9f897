package auth

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	roleDatamodel "github.com/Ansari839/ecommerce-dashboard/internal/core/datamodel/role"
	userDatamodel "github.com/Ansari839/ecommerce-dashboard/internal/core/datamodel/user"
	"github.com/Ansari839/ecommerce-dashboard/internal/role"
	rolePostgres "github.com/Ansari839/ecommerce-dashboard/internal/role/postgres"
	"github.com/Ansari839/ecommerce-dashboard/internal/user"
	userPostgres "github.com/Ansari839/ecommerce-dashboard/internal/user/postgres"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-that-is-at-least-32-bytes-long"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// store is a sqlite backed identity store with the standard roles seeded.
type store struct {
	db     *gorm.DB
	roles  *role.Service
	users  *user.Service
	hasher *BcryptHasher
	byName map[string]*role.Role
}

func newStore() *store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	gomega.Expect(db.AutoMigrate(&roleDatamodel.Role{}, &userDatamodel.User{})).To(gomega.Succeed())

	s := &store{
		db:     db,
		hasher: NewBcryptHasher(bcrypt.MinCost),
		byName: map[string]*role.Role{},
	}
	s.roles = role.NewService(rolePostgres.NewRoleRepository(db), nil, discardLogger())
	s.users = user.NewService(userPostgres.NewUserRepository(db), s.roles, s.hasher, nil, discardLogger())

	seed := []role.CreateRoleDTO{
		{Name: "Admin"},
		{Name: "Finance", Permissions: []role.Permission{{Module: "orders", Actions: []string{"view"}}}},
		{Name: "Marketing", Permissions: []role.Permission{{Module: "marketing", Actions: []string{"view", "create"}}}},
	}
	for _, dto := range seed {
		r, err := s.roles.Create(context.Background(), dto)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		s.byName[r.Name] = r
	}
	return s
}

func (s *store) addUser(email, roleName, status string) *user.User {
	u, err := s.users.Create(context.Background(), user.CreateUserDTO{
		Name:     "Test " + roleName,
		Email:    email,
		Password: "correct-horse",
		RoleID:   s.byName[roleName].ID,
		Status:   status,
	})
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return u
}

// fixedClock returns a time with a sub-second part so expiry truncation is exercised.
func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 500_000_000, time.UTC)
}

type stubRoleFinder struct {
	roles map[string]*role.Role
	err   error
	calls int
}

func (f *stubRoleFinder) FindByID(_ context.Context, id string) (*role.Role, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.roles[id]; ok {
		return r, nil
	}
	return nil, internal.ErrNotFound
}
