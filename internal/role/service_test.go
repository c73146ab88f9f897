package role_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	roleDatamodel "github.com/Ansari839/ecommerce-dashboard/internal/core/datamodel/role"
	userDatamodel "github.com/Ansari839/ecommerce-dashboard/internal/core/datamodel/user"
	"github.com/Ansari839/ecommerce-dashboard/internal/core/events"
	"github.com/Ansari839/ecommerce-dashboard/internal/role"
	rolePostgres "github.com/Ansari839/ecommerce-dashboard/internal/role/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	Expect(err).NotTo(HaveOccurred())
	Expect(db.AutoMigrate(&roleDatamodel.Role{}, &userDatamodel.User{})).To(Succeed())
	return db
}

type recordingPublisher struct {
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.types = append(p.types, e.EventType())
	return nil
}

var _ = Describe("Role Service", func() {
	var (
		ctx       context.Context
		db        *gorm.DB
		service   *role.Service
		publisher *recordingPublisher
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = newTestDB()
		publisher = &recordingPublisher{}
		service = role.NewService(rolePostgres.NewRoleRepository(db), publisher, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	Describe("Create", func() {
		It("persists the role with normalised grants embedded inline", func() {
			created, err := service.Create(ctx, role.CreateRoleDTO{
				Name: "Marketing",
				Permissions: []role.Permission{
					{Module: "marketing", Actions: []string{"view"}},
					{Module: "Marketing", Actions: []string{"create", "view"}},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).NotTo(BeEmpty())

			loaded, err := service.FindByID(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Name).To(Equal("Marketing"))
			Expect(loaded.Permissions).To(Equal([]role.Permission{
				{Module: "marketing", Actions: []string{"view", "create"}},
			}))
			Expect(publisher.types).To(Equal([]string{events.EventTypeRoleCreated}))
		})

		It("rejects a duplicate name regardless of case", func() {
			_, err := service.Create(ctx, role.CreateRoleDTO{Name: "Finance"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(ctx, role.CreateRoleDTO{Name: "finance"})
			Expect(err).To(MatchError(internal.ErrDuplicateRoleName))
		})

		It("reports field-level validation failures", func() {
			_, err := service.Create(ctx, role.CreateRoleDTO{
				Name:        "",
				Permissions: []role.Permission{{Module: " ", Actions: []string{"view"}}},
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))

			details := appErr.Details.(internal.ValidationErrors)
			fields := []string{}
			for _, e := range details.Errors {
				fields = append(fields, e.Field)
			}
			Expect(fields).To(ConsistOf("name", "permissions[0].module"))
		})

		It("rejects grants without actions", func() {
			_, err := service.Create(ctx, role.CreateRoleDTO{
				Name:        "Warehouse",
				Permissions: []role.Permission{{Module: "orders"}},
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("permissions[0].actions is required"))
		})
	})

	Describe("Update", func() {
		var existing *role.Role

		BeforeEach(func() {
			var err error
			existing, err = service.Create(ctx, role.CreateRoleDTO{
				Name:        "Warehouse",
				Permissions: []role.Permission{{Module: "orders", Actions: []string{"view"}}},
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("replaces the grant list", func() {
			perms := []role.Permission{{Module: "orders", Actions: []string{"view", "update"}}, {Module: "products", Actions: []string{"view"}}}
			updated, err := service.Update(ctx, existing.ID, role.UpdateRoleDTO{Permissions: &perms})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Warehouse"))

			loaded, err := service.FindByID(ctx, existing.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Permissions).To(HaveLen(2))
			grant, ok := loaded.Grant("orders")
			Expect(ok).To(BeTrue())
			Expect(grant.Allows("update")).To(BeTrue())
		})

		It("allows changing only the case of its own name", func() {
			name := "WAREHOUSE"
			updated, err := service.Update(ctx, existing.ID, role.UpdateRoleDTO{Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("WAREHOUSE"))
		})

		It("refuses a name owned by another role", func() {
			_, err := service.Create(ctx, role.CreateRoleDTO{Name: "Finance"})
			Expect(err).NotTo(HaveOccurred())

			name := "Finance"
			_, err = service.Update(ctx, existing.ID, role.UpdateRoleDTO{Name: &name})
			Expect(err).To(MatchError(internal.ErrDuplicateRoleName))
		})

		It("returns not found for unknown roles", func() {
			name := "Ghost"
			_, err := service.Update(ctx, "missing", role.UpdateRoleDTO{Name: &name})
			Expect(err).To(MatchError(internal.ErrNotFound))
		})
	})

	Describe("Delete", func() {
		It("removes unreferenced roles", func() {
			r, err := service.Create(ctx, role.CreateRoleDTO{Name: "Temp"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, r.ID)).To(Succeed())
			_, err = service.FindByID(ctx, r.ID)
			Expect(err).To(MatchError(internal.ErrNotFound))
		})

		It("refuses while users still reference the role", func() {
			r, err := service.Create(ctx, role.CreateRoleDTO{Name: "Finance"})
			Expect(err).NotTo(HaveOccurred())
			Expect(db.Create(&userDatamodel.User{ID: "u-1", Name: "F", Email: "f@shop.io", PasswordHash: "x", RoleID: r.ID, Status: "active"}).Error).To(Succeed())

			Expect(service.Delete(ctx, r.ID)).To(MatchError(internal.ErrRoleInUse))
		})
	})

	It("lists roles by name", func() {
		for _, n := range []string{"Warehouse", "Admin", "Finance"} {
			_, err := service.Create(ctx, role.CreateRoleDTO{Name: n})
			Expect(err).NotTo(HaveOccurred())
		}
		roles, err := service.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		names := []string{}
		for _, r := range roles {
			names = append(names, r.Name)
		}
		Expect(names).To(Equal([]string{"Admin", "Finance", "Warehouse"}))
	})
})
