package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/Ansari839/ecommerce-dashboard/internal/auth"
	"github.com/Ansari839/ecommerce-dashboard/internal/core/events"
	"github.com/Ansari839/ecommerce-dashboard/internal/role"
	rolePostgres "github.com/Ansari839/ecommerce-dashboard/internal/role/postgres"
	"github.com/Ansari839/ecommerce-dashboard/internal/seed"
	"github.com/Ansari839/ecommerce-dashboard/internal/user"
	userPostgres "github.com/Ansari839/ecommerce-dashboard/internal/user/postgres"
	"github.com/Ansari839/ecommerce-dashboard/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	adminName     string
	adminEmail    string
	adminPassword string
	rolesOnly     bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the standard roles and the first admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context())
	},
}

func init() {
	seedCmd.Flags().StringVar(&adminName, "admin-name", "Administrator", "display name of the admin account")
	seedCmd.Flags().StringVar(&adminEmail, "admin-email", "admin@example.com", "email of the admin account")
	seedCmd.Flags().StringVar(&adminPassword, "admin-password", "", "admin password (defaults to $SEED_ADMIN_PASSWORD)")
	seedCmd.Flags().BoolVar(&rolesOnly, "roles-only", false, "seed roles without creating the admin account")
}

func runSeed(ctx context.Context) error {
	cfg, err := loadConfig(".")
	if err != nil {
		return err
	}
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, gdb, err := openStore(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	roles := role.NewService(rolePostgres.NewRoleRepository(gdb), bus, lg)
	users := user.NewService(userPostgres.NewUserRepository(gdb), roles, auth.NewBcryptHasher(cfg.Security.BCryptCost), bus, lg)

	var admin *seed.AdminAccount
	if !rolesOnly {
		password := adminPassword
		if password == "" {
			password = os.Getenv("SEED_ADMIN_PASSWORD")
		}
		if password == "" {
			return errors.New("admin password is required: pass --admin-password or set SEED_ADMIN_PASSWORD")
		}
		admin = &seed.AdminAccount{Name: adminName, Email: adminEmail, Password: password}
	}

	err = seed.NewSeeder(roles, users, lg).Run(ctx, admin)
	if drainErr := bus.Drain(ctx); drainErr != nil {
		lg.Warn("audit handlers did not finish", "error", drainErr)
	}
	if err != nil {
		return err
	}
	lg.Info("seeding complete")
	return nil
}
