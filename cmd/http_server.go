package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ansari839/ecommerce-dashboard/api"
	"github.com/Ansari839/ecommerce-dashboard/internal"
	"github.com/Ansari839/ecommerce-dashboard/internal/auth"
	"github.com/Ansari839/ecommerce-dashboard/internal/core/database"
	"github.com/Ansari839/ecommerce-dashboard/internal/core/events"
	"github.com/Ansari839/ecommerce-dashboard/internal/role"
	rolePostgres "github.com/Ansari839/ecommerce-dashboard/internal/role/postgres"
	"github.com/Ansari839/ecommerce-dashboard/internal/transport"
	"github.com/Ansari839/ecommerce-dashboard/internal/transport/middleware"
	"github.com/Ansari839/ecommerce-dashboard/internal/transport/rest"
	"github.com/Ansari839/ecommerce-dashboard/internal/user"
	userPostgres "github.com/Ansari839/ecommerce-dashboard/internal/user/postgres"
	"github.com/Ansari839/ecommerce-dashboard/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Events *events.EventBus
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           http.TimeoutHandler(deps.Router, deps.Config.Server.RequestTimeout, "request timed out"),
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.Events.Drain(ctx); err != nil {
			deps.Logger.Warn("audit handlers still running at shutdown", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

// setupRoutes builds the identity services on top of the shared pool and
// mounts them.
func setupRoutes(deps *Dependencies) {
	cfg := deps.Config
	lg := deps.Logger

	bus := deps.Events

	hasher := auth.NewBcryptHasher(cfg.Security.BCryptCost)
	tokens := auth.NewJWTTokenService(cfg.Security.JWTSecret, cfg.Security.JWTIssuer, cfg.Security.AccessTokenDuration)

	roleService := role.NewService(rolePostgres.NewRoleRepository(deps.Gorm), bus, lg)
	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), roleService, hasher, bus, lg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var metrics *middleware.Metrics
	if cfg.Observability.Metrics.Enabled {
		metrics = middleware.NewMetrics(reg)
	}

	guard := auth.NewGuard(
		auth.NewAuthenticator(tokens, userService, roleService, lg),
		auth.NewAuthorizer(roleService, lg),
		lg,
		reg,
	)

	base := transport.NewBaseHandler(lg)
	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, rest.Handlers{
		Auth:           auth.NewHandler(base, auth.NewService(userService, roleService, hasher, tokens, cfg.Security.DefaultRole, lg)),
		AuthMiddleware: auth.NewMiddleware(base, guard),
		User:           user.NewHandler(base, userService),
		Role:           role.NewHandler(base, roleService),
		Metrics:        metrics,
	}, rest.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MetricsPath:    cfg.Observability.Metrics.Path,
	}, lg)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	// a broken document should stop the deploy, not surface in the UI
	if _, err := api.Load(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	db, gdb, err := openStore(config.Database)
	if err != nil {
		return nil, err
	}

	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	return &Dependencies{
		Config: config,
		DB:     db,
		Gorm:   gdb,
		Router: chi.NewRouter(),
		Events: bus,
		Logger: lg,
	}, nil
}

// openStore opens the pgx pool and the gorm session the repositories share.
func openStore(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	gdb, err := database.OpenGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, gdb, nil
}
