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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/timekeeping/api"
	"github.com/frahmantamala/timekeeping/internal"
	"github.com/frahmantamala/timekeeping/internal/auth"
	authPostgres "github.com/frahmantamala/timekeeping/internal/auth/postgres"
	companyPostgres "github.com/frahmantamala/timekeeping/internal/company/postgres"
	"github.com/frahmantamala/timekeeping/internal/core/database"
	"github.com/frahmantamala/timekeeping/internal/core/events"
	"github.com/frahmantamala/timekeeping/internal/employee"
	employeePostgres "github.com/frahmantamala/timekeeping/internal/employee/postgres"
	"github.com/frahmantamala/timekeeping/internal/registration"
	"github.com/frahmantamala/timekeeping/internal/timeentry"
	timeentryPostgres "github.com/frahmantamala/timekeeping/internal/timeentry/postgres"
	timeentryRedis "github.com/frahmantamala/timekeeping/internal/timeentry/redis"
	"github.com/frahmantamala/timekeeping/internal/transport/middleware"
	"github.com/frahmantamala/timekeeping/internal/transport/rest"
	"github.com/frahmantamala/timekeeping/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Cache    *redis.Client
	EventBus *events.EventBus
	Logger   *slog.Logger

	Registration *registration.Service
	Employees    *employee.Service
	TimeEntries  *timeentry.Service
	Auth         *auth.Service
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	router, err := setupRoutes(deps)
	if err != nil {
		deps.Logger.Error("failed to set up routes", "error", err)
		return
	}

	cfg := deps.Config.Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		deps.Logger.Info("starting HTTP server", "address", addr)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("server failed to start", "error", err)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) (*chi.Mux, error) {
	validator, err := middleware.NewOpenAPIValidator(context.Background(), api.OpenAPI, deps.Logger)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Dependencies{
		DB:                  deps.DB.DB,
		Cache:               deps.Cache,
		AllowedOrigins:      deps.Config.Server.AllowedOrigins,
		Validator:           validator,
		AuthHandler:         auth.NewHandler(deps.Auth, deps.Logger),
		AccessPolicy:        auth.NewAccessPolicy(deps.DB, deps.Logger),
		RegistrationHandler: registration.NewHandler(deps.Registration, deps.Logger),
		EmployeeHandler:     employee.NewHandler(deps.Employees, deps.Logger),
		TimeEntryHandler:    timeentry.NewHandler(deps.TimeEntries, deps.Logger),
		Logger:              deps.Logger,
	})
	return router, nil
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Configure(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	deps := &Dependencies{
		Config: config,
		DB:     db,
		Gorm:   gormDB,
		Logger: lg,
	}

	var cache timeentry.LatestCache = timeentry.NopCache{}
	if config.Cache.Enabled {
		deps.Cache = timeentryRedis.NewClient(ctx, config.Cache.Addr, config.Cache.Password, config.Cache.DB)
		if deps.Cache != nil {
			cache = timeentryRedis.NewLatestCache(deps.Cache, config.Cache.TTL)
		} else {
			lg.Warn("redis unreachable, serving latest entries from postgres", "addr", config.Cache.Addr)
		}
	}

	deps.EventBus = events.NewEventBus(lg)
	deps.EventBus.Subscribe(events.AllEvents, events.AuditLogger(lg))

	txManager := database.NewTransactionManager(gormDB)
	hasher := auth.NewBcryptHasher(config.Security.BCryptCost)

	employees := employeePostgres.NewEmployeeRepository(gormDB)
	deps.Employees = employee.NewService(employees)
	deps.Registration = registration.NewService(
		companyPostgres.NewCompanyRepository(gormDB),
		employees,
		hasher,
		txManager,
		deps.EventBus,
		lg,
	)
	deps.TimeEntries = timeentry.NewService(
		timeentryPostgres.NewTimeEntryRepository(gormDB),
		cache,
		deps.EventBus,
		lg,
	)
	deps.Auth = auth.NewService(
		authPostgres.NewRepository(db),
		auth.NewJWTTokenGenerator(
			config.Security.AccessTokenSecret,
			config.Security.RefreshTokenSecret,
			config.Security.AccessTokenDuration,
			config.Security.RefreshTokenDuration,
		),
		hasher,
		lg,
	)

	return deps, nil
}

// Close drains pending events and releases connections.
func (d *Dependencies) Close() {
	if d.EventBus != nil {
		d.EventBus.Wait()
	}
	if d.Cache != nil {
		if err := d.Cache.Close(); err != nil {
			d.Logger.Error("redis close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
