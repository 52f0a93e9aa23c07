package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/leave-management/api"
	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/database"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/employee"
	employeePostgres "github.com/frahmantamala/leave-management/internal/employee/postgres"
	"github.com/frahmantamala/leave-management/internal/leave"
	leavePostgres "github.com/frahmantamala/leave-management/internal/leave/postgres"
	"github.com/frahmantamala/leave-management/internal/leavetype"
	"github.com/frahmantamala/leave-management/internal/ledger"
	ledgerPostgres "github.com/frahmantamala/leave-management/internal/ledger/postgres"
	"github.com/frahmantamala/leave-management/internal/notification"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/internal/transport/middleware"
	"github.com/frahmantamala/leave-management/internal/transport/rest"
	"github.com/frahmantamala/leave-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	DB         *sqlx.DB
	Redis      *redis.Client
	Router     *chi.Mux
	Bus        *events.EventBus
	Dispatcher *notification.AsyncDispatcher
	closers    []func() error
	Logger     *slog.Logger
}

func startHTTPServer() error {
	deps, err := initializeDependencies()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Logger.Info("Starting HTTP server", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		deps.Logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return deps.shutdown(shutdownCtx, server)
	})

	if err := g.Wait(); err != nil {
		deps.Logger.Error("server stopped with error", "error", err)
		return err
	}
	deps.Logger.Info("Server stopped")
	return nil
}

// shutdown stops intake first, then lets in-flight notifications finish
// before the stores they may read from are closed.
func (d *Dependencies) shutdown(ctx context.Context, server *http.Server) error {
	var errs []error
	if err := server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := d.Bus.Drain(ctx); err != nil {
		errs = append(errs, fmt.Errorf("drain event bus: %w", err))
	}
	if err := d.Dispatcher.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("notification pool shutdown: %w", err))
	}
	if err := d.close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (d *Dependencies) close() error {
	var errs []error
	for _, closeFn := range d.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}

// release undoes a partial initializeDependencies.
func (d *Dependencies) release() {
	if d.Dispatcher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.Dispatcher.Shutdown(ctx); err != nil {
			d.Logger.Error("failed to stop notification pool", "error", err)
		}
	}
	if err := d.close(); err != nil {
		d.Logger.Error("failed to release dependencies", "error", err)
	}
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return buildDependencies(config, db, logger.LoggerWrapper())
}

// buildDependencies takes ownership of db: on error everything opened so far,
// db included, is released.
func buildDependencies(config *internal.Config, db *sqlx.DB, log *slog.Logger) (_ *Dependencies, err error) {
	deps := &Dependencies{
		Config:  config,
		DB:      db,
		Logger:  log,
		Router:  chi.NewRouter(),
		closers: []func() error{db.Close},
	}
	defer func() {
		if err != nil {
			deps.release()
		}
	}()

	gormDB, err := database.Open(db.DB)
	if err != nil {
		return nil, err
	}

	// notifications: event bus -> renderer -> worker pool -> transport
	deps.Bus = events.NewEventBus(log)
	delivery, closeDelivery, err := notification.NewDelivery(config.Notification, log)
	if err != nil {
		return nil, err
	}
	deps.closers = append([]func() error{closeDelivery}, deps.closers...)
	deps.Dispatcher = notification.NewAsyncDispatcher(delivery, notification.AsyncConfig{
		Workers:   config.Notification.Workers,
		QueueSize: config.Notification.QueueSize,
	}, log)
	renderer, err := notification.NewRenderer(config.Notification.SenderName, config.Notification.FrontendURL)
	if err != nil {
		return nil, err
	}
	notification.NewEventHandler(renderer, deps.Dispatcher, log).Register(deps.Bus)
	if !delivery.Configured() {
		log.Warn("email delivery not configured, notifications will only be logged", "transport", delivery.Transport())
	}

	// domain services
	transactor := database.NewTransactor(gormDB, log)
	employeeService := employee.NewService(employeePostgres.NewEmployeeRepository(gormDB), transactor, log)
	leaveLedger := ledger.New(employeeService, log)
	policy, err := leave.NewApproverPolicy(config.Leave.ApproverPolicy, employeeService)
	if err != nil {
		return nil, err
	}
	leaveService := leave.NewService(
		leavePostgres.NewLeaveRepository(gormDB),
		employeeService,
		leaveLedger,
		transactor,
		deps.Bus,
		log,
		leave.WithApproverPolicy(policy),
	)
	log.Info("leave engine configured", "approver_policy", policy.Name())

	opts := rest.RouterOptions{
		OpenAPISpec:    api.Spec,
		RequestTimeout: config.Server.RequestTimeout,
		AllowedOrigins: config.CORSOrigins(),
	}

	var rdb redis.Cmdable
	if config.Redis.Addr != "" {
		deps.Redis = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		deps.closers = append([]func() error{deps.Redis.Close}, deps.closers...)
		rdb = deps.Redis
		opts.Idempotency = middleware.Idempotency(rdb, config.Redis.IdempotencyTTL)
	}

	if config.Server.OpenAPIValidation {
		doc, err := middleware.LoadOpenAPI(api.Spec)
		if err != nil {
			return nil, err
		}
		validator, err := middleware.OpenAPIValidator(doc)
		if err != nil {
			return nil, err
		}
		opts.Validator = validator
	}

	base := transport.NewBaseHandler(log)
	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health:    rest.NewHealthHandler(db.DB, rdb, delivery),
		Leave:     leave.NewHandler(base, leaveService),
		Employee:  employee.NewHandler(base, employeeService),
		LeaveType: leavetype.NewHandler(base),
		Ledger:    ledger.NewHandler(base, ledgerPostgres.NewReportRepository(db)),
	}, opts)

	return deps, nil
}

// initDB opens the pgx-backed pool shared by sqlx and gorm.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	database.Configure(dbConn.DB, cfg)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
