// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "splitledger/internal/api"
	"splitledger/internal/api/handler"
	"splitledger/internal/auth"
	"splitledger/internal/config"
	"splitledger/internal/repository"
	"splitledger/internal/repository/postgres"
	"splitledger/internal/service"
	"splitledger/pkg/db"
	"splitledger/pkg/logging"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository    repository.UserRepository
	GroupRepository   repository.GroupRepository
	ExpenseRepository repository.ExpenseRepository
	PaymentRepository repository.PaymentRepository
	BalanceRepository repository.BalanceRepository

	// Services
	AuthService    service.AuthService
	UserService    service.UserService
	GroupService   service.GroupService
	ExpenseService service.ExpenseService
	PaymentService service.PaymentService
	BalanceService service.BalanceService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	logging.Setup()
	app.Logger = slog.Default()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database and run migrations
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if err := db.RunMigrations(app.DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Logger.Info("Database migrations applied.")

	// 4. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository()
	app.GroupRepository = postgres.NewGroupRepository()
	app.ExpenseRepository = postgres.NewExpenseRepository()
	app.PaymentRepository = postgres.NewPaymentRepository()
	app.BalanceRepository = postgres.NewBalanceRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	jwtManager := auth.NewJWTManager(app.Config.JWTSecret, app.Config.JWTTokenTTL)

	app.BalanceService = service.NewBalanceService(
		app.DB, // DBTxBeginner
		app.DB, // DBExecutor
		app.GroupRepository,
		app.ExpenseRepository,
		app.PaymentRepository,
		app.BalanceRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.AuthService = service.NewAuthService(app.DB, app.UserRepository, jwtManager)
	app.UserService = service.NewUserService(app.DB, app.UserRepository)
	app.GroupService = service.NewGroupService(
		app.DB,
		app.DB,
		app.UserRepository,
		app.GroupRepository,
		app.BalanceRepository,
		app.BalanceService,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.ExpenseService = service.NewExpenseService(
		app.DB,
		app.DB,
		app.GroupRepository,
		app.ExpenseRepository,
		app.BalanceService,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.PaymentService = service.NewPaymentService(
		app.DB,
		app.DB,
		app.GroupRepository,
		app.ExpenseRepository,
		app.PaymentRepository,
		app.BalanceService,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	handlers := router.Handlers{
		Auth:    handler.NewAuthHandler(app.AuthService, app.Logger),
		User:    handler.NewUserHandler(app.UserService, app.Logger),
		Group:   handler.NewGroupHandler(app.GroupService, app.Logger),
		Expense: handler.NewExpenseHandler(app.ExpenseService, app.Logger),
		Payment: handler.NewPaymentHandler(app.PaymentService, app.Logger),
		Balance: handler.NewBalanceHandler(app.BalanceService, app.Logger),
	}
	app.HTTPHandler = router.NewRouter(handlers, jwtManager)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
