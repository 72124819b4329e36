package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/timedeposit/timedeposit/internal/config"
	"github.com/timedeposit/timedeposit/internal/db"
	"github.com/timedeposit/timedeposit/internal/repository"
	"github.com/timedeposit/timedeposit/internal/service"
	"github.com/timedeposit/timedeposit/internal/storage"
)

type App struct {
	Cfg                *config.Config
	DB                 *sqlx.DB
	AuthService        *service.AuthService
	UserService        *service.UserService
	ProfileService     *service.ProfileService
	EmailService       *service.EmailService
	GoalService        *service.GoalService
	TransactionService *service.TransactionService
	ExportService      *service.ExportService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	transactionRepository := repository.NewTransactionRepository(database)

	// Storage is optional; exports are streamed without it.
	var exportStorage storage.Storage
	s3Storage, err := storage.New(ctx, cfg)
	switch {
	case errors.Is(err, storage.ErrDisabled):
		slog.Info("S3 storage disabled, exports are streamed")
	case err != nil:
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	default:
		exportStorage = s3Storage
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		emailService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
	)
	userService := service.NewUserService(userRepository, profileRepository, emailService)
	profileService := service.NewProfileService(profileRepository)
	goalService := service.NewGoalService(goalRepository)
	transactionService := service.NewTransactionService(
		goalRepository,
		transactionRepository,
		service.NewEmailGoalNotifier(userRepository, profileRepository, emailService),
	)
	exportService := service.NewExportService(goalService, transactionService, exportStorage)

	return &App{
		Cfg:                cfg,
		DB:                 database,
		AuthService:        authService,
		UserService:        userService,
		ProfileService:     profileService,
		EmailService:       emailService,
		GoalService:        goalService,
		TransactionService: transactionService,
		ExportService:      exportService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
