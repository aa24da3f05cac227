package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/stockregister/stock-api/docs"
	"github.com/stockregister/stock-api/internal/auth"
	"github.com/stockregister/stock-api/internal/config"
	"github.com/stockregister/stock-api/internal/database"
	"github.com/stockregister/stock-api/internal/domain"
	"github.com/stockregister/stock-api/internal/http/handler"
	"github.com/stockregister/stock-api/internal/http/middleware"
	"github.com/stockregister/stock-api/internal/http/router"
	"github.com/stockregister/stock-api/internal/logger"
	"github.com/stockregister/stock-api/internal/repository"
	"github.com/stockregister/stock-api/internal/service"
	"go.uber.org/zap"
)

// @title Stock Register API
// @version 1.0
// @description Inventory and complaint tracking API with department-scoped access

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.App.Port)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	stockRepo := repository.NewStockRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)

	// Services
	tokens := auth.NewTokenManager(&cfg.Auth)
	authService := service.NewAuthService(userRepo, tokens, log)
	departmentService := service.NewDepartmentService(departmentRepo, log)
	categoryService := service.NewCategoryService(categoryRepo, log)
	accountService := service.NewAccountService(accountRepo, userRepo, log)
	stockService := service.NewStockService(stockRepo, categoryRepo, departmentRepo, log)
	complaintService := service.NewComplaintService(complaintRepo, departmentRepo, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(tokens, &identityStore{users: userRepo, accounts: accountRepo}, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, log)
	departmentHandler := handler.NewDepartmentHandler(departmentService, log)
	categoryHandler := handler.NewCategoryHandler(categoryService, log)
	accountHandler := handler.NewAccountHandler(accountService, log)
	stockHandler := handler.NewStockHandler(stockService, log)
	complaintHandler := handler.NewComplaintHandler(complaintService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		departmentHandler,
		categoryHandler,
		accountHandler,
		stockHandler,
		complaintHandler,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

// identityStore composes the user and account repositories behind the
// auth middleware's lookup interface
type identityStore struct {
	users    *repository.UserRepository
	accounts *repository.AccountRepository
}

func (s *identityStore) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetUserByID(ctx, id)
}

func (s *identityStore) GetAccountByUserID(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	return s.accounts.GetAccountByUserID(ctx, userID)
}
