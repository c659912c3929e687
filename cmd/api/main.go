package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/astu-platform/complaint-service/internal/api/http"
	"github.com/astu-platform/complaint-service/internal/api/http/handlers"
	"github.com/astu-platform/complaint-service/internal/auth"
	"github.com/astu-platform/complaint-service/internal/config"
	"github.com/astu-platform/complaint-service/internal/events"
	"github.com/astu-platform/complaint-service/internal/observability"
	"github.com/astu-platform/complaint-service/internal/persistence"
	"github.com/astu-platform/complaint-service/internal/repository"
	"github.com/astu-platform/complaint-service/internal/service"
	"github.com/astu-platform/complaint-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	remarkRepo := repository.NewRemarkRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	txManager := repository.NewTxManager(pool)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
	})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo:  complaintRepo,
		RemarkRepo:     remarkRepo,
		DepartmentRepo: departmentRepo,
		TxManager:      txManager,
		Dispatcher:     dispatcher,
		Metrics:        metrics,
	})
	notificationService := service.NewNotificationService(notificationRepo, dispatcher, logger, cfg.Notification)
	adminService := service.NewAdminService(departmentRepo, userRepo, cfg.Auth.BcryptCost)
	analyticsService := service.NewAnalyticsService(analyticsRepo)
	chatService := service.NewChatService(cfg.Chat, redis.Client, logger, metrics)

	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Student:        handlers.NewStudentHandler(complaintService, notificationService, departmentRepo),
		Staff:          handlers.NewStaffHandler(complaintService),
		Admin:          handlers.NewAdminHandler(adminService, complaintService, analyticsService),
		Chat:           handlers.NewChatHandler(chatService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
