package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ion-assistant/internal/api"
	"ion-assistant/internal/api/handlers"
	"ion-assistant/internal/dto"
	"ion-assistant/internal/repository"
	"ion-assistant/internal/service"
	"ion-assistant/pkg/auth"
	"ion-assistant/pkg/cache"
	"ion-assistant/pkg/config"
	"ion-assistant/pkg/logger"
	"ion-assistant/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting ION assistant service")

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	catRepo := repository.NewCategoryRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)
	taskRepo := repository.NewTaskRepository(db, appLogger)
	reminderRepo := repository.NewReminderRepository(db, appLogger)
	shoppingRepo := repository.NewShoppingRepository(db, appLogger)
	savingsRepo := repository.NewSavingsRepository(db, appLogger)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	summaryCache, err := cache.New[dto.TransactionSummaryResponse]()
	if err != nil {
		appLogger.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer summaryCache.Close()

	// Services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	openaiService := service.NewOpenAIService(&cfg.OpenAI, appLogger)

	hoursStore := service.NewHoursStore(cfg.Chat.HoursFile, appLogger)
	suggestionService := service.NewSuggestionService(openaiService, hoursStore, appLogger)

	financeService := service.NewFinanceService(txRepo, catRepo, summaryCache, appLogger)
	taskService := service.NewTaskService(taskRepo, appLogger)
	reminderService := service.NewReminderService(reminderRepo, hoursStore, suggestionService, appLogger)
	shoppingService := service.NewShoppingService(shoppingRepo, appLogger)
	savingsService := service.NewSavingsService(savingsRepo, appLogger)

	registry := service.NewToolRegistry(financeService, taskService, reminderService, shoppingService, savingsService)
	chatService := service.NewChatService(openaiService, registry, cfg.Chat, appLogger)
	docService := service.NewDocumentService(openaiService, cfg.Ingest, appLogger)

	maintenance := service.NewMaintenanceService(taskService, appLogger)
	if err := maintenance.Start(); err != nil {
		appLogger.Fatal("Failed to start maintenance scheduler", zap.Error(err))
	}
	defer maintenance.Stop()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	chatHandler := handlers.NewChatHandler(chatService, appLogger)
	docHandler := handlers.NewDocumentHandler(docService, openaiService, appLogger)
	txHandler := handlers.NewTransactionHandler(financeService, appLogger)
	orgHandler := handlers.NewOrganizerHandler(taskService, reminderService, shoppingService, savingsService, appLogger)

	app := api.SetupRouter(authHandler, chatHandler, docHandler, txHandler, orgHandler, jwtManager, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
