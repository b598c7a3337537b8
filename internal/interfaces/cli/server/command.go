// Package server starts the HTTP server with the full dependency graph.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	accessApp "luminara/internal/application/access"
	billingApp "luminara/internal/application/billing"
	chatApp "luminara/internal/application/chat"
	exportApp "luminara/internal/application/export"
	userApp "luminara/internal/application/user"
	"luminara/internal/domain/access"
	"luminara/internal/infrastructure/auth"
	"luminara/internal/infrastructure/cache"
	"luminara/internal/infrastructure/config"
	"luminara/internal/infrastructure/database"
	"luminara/internal/infrastructure/email"
	"luminara/internal/infrastructure/migration"
	"luminara/internal/infrastructure/repository"
	"luminara/internal/infrastructure/toolconfig"
	"luminara/internal/interfaces/http/handlers"
	"luminara/internal/interfaces/http/middleware"
	"luminara/internal/interfaces/http/routes"
	"luminara/internal/shared/biztime"
	"luminara/internal/shared/logger"
	"luminara/internal/shared/services/markdown"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the Luminara HTTP server with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	log.Infow("starting server", "environment", env, "auto_migrate", autoMigrate)

	if err := biztime.Init(cfg.App.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := database.Init(&cfg.Database); err != nil {
		log.Errorw("failed to initialize database", "error", err)
		return err
	}
	defer database.Close()

	if autoMigrate {
		if env == "production" {
			log.Warnw("auto-migration is enabled in production - this is not recommended")
		}
		if err := migration.NewRunner(log).Up(database.Get()); err != nil {
			log.Errorw("auto-migration failed", "error", err)
			return err
		}
		log.Infow("auto-migration completed")
	}

	// Tier cache is optional: without redis the resolver reads the
	// database on every check.
	var tierCache cache.TierCache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warnw("redis unreachable, tier caching disabled", "error", err)
			redisClient = nil
		} else {
			tierCache = cache.NewRedisTierCache(redisClient, log)
			log.Infow("tier cache enabled")
		}
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	table, err := toolconfig.Load(cfg.App.ToolConfigPath, log)
	if err != nil {
		log.Errorw("failed to load tool access table", "path", cfg.App.ToolConfigPath, "error", err)
		return err
	}

	db := database.Get()
	userRepo := repository.NewUserRepository(db, log)
	subscriptionRepo := repository.NewSubscriptionRepository(db, log)
	conversationRepo := repository.NewConversationRepository(db, log)
	messageRepo := repository.NewMessageRepository(db, log)
	usageRepo := repository.NewUsageEventRepository(db, log)

	emailService := email.NewSMTPEmailService(email.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
	})

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.AccessExpMinutes, cfg.Auth.RefreshExpDays)
	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.BcryptCost)

	resolver := accessApp.NewSubscriptionTierResolver(subscriptionRepo, tierCache, log)
	aggregator := accessApp.NewUsageAggregator(usageRepo, log)
	accessService := accessApp.NewToolAccessService(table, access.DefaultCheckers(), resolver, aggregator, log)
	statsService := accessApp.NewUsageStatsService(table, resolver, aggregator, log, biztime.NowUTC)

	registerUseCase := userApp.NewRegisterUseCase(userRepo, hasher, emailService, log)
	loginUseCase := userApp.NewLoginUseCase(userRepo, hasher, jwtService, log)
	startConversation := chatApp.NewStartConversationUseCase(conversationRepo, resolver, aggregator, log)
	appendMessage := chatApp.NewAppendMessageUseCase(conversationRepo, messageRepo, accessService, resolver, log)
	chatQueries := chatApp.NewChatQueryService(conversationRepo, messageRepo, log)
	exportConversation := exportApp.NewExportConversationUseCase(
		conversationRepo, messageRepo, accessService, markdown.NewMarkdownService(), log)
	syncSubscription := billingApp.NewSyncSubscriptionUseCase(
		subscriptionRepo, userRepo, tierCache, emailService, log)

	authMiddleware := middleware.NewAuthMiddleware(jwtService, userRepo, log)
	toolGate := middleware.NewToolGateMiddleware(accessService, log)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupAuthRoutes(engine, &routes.AuthRouteConfig{
		AuthHandler: handlers.NewAuthHandler(registerUseCase, loginUseCase, log),
	})
	routes.SetupToolRoutes(engine, &routes.ToolRouteConfig{
		ToolAccessHandler: handlers.NewToolAccessHandler(accessService, statsService, log),
		AuthMiddleware:    authMiddleware,
	})
	routes.SetupChatRoutes(engine, &routes.ChatRouteConfig{
		ChatHandler:        handlers.NewChatHandler(startConversation, appendMessage, chatQueries, log),
		ExportHandler:      handlers.NewExportHandler(exportConversation, log),
		AuthMiddleware:     authMiddleware,
		ToolGateMiddleware: toolGate,
	})
	routes.SetupBillingRoutes(engine, &routes.BillingRouteConfig{
		BillingWebhookHandler: handlers.NewBillingWebhookHandler(syncSubscription, cfg.Billing.WebhookSecret, log),
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server listening", "address", addr, "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
