package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"referral_bot/internal/api"
	"referral_bot/internal/bot"
	"referral_bot/internal/cache"
	"referral_bot/internal/job"
	"referral_bot/internal/metrics"
	"referral_bot/internal/middleware"
	"referral_bot/internal/repository"
	"referral_bot/internal/repository/mongostore"
	"referral_bot/internal/service"
	"referral_bot/pkg/auth"
	"referral_bot/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer closeStore()

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		zapLogger.Fatal("Failed to initialize telegram bot", zap.Error(err))
	}
	botAPI.Debug = cfg.Telegram.Debug
	zapLogger.Info("Authorized on telegram", zap.String("bot", botAPI.Self.UserName))

	botBaseURL := cfg.Telegram.BotBaseURL
	if botBaseURL == "" {
		botBaseURL = service.BotBaseURL(botAPI.Self.UserName)
	}
	links := service.NewLinkBuilder(botBaseURL, cfg.Telegram.Channel)
	authorizer := service.NewAuthorizer(cfg.Telegram.ParsedAdminIDs)
	referralService := service.NewReferralService(store)
	leaderboardService := service.NewLeaderboardService(store)

	var membershipCache service.MembershipCache
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			zapLogger.Fatal("Failed to initialize redis", zap.Error(err))
		}
		defer rdb.Close()
		membershipCache = cache.NewSubscriptionCache(rdb, cfg.Redis.SubscriptionTTL)
	}
	subscriptionGate := service.NewSubscriptionGate(
		bot.NewChatMemberChecker(botAPI),
		membershipCache,
		links.ChannelHandle(),
		cfg.Telegram.SubscriptionTimeout,
	)

	referralBot := bot.New(botAPI, referralService, leaderboardService, authorizer, links)

	reportJob := job.NewLeaderboardReportJob(botAPI, leaderboardService, cfg.Telegram.ParsedAdminIDs)
	cronManager := job.NewManager(reportJob)
	if err := cronManager.RegisterJobs(cfg.Report.Schedule); err != nil {
		zapLogger.Fatal("Failed to register cron jobs", zap.Error(err))
	}

	telegramAuth := auth.NewTelegramAuth(cfg.Telegram.BotToken, cfg.Telegram.DebugAuth)
	router := newRouter()
	a := router.Group("/api/v1")
	api.NewReferralRoutes(a, leaderboardService, subscriptionGate, links, telegramAuth, middleware.NewAuthorization(authorizer))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zapLogger.Info("Starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		u := tgbotapi.NewUpdate(0)
		u.Timeout = cfg.Telegram.UpdateTimeout
		updates := botAPI.GetUpdatesChan(u)
		defer botAPI.StopReceivingUpdates()

		zapLogger.Info("Bot is polling for updates")
		return referralBot.Run(gctx, updates)
	})

	g.Go(func() error {
		cronManager.Start()
		<-gctx.Done()
		cronManager.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		zapLogger.Error("Shutdown with error", zap.Error(err))
		return
	}
	zapLogger.Info("Shutdown complete")
}

// openStore selects the identity store backend.
func openStore(cfg *Config) (service.UserRepository, func(), error) {
	switch cfg.Storage.Driver {
	case storageMongo:
		store, err := mongostore.Connect(cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		if err := repository.Migrate(cfg.Database); err != nil {
			return nil, nil, err
		}
		repo, err := repository.New(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	}
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodOptions,
	}
	config.AllowHeaders = []string{"*"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return router
}
