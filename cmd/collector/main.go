package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"

	"twitch-giveaway-backend/docs/collector"
	"twitch-giveaway-backend/internal/common/config"
	"twitch-giveaway-backend/internal/common/logger"
	"twitch-giveaway-backend/internal/common/middleware"
	giveawayHandler "twitch-giveaway-backend/internal/features/giveaway/delivery/http"
	giveawayService "twitch-giveaway-backend/internal/features/giveaway/service"
	"twitch-giveaway-backend/internal/features/giveaway/webhook"
	"twitch-giveaway-backend/internal/platform/twitch"
)

// @title           Giveaway Entry Collector API
// @version         1.0
// @description     Twitch chat bot that opens giveaways, records entrants and reports conclusions by webhook.

// @host      localhost:3001
// @BasePath  /

// @tag.name collector
// @tag.description Giveaway lifecycle: open, collect entries, conclude

func main() {
	cfg, err := config.LoadCollector()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("giveaway-collector", cfg.Debug, cfg.LogFormat)
	logger.Info().Bool("debug", cfg.Debug).Msg("Starting giveaway collector")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	chat := twitch.NewChat(cfg.Twitch.BotUsername, cfg.Twitch.BotOAuth)
	chatDone := make(chan struct{})
	go func() {
		defer close(chatDone)
		if err := chat.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("Twitch chat connection closed")
			stop()
		}
	}()

	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}

	// Announcements go through Helix as the bot when credentials allow, IRC otherwise
	var bot *twitch.BotIdentity
	if cfg.Twitch.HelixEnabled() {
		helix := twitch.NewHelixClient(
			cfg.Twitch.HelixURL,
			cfg.Twitch.ClientID,
			httpClient,
			rate.NewLimiter(rate.Limit(cfg.Twitch.RatePerSecond), cfg.Twitch.RateBurst),
		)
		bot = twitch.NewBotIdentity(helix, twitch.StaticToken(cfg.Twitch.BotOAuth), cfg.Twitch.BotUsername)
		logger.Info().Msg("Helix chat announcements enabled")
	}

	svc := giveawayService.NewGiveawayService(
		giveawayService.NewRegistry(),
		chat,
		twitch.NewChatAnnouncer(bot, chat),
		webhook.NewSender(httpClient, cfg.Webhook.Secret),
		clockwork.NewRealClock(),
		giveawayService.Options{
			StatusInterval: cfg.Giveaway.StatusInterval,
			JoinTimeout:    cfg.Giveaway.JoinTimeout,
		},
	)
	if cfg.Webhook.Secret == "" {
		logger.Warn().Msg("WEBHOOK_SECRET is empty, conclusion webhooks will be sent unsigned")
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.HandleErrors())

	giveawayHandler.NewGiveawayHandler(svc).RegisterRoutes(router)
	setupProbes(router, chat)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName(collector.SwaggerInfo.InstanceName())))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down collector...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := svc.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Pending webhook deliveries abandoned")
	}

	select {
	case <-chatDone:
	case <-shutdownCtx.Done():
	}

	logger.Info().Msg("Collector exited")
}

func setupProbes(router *gin.Engine, chat *twitch.Chat) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "giveaway-collector",
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		if !chat.Connected() {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unready",
				"error":  "twitch chat not connected",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}
