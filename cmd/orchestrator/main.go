package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"

	"twitch-giveaway-backend/docs/orchestrator"
	"twitch-giveaway-backend/internal/common/config"
	"twitch-giveaway-backend/internal/common/logger"
	"twitch-giveaway-backend/internal/common/middleware"
	"twitch-giveaway-backend/internal/features/settings/collector"
	settingsHandler "twitch-giveaway-backend/internal/features/settings/delivery/http"
	settingsRepo "twitch-giveaway-backend/internal/features/settings/repository/redis"
	settingsService "twitch-giveaway-backend/internal/features/settings/service"
	"twitch-giveaway-backend/internal/platform/redis"
	"twitch-giveaway-backend/internal/platform/twitch"
)

// @title           Giveaway Settings Orchestrator API
// @version         1.0
// @description     Broadcaster settings, weighted winner selection and looping giveaways.

// @host      localhost:3000
// @BasePath  /

// @tag.name broadcasters
// @tag.description Broadcaster identity and weight tables

// @tag.name giveaway
// @tag.description Start, end and inspect giveaways

// @tag.name orchestrator
// @tag.description Collector callbacks

func main() {
	cfg, err := config.LoadOrchestrator()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("giveaway-orchestrator", cfg.Debug, cfg.LogFormat)
	logger.Info().Bool("debug", cfg.Debug).Msg("Starting giveaway orchestrator")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("addr", cfg.RedisAddr()).Msg("Redis connection established")

	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}

	// Bot first, then the broadcaster's own token. Either may be missing.
	var (
		bot         settingsService.BotSender
		broadcaster settingsService.BroadcasterSender
	)
	if cfg.Twitch.ClientID != "" {
		helix := twitch.NewHelixClient(
			cfg.Twitch.HelixURL,
			cfg.Twitch.ClientID,
			httpClient,
			rate.NewLimiter(rate.Limit(cfg.Twitch.RatePerSecond), cfg.Twitch.RateBurst),
		)
		broadcaster = twitch.NewBroadcasterIdentity(helix)
		if cfg.Twitch.HelixEnabled() {
			bot = twitch.NewBotIdentity(helix, twitch.StaticToken(cfg.Twitch.BotOAuth), cfg.Twitch.BotUsername)
		}
	} else {
		logger.Warn().Msg("TWITCH_CLIENT_ID is empty, winners will be drawn but not announced")
	}

	svc := settingsService.NewSettingsService(
		settingsRepo.NewRedisProfileRepository(redisClient.Client),
		collector.NewClient(cfg.Collector.URL, httpClient, cfg.Collector.BreakerFailures, cfg.Collector.BreakerTimeout),
		settingsService.NewWinnerAnnouncer(bot, broadcaster),
		settingsService.NewLottery(),
		cfg.WebhookURL(),
	)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.HandleErrors())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept"}
	router.Use(cors.New(corsConfig))

	settingsHandler.NewSettingsHandler(svc, cfg.Webhook.Secret).RegisterRoutes(router)
	setupProbes(router, redisClient)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName(orchestrator.SwaggerInfo.InstanceName())))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Str("webhook_url", cfg.WebhookURL()).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down orchestrator...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Orchestrator exited")
}

func setupProbes(router *gin.Engine, redisClient *redis.Client) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "giveaway-orchestrator",
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ready(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "redis unavailable",
				"details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}
