package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awspolly "github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/tusabogados/intake-platform/cmd/mainconfig"
	"github.com/tusabogados/intake-platform/internal/api/router"
	"github.com/tusabogados/intake-platform/internal/archive"
	appconfig "github.com/tusabogados/intake-platform/internal/config"
	"github.com/tusabogados/intake-platform/internal/intake"
	"github.com/tusabogados/intake-platform/internal/narration"
	"github.com/tusabogados/intake-platform/internal/notify"
	"github.com/tusabogados/intake-platform/internal/observability/metrics"
	"github.com/tusabogados/intake-platform/internal/webchat"
	"github.com/tusabogados/intake-platform/pkg/logging"
)

func main() {
	// Load .env in development; a missing file is fine.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting intake-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Redis backs sessions and transcripts; without it sessions stay
	// in-process and transcripts are disabled.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("redis unreachable, falling back to in-memory sessions", "error", err)
			redisClient = nil
		}
	}

	var sessions intake.SessionStore
	if redisClient != nil {
		sessions = intake.NewRedisSessionStore(redisClient, cfg.SessionTTL)
	} else {
		sessions = intake.NewMemorySessionStore()
	}
	transcripts := intake.NewTranscriptStore(redisClient)

	// Postgres archives finished intakes for the back office.
	var archiveStore *archive.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		if err := db.PingContext(ctx); err != nil {
			logger.Error("database unreachable, archiving disabled", "error", err)
		} else {
			archiveStore = archive.NewStore(db)
		}
	}

	needsAWS := cfg.NarrationEngine == "polly" || cfg.EmailProvider == "ses"
	var narrator narration.Narrator = narration.BrowserFallback{}
	var sender notify.EmailSender
	if needsAWS {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		if cfg.NarrationEngine == "polly" {
			narrator = narration.NewPollyNarrator(awspolly.NewFromConfig(awsCfg), cfg.PollyVoiceID, logger)
		}
		if cfg.EmailProvider == "ses" {
			sender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
				FromEmail: cfg.SESFromEmail,
				FromName:  cfg.SendGridFromName,
			}, logger)
		}
	}
	if cfg.EmailProvider == "sendgrid" && cfg.SendGridAPIKey != "" {
		sender = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	}
	var notifier intake.ConfirmationNotifier
	if sender != nil {
		notifier = notify.NewService(sender, logger)
	}

	engine := intake.NewEngine(intake.Options{
		Flow:                intake.Flow(cfg.IntakeFlow),
		CollectContact:      cfg.IntakeCollectContact,
		StrictContact:       cfg.IntakeStrictContact,
		DescriptionMinChars: cfg.IntakeDescriptionChars,
	})

	intakeMetrics := metrics.NewIntakeMetrics(prometheus.DefaultRegisterer)

	serviceCfg := intake.ServiceConfig{
		Engine:     engine,
		Sessions:   sessions,
		Transcript: transcripts,
		Notifier:   notifier,
		Metrics:    intakeMetrics,
		Logger:     logger,
	}
	if archiveStore != nil {
		serviceCfg.Archiver = archiveStore
	}
	service := intake.NewService(serviceCfg)

	routerCfg := &router.Config{
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminJWTSecret:     cfg.AdminJWTSecret,
		ChatHandler:        intake.NewHandler(service, logger),
		NarrationHandler:   narration.NewHandler(narrator, intakeMetrics, logger),
		WebchatHandler:     webchat.NewHandler(service, logger),
	}
	if archiveStore != nil {
		routerCfg.ArchiveHandler = archive.NewHandler(archiveStore, logger)
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
