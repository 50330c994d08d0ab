package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/foodbook/orderbot/internal/agent"
	"github.com/foodbook/orderbot/internal/agent/catalog"
	"github.com/foodbook/orderbot/internal/agent/graph"
	"github.com/foodbook/orderbot/internal/agent/graph/nodes"
	"github.com/foodbook/orderbot/internal/agent/model"
	"github.com/foodbook/orderbot/internal/agent/repo"
	"github.com/foodbook/orderbot/internal/agent/routing"
	"github.com/foodbook/orderbot/internal/core"
	"github.com/foodbook/orderbot/internal/transport/httpapi"
	logx "github.com/foodbook/orderbot/pkg/logger"
	pkgpostgres "github.com/foodbook/orderbot/pkg/postgres"
	pkgrabbitmq "github.com/foodbook/orderbot/pkg/rabbitmq"
	pkgredis "github.com/foodbook/orderbot/pkg/redis"
)

// AppConfig defines all configurable parameters of the order bot,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`

	// Infrastructure
	Redis    pkgredis.Config
	Postgres pkgpostgres.Config
	RabbitMQ pkgrabbitmq.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Session  model.SessionConfig
	Fallback model.FallbackModelConfig
	Prompt   model.PromptConfig
	Catalog  model.CatalogConfig
	Notify   model.NotifyConfig
}

type closer func()

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load(".env")

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Init()
		logx.Fatal().Err(err).Msg("Failed to process environment config")
	}

	env := core.ParseEnvironment(cfg.Environment)
	logx.Init(logx.LoggerOpts{Environment: env, Level: cfg.LogLevel})
	gin.SetMode(env.GinMode())
	if envErr != nil {
		logx.Warn().Err(envErr).Msg("Could not load .env file")
	}

	if err := run(ctx, stop, cfg, env); err != nil {
		stop()
		logx.Fatal().Err(err).Msg("Order bot stopped")
	}
}

// run wires the bot and serves until ctx is cancelled. Every resource opened
// here is closed by a deferred call before run returns, on error paths too.
func run(ctx context.Context, stop context.CancelFunc, cfg AppConfig, env core.Environment) error {
	sessions, closeSessions, err := buildSessionStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialise session store: %w", err)
	}
	defer closeSessions()

	source, closeSource, err := buildCatalogSource(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialise menu catalog source: %w", err)
	}
	defer closeSource()

	notifier, closeNotifier, err := buildNotifier(cfg)
	if err != nil {
		return fmt.Errorf("initialise notification channel: %w", err)
	}
	defer closeNotifier()

	fallback, err := nodes.NewFallbackChatModel(ctx, nodes.ChatModelConfig{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Fallback: cfg.Fallback,
	})
	if err != nil {
		return fmt.Errorf("create fallback chat model: %w", err)
	}

	router := routing.NewRouter(notifier, routing.NewStationTable(nil, cfg.Notify.DefaultStation), cfg.Notify.Timeout)
	runner, err := graph.BuildConversationGraph(ctx, graph.Config{
		Sessions: sessions,
		Router:   router,
		Fallback: fallback,
		Model:    cfg.Fallback,
		Prompt:   cfg.Prompt,
	})
	if err != nil {
		return fmt.Errorf("build conversation graph: %w", err)
	}

	svc, err := agent.NewService(agent.ServiceConfig{
		Catalog:        source,
		CatalogTimeout: cfg.Catalog.Timeout,
		Sessions:       sessions,
		Runner:         runner,
		Prompt:         cfg.Prompt,
	})
	if err != nil {
		return fmt.Errorf("create conversation service: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(httpapi.NewHandler(svc)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logx.Info().Str("addr", cfg.HTTPAddr).Str("environment", env.String()).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Error().Err(err).Msg("HTTP server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logx.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	return nil
}

func buildSessionStore(ctx context.Context, cfg AppConfig) (model.SessionRepository, closer, error) {
	if cfg.Session.Store == "memory" {
		logx.Warn().Msg("Using in-memory session store; sessions are lost on restart")
		return repo.NewMemorySessionRepository(cfg.Session.TTL), func() {}, nil
	}

	rdb, err := cfg.Redis.New(ctx)
	if err != nil {
		return nil, nil, err
	}
	logx.Info().Msg("Connected to Redis successfully")
	return repo.NewRedisSessionRepository(rdb, cfg.Session.TTL), func() { _ = rdb.Close() }, nil
}

func buildCatalogSource(ctx context.Context, cfg AppConfig) (catalog.Source, closer, error) {
	if cfg.Catalog.Source == "postgres" {
		pool, err := cfg.Postgres.New(ctx)
		if err != nil {
			return nil, nil, err
		}
		logx.Info().Msg("Connected to Postgres successfully")
		return catalog.NewPostgresSource(pool), pool.Close, nil
	}

	if cfg.Catalog.SheetURL == "" {
		return nil, nil, errors.New("CATALOG_SHEET_URL is required for the sheet catalog source")
	}
	return catalog.NewSheetSource(cfg.Catalog.SheetURL, &http.Client{Timeout: cfg.Catalog.Timeout}), func() {}, nil
}

func buildNotifier(cfg AppConfig) (model.Notifier, closer, error) {
	if cfg.Notify.Driver == "amqp" {
		client, err := cfg.RabbitMQ.Dial()
		if err != nil {
			return nil, nil, err
		}
		logx.Info().Str("exchange", cfg.RabbitMQ.Exchange).Msg("Connected to RabbitMQ successfully")
		return routing.NewAMQPNotifier(client.Channel(), cfg.RabbitMQ.Exchange), client.Close, nil
	}

	if cfg.Notify.WebhookURL == "" {
		logx.Warn().Msg("NOTIFY_WEBHOOK_URL is empty; station notifications will be reported as failed")
		return nil, func() {}, nil
	}
	return routing.NewWebhookNotifier(cfg.Notify.WebhookURL, &http.Client{Timeout: cfg.Notify.Timeout}), func() {}, nil
}
