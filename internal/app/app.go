package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joshd12blip/Cleanout-Market/internal/adapter/email"
	"github.com/joshd12blip/Cleanout-Market/internal/adapter/memory"
	natsadapter "github.com/joshd12blip/Cleanout-Market/internal/adapter/nats"
	redisadapter "github.com/joshd12blip/Cleanout-Market/internal/adapter/redis"
	"github.com/joshd12blip/Cleanout-Market/internal/app/config"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/clock"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/logger"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/metrics"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/tracer"
	httpport "github.com/joshd12blip/Cleanout-Market/internal/port/http"
	"github.com/joshd12blip/Cleanout-Market/internal/repository"
	"github.com/joshd12blip/Cleanout-Market/internal/service"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type App struct {
	cfg           *config.Config
	log           logger.Logger
	server        *httpport.Server
	metricsServer *http.Server
	sessionRepo   repository.SessionRepository
	memoryRepo    *memory.SessionRepository
	redisClient   *redis.Client
	natsConn      *nats.Conn
	tracer        *sdktrace.TracerProvider
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logCfg := logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s, Session store: %s", cfg.Env, cfg.HTTPServer.Port, cfg.Session.Store)

	metricsManager := metrics.NewMetricsManager(cfg.Metrics.Namespace)
	clk := clock.NewSystem()
	tp := tracer.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, appLogger)

	application := &App{
		cfg:    cfg,
		log:    appLogger,
		tracer: tp,
	}

	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		appLogger.Info("Initializing Redis client...")
		redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Errorf("Failed to initialize Redis client: %v", err)
			return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
		}
		appLogger.Info("Redis client initialized successfully")
		application.redisClient = redisClient
		application.sessionRepo = redisadapter.NewSessionRepository(redisClient)
	default:
		application.memoryRepo = memory.NewSessionRepository(clk, appLogger)
		application.sessionRepo = application.memoryRepo
	}
	appLogger.Info("SessionRepository initialized")

	publisher := natsadapter.NewNoopPublisher()
	if cfg.NATS.URL != "" {
		appLogger.Info("Connecting to NATS...")
		conn, err := natsadapter.NewConnection(cfg.NATS, appLogger)
		if err != nil {
			application.closeStores()
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		application.natsConn = conn
		publisher, err = natsadapter.NewNATSPublisher(conn, cfg.NATS.SubjectPrefix)
		if err != nil {
			application.closeStores()
			return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
		}
		appLogger.Info("NATS publisher initialized")
	} else {
		appLogger.Info("NATS URL not configured, events will not be published")
	}

	var mailer service.MailSender
	if cfg.SMTP.Enabled {
		sender, err := email.NewSMTPSender(cfg.SMTP, appLogger)
		if err != nil {
			application.closeStores()
			return nil, fmt.Errorf("failed to initialize SMTP sender: %w", err)
		}
		mailer = sender
		appLogger.Info("SMTP sender initialized")
	} else {
		appLogger.Info("SMTP disabled, purchase requests can only be composed")
	}

	marketCfg := service.MarketConfig{
		CommissionRate:   cfg.Market.CommissionRate,
		Location:         cfg.Location(),
		PlaceholderPhoto: cfg.Market.PlaceholderPhoto,
		MailTo:           cfg.Market.MailTo,
		MailSubject:      cfg.Market.MailSubject,
		SendTimeout:      cfg.SMTP.SendTimeout,
	}
	sessions := service.NewSessionManager(application.sessionRepo, clk, appLogger, metricsManager, cfg.Session.TTL)

	handler := httpport.NewHandler(
		service.NewListingService(sessions, publisher, appLogger, metricsManager, marketCfg),
		service.NewCartService(sessions, appLogger, metricsManager, marketCfg),
		service.NewBidService(sessions, publisher, appLogger, metricsManager),
		service.NewPurchaseService(sessions, mailer, publisher, appLogger, metricsManager, marketCfg),
		appLogger,
		cfg.Market.CountdownTick,
	)
	router := httpport.NewRouter(handler, appLogger, httpport.RouterConfig{
		SessionCookieName: cfg.Session.CookieName,
		Metrics:           metricsManager,
	})

	tracedRouter := otelhttp.NewHandler(router, cfg.Tracing.ServiceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	application.server = httpport.NewServer(appLogger, cfg.HTTPServer, tracedRouter)
	application.metricsServer = metrics.NewMetricsServer(cfg.Metrics.Port, appLogger, metricsManager.Registry)
	appLogger.Info("HTTP server instance created")

	return application, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	runCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	if a.memoryRepo != nil {
		go a.memoryRepo.Run(runCtx, a.cfg.Session.SweepInterval)
		a.log.Infof("Session sweeper started, interval %s", a.cfg.Session.SweepInterval)
	}

	if a.metricsServer != nil {
		go func() {
			a.log.Infof("Prometheus metrics server starting on %s", a.metricsServer.Addr)
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Errorf("Prometheus metrics server failed: %v", err)
			}
		}()
	}

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	a.log.Info("HTTP server started in a goroutine")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	} else {
		a.log.Info("HTTP server stopped successfully")
	}

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.log.Errorf("Error stopping metrics server: %v", err)
		}
	}

	stopBackground()

	if a.natsConn != nil {
		if err := a.natsConn.Drain(); err != nil {
			a.log.Errorf("Error draining NATS connection: %v", err)
		} else {
			a.log.Info("NATS connection drained")
		}
	}

	a.closeStores()

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			a.log.Errorf("Error shutting down tracer provider: %v", err)
		} else {
			a.log.Info("Tracer provider shut down")
		}
	}

	a.log.Info("Application shut down successfully")
	_ = a.log.Sync()
}

func (a *App) closeStores() {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed successfully")
		}
	}
}
