// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/wapas/voicerelay/internal/audiostore"
	"github.com/wapas/voicerelay/internal/config"
	"github.com/wapas/voicerelay/internal/database"
	"github.com/wapas/voicerelay/internal/http"
	"github.com/wapas/voicerelay/internal/language"
	"github.com/wapas/voicerelay/internal/metrics"
	recoveryHTTP "github.com/wapas/voicerelay/internal/recovery/http"
	recoveryRepository "github.com/wapas/voicerelay/internal/recovery/repository"
	recoveryUsecase "github.com/wapas/voicerelay/internal/recovery/usecase"
	"github.com/wapas/voicerelay/internal/sarvam"
	"github.com/wapas/voicerelay/internal/whatsapp"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger     *slog.Logger
	db         *sql.DB
	audioStore *audiostore.Store

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Repositories
	recoveryRepo recoveryUsecase.RecoveryRepository

	// Providers
	synthesizer recoveryUsecase.Synthesizer
	messenger   recoveryUsecase.Messenger

	// Use Cases
	recoveryUseCase recoveryUsecase.UseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	audioStoreInit      sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	recoveryRepoInit    sync.Once
	synthesizerInit     sync.Once
	messengerInit       sync.Once
	recoveryUseCaseInit sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// AudioStore returns the audio archive bucket.
// Returns nil (without error) when archiving is disabled by configuration.
func (c *Container) AudioStore(ctx context.Context) (*audiostore.Store, error) {
	c.audioStoreInit.Do(func() {
		store, err := audiostore.Open(ctx, c.config.AudioStoreURL, c.Logger())
		if err != nil {
			c.initErrors["audioStore"] = err
			return
		}
		c.audioStore = store
	})
	if storedErr, exists := c.initErrors["audioStore"]; exists {
		return nil, storedErr
	}
	return c.audioStore, nil
}

// MetricsProvider returns the metrics provider instance.
// Returns nil (without error) when metrics are disabled by configuration.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// Falls back to a no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		c.businessMetrics = bm
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// RecoveryRepository returns the recovery ledger repository instance.
func (c *Container) RecoveryRepository() (recoveryUsecase.RecoveryRepository, error) {
	c.recoveryRepoInit.Do(func() {
		repo, err := c.initRecoveryRepository()
		if err != nil {
			c.initErrors["recoveryRepo"] = err
			return
		}
		c.recoveryRepo = repo
	})
	if storedErr, exists := c.initErrors["recoveryRepo"]; exists {
		return nil, storedErr
	}
	return c.recoveryRepo, nil
}

// Synthesizer returns the text-to-speech provider client.
func (c *Container) Synthesizer() recoveryUsecase.Synthesizer {
	c.synthesizerInit.Do(func() {
		c.synthesizer = sarvam.NewClient(sarvam.Config{
			APIURL:     c.config.SarvamAPIURL,
			APIKey:     c.config.SarvamAPIKey,
			Speaker:    c.config.SarvamSpeaker,
			AudioCodec: c.config.SarvamAudioCodec,
			Timeout:    c.config.SarvamTimeout,
		}, c.Logger())
	})
	return c.synthesizer
}

// Messenger returns the WhatsApp delivery client.
func (c *Container) Messenger() recoveryUsecase.Messenger {
	c.messengerInit.Do(func() {
		c.messenger = whatsapp.NewClient(whatsapp.Config{
			BaseURL:       c.config.WhatsAppBaseURL,
			APIVersion:    c.config.WhatsAppAPIVersion,
			PhoneID:       c.config.WhatsAppPhoneID,
			Token:         c.config.WhatsAppToken,
			UploadTimeout: c.config.WhatsAppUploadTimeout,
			SendTimeout:   c.config.WhatsAppSendTimeout,
		}, c.Logger())
	})
	return c.messenger
}

// RecoveryUseCase returns the recovery pipeline use case, wrapped with
// metrics instrumentation when metrics are enabled.
func (c *Container) RecoveryUseCase(ctx context.Context) (recoveryUsecase.UseCase, error) {
	c.recoveryUseCaseInit.Do(func() {
		useCase, err := c.initRecoveryUseCase(ctx)
		if err != nil {
			c.initErrors["recoveryUseCase"] = err
			return
		}
		c.recoveryUseCase = useCase
	})
	if storedErr, exists := c.initErrors["recoveryUseCase"]; exists {
		return nil, storedErr
	}
	return c.recoveryUseCase, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer(ctx)
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server instance.
// Returns nil (without error) when metrics are disabled by configuration.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown HTTP server if initialized
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	// Shutdown metrics server if initialized
	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Shutdown metrics provider if initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Close audio archive bucket if initialized
	if c.audioStore != nil {
		if err := c.audioStore.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("audio store close: %w", err))
		}
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initRecoveryRepository creates the recovery repository instance.
func (c *Container) initRecoveryRepository() (recoveryUsecase.RecoveryRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for recovery repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return recoveryRepository.NewMySQLRecoveryRepository(db), nil
	case "postgres":
		return recoveryRepository.NewPostgreSQLRecoveryRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRecoveryUseCase creates the recovery use case with all its dependencies.
func (c *Container) initRecoveryUseCase(ctx context.Context) (recoveryUsecase.UseCase, error) {
	repo, err := c.RecoveryRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get recovery repository for recovery use case: %w", err)
	}

	store, err := c.AudioStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio store for recovery use case: %w", err)
	}

	resolver := language.NewResolver(language.Code(c.config.DefaultLanguage))

	// The archiver stays a nil interface when archiving is disabled
	var archiver recoveryUsecase.AudioArchiver
	if store != nil {
		archiver = store
	}

	useCase := recoveryUsecase.NewRecoveryUseCase(
		repo,
		c.Synthesizer(),
		c.Messenger(),
		archiver,
		resolver,
		c.Logger(),
	)

	if !c.config.MetricsEnabled {
		return useCase, nil
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for recovery use case: %w", err)
	}

	return recoveryUsecase.NewRecoveryUseCaseWithMetrics(useCase, bm), nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	useCase, err := c.RecoveryUseCase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recovery use case for http server: %w", err)
	}

	webhookHandler := recoveryHTTP.NewWebhookHandler(useCase, c.config.ShopifyWebhookSecret, logger)

	routerConfig := http.RouterConfig{
		WebhookHandler:   webhookHandler,
		MetricsNamespace: c.config.MetricsNamespace,
		RateLimitEnabled: c.config.RateLimitEnabled,
		RateLimitRPS:     c.config.RateLimitRequestsPerSec,
		RateLimitBurst:   c.config.RateLimitBurst,
		CORSEnabled:      c.config.CORSEnabled,
		CORSAllowOrigins: c.config.CORSAllowOrigins,
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}
	if provider != nil {
		routerConfig.MeterProvider = provider.MeterProvider()
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(routerConfig)

	return server, nil
}
