// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/lockbin/internal/blob"
	"github.com/allisson/lockbin/internal/config"
	"github.com/allisson/lockbin/internal/http"
	"github.com/allisson/lockbin/internal/metrics"
	"github.com/allisson/lockbin/internal/secret/repository"
	secretUseCase "github.com/allisson/lockbin/internal/secret/usecase"
	"github.com/allisson/lockbin/internal/sweeper"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger    *slog.Logger
	blobStore blob.Store

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Secret module
	secretRepository *repository.MemorySecretRepository
	secretUseCase    secretUseCase.SecretUseCase

	// Servers and Workers
	httpServer    *http.Server
	metricsServer *http.MetricsServer
	sweeper       *sweeper.Sweeper

	// Initialization flags and mutex for thread-safety
	loggerInit          sync.Once
	blobStoreInit       sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	sweeperInit         sync.Once
	secretRepoInit      sync.Once
	secretUseCaseInit   sync.Once
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

func (c *Container) initLogger() *slog.Logger {
	var level slog.Level
	switch c.config.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// BlobStore returns the ciphertext blob store.
func (c *Container) BlobStore() (blob.Store, error) {
	var err error
	c.blobStoreInit.Do(func() {
		c.blobStore, err = blob.NewFileStore(c.config.BlobDir)
		if err != nil {
			c.initErrors["blobStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["blobStore"]; exists {
		return nil, storedErr
	}
	return c.blobStore, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider.
// Returns nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op
// implementation is returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}

	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// HTTPServer returns the API HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server instance.
// Returns nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}

	return http.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		provider,
	), nil
}

// Sweeper returns the lifecycle coordinator instance.
func (c *Container) Sweeper() (*sweeper.Sweeper, error) {
	var err error
	c.sweeperInit.Do(func() {
		c.sweeper, err = c.initSweeper()
		if err != nil {
			c.initErrors["sweeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sweeper"]; exists {
		return nil, storedErr
	}
	return c.sweeper, nil
}

func (c *Container) initSweeper() (*sweeper.Sweeper, error) {
	repo := c.SecretRepository()

	blobStore, err := c.BlobStore()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	return sweeper.New(
		repo,
		blobStore,
		c.config.SweepInterval,
		c.Logger(),
		businessMetrics,
	), nil
}

// Shutdown cleans up container resources.
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	if c.blobStore != nil {
		if err := c.blobStore.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		c.Logger().Error("container shutdown completed with errors", slog.Any("errors", errs))
		return errs[0]
	}

	return nil
}
