package app

import (
	"github.com/gin-gonic/gin"

	"github.com/allisson/lockbin/internal/http"
	"github.com/allisson/lockbin/internal/metrics"
	secretHTTP "github.com/allisson/lockbin/internal/secret/http"
	"github.com/allisson/lockbin/internal/secret/repository"
	secretUseCase "github.com/allisson/lockbin/internal/secret/usecase"
)

// SecretRepository returns the in-memory secret registry. The concrete type is
// exposed because the sweeper needs the registry's reconciliation methods on
// top of the use case interface.
func (c *Container) SecretRepository() *repository.MemorySecretRepository {
	c.secretRepoInit.Do(func() {
		c.secretRepository = repository.NewMemorySecretRepository()
	})
	return c.secretRepository
}

// SecretUseCase returns the secret use case, wrapped with metrics
// instrumentation when metrics are enabled.
func (c *Container) SecretUseCase() (secretUseCase.SecretUseCase, error) {
	var err error
	c.secretUseCaseInit.Do(func() {
		c.secretUseCase, err = c.initSecretUseCase()
		if err != nil {
			c.initErrors["secretUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretUseCase"]; exists {
		return nil, storedErr
	}
	return c.secretUseCase, nil
}

func (c *Container) initSecretUseCase() (secretUseCase.SecretUseCase, error) {
	blobStore, err := c.BlobStore()
	if err != nil {
		return nil, err
	}

	useCase := secretUseCase.NewSecretUseCase(c.SecretRepository(), blobStore, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}
		useCase = secretUseCase.NewSecretUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

func (c *Container) initHTTPServer() (*http.Server, error) {
	useCase, err := c.SecretUseCase()
	if err != nil {
		return nil, err
	}

	logger := c.Logger()
	handler := secretHTTP.NewSecretHandler(useCase, c.config.MaxUploadSizeBytes, logger)

	var extraMiddlewares []gin.HandlerFunc
	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}
		extraMiddlewares = append(
			extraMiddlewares,
			metrics.HTTPMetricsMiddleware(provider.MeterProvider(), c.config.MetricsNamespace),
		)
	}

	return http.NewServer(c.config, handler, logger, extraMiddlewares...), nil
}
