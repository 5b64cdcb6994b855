package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/powerplay-sports/booking-service/internal/cache"
	"github.com/powerplay-sports/booking-service/internal/events"
	"github.com/powerplay-sports/booking-service/internal/repositories"
	"github.com/powerplay-sports/booking-service/internal/validator"
)

// ServiceManagerConfig holds the dependencies shared by all services
type ServiceManagerConfig struct {
	Repo      repositories.Repository
	RoleCache *cache.RoleCache
	Publisher events.EventPublisher
	Validator *validator.Validator
	Logger    *slog.Logger
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	config ServiceManagerConfig

	userService    UserService
	catalogService CatalogService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(config ServiceManagerConfig) ServiceManager {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Validator == nil {
		config.Validator = validator.New()
	}
	return &serviceManager{config: config}
}

// Initialize builds every service; calling it again is a no-op.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if sm.config.Repo == nil {
		return errors.New("service manager requires a repository")
	}

	sm.config.Logger.Info("Initializing service manager")

	sm.userService = NewUserService(sm.config.Repo, sm.config.RoleCache, sm.config.Publisher, sm.config.Validator, sm.config.Logger)
	sm.catalogService = NewCatalogService(sm.config.Repo, sm.config.Publisher, sm.config.Logger)

	sm.initialized = true
	sm.config.Logger.Info("Service manager initialized successfully")
	return nil
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.userService
}

func (sm *serviceManager) Catalog() CatalogService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.catalogService
}

// HealthCheck fails only when the store is unreachable; the role cache is optional.
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.config.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	if sm.config.RoleCache != nil {
		if err := sm.config.RoleCache.HealthCheck(ctx); err != nil && !errors.Is(err, cache.ErrCacheNotAvailable) {
			sm.config.Logger.WarnContext(ctx, "Role cache unhealthy", "error", err)
		}
	}
	return nil
}

// Shutdown closes the event publisher. The repository is owned and closed by the caller.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}
	sm.config.Logger.Info("Shutting down service manager")

	var err error
	if sm.config.Publisher != nil {
		if cerr := sm.config.Publisher.Close(); cerr != nil {
			err = fmt.Errorf("close event publisher: %w", cerr)
		}
	}

	sm.shutdown = true
	return err
}
