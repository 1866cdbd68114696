package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/academy-edu/auth-service/internal/auth"
	"github.com/academy-edu/auth-service/internal/events"
	"github.com/academy-edu/auth-service/internal/repositories"
	"github.com/academy-edu/auth-service/internal/validator"
)

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo        repositories.Repository
	tokenIssuer *auth.TokenIssuer
	publisher   events.EventPublisher
	logger      *slog.Logger
	validator   *validator.Validator

	// Service instances
	accountService AccountService
	roleService    RoleService
	userService    UserService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies
func NewServiceManager(
	repo repositories.Repository,
	tokenIssuer *auth.TokenIssuer,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) ServiceManager {
	return &serviceManager{
		repo:        repo,
		tokenIssuer: tokenIssuer,
		publisher:   publisher,
		logger:      logger,
		validator:   validator,
	}
}

// Initialize sets up all services and provisions the default roles. A store
// failure during provisioning is fatal.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.roleService = NewRoleService(sm.repo, sm.logger)
	sm.accountService = NewAccountService(sm.repo, sm.tokenIssuer, sm.publisher, sm.logger, sm.validator)
	sm.userService = NewUserService(sm.repo, sm.logger)

	if err := sm.roleService.EnsureDefaultRoles(ctx); err != nil {
		return fmt.Errorf("failed to provision default roles: %w", err)
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) Account() AccountService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.accountService
}

func (sm *serviceManager) Role() RoleService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.roleService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.userService
}

// Shutdown stops the event publisher; repositories are closed by main.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.publisher.Close(); err != nil {
		return fmt.Errorf("failed to close event publisher: %w", err)
	}

	sm.shutdown = true
	return nil
}
