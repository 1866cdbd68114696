package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/academy-edu/auth-service/internal/models"
	"github.com/academy-edu/auth-service/internal/repositories"
)

// ===== SERVICE ERRORS =====

var (
	// ErrValidationFailed marks registration failures caused by the caller:
	// policy violations, duplicates, unknown role selectors.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidCredentials is deliberately generic. It covers both unknown
	// usernames and wrong passwords so the caller cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrRoleMissing means a stored user has no role at login time. The
	// registration flow never commits such a user, so this indicates data
	// imported or mutated outside this service.
	ErrRoleMissing = errors.New("user has no assigned role")

	ErrNotFound = errors.New("record not found")
)

// RegistrationError carries the full list of violation messages for a failed
// registration. It unwraps to ErrValidationFailed so handlers can classify it
// with errors.Is.
type RegistrationError struct {
	Messages []string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registration failed: %s", strings.Join(e.Messages, "; "))
}

func (e *RegistrationError) Unwrap() error {
	return ErrValidationFailed
}

// ===== SERVICE INTERFACES =====

// AccountService implements the registration and login flows.
type AccountService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResponse, error)
	Login(ctx context.Context, req *models.LoginRequest, clientIP string) (*models.LoginResponse, error)
}

// RoleService provisions the fixed role set.
type RoleService interface {
	EnsureDefaultRoles(ctx context.Context) error
}

// UserService exposes read-side user management for administrators.
type UserService interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filters repositories.UserFilters) (*models.UserListResponse, error)
	ExportRoster(ctx context.Context) ([]byte, error)
}

// ServiceManager aggregates all services and owns their lifecycle.
type ServiceManager interface {
	Account() AccountService
	Role() RoleService
	User() UserService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
