package repositories

import (
	"context"

	"github.com/academy-edu/auth-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

// UserFilters defines filters for user queries
type UserFilters struct {
	Query  string // Search query for username or email
	Role   string // Filter by role name
	Limit  int    // Page size
	Offset int    // Offset for pagination
}

// ===== REPOSITORY INTERFACES =====

// UserRepository covers the identity store operations the auth core needs.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// List and search operations
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	// Validation and checks
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Role membership
	AddToRole(ctx context.Context, user *models.User, role *models.Role) error
}

// RoleRepository manages the fixed role records.
type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByName(ctx context.Context, name string) (*models.Role, error)
	Exists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]*models.Role, error)
}

// LoginAuditRepository records successful logins.
type LoginAuditRepository interface {
	Create(ctx context.Context, audit *models.LoginAudit) error
	CountByUser(ctx context.Context, userID string) (int64, error)
}

// Repository aggregates all repository interfaces.
type Repository interface {
	User() UserRepository
	Role() RoleRepository
	LoginAudit() LoginAuditRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
