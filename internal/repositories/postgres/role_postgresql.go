package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/academy-edu/auth-service/internal/cache"
	"github.com/academy-edu/auth-service/internal/models"
	"github.com/academy-edu/auth-service/internal/repositories"
)

type RolePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewRolePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.RoleRepository {
	return &RolePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// Create inserts a role record
func (r *RolePostgreSQL) Create(ctx context.Context, role *models.Role) error {
	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}
	cache.SafeDelete(ctx, r.cacheManager.Role, fmt.Sprintf("name:%s", role.Name), "list")

	return nil
}

// GetByName retrieves a role by its name, with caching
func (r *RolePostgreSQL) GetByName(ctx context.Context, name string) (*models.Role, error) {
	cacheKey := fmt.Sprintf("name:%s", name)
	var role models.Role

	err := r.cacheManager.Role.CacheOrExecute(ctx, cacheKey, &role, cache.RoleCacheConfig.TTL, func() (interface{}, error) {
		var dbRole models.Role
		err := r.db.WithContext(ctx).Where("name = ?", name).First(&dbRole).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get role: %w", err)
		}
		return &dbRole, nil
	})
	if err != nil {
		return nil, err
	}

	return &role, nil
}

// Exists checks whether a role record is present
func (r *RolePostgreSQL) Exists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Role{}).Where("name = ?", name).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check role existence: %w", err)
	}

	return count > 0, nil
}

// List returns all role records
func (r *RolePostgreSQL) List(ctx context.Context) ([]*models.Role, error) {
	var roles []*models.Role
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	return roles, nil
}
