package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/academy-edu/auth-service/internal/cache"
	"github.com/academy-edu/auth-service/internal/models"
	"github.com/academy-edu/auth-service/internal/repositories"
)

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// Create inserts a new user and invalidates the related caches
func (u *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := u.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	u.cacheManager.InvalidateUser(ctx, user.ID, user.Username, user.Email)

	return nil
}

// GetByID retrieves a user with roles by id, with caching
func (u *UserPostgreSQL) GetByID(ctx context.Context, id string) (*models.User, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	var user models.User

	err := u.cacheManager.User.CacheOrExecute(ctx, cacheKey, &user, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		var dbUser models.User
		err := u.db.WithContext(ctx).
			Preload("Roles").
			Where("id = ?", id).
			First(&dbUser).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		return &dbUser, nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByUsername retrieves a user with roles by username. The login path reads
// through this method, so it always hits the store: the password hash must
// never come from a stale cache entry.
func (u *UserPostgreSQL) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).
		Preload("Roles").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &user, nil
}

// List returns a page of users matching the filters
func (u *UserPostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	query := u.db.WithContext(ctx).Model(&models.User{}).Preload("Roles")

	if filters.Query != "" {
		// LOWER+LIKE keeps the match case-insensitive on every engine the
		// repository runs against.
		pattern := "%" + strings.ToLower(filters.Query) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	if filters.Role != "" {
		query = query.
			Joins("JOIN user_roles ON user_roles.user_id = users.id").
			Joins("JOIN roles ON roles.id = user_roles.role_id").
			Where("roles.name = ?", filters.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []*models.User
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Order("username ASC").Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// ExistsByUsername checks whether a username is taken, with a short-lived cache
func (u *UserPostgreSQL) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return u.exists(ctx, fmt.Sprintf("username:%s", username), "username = ?", username)
}

// ExistsByEmail checks whether an email is taken, with a short-lived cache
func (u *UserPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return u.exists(ctx, fmt.Sprintf("email:%s", email), "email = ?", email)
}

func (u *UserPostgreSQL) exists(ctx context.Context, cacheKey, cond string, value string) (bool, error) {
	// A negative result must not be cached: registration races on it.
	var cached bool
	if err := u.cacheManager.Exists.Get(ctx, cacheKey, &cached); err == nil && cached {
		return true, nil
	}

	var count int64
	err := u.db.WithContext(ctx).Model(&models.User{}).Where(cond, value).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	if count > 0 {
		// cache failures never fail the lookup
		cache.SafeSet(ctx, u.cacheManager.Exists, cacheKey, true, cache.ExistsCacheConfig.TTL)
	}

	return count > 0, nil
}

// AddToRole attaches a role to a user
func (u *UserPostgreSQL) AddToRole(ctx context.Context, user *models.User, role *models.Role) error {
	if err := u.db.WithContext(ctx).Model(user).Association("Roles").Append(role); err != nil {
		return fmt.Errorf("failed to add user to role: %w", err)
	}
	u.cacheManager.InvalidateUser(ctx, user.ID, user.Username, user.Email)

	return nil
}
