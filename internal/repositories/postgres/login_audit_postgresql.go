package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/academy-edu/auth-service/internal/models"
	"github.com/academy-edu/auth-service/internal/repositories"
)

type LoginAuditPostgreSQL struct {
	db *gorm.DB
}

func NewLoginAuditPostgreSQL(db *gorm.DB) repositories.LoginAuditRepository {
	return &LoginAuditPostgreSQL{db: db}
}

func (l *LoginAuditPostgreSQL) Create(ctx context.Context, audit *models.LoginAudit) error {
	if err := l.db.WithContext(ctx).Create(audit).Error; err != nil {
		return fmt.Errorf("failed to create login audit: %w", err)
	}

	return nil
}

func (l *LoginAuditPostgreSQL) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&models.LoginAudit{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count login audits: %w", err)
	}

	return count, nil
}
