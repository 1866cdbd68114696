package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/academy-edu/auth-service/internal/models"
	"github.com/academy-edu/auth-service/internal/repositories"
)

type roleService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewRoleService(repo repositories.Repository, logger *slog.Logger) RoleService {
	return &roleService{
		repo:   repo,
		logger: logger,
	}
}

// EnsureDefaultRoles creates any of the four fixed roles that do not exist
// yet. It is idempotent and runs on every process start; a store failure here
// aborts startup.
func (s *roleService) EnsureDefaultRoles(ctx context.Context) error {
	for _, name := range models.DefaultRoles {
		exists, err := s.repo.Role().Exists(ctx, string(name))
		if err != nil {
			return fmt.Errorf("failed to check role %q: %w", name, err)
		}
		if exists {
			continue
		}

		if err := s.repo.Role().Create(ctx, &models.Role{Name: string(name)}); err != nil {
			return fmt.Errorf("failed to create role %q: %w", name, err)
		}
		s.logger.InfoContext(ctx, "provisioned role", "role", name)
	}

	return nil
}
