package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/academy-edu/auth-service/internal/auth"
	"github.com/academy-edu/auth-service/internal/events"
	"github.com/academy-edu/auth-service/internal/models"
	"github.com/academy-edu/auth-service/internal/repositories"
	"github.com/academy-edu/auth-service/internal/validator"

	"github.com/google/uuid"
)

type accountService struct {
	repo        repositories.Repository
	tokenIssuer *auth.TokenIssuer
	publisher   events.EventPublisher
	logger      *slog.Logger
	validator   *validator.Validator
}

func NewAccountService(
	repo repositories.Repository,
	tokenIssuer *auth.TokenIssuer,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) AccountService {
	return &accountService{
		repo:        repo,
		tokenIssuer: tokenIssuer,
		publisher:   publisher,
		logger:      logger,
		validator:   validator,
	}
}

// Register creates a user with exactly one role inside a single transaction.
// Every violation is collected before failing so the caller sees the full
// list; any failure rolls the transaction back and commits nothing.
func (s *accountService) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResponse, error) {
	violations := s.validator.Validate(req).Messages()

	roleName, ok := models.RoleFromSelector(req.UserRole)
	if !ok {
		violations = append(violations, "userRole must map to one of the known roles")
	}

	if len(violations) > 0 {
		return nil, &RegistrationError{Messages: violations}
	}

	var user *models.User

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		taken, err := txRepo.User().ExistsByUsername(ctx, req.Username)
		if err != nil {
			return err
		}
		if taken {
			violations = append(violations, fmt.Sprintf("username %q is already taken", req.Username))
		}

		registered, err := txRepo.User().ExistsByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		if registered {
			violations = append(violations, fmt.Sprintf("email %q is already registered", req.Email))
		}

		if len(violations) > 0 {
			return &RegistrationError{Messages: violations}
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		user = &models.User{
			ID:           uuid.New().String(),
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
		}

		if err := txRepo.User().Create(ctx, user); err != nil {
			// A concurrent registration can slip past the existence checks and
			// hit the unique index instead; report it as a duplicate, not as an
			// internal failure.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &RegistrationError{
					Messages: []string{fmt.Sprintf("username %q or email %q is already registered", req.Username, req.Email)},
				}
			}
			return err
		}

		role, err := txRepo.Role().GetByName(ctx, string(roleName))
		if err != nil {
			return fmt.Errorf("role %q not provisioned: %w", roleName, err)
		}

		return txRepo.User().AddToRole(ctx, user, role)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered", "username", user.Username, "role", roleName)

	if err := s.publisher.PublishAccountEvent(ctx, events.NewAccountEvent(events.UserRegistered, user, roleName)); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish registration event", "error", err, "username", user.Username)
	}

	return &models.RegisterResponse{
		Username: user.Username,
		Email:    user.Email,
		Status:   1,
		Message:  "Registration Successful",
	}, nil
}

// Login verifies credentials and issues a signed bearer token. Unknown user
// and wrong password both surface as ErrInvalidCredentials.
func (s *accountService) Login(ctx context.Context, req *models.LoginRequest, clientIP string) (*models.LoginResponse, error) {
	var response *models.LoginResponse
	var user *models.User
	var roleName models.UserRole

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		var err error
		user, err = txRepo.User().GetByUsername(ctx, req.Username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidCredentials
			}
			return err
		}

		if !auth.CheckPassword(user.PasswordHash, req.Password) {
			return ErrInvalidCredentials
		}

		var ok bool
		roleName, ok = user.FirstRole()
		if !ok {
			return fmt.Errorf("user %s: %w", user.ID, ErrRoleMissing)
		}

		issued, err := s.tokenIssuer.Issue(user.ID, user.Username, roleName)
		if err != nil {
			return fmt.Errorf("failed to issue token: %w", err)
		}

		details, err := json.Marshal(models.LoginAuditDetails{
			Role:     string(roleName),
			TokenID:  issued.TokenID,
			ClientIP: clientIP,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal audit details: %w", err)
		}

		audit := &models.LoginAudit{
			UserID:   user.ID,
			Username: user.Username,
			Details:  details,
		}
		if err := txRepo.LoginAudit().Create(ctx, audit); err != nil {
			return err
		}

		response = &models.LoginResponse{
			Token:      issued.Token,
			Expiration: issued.ExpiresAt,
			Username:   user.Username,
			UserRole:   roleName,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", "username", user.Username, "role", roleName)

	if err := s.publisher.PublishAccountEvent(ctx, events.NewAccountEvent(events.UserLoggedIn, user, roleName)); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish login event", "error", err, "username", user.Username)
	}

	return response, nil
}
