package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/academy-edu/auth-service/internal/auth"
	"github.com/academy-edu/auth-service/internal/config"
	"github.com/academy-edu/auth-service/internal/events"
	"github.com/academy-edu/auth-service/internal/models"
	"github.com/academy-edu/auth-service/internal/repositories"
	"github.com/academy-edu/auth-service/internal/repositories/postgres"
	"github.com/academy-edu/auth-service/internal/validator"
	"github.com/academy-edu/auth-service/pkg"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRepo(t *testing.T) repositories.Repository {
	t.Helper()

	// A named shared in-memory database keeps the schema visible across the
	// pooled connections gorm opens.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, pkg.Migrate(db))

	return postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
}

func newTestTokenIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer(config.JWTConfig{
		Secret:   "test-secret-with-enough-entropy-for-hs256",
		Issuer:   "academy-auth-service",
		Audience: "academy-api",
		Lifetime: time.Hour,
	})
}

type accountServiceFixture struct {
	repo      repositories.Repository
	issuer    *auth.TokenIssuer
	publisher *events.MockEventPublisher
	account   AccountService
}

func newAccountServiceFixture(t *testing.T) *accountServiceFixture {
	t.Helper()

	repo := newTestRepo(t)
	logger := testLogger()
	issuer := newTestTokenIssuer()
	publisher := events.NewMockEventPublisher(logger)

	require.NoError(t, NewRoleService(repo, logger).EnsureDefaultRoles(context.Background()))

	return &accountServiceFixture{
		repo:      repo,
		issuer:    issuer,
		publisher: publisher,
		account:   NewAccountService(repo, issuer, publisher, logger, validator.New()),
	}
}

func registerRequest() *models.RegisterRequest {
	return &models.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.edu",
		Password: "Str0ngP@ss!",
		UserRole: models.SelectorStudent,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newAccountServiceFixture(t)
	ctx := context.Background()

	resp, err := f.account.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.edu", resp.Email)
	assert.Equal(t, 1, resp.Status)
	assert.Equal(t, "Registration Successful", resp.Message)

	login, err := f.account.Login(ctx, &models.LoginRequest{
		Username: "alice",
		Password: "Str0ngP@ss!",
	}, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "alice", login.Username)
	assert.Equal(t, models.RoleStudent, login.UserRole)
	assert.True(t, login.Expiration.After(time.Now()))

	claims, err := f.issuer.Parse(login.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.NotEmpty(t, claims.UserID)

	count, err := f.repo.LoginAudit().CountByUser(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, events.UserRegistered, published[0].Type)
	assert.Equal(t, events.UserLoggedIn, published[1].Type)
	assert.Equal(t, models.RoleStudent, published[1].Role)
}

func TestRegisterDuplicate(t *testing.T) {
	f := newAccountServiceFixture(t)
	ctx := context.Background()

	_, err := f.account.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = f.account.Register(ctx, registerRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)

	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	require.Len(t, regErr.Messages, 2)
	assert.Contains(t, regErr.Messages[0], "already taken")
	assert.Contains(t, regErr.Messages[1], "already registered")

	_, total, err := f.repo.User().List(ctx, repositories.UserFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

// blindExistsRepo reports every username and email as free, standing in for a
// concurrent registration that commits between the existence checks and the
// insert.
type blindExistsRepo struct {
	repositories.Repository
}

func (r *blindExistsRepo) User() repositories.UserRepository {
	return &blindExistsUserRepo{UserRepository: r.Repository.User()}
}

func (r *blindExistsRepo) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.Repository.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		return fn(&blindExistsRepo{Repository: txRepo})
	})
}

type blindExistsUserRepo struct {
	repositories.UserRepository
}

func (u *blindExistsUserRepo) ExistsByUsername(context.Context, string) (bool, error) {
	return false, nil
}

func (u *blindExistsUserRepo) ExistsByEmail(context.Context, string) (bool, error) {
	return false, nil
}

func TestRegisterConcurrentDuplicate(t *testing.T) {
	f := newAccountServiceFixture(t)
	ctx := context.Background()

	_, err := f.account.Register(ctx, registerRequest())
	require.NoError(t, err)

	racing := NewAccountService(&blindExistsRepo{Repository: f.repo}, f.issuer, f.publisher, testLogger(), validator.New())

	_, err = racing.Register(ctx, registerRequest())
	require.Error(t, err)

	// The unique-index violation must degrade to the duplicate response, not
	// an internal failure.
	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, total, err := f.repo.User().List(ctx, repositories.UserFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestRegisterUnknownRoleSelector(t *testing.T) {
	f := newAccountServiceFixture(t)
	ctx := context.Background()

	req := registerRequest()
	req.UserRole = 7

	_, err := f.account.Register(ctx, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, total, err := f.repo.User().List(ctx, repositories.UserFilters{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRegisterCollectsPolicyViolations(t *testing.T) {
	f := newAccountServiceFixture(t)

	req := &models.RegisterRequest{
		Username: "a",
		Email:    "broken",
		Password: "weak",
		UserRole: 0,
	}

	_, err := f.account.Register(context.Background(), req)
	require.Error(t, err)

	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Len(t, regErr.Messages, 4)
}

func TestRegisterAssignsSelectedRole(t *testing.T) {
	f := newAccountServiceFixture(t)
	ctx := context.Background()

	tests := []struct {
		selector models.RoleSelector
		want     models.UserRole
	}{
		{selector: models.SelectorTeacher, want: models.RoleTeacher},
		{selector: models.SelectorStudent, want: models.RoleStudent},
		{selector: models.SelectorAdministrator, want: models.RoleAdministrator},
		{selector: models.SelectorSuperAdmin, want: models.RoleSuperAdmin},
	}

	for i, tt := range tests {
		req := &models.RegisterRequest{
			Username: fmt.Sprintf("user%d", i),
			Email:    fmt.Sprintf("user%d@example.edu", i),
			Password: "Str0ngP@ss!",
			UserRole: tt.selector,
		}
		_, err := f.account.Register(ctx, req)
		require.NoError(t, err)

		user, err := f.repo.User().GetByUsername(ctx, req.Username)
		require.NoError(t, err)

		role, ok := user.FirstRole()
		require.True(t, ok)
		assert.Equal(t, tt.want, role)
		assert.Len(t, user.Roles, 1)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	f := newAccountServiceFixture(t)

	_, err := f.account.Login(context.Background(), &models.LoginRequest{
		Username: "nobody",
		Password: "Str0ngP@ss!",
	}, "127.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAccountServiceFixture(t)
	ctx := context.Background()

	_, err := f.account.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = f.account.Login(ctx, &models.LoginRequest{
		Username: "alice",
		Password: "Wr0ngP@ss!",
	}, "127.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// A failed login must not leave an audit record.
	user, err := f.repo.User().GetByUsername(ctx, "alice")
	require.NoError(t, err)
	count, err := f.repo.LoginAudit().CountByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLoginUserWithoutRole(t *testing.T) {
	f := newAccountServiceFixture(t)
	ctx := context.Background()

	hash, err := auth.HashPassword("Str0ngP@ss!")
	require.NoError(t, err)
	require.NoError(t, f.repo.User().Create(ctx, &models.User{
		ID:           uuid.New().String(),
		Username:     "orphan",
		Email:        "orphan@example.edu",
		PasswordHash: hash,
	}))

	_, err = f.account.Login(ctx, &models.LoginRequest{
		Username: "orphan",
		Password: "Str0ngP@ss!",
	}, "127.0.0.1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRoleMissing))
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
}
