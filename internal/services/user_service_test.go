package services

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/academy-edu/auth-service/internal/models"
	"github.com/academy-edu/auth-service/internal/repositories"
)

func seedUsers(t *testing.T, f *accountServiceFixture, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		req := &models.RegisterRequest{
			Username: fmt.Sprintf("student%02d", i),
			Email:    fmt.Sprintf("student%02d@example.edu", i),
			Password: "Str0ngP@ss!",
			UserRole: models.SelectorStudent,
		}
		_, err := f.account.Register(context.Background(), req)
		require.NoError(t, err)
	}
}

func TestUserServiceGetByID(t *testing.T) {
	f := newAccountServiceFixture(t)
	svc := NewUserService(f.repo, testLogger())
	ctx := context.Background()

	_, err := f.account.Register(ctx, registerRequest())
	require.NoError(t, err)

	created, err := f.repo.User().GetByUsername(ctx, "alice")
	require.NoError(t, err)

	user, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Len(t, user.Roles, 1)

	_, err = svc.GetByID(ctx, "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserServiceList(t *testing.T) {
	f := newAccountServiceFixture(t)
	svc := NewUserService(f.repo, testLogger())
	ctx := context.Background()

	seedUsers(t, f, 12)

	// Default page size applies when no limit is given.
	resp, err := svc.List(ctx, repositories.UserFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.Total)
	assert.Len(t, resp.Users, 10)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 10, resp.Size)

	resp, err = svc.List(ctx, repositories.UserFilters{Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, 2, resp.Page)

	// Usernames come back sorted.
	assert.Equal(t, "student10", resp.Users[0].Username)
	assert.Equal(t, "student11", resp.Users[1].Username)
}

func TestUserServiceListByRole(t *testing.T) {
	f := newAccountServiceFixture(t)
	svc := NewUserService(f.repo, testLogger())
	ctx := context.Background()

	seedUsers(t, f, 2)
	_, err := f.account.Register(ctx, &models.RegisterRequest{
		Username: "prof",
		Email:    "prof@example.edu",
		Password: "Str0ngP@ss!",
		UserRole: models.SelectorTeacher,
	})
	require.NoError(t, err)

	resp, err := svc.List(ctx, repositories.UserFilters{Role: string(models.RoleTeacher)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "prof", resp.Users[0].Username)
}

func TestUserServiceListByQuery(t *testing.T) {
	f := newAccountServiceFixture(t)
	svc := NewUserService(f.repo, testLogger())
	ctx := context.Background()

	seedUsers(t, f, 3)

	resp, err := svc.List(ctx, repositories.UserFilters{Query: "student01"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "student01", resp.Users[0].Username)

	// Matching is case-insensitive and covers the email column too.
	resp, err = svc.List(ctx, repositories.UserFilters{Query: "STUDENT02@EXAMPLE"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "student02", resp.Users[0].Username)

	resp, err = svc.List(ctx, repositories.UserFilters{Query: "no-such-user"})
	require.NoError(t, err)
	assert.Zero(t, resp.Total)
	assert.Empty(t, resp.Users)
}

func TestExportRoster(t *testing.T) {
	f := newAccountServiceFixture(t)
	svc := NewUserService(f.repo, testLogger())
	ctx := context.Background()

	seedUsers(t, f, 2)

	data, err := svc.ExportRoster(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows("Users")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Username", "Email", "Role", "Registered At"}, rows[0])
	assert.Equal(t, "student00", rows[1][0])
	assert.Equal(t, "Student", rows[1][2])
}
