package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academy-edu/auth-service/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewAccountEvent(t *testing.T) {
	user := &models.User{
		ID:       "u1",
		Username: "alice",
		Email:    "alice@example.edu",
	}

	event := NewAccountEvent(UserRegistered, user, models.RoleStudent)

	assert.Equal(t, UserRegistered, event.Type)
	assert.Equal(t, "u1", event.UserID)
	assert.Equal(t, "alice", event.Username)
	assert.Equal(t, "alice@example.edu", event.Email)
	assert.Equal(t, models.RoleStudent, event.Role)
	assert.WithinDuration(t, time.Now().UTC(), event.OccurredAt, 5*time.Second)
}

func TestAccountEventNeverCarriesCredentials(t *testing.T) {
	user := &models.User{
		ID:           "u1",
		Username:     "alice",
		PasswordHash: "$2a$10$secret",
	}

	payload, err := json.Marshal(NewAccountEvent(UserLoggedIn, user, models.RoleStudent))
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "secret")
}

func TestGoChannelPublisher(t *testing.T) {
	publisher := NewGoChannelEventPublisher(testLogger())

	user := &models.User{ID: "u1", Username: "alice"}
	err := publisher.PublishAccountEvent(context.Background(), NewAccountEvent(UserRegistered, user, models.RoleStudent))
	assert.NoError(t, err)

	assert.NoError(t, publisher.Close())
}

func TestMockPublisherRecordsEvents(t *testing.T) {
	mock := NewMockEventPublisher(testLogger())
	ctx := context.Background()

	user := &models.User{ID: "u1", Username: "alice"}
	require.NoError(t, mock.PublishAccountEvent(ctx, NewAccountEvent(UserRegistered, user, models.RoleStudent)))
	require.NoError(t, mock.PublishAccountEvent(ctx, NewAccountEvent(UserLoggedIn, user, models.RoleStudent)))

	events := mock.GetPublishedEvents()
	require.Len(t, events, 2)
	assert.Equal(t, UserRegistered, events[0].Type)
	assert.Equal(t, UserLoggedIn, events[1].Type)
}
