package events

import (
	"time"

	"github.com/academy-edu/auth-service/internal/models"
)

// AccountEventsTopic is the topic account lifecycle events are published to.
const AccountEventsTopic = "academy.account-events"

type EventType string

const (
	UserRegistered EventType = "user.registered"
	UserLoggedIn   EventType = "user.logged_in"
)

// AccountEvent is the payload published for account lifecycle events. It never
// carries credentials, only public identity attributes.
type AccountEvent struct {
	Type       EventType       `json:"type"`
	UserID     string          `json:"user_id"`
	Username   string          `json:"username"`
	Email      string          `json:"email,omitempty"`
	Role       models.UserRole `json:"role"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func NewAccountEvent(eventType EventType, user *models.User, role models.UserRole) AccountEvent {
	return AccountEvent{
		Type:       eventType,
		UserID:     user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Role:       role,
		OccurredAt: time.Now().UTC(),
	}
}
