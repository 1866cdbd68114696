package models

import (
	"time"

	"gorm.io/datatypes"
)

// LoginAudit records one row per successful login. It is written inside the
// login transaction, so a failed token issuance leaves no audit row behind.
type LoginAudit struct {
	ID       uint           `json:"id" gorm:"primaryKey"`
	UserID   string         `json:"user_id" gorm:"index;not null;size:36"`
	Username string         `json:"username" gorm:"not null;size:100"`
	Details  datatypes.JSON `json:"details"`

	CreatedAt time.Time `json:"created_at"`
}

func (LoginAudit) TableName() string {
	return "login_audits"
}

// LoginAuditDetails is the JSON payload stored in LoginAudit.Details.
type LoginAuditDetails struct {
	Role     string `json:"role"`
	TokenID  string `json:"token_id"`
	ClientIP string `json:"client_ip,omitempty"`
}
