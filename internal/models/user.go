package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdministrator UserRole = "Administrator"
	RoleTeacher       UserRole = "Teacher"
	RoleStudent       UserRole = "Student"
	RoleSuperAdmin    UserRole = "SuperAdmin"
)

// DefaultRoles is the closed set of roles provisioned at startup.
var DefaultRoles = []UserRole{
	RoleAdministrator,
	RoleTeacher,
	RoleStudent,
	RoleSuperAdmin,
}

// RoleSelector is the integer role discriminator accepted by the registration
// endpoint. The mapping is total: selectors outside the table are rejected.
type RoleSelector int

const (
	SelectorTeacher       RoleSelector = 1
	SelectorStudent       RoleSelector = 2
	SelectorAdministrator RoleSelector = 3
	SelectorSuperAdmin    RoleSelector = 4
)

var roleSelectors = map[RoleSelector]UserRole{
	SelectorTeacher:       RoleTeacher,
	SelectorStudent:       RoleStudent,
	SelectorAdministrator: RoleAdministrator,
	SelectorSuperAdmin:    RoleSuperAdmin,
}

// RoleFromSelector resolves a registration role selector to a role name.
func RoleFromSelector(selector RoleSelector) (UserRole, bool) {
	role, ok := roleSelectors[selector]
	return role, ok
}

type User struct {
	ID           string `json:"id" gorm:"primaryKey;size:36"`
	Username     string `json:"username" gorm:"uniqueIndex;not null;size:100"`
	Email        string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string `json:"-" gorm:"not null;size:255"`

	Roles []Role `json:"roles" gorm:"many2many:user_roles"`

	// Status
	EmailVerified bool `json:"email_verified" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// FirstRole returns the user's single assigned role. The second return value
// is false when the role set is empty, which means the registration invariant
// was violated upstream.
func (u *User) FirstRole() (UserRole, bool) {
	if len(u.Roles) == 0 {
		return "", false
	}
	return UserRole(u.Roles[0].Name), true
}

type Role struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:50"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Role) TableName() string {
	return "roles"
}
