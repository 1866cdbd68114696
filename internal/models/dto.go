package models

import "time"

// ===== ACCOUNT REQUESTS =====

type RegisterRequest struct {
	Username string       `json:"username" validate:"required,account_username"`
	Email    string       `json:"email" validate:"required,email,max=255"`
	Password string       `json:"password" validate:"required,strong_password"`
	UserRole RoleSelector `json:"userRole"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ===== ACCOUNT RESPONSES =====

type RegisterResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Status   int    `json:"status"`
	Message  string `json:"message"`
}

type LoginResponse struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
	Username   string    `json:"username"`
	UserRole   UserRole  `json:"userRole"`
}

// LoginErrorResponse is the body returned for failed credential checks. It is
// deliberately generic and does not say which part of the credential was wrong.
type LoginErrorResponse struct {
	LoginError string `json:"LoginError"`
}

// ===== USER LISTING =====

type UserListResponse struct {
	Users []*User `json:"users"`
	Total int64   `json:"total"`
	Page  int     `json:"page"`
	Size  int     `json:"size"`
}
