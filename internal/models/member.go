package models

import (
	"fmt"
	"strings"
	"time"
)

// Member represents a registered member account
type Member struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}

// RegisterRequest is the payload for POST /api/user
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the registration payload
func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !looksLikeEmail(r.Email) {
		return fmt.Errorf("a valid email is required")
	}
	if len(r.Password) < 4 {
		return fmt.Errorf("password must be at least 4 characters")
	}
	return nil
}

// SignInRequest is the payload for PUT /api/user/auth
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the sign-in payload
func (r *SignInRequest) Validate() error {
	if !looksLikeEmail(r.Email) {
		return fmt.Errorf("a valid email is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	return strings.Contains(s[at+1:], ".")
}
