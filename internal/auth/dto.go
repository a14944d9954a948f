// AngelaMos | 2026
// dto.go

package auth

import (
	"strings"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

// SignupRequest accepts the display name as either userName or name.
type SignupRequest struct {
	UserName  string `json:"userName"  validate:"omitempty,min=3,max=20"`
	Name      string `json:"name"      validate:"omitempty,min=3,max=20"`
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName"  validate:"max=50"`
	Email     string `json:"email"     validate:"required,email,max=255"`
	Password  string `json:"password"  validate:"required,min=6,max=128"`
}

func (r *SignupRequest) Normalize() {
	if r.UserName == "" {
		r.UserName = r.Name
	}
	r.UserName = strings.TrimSpace(r.UserName)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = normalizeEmail(r.Email)
}

type GoogleAuthRequest struct {
	IDToken    string `json:"id_token"`
	IDTokenAlt string `json:"idToken"`
}

func (r GoogleAuthRequest) Token() string {
	if r.IDToken != "" {
		return r.IDToken
	}
	return r.IDTokenAlt
}

type AuthResponse struct {
	ID        string `json:"_id"`
	UserName  string `json:"userName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsBanned  bool   `json:"isBanned"`
	Token     string `json:"token"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
