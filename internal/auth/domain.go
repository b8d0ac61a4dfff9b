package auth

import "time"

// User represents an authenticated user account.
type User struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	PasswordHash        string    `json:"-"`
	RoleID              *int64    `json:"roleId"`
	PermissionsOverride []string  `json:"permissionsOverride"`
	IsSuperAdmin        bool      `json:"isSuperAdmin"`
	IsActive            bool      `json:"isActive"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// RegisterInput is the self-registration payload.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginInput carries email/password credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput carries a refresh token.
type RefreshInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Session is returned by register, login, refresh and me. Permissions is the
// caller's resolved set so clients can gate UI without another round trip.
type Session struct {
	User         User     `json:"user"`
	Permissions  []string `json:"permissions"`
	AccessToken  string   `json:"accessToken,omitempty"`
	RefreshToken string   `json:"refreshToken,omitempty"`
}
