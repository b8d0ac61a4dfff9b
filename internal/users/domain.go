package users

import "time"

// User represents a user account for management.
type User struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	RoleID              *int64    `json:"roleId"`
	PermissionsOverride []string  `json:"permissionsOverride"`
	IsSuperAdmin        bool      `json:"isSuperAdmin"`
	IsActive            bool      `json:"isActive"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// UpdateUserInput carries a partial profile update; nil fields are left unchanged.
// Role, overrides and the super-admin flag are only changed through admin operations.
type UpdateUserInput struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=120"`
	Email    *string `json:"email" validate:"omitempty,email,max=254"`
	IsActive *bool   `json:"isActive"`
}
