package rbac

import "context"

// Role is the slice of a stored role the resolver needs.
type Role struct {
	ID          int64
	Name        string
	Permissions []string
}

// Subject is a point-in-time snapshot of the user fields that feed resolution.
type Subject struct {
	UserID              int64
	RoleID              *int64
	PermissionsOverride []string
	IsSuperAdmin        bool
	IsActive            bool
}

// RoleLookup fetches a role by ID. The boolean is false when the role does not exist.
type RoleLookup interface {
	LookupRole(ctx context.Context, roleID int64) (Role, bool, error)
}

// RoleLookupFunc adapts a function to RoleLookup.
type RoleLookupFunc func(ctx context.Context, roleID int64) (Role, bool, error)

// LookupRole calls f.
func (f RoleLookupFunc) LookupRole(ctx context.Context, roleID int64) (Role, bool, error) {
	return f(ctx, roleID)
}

// SubjectLookup fetches the authorization-relevant fields of a user.
// The boolean is false when the user does not exist.
type SubjectLookup interface {
	LookupSubject(ctx context.Context, userID int64) (Subject, bool, error)
}
