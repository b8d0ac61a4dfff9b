package rbac

import (
	"context"
	"fmt"
)

// Resolve computes the effective permission set for subject.
//
// Super-admins short-circuit to the wildcard set without touching roles. A
// wildcard in the role permissions or in the overrides also collapses the
// result to the wildcard set. Overrides are additive: they can grant beyond
// the role but never revoke a role permission. A role reference that no
// longer resolves contributes nothing.
//
// A failing lookup, including a cancelled or expired ctx, returns an error
// wrapping ErrResolutionFailed; it never degrades to an empty or full set.
func Resolve(ctx context.Context, subject Subject, roles RoleLookup) (PermissionSet, error) {
	if subject.IsSuperAdmin {
		return AllPermissions(), nil
	}

	var effective PermissionSet
	if subject.RoleID != nil {
		if roles == nil {
			return PermissionSet{}, fmt.Errorf("%w: role lookup not configured", ErrResolutionFailed)
		}
		role, found, err := roles.LookupRole(ctx, *subject.RoleID)
		if err != nil {
			return PermissionSet{}, fmt.Errorf("%w: lookup role %d: %w", ErrResolutionFailed, *subject.RoleID, err)
		}
		if found {
			for _, p := range role.Permissions {
				if p == Wildcard {
					return AllPermissions(), nil
				}
				effective.add(p)
			}
		}
	}

	for _, p := range subject.PermissionsOverride {
		if p == Wildcard {
			return AllPermissions(), nil
		}
		effective.add(p)
	}

	if effective.perms == nil {
		effective.perms = map[string]struct{}{}
	}
	return effective, nil
}
