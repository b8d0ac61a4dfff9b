package rbac

import (
	"context"
	"fmt"
)

// Service binds the resolver to the user and role stores.
type Service struct {
	users SubjectLookup
	roles RoleLookup
}

// NewService constructs a Service.
func NewService(users SubjectLookup, roles RoleLookup) *Service {
	return &Service{users: users, roles: roles}
}

// EffectivePermissions loads the user and resolves its permission set.
// A missing or inactive user yields ErrUnauthenticated; a store failure
// yields an error wrapping ErrResolutionFailed.
func (s *Service) EffectivePermissions(ctx context.Context, userID int64) (PermissionSet, error) {
	subject, found, err := s.users.LookupSubject(ctx, userID)
	if err != nil {
		return PermissionSet{}, fmt.Errorf("%w: lookup user %d: %w", ErrResolutionFailed, userID, err)
	}
	if !found || !subject.IsActive {
		return PermissionSet{}, ErrUnauthenticated
	}
	return Resolve(ctx, subject, s.roles)
}

// ResolveSubject resolves an already loaded subject.
func (s *Service) ResolveSubject(ctx context.Context, subject Subject) (PermissionSet, error) {
	return Resolve(ctx, subject, s.roles)
}

// Check resolves the user's permissions and authorizes them against perms.
func (s *Service) Check(ctx context.Context, userID int64, mode Mode, perms ...string) (Decision, error) {
	set, err := s.EffectivePermissions(ctx, userID)
	if err != nil {
		return Decision{}, err
	}
	return Authorize(set, perms, mode), nil
}
