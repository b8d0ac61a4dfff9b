package roles

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/rbac"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/shared"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	CreateRole(ctx context.Context, role Role) (Role, error)
	UpdateRole(ctx context.Context, role Role) (Role, error)
	DeleteRole(ctx context.Context, id int64) error
}

// Invalidator drops cached copies of a role.
type Invalidator interface {
	Invalidate(ctx context.Context, id int64) error
}

// Service orchestrates role management.
type Service struct {
	store RepositoryPort
	cache Invalidator
}

// NewService constructs the service. cache may be nil.
func NewService(store RepositoryPort, cache Invalidator) *Service {
	return &Service{store: store, cache: cache}
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	roles, err := s.store.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []Role{}
	}
	return roles, nil
}

// GetRole fetches a role by ID.
func (s *Service) GetRole(ctx context.Context, id int64) (Role, error) {
	return s.store.GetRole(ctx, id)
}

// CreateRole validates and stores a new role.
func (s *Service) CreateRole(ctx context.Context, in CreateRoleInput) (Role, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return Role{}, err
	}
	perms, err := normalizePermissions(in.Permissions)
	if err != nil {
		return Role{}, err
	}
	return s.store.CreateRole(ctx, Role{Name: name, Description: strings.TrimSpace(in.Description), Permissions: perms})
}

// UpdateRole applies a partial update. The cached copy is invalidated before
// the write, so an unreachable cache aborts the update, and again after it so
// the next resolution observes the change.
func (s *Service) UpdateRole(ctx context.Context, id int64, in UpdateRoleInput) (Role, error) {
	role, err := s.store.GetRole(ctx, id)
	if err != nil {
		return Role{}, err
	}
	if in.Name != nil {
		if role.Name, err = normalizeName(*in.Name); err != nil {
			return Role{}, err
		}
	}
	if in.Description != nil {
		role.Description = strings.TrimSpace(*in.Description)
	}
	if in.Permissions != nil {
		if role.Permissions, err = normalizePermissions(in.Permissions); err != nil {
			return Role{}, err
		}
	}
	if err := s.invalidate(ctx, id); err != nil {
		return Role{}, err
	}
	updated, err := s.store.UpdateRole(ctx, role)
	if err != nil {
		return Role{}, err
	}
	if err := s.invalidate(ctx, id); err != nil {
		return Role{}, err
	}
	return updated, nil
}

// DeleteRole removes a role and invalidates its cached copy.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	if err := s.invalidate(ctx, id); err != nil {
		return err
	}
	if err := s.store.DeleteRole(ctx, id); err != nil {
		return err
	}
	return s.invalidate(ctx, id)
}

func (s *Service) invalidate(ctx context.Context, id int64) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, id)
}

// normalizeName trims and lowercases a role name.
func normalizeName(name string) (string, error) {
	name = cases.Lower(language.Und).String(strings.TrimSpace(name))
	if name == "" {
		return "", fmt.Errorf("role name is required: %w", shared.ErrValidation)
	}
	return name, nil
}

func normalizePermissions(perms []string) ([]string, error) {
	out := make([]string, 0, len(perms))
	seen := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if err := rbac.ValidatePermissions(out); err != nil {
		return nil, err
	}
	return out, nil
}
