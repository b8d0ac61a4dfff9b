// Package admin implements the administrative operations that change what a
// user is allowed to do: role assignment, permission overrides and the
// super-admin flag.
package admin

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/rbac"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/roles"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/shared"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/users"
)

// UserStore is the user persistence used by admin operations.
type UserStore interface {
	GetUser(ctx context.Context, id int64) (users.User, error)
	SetRole(ctx context.Context, id int64, roleID *int64) (users.User, error)
	SetPermissionsOverride(ctx context.Context, id int64, perms []string) (users.User, error)
	SetSuperAdmin(ctx context.Context, id int64, value bool) (users.User, error)
}

// RoleStore checks role existence before assignment.
type RoleStore interface {
	GetRole(ctx context.Context, id int64) (roles.Role, error)
}

// Resolver computes the effective permissions of a loaded subject.
type Resolver interface {
	ResolveSubject(ctx context.Context, subject rbac.Subject) (rbac.PermissionSet, error)
}

// Auditor records administrative changes.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// UserPermissions is a user together with its freshly resolved permissions.
type UserPermissions struct {
	User        users.User `json:"user"`
	Permissions []string   `json:"permissions"`
}

// Service performs admin mutations.
type Service struct {
	users    UserStore
	roles    RoleStore
	resolver Resolver
	audit    Auditor
	logger   *slog.Logger
}

// NewService constructs the admin service. audit may be nil.
func NewService(users UserStore, roles RoleStore, resolver Resolver, audit Auditor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, roles: roles, resolver: resolver, audit: audit, logger: logger}
}

// AssignRole sets or clears the user's role.
func (s *Service) AssignRole(ctx context.Context, actorID, userID int64, roleID *int64) (UserPermissions, error) {
	if roleID != nil {
		if _, err := s.roles.GetRole(ctx, *roleID); err != nil {
			return UserPermissions{}, err
		}
	}
	user, err := s.users.SetRole(ctx, userID, roleID)
	if err != nil {
		return UserPermissions{}, err
	}
	s.record(ctx, actorID, "user.role_assigned", userID, map[string]any{"role_id": roleID})
	return s.withPermissions(ctx, user)
}

// SetPermissionsOverride replaces the user's extra permissions after
// validating them against the catalog.
func (s *Service) SetPermissionsOverride(ctx context.Context, actorID, userID int64, perms []string) (UserPermissions, error) {
	cleaned := make([]string, 0, len(perms))
	seen := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		cleaned = append(cleaned, p)
	}
	if err := rbac.ValidatePermissions(cleaned); err != nil {
		return UserPermissions{}, err
	}
	user, err := s.users.SetPermissionsOverride(ctx, userID, cleaned)
	if err != nil {
		return UserPermissions{}, err
	}
	s.record(ctx, actorID, "user.permissions_set", userID, map[string]any{"permissions": cleaned})
	return s.withPermissions(ctx, user)
}

// SetSuperAdmin sets or clears the super-admin flag. An actor clearing its
// own flag is rejected with rbac.ErrSelfDemotionForbidden before any write.
func (s *Service) SetSuperAdmin(ctx context.Context, actorID, userID int64, value bool) (UserPermissions, error) {
	if actorID == userID && !value {
		return UserPermissions{}, rbac.ErrSelfDemotionForbidden
	}
	user, err := s.users.SetSuperAdmin(ctx, userID, value)
	if err != nil {
		return UserPermissions{}, err
	}
	s.record(ctx, actorID, "user.super_admin_set", userID, map[string]any{"is_super_admin": value})
	return s.withPermissions(ctx, user)
}

// GetUserPermissions returns the user and its resolved permission list.
func (s *Service) GetUserPermissions(ctx context.Context, userID int64) (UserPermissions, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return UserPermissions{}, err
	}
	return s.withPermissions(ctx, user)
}

func (s *Service) withPermissions(ctx context.Context, user users.User) (UserPermissions, error) {
	set, err := s.resolver.ResolveSubject(ctx, rbac.Subject{
		UserID:              user.ID,
		RoleID:              user.RoleID,
		PermissionsOverride: user.PermissionsOverride,
		IsSuperAdmin:        user.IsSuperAdmin,
		IsActive:            user.IsActive,
	})
	if err != nil {
		return UserPermissions{}, err
	}
	return UserPermissions{User: user, Permissions: set.List()}, nil
}

func (s *Service) record(ctx context.Context, actorID int64, action string, userID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "user",
		EntityID: strconv.FormatInt(userID, 10),
		Meta:     meta,
	})
	if err != nil {
		s.logger.Warn("audit record failed", slog.Any("error", err), slog.String("action", action), slog.Int64("user_id", userID))
	}
}
