package rbac

import "context"

type permissionsContextKey struct{}

// ContextWithPermissions stores the resolved set for downstream handlers.
func ContextWithPermissions(ctx context.Context, set PermissionSet) context.Context {
	return context.WithValue(ctx, permissionsContextKey{}, set)
}

// PermissionsFromContext returns the set stored by Middleware.
func PermissionsFromContext(ctx context.Context) (PermissionSet, bool) {
	set, ok := ctx.Value(permissionsContextKey{}).(PermissionSet)
	return set, ok
}
