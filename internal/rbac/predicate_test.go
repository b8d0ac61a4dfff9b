package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/rbac"
)

func TestPredicates(t *testing.T) {
	perms := []string{rbac.PermUserRead, rbac.PermReportView}

	assert.True(t, rbac.Can(perms, rbac.PermUserRead))
	assert.False(t, rbac.Can(perms, rbac.PermUserDelete))
	assert.True(t, rbac.Can([]string{rbac.Wildcard}, rbac.PermUserDelete))
	assert.False(t, rbac.Can(nil, rbac.PermUserRead))

	assert.True(t, rbac.CanAny(perms, rbac.PermUserDelete, rbac.PermReportView))
	assert.False(t, rbac.CanAny(perms, rbac.PermUserDelete, rbac.PermBillingView))
	assert.False(t, rbac.CanAny(perms))
	assert.False(t, rbac.CanAny(nil, rbac.PermUserRead))
	assert.True(t, rbac.CanAny([]string{rbac.Wildcard}))

	assert.True(t, rbac.CanAll(perms, rbac.PermUserRead, rbac.PermReportView))
	assert.False(t, rbac.CanAll(perms, rbac.PermUserRead, rbac.PermBillingView))
	assert.True(t, rbac.CanAll(perms))
	assert.True(t, rbac.CanAll([]string{}))
	assert.False(t, rbac.CanAll(nil))
}

func TestPredicatesMatchGuard(t *testing.T) {
	perms := []string{rbac.PermRoleRead, rbac.PermRoleUpdate}
	set := rbac.NewPermissionSet(perms...)
	for _, required := range [][]string{
		{},
		{rbac.PermRoleRead},
		{rbac.PermRoleRead, rbac.PermRoleDelete},
		{rbac.PermAdminManage},
	} {
		assert.Equal(t, rbac.Authorize(set, required, rbac.ModeAll).Allowed, rbac.CanAll(perms, required...))
		assert.Equal(t, rbac.Authorize(set, required, rbac.ModeAny).Allowed, rbac.CanAny(perms, required...))
	}
}

func TestPredicatesNilListNeverGrants(t *testing.T) {
	var unloaded []string
	loaded := []string{}

	assert.False(t, rbac.CanAll(unloaded))
	assert.False(t, rbac.CanAny(unloaded))
	assert.False(t, rbac.Can(unloaded, rbac.Wildcard))

	assert.True(t, rbac.CanAll(loaded))
	assert.False(t, rbac.CanAny(loaded))
	assert.Equal(t, rbac.Authorize(rbac.NewPermissionSet(loaded...), nil, rbac.ModeAll).Allowed, rbac.CanAll(loaded))
}
