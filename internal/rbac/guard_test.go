package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/rbac"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	readOnly := rbac.NewPermissionSet(rbac.PermUserRead)
	empty := rbac.NewPermissionSet()

	tests := []struct {
		name     string
		set      rbac.PermissionSet
		required []string
		mode     rbac.Mode
		allowed  bool
		missing  []string
	}{
		{"wildcard all", rbac.AllPermissions(), []string{rbac.PermAdminManage, rbac.PermBillingManage}, rbac.ModeAll, true, nil},
		{"wildcard any", rbac.AllPermissions(), []string{rbac.PermAdminManage}, rbac.ModeAny, true, nil},
		{"wildcard empty any", rbac.AllPermissions(), nil, rbac.ModeAny, true, nil},
		{"all partial", readOnly, []string{rbac.PermUserRead, rbac.PermUserCreate}, rbac.ModeAll, false, []string{rbac.PermUserCreate}},
		{"any partial", readOnly, []string{rbac.PermUserRead, rbac.PermUserCreate}, rbac.ModeAny, true, nil},
		{"any none", readOnly, []string{rbac.PermRoleRead, rbac.PermUserCreate}, rbac.ModeAny, false, []string{rbac.PermRoleRead, rbac.PermUserCreate}},
		{"single held", readOnly, []string{rbac.PermUserRead}, rbac.ModeAll, true, nil},
		{"empty all is vacuous", empty, []string{}, rbac.ModeAll, true, nil},
		{"empty any denies", empty, []string{}, rbac.ModeAny, false, nil},
		{"empty set non-empty all", empty, []string{rbac.PermReportView}, rbac.ModeAll, false, []string{rbac.PermReportView}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			decision := rbac.Authorize(tt.set, tt.required, tt.mode)
			assert.Equal(t, tt.allowed, decision.Allowed)
			if tt.allowed {
				assert.Equal(t, rbac.ReasonNone, decision.Reason)
				assert.NoError(t, decision.Err())
				return
			}
			assert.Equal(t, rbac.ReasonInsufficientPermission, decision.Reason)
			assert.ErrorIs(t, decision.Err(), rbac.ErrInsufficientPermission)
			assert.Equal(t, tt.missing, decision.Missing)
		})
	}
}

func TestAuthorize_ReasonsStayDistinct(t *testing.T) {
	t.Parallel()

	decision := rbac.Authorize(rbac.NewPermissionSet(), []string{rbac.PermUserRead}, rbac.ModeAll)
	assert.NotErrorIs(t, decision.Err(), rbac.ErrUnauthenticated)
	assert.NotEqual(t, rbac.ReasonFor(rbac.ErrUnauthenticated), decision.Reason)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "all", rbac.ModeAll.String())
	assert.Equal(t, "any", rbac.ModeAny.String())
	assert.Equal(t, "mode(7)", rbac.Mode(7).String())
}
