package rbac_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/rbac"
)

func TestService_ConcurrentChecks(t *testing.T) {
	t.Parallel()

	roles := newStubRoles(
		rbac.Role{ID: 1, Permissions: []string{rbac.PermUserRead, rbac.PermReportView}},
		rbac.Role{ID: 2, Permissions: []string{rbac.Wildcard}},
	)
	users := &stubUsers{subjects: map[int64]rbac.Subject{
		1: {UserID: 1, IsActive: true, RoleID: roleID(1)},
		2: {UserID: 2, IsActive: true, RoleID: roleID(2)},
		3: {UserID: 3, IsActive: true, PermissionsOverride: []string{rbac.PermBillingView}},
	}}
	svc := rbac.NewService(users, roles)

	const numGoroutines = 50
	const numOperations = 200

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			ctx := context.Background()
			for j := 0; j < numOperations; j++ {
				switch (id + j) % 4 {
				case 0:
					d, err := svc.Check(ctx, 1, rbac.ModeAll, rbac.PermUserRead, rbac.PermReportView)
					assert.NoError(t, err)
					assert.True(t, d.Allowed)
				case 1:
					d, err := svc.Check(ctx, 1, rbac.ModeAll, rbac.PermAdminManage)
					assert.NoError(t, err)
					assert.False(t, d.Allowed)
				case 2:
					d, err := svc.Check(ctx, 2, rbac.ModeAny, rbac.PermBillingManage)
					assert.NoError(t, err)
					assert.True(t, d.Allowed)
				case 3:
					d, err := svc.Check(ctx, 3, rbac.ModeAny, rbac.PermBillingView, rbac.PermUserRead)
					assert.NoError(t, err)
					assert.True(t, d.Allowed)
				}
			}
		}(i)
	}
	wg.Wait()
}
