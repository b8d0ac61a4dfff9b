package rbac_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/platform/httpx"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/rbac"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/shared"
)

type decisionLog struct {
	entries []string
}

func (d *decisionLog) RecordDecision(mode string, allowed bool, reason string) {
	outcome := "deny"
	if allowed {
		outcome = "allow"
	}
	d.entries = append(d.entries, mode+":"+outcome+":"+reason)
}

func newTestMiddleware(users *stubUsers, roles *stubRoles) (rbac.Middleware, *decisionLog) {
	log := &decisionLog{}
	return rbac.Middleware{Service: rbac.NewService(users, roles), Recorder: log}, log
}

func serve(t *testing.T, mw func(http.Handler) http.Handler, principal *shared.Principal) (*httptest.ResponseRecorder, bool, rbac.PermissionSet) {
	t.Helper()
	var reached bool
	var seen rbac.PermissionSet
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		seen, _ = rbac.PermissionsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	if principal != nil {
		req = req.WithContext(shared.ContextWithPrincipal(req.Context(), *principal))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, reached, seen
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) httpx.ProblemDetail {
	t.Helper()
	var problem httpx.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestMiddleware(t *testing.T) {
	users := &stubUsers{subjects: map[int64]rbac.Subject{
		1: {UserID: 1, IsActive: true, RoleID: roleID(10), PermissionsOverride: []string{rbac.PermBillingView}},
		2: {UserID: 2, IsActive: true, IsSuperAdmin: true},
		3: {UserID: 3, IsActive: false, IsSuperAdmin: true},
	}}
	roles := newStubRoles(rbac.Role{ID: 10, Name: "viewer", Permissions: []string{rbac.PermUserRead}})

	t.Run("no principal is unauthenticated and skips resolution", func(t *testing.T) {
		mw, log := newTestMiddleware(users, roles)
		before := roles.callCount()
		rec, reached, _ := serve(t, mw.Require(rbac.PermUserRead), nil)

		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "unauthenticated", decodeProblem(t, rec).Reason)
		assert.Equal(t, before, roles.callCount())
		assert.Equal(t, []string{"all:deny:unauthenticated"}, log.entries)
	})

	t.Run("allowed request forwards resolved set", func(t *testing.T) {
		mw, log := newTestMiddleware(users, roles)
		rec, reached, seen := serve(t, mw.RequireAll(rbac.PermUserRead, rbac.PermBillingView), &shared.Principal{UserID: 1})

		assert.True(t, reached)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, []string{rbac.PermBillingView, rbac.PermUserRead}, seen.List())
		assert.Equal(t, []string{"all:allow:"}, log.entries)
	})

	t.Run("missing permission is forbidden", func(t *testing.T) {
		mw, log := newTestMiddleware(users, roles)
		rec, reached, _ := serve(t, mw.Require(rbac.PermAdminManage), &shared.Principal{UserID: 1})

		assert.False(t, reached)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "insufficient_permission", decodeProblem(t, rec).Reason)
		assert.Equal(t, []string{"all:deny:insufficient_permission"}, log.entries)
	})

	t.Run("any mode accepts one match", func(t *testing.T) {
		mw, _ := newTestMiddleware(users, roles)
		rec, reached, _ := serve(t, mw.RequireAny(rbac.PermAdminManage, rbac.PermUserRead), &shared.Principal{UserID: 1})
		assert.True(t, reached)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("super admin passes everything", func(t *testing.T) {
		mw, _ := newTestMiddleware(users, roles)
		rec, reached, seen := serve(t, mw.RequireAll(rbac.PermAdminManage, rbac.PermBillingManage), &shared.Principal{UserID: 2})
		assert.True(t, reached)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, seen.IsAll())
	})

	t.Run("inactive or unknown user is unauthenticated", func(t *testing.T) {
		mw, _ := newTestMiddleware(users, roles)
		for _, id := range []int64{3, 99} {
			rec, reached, _ := serve(t, mw.Require(rbac.PermUserRead), &shared.Principal{UserID: id})
			assert.False(t, reached)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "unauthenticated", decodeProblem(t, rec).Reason)
		}
	})

	t.Run("role store outage is a resolution failure", func(t *testing.T) {
		broken := newStubRoles()
		broken.err = errors.New("redis: connection refused")
		mw, log := newTestMiddleware(users, broken)

		rec, reached, _ := serve(t, mw.Require(rbac.PermUserRead), &shared.Principal{UserID: 1})
		assert.False(t, reached)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "resolution_failed", decodeProblem(t, rec).Reason)
		assert.Equal(t, []string{"all:deny:resolution_failed"}, log.entries)
	})

	t.Run("user store outage is a resolution failure", func(t *testing.T) {
		mw, _ := newTestMiddleware(&stubUsers{err: context.DeadlineExceeded}, roles)
		rec, reached, _ := serve(t, mw.Require(rbac.PermUserRead), &shared.Principal{UserID: 1})
		assert.False(t, reached)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "resolution_failed", decodeProblem(t, rec).Reason)
	})

	t.Run("duplicate requirement entries collapse", func(t *testing.T) {
		mw, _ := newTestMiddleware(users, roles)
		rec, reached, _ := serve(t, mw.RequireAll(rbac.PermUserRead, " "+rbac.PermUserRead), &shared.Principal{UserID: 1})
		assert.True(t, reached)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestMiddlewareRejectsMalformedRequirements(t *testing.T) {
	mw, _ := newTestMiddleware(&stubUsers{}, newStubRoles())

	assert.Panics(t, func() { mw.Require("") })
	assert.Panics(t, func() { mw.RequireAll("  ") })
	assert.Panics(t, func() { mw.RequireAll(rbac.PermUserRead, "") })
	assert.Panics(t, func() { mw.RequireAny() })
	assert.Panics(t, func() { mw.RequireAll() })
	assert.Panics(t, func() { mw.Require("user.raed") })
	assert.NotPanics(t, func() { mw.RequireAny(rbac.PermUserRead, rbac.Wildcard) })
}
