package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/platform/httpx"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/rbac"
)

func newTestRouter(t *testing.T, repo *stubRepo) (http.Handler, *Service) {
	t.Helper()
	svc := newTestService(t, repo)
	r := chi.NewRouter()
	r.Route("/api/auth", NewHandler(nil, svc).MountRoutes)
	return r, svc
}

func send(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerLoginAndMe(t *testing.T) {
	repo := newStubRepo(&User{ID: 1, Name: "Ada", Email: "ada@example.com", PasswordHash: hashPassword(t, "secret1"), IsActive: true, RoleID: roleID(3)})
	router, _ := newTestRouter(t, repo)

	rec := send(router, http.MethodPost, "/api/auth/login", "", `{"email":"ada@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Status string  `json:"status"`
		Data   Session `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Equal(t, "success", login.Status)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
	require.NotEmpty(t, login.Data.AccessToken)

	rec = send(router, http.MethodGet, "/api/auth/me", login.Data.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		Data Session `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, int64(1), me.Data.User.ID)
	assert.True(t, rbac.Can(me.Data.Permissions, rbac.PermReportView))
	assert.False(t, rbac.Can(me.Data.Permissions, rbac.PermReportDownload))
}

func TestHandlerRejectsBadCredentials(t *testing.T) {
	repo := newStubRepo(&User{ID: 1, Email: "ada@example.com", PasswordHash: hashPassword(t, "secret1"), IsActive: true})
	router, _ := newTestRouter(t, repo)

	rec := send(router, http.MethodPost, "/api/auth/login", "", `{"email":"ada@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = send(router, http.MethodPost, "/api/auth/login", "", `{"email":"not-an-email","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = send(router, http.MethodPost, "/api/auth/register", "", `{"name":"x","email":"x@example.com","password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthenticateMiddleware(t *testing.T) {
	repo := newStubRepo(&User{ID: 1, Email: "ada@example.com", IsActive: true})
	router, svc := newTestRouter(t, repo)

	for name, token := range map[string]string{
		"missing": "",
		"garbage": "abc.def.ghi",
	} {
		t.Run(name, func(t *testing.T) {
			rec := send(router, http.MethodGet, "/api/auth/me", token, "")
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			var problem httpx.ProblemDetail
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, "unauthenticated", problem.Reason)
		})
	}

	t.Run("refresh token is not an access token", func(t *testing.T) {
		refresh, err := svc.tokens.Issue(1, TokenRefresh)
		require.NoError(t, err)
		rec := send(router, http.MethodGet, "/api/auth/me", refresh, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("inactive user", func(t *testing.T) {
		token, err := svc.tokens.Issue(1, TokenAccess)
		require.NoError(t, err)
		repo.users[1].IsActive = false
		rec := send(router, http.MethodGet, "/api/auth/me", token, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
