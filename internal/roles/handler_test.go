package roles

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/rbac"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/shared"
)

type subjectsByID map[int64]rbac.Subject

func (s subjectsByID) LookupSubject(ctx context.Context, id int64) (rbac.Subject, bool, error) {
	subject, ok := s[id]
	return subject, ok, nil
}

const (
	readerID int64 = 1
	adminID  int64 = 2
)

func newTestRouter(t *testing.T, repo *mockRepo) http.Handler {
	t.Helper()
	subjects := subjectsByID{
		readerID: {UserID: readerID, IsActive: true, PermissionsOverride: []string{rbac.PermRoleRead}},
		adminID:  {UserID: adminID, IsActive: true, IsSuperAdmin: true},
	}
	mw := rbac.Middleware{Service: rbac.NewService(subjects, repo)}
	h := NewHandler(nil, NewService(repo, nil), mw)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if id := req.Header.Get("X-Test-User"); id != "" {
				userID := readerID
				if id == "admin" {
					userID = adminID
				}
				req = req.WithContext(shared.ContextWithPrincipal(req.Context(), shared.Principal{UserID: userID}))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/api/roles", h.MountRoutes)
	return r
}

func doRequest(router http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerListRoles(t *testing.T) {
	router := newTestRouter(t, newMockRepo(Role{ID: 1, Name: "viewer", Permissions: []string{rbac.PermUserRead}}))

	rec := doRequest(router, http.MethodGet, "/api/roles", "reader", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  string `json:"status"`
		Results int    `json:"results"`
		Data    struct {
			Roles []Role `json:"roles"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, 1, body.Results)
	assert.Equal(t, "viewer", body.Data.Roles[0].Name)

	rec = doRequest(router, http.MethodGet, "/api/roles", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerCreateRoleRequiresPermission(t *testing.T) {
	router := newTestRouter(t, newMockRepo())
	payload := `{"name":"Auditor","permissions":["report.view","report.download"]}`

	rec := doRequest(router, http.MethodPost, "/api/roles", "reader", payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient_permission")

	rec = doRequest(router, http.MethodPost, "/api/roles", "admin", payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"auditor"`)

	rec = doRequest(router, http.MethodPost, "/api/roles", "admin", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandlerRejectsUnknownPermission(t *testing.T) {
	router := newTestRouter(t, newMockRepo(Role{ID: 1, Name: "viewer"}))

	rec := doRequest(router, http.MethodPost, "/api/roles", "admin", `{"name":"ops","permissions":["ops.deploy"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(router, http.MethodPatch, "/api/roles/1", "admin", `{"permissions":["ops.deploy"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerUpdateAndDeleteRole(t *testing.T) {
	repo := newMockRepo(Role{ID: 1, Name: "viewer", Permissions: []string{rbac.PermUserRead}})
	router := newTestRouter(t, repo)

	rec := doRequest(router, http.MethodPatch, "/api/roles/1", "admin", `{"permissions":["user.read","user.update"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	stored, err := repo.GetRole(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{rbac.PermUserRead, rbac.PermUserUpdate}, stored.Permissions)

	rec = doRequest(router, http.MethodDelete, "/api/roles/1", "reader", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(router, http.MethodDelete, "/api/roles/1", "admin", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/roles/1", "admin", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/roles/abc", "admin", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
