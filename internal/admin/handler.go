package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/platform/httpx"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/rbac"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/shared"
)

type assignRoleRequest struct {
	UserID int64  `json:"userId" validate:"required,gt=0"`
	RoleID *int64 `json:"roleId" validate:"omitempty,gt=0"`
}

type setPermissionsRequest struct {
	UserID      int64    `json:"userId" validate:"required,gt=0"`
	Permissions []string `json:"permissions" validate:"dive,permission"`
}

type setSuperAdminRequest struct {
	UserID       int64 `json:"userId" validate:"required,gt=0"`
	IsSuperAdmin *bool `json:"isSuperAdmin" validate:"required"`
}

// Handler exposes admin endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	rbac     rbac.Middleware
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, rbac: mw, validate: rbac.NewValidator()}
}

// MountRoutes registers admin routes. Every route requires admin.manage.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.rbac.Require(rbac.PermAdminManage))
	r.Post("/assign-role", h.assignRole)
	r.Post("/set-permissions", h.setPermissions)
	r.Post("/set-super-admin", h.setSuperAdmin)
	r.Get("/user/{userId}/permissions", h.userPermissions)
}

func (h *Handler) assignRole(w http.ResponseWriter, r *http.Request) {
	var req assignRoleRequest
	if err := httpx.DecodeAndValidate(r, h.validate, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	out, err := h.service.AssignRole(r.Context(), actorID(r), req.UserID, req.RoleID)
	h.respond(w, "assign role", out, err)
}

func (h *Handler) setPermissions(w http.ResponseWriter, r *http.Request) {
	var req setPermissionsRequest
	if err := httpx.DecodeAndValidate(r, h.validate, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	out, err := h.service.SetPermissionsOverride(r.Context(), actorID(r), req.UserID, req.Permissions)
	h.respond(w, "set permissions", out, err)
}

func (h *Handler) setSuperAdmin(w http.ResponseWriter, r *http.Request) {
	var req setSuperAdminRequest
	if err := httpx.DecodeAndValidate(r, h.validate, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	out, err := h.service.SetSuperAdmin(r.Context(), actorID(r), req.UserID, *req.IsSuperAdmin)
	h.respond(w, "set super admin", out, err)
}

func (h *Handler) userPermissions(w http.ResponseWriter, r *http.Request) {
	userID, err := httpx.URLParamID(r, "userId")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	out, err := h.service.GetUserPermissions(r.Context(), userID)
	h.respond(w, "user permissions", out, err)
}

func (h *Handler) respond(w http.ResponseWriter, op string, out UserPermissions, err error) {
	if err != nil {
		if rbac.ReasonFor(err) == rbac.ReasonResolutionFailed {
			h.logger.Error(op, slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, out)
}

func actorID(r *http.Request) int64 {
	p, _ := shared.PrincipalFromContext(r.Context())
	return p.UserID
}
