package rbac

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/platform/httpx"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/shared"
)

// DecisionRecorder observes authorization outcomes.
type DecisionRecorder interface {
	RecordDecision(mode string, allowed bool, reason string)
}

// Middleware wires RBAC authorization helpers for HTTP handlers.
type Middleware struct {
	Service  *Service
	Logger   *slog.Logger
	Recorder DecisionRecorder
}

// Require ensures the current user holds perm.
//
// The Require helpers panic when a requirement is empty, blank or not in the
// catalog. Route tables are built at startup, so a typo fails the boot
// instead of opening or closing a route.
func (m Middleware) Require(perm string) func(http.Handler) http.Handler {
	return m.guard(ModeAll, []string{perm})
}

// RequireAny ensures the current user has at least one of the required permissions.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return m.guard(ModeAny, perms)
}

// RequireAll ensures the current user has all required permissions.
func (m Middleware) RequireAll(perms ...string) func(http.Handler) http.Handler {
	return m.guard(ModeAll, perms)
}

func (m Middleware) guard(mode Mode, perms []string) func(http.Handler) http.Handler {
	required := mustRequirement(perms)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := shared.PrincipalFromContext(r.Context())
			if !ok {
				m.record(mode, false, ReasonUnauthenticated)
				httpx.RespondError(w, ErrUnauthenticated)
				return
			}
			granted, err := m.Service.EffectivePermissions(r.Context(), principal.UserID)
			if err != nil {
				reason := ReasonFor(err)
				if reason != ReasonUnauthenticated {
					reason = ReasonResolutionFailed
					m.logError("rbac resolve permissions", err, principal.UserID, mode)
					err = ErrResolutionFailed
				}
				m.record(mode, false, reason)
				httpx.RespondError(w, err)
				return
			}
			decision := Authorize(granted, required, mode)
			m.record(mode, decision.Allowed, decision.Reason)
			if !decision.Allowed {
				if m.Logger != nil {
					m.Logger.Info("rbac denied",
						slog.Int64("user_id", principal.UserID),
						slog.String("mode", mode.String()),
						slog.Any("missing", decision.Missing),
						slog.String("path", r.URL.Path))
				}
				httpx.RespondError(w, decision.Err())
				return
			}
			ctx := ContextWithPermissions(r.Context(), granted)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m Middleware) record(mode Mode, allowed bool, reason Reason) {
	if m.Recorder != nil {
		m.Recorder.RecordDecision(mode.String(), allowed, string(reason))
	}
}

func (m Middleware) logError(msg string, err error, userID int64, mode Mode) {
	if m.Logger != nil {
		m.Logger.Error(msg, slog.Any("error", err), slog.Int64("user_id", userID), slog.String("mode", mode.String()))
	}
}

func mustRequirement(perms []string) []string {
	if len(perms) == 0 {
		panic("rbac: empty permission requirement")
	}
	seen := make(map[string]struct{}, len(perms))
	required := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if p == "" {
			panic("rbac: blank permission in requirement")
		}
		if !IsKnown(p) {
			panic(fmt.Sprintf("rbac: unknown permission %q in requirement", p))
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		required = append(required, p)
	}
	return required
}
