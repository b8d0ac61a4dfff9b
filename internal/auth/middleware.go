package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/platform/httpx"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/rbac"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/shared"
)

// PrincipalSource turns a bearer token into an authenticated principal.
type PrincipalSource interface {
	Principal(ctx context.Context, accessToken string) (shared.Principal, error)
}

// Authenticate requires a valid bearer access token and stores the caller's
// principal in the request context.
func Authenticate(source PrincipalSource, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httpx.RespondError(w, rbac.ErrUnauthenticated)
				return
			}
			principal, err := source.Principal(r.Context(), token)
			if err != nil {
				if rbac.ReasonFor(err) != rbac.ReasonUnauthenticated && logger != nil {
					logger.Error("authenticate request", slog.Any("error", err))
				}
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
