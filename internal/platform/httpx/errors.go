// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/shared"
)

// Reason codes understood by RespondError. They mirror the codes carried by
// authorization errors.
const (
	ReasonUnauthenticated        = "unauthenticated"
	ReasonResolutionFailed       = "resolution_failed"
	ReasonInsufficientPermission = "insufficient_permission"
	ReasonSelfDemotionForbidden  = "self_demotion_forbidden"
	ReasonUnknownPermission      = "unknown_permission"
)

type coder interface {
	Code() string
}

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	var coded coder
	if errors.As(err, &coded) {
		switch coded.Code() {
		case ReasonUnauthenticated:
			ProblemWithReason(w, http.StatusUnauthorized, "Unauthorized", "authentication required", ReasonUnauthenticated)
			return
		case ReasonInsufficientPermission:
			ProblemWithReason(w, http.StatusForbidden, "Forbidden", "you do not have permission to perform this action", ReasonInsufficientPermission)
			return
		case ReasonResolutionFailed:
			ProblemWithReason(w, http.StatusServiceUnavailable, "Service Unavailable", "permissions could not be determined", ReasonResolutionFailed)
			return
		case ReasonSelfDemotionForbidden:
			ProblemWithReason(w, http.StatusBadRequest, "Bad Request", err.Error(), ReasonSelfDemotionForbidden)
			return
		case ReasonUnknownPermission:
			ProblemWithReason(w, http.StatusBadRequest, "Validation Failed", err.Error(), ReasonUnknownPermission)
			return
		}
	}
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrSelfDeleteForbidden):
		Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials):
		ProblemWithReason(w, http.StatusUnauthorized, "Unauthorized", err.Error(), ReasonUnauthenticated)
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
