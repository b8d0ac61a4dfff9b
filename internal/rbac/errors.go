package rbac

import "errors"

// Reason is the machine readable cause attached to a refused request.
type Reason string

// Reason codes returned to API callers.
const (
	ReasonNone                   Reason = ""
	ReasonUnauthenticated        Reason = "unauthenticated"
	ReasonResolutionFailed       Reason = "resolution_failed"
	ReasonInsufficientPermission Reason = "insufficient_permission"
	ReasonSelfDemotionForbidden  Reason = "self_demotion_forbidden"
	ReasonUnknownPermission      Reason = "unknown_permission"
)

// Error is an authorization failure carrying a reason code.
type Error struct {
	reason Reason
	msg    string
}

func (e *Error) Error() string { return e.msg }

// Code returns the reason code.
func (e *Error) Code() string { return string(e.reason) }

var (
	// ErrUnauthenticated indicates no valid identity was established.
	ErrUnauthenticated = &Error{reason: ReasonUnauthenticated, msg: "rbac: unauthenticated"}
	// ErrResolutionFailed indicates the effective permissions could not be determined.
	ErrResolutionFailed = &Error{reason: ReasonResolutionFailed, msg: "rbac: resolution failed"}
	// ErrInsufficientPermission indicates the caller is known but not allowed.
	ErrInsufficientPermission = &Error{reason: ReasonInsufficientPermission, msg: "rbac: insufficient permission"}
	// ErrSelfDemotionForbidden is returned when a super-admin tries to clear their own flag.
	ErrSelfDemotionForbidden = &Error{reason: ReasonSelfDemotionForbidden, msg: "rbac: cannot remove super admin from yourself"}
	// ErrUnknownPermission is returned when a permission string is outside the catalog.
	ErrUnknownPermission = &Error{reason: ReasonUnknownPermission, msg: "rbac: unknown permission"}
)

// ReasonFor extracts the reason code carried by err, if any.
func ReasonFor(err error) Reason {
	var rbacErr *Error
	if errors.As(err, &rbacErr) {
		return rbacErr.reason
	}
	return ReasonNone
}
