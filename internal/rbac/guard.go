package rbac

import "fmt"

// Mode selects how a multi-permission requirement is evaluated.
type Mode int

const (
	// ModeAll requires every listed permission. Used for route protection.
	ModeAll Mode = iota
	// ModeAny requires at least one listed permission.
	ModeAny
)

func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeAny:
		return "any"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Decision is the outcome of a single authorization check.
type Decision struct {
	Allowed bool
	Reason  Reason
	// Missing lists the required permissions absent from the set. Only
	// populated on denial.
	Missing []string
}

// Err returns ErrInsufficientPermission for a denial and nil otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return ErrInsufficientPermission
}

// Authorize decides whether effective satisfies required under mode.
//
// The wildcard set always allows. With an empty requirement ModeAll allows
// (nothing to satisfy) and ModeAny denies (nothing can satisfy it).
func Authorize(effective PermissionSet, required []string, mode Mode) Decision {
	var allowed bool
	switch mode {
	case ModeAny:
		allowed = effective.HasAny(required...)
	default:
		allowed = effective.HasAll(required...)
	}
	if allowed {
		return Decision{Allowed: true}
	}
	return Decision{
		Reason:  ReasonInsufficientPermission,
		Missing: effective.missing(required),
	}
}
