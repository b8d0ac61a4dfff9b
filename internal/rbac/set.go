package rbac

import "sort"

// PermissionSet is an effective permission set: either every permission or a
// concrete set of permission strings. The zero value is the empty set.
type PermissionSet struct {
	all   bool
	perms map[string]struct{}
}

// AllPermissions returns the wildcard set.
func AllPermissions() PermissionSet {
	return PermissionSet{all: true}
}

// NewPermissionSet builds a set from perms. A wildcard entry yields the wildcard set.
func NewPermissionSet(perms ...string) PermissionSet {
	set := PermissionSet{perms: make(map[string]struct{}, len(perms))}
	for _, p := range perms {
		if p == Wildcard {
			return AllPermissions()
		}
		set.perms[p] = struct{}{}
	}
	return set
}

// IsAll reports whether the set is the wildcard set.
func (s PermissionSet) IsAll() bool {
	return s.all
}

// Has reports whether p is a member.
func (s PermissionSet) Has(p string) bool {
	if s.all {
		return true
	}
	_, ok := s.perms[p]
	return ok
}

// HasAll reports whether every entry of required is a member. An empty
// requirement is satisfied.
func (s PermissionSet) HasAll(required ...string) bool {
	if s.all {
		return true
	}
	for _, p := range required {
		if _, ok := s.perms[p]; !ok {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one entry of required is a member. An empty
// requirement is never satisfied by a concrete set.
func (s PermissionSet) HasAny(required ...string) bool {
	if s.all {
		return true
	}
	for _, p := range required {
		if _, ok := s.perms[p]; ok {
			return true
		}
	}
	return false
}

// Len returns the number of concrete members; the wildcard set reports -1.
func (s PermissionSet) Len() int {
	if s.all {
		return -1
	}
	return len(s.perms)
}

// List returns the members sorted. The wildcard set lists as ["*"].
func (s PermissionSet) List() []string {
	if s.all {
		return []string{Wildcard}
	}
	out := make([]string, 0, len(s.perms))
	for p := range s.perms {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Equal reports set equality, ignoring insertion order.
func (s PermissionSet) Equal(other PermissionSet) bool {
	if s.all || other.all {
		return s.all == other.all
	}
	if len(s.perms) != len(other.perms) {
		return false
	}
	for p := range s.perms {
		if _, ok := other.perms[p]; !ok {
			return false
		}
	}
	return true
}

func (s PermissionSet) missing(required []string) []string {
	if s.all {
		return nil
	}
	var out []string
	for _, p := range required {
		if _, ok := s.perms[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *PermissionSet) add(p string) {
	if s.perms == nil {
		s.perms = make(map[string]struct{})
	}
	s.perms[p] = struct{}{}
}
