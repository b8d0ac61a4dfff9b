package rbac_test

import (
	"context"
	"sync"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/rbac"
)

type stubRoles struct {
	mu    sync.Mutex
	roles map[int64]rbac.Role
	err   error
	calls int
}

func newStubRoles(roles ...rbac.Role) *stubRoles {
	s := &stubRoles{roles: make(map[int64]rbac.Role, len(roles))}
	for _, r := range roles {
		s.roles[r.ID] = r
	}
	return s
}

func (s *stubRoles) LookupRole(ctx context.Context, id int64) (rbac.Role, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return rbac.Role{}, false, s.err
	}
	if err := ctx.Err(); err != nil {
		return rbac.Role{}, false, err
	}
	role, ok := s.roles[id]
	return role, ok, nil
}

func (s *stubRoles) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubUsers struct {
	subjects map[int64]rbac.Subject
	err      error
}

func (s *stubUsers) LookupSubject(ctx context.Context, id int64) (rbac.Subject, bool, error) {
	if s.err != nil {
		return rbac.Subject{}, false, s.err
	}
	subject, ok := s.subjects[id]
	return subject, ok, nil
}

func roleID(id int64) *int64 { return &id }
