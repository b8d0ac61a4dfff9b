package roles

import (
	"context"
	"fmt"
	"sync"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/rbac"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/shared"
)

type mockRepo struct {
	mu     sync.Mutex
	roles  map[int64]Role
	nextID int64
	calls  int
	err    error
}

func newMockRepo(roles ...Role) *mockRepo {
	m := &mockRepo{roles: make(map[int64]Role), nextID: 1}
	for _, r := range roles {
		m.roles[r.ID] = r
		if r.ID >= m.nextID {
			m.nextID = r.ID + 1
		}
	}
	return m
}

func (m *mockRepo) ListRoles(ctx context.Context) ([]Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Role, 0, len(m.roles))
	for id := int64(1); id < m.nextID; id++ {
		if r, ok := m.roles[id]; ok {
			out = append(out, r)
		}
	}
	return out, m.err
}

func (m *mockRepo) GetRole(ctx context.Context, id int64) (Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roles[id]
	if !ok {
		return Role{}, fmt.Errorf("role %d: %w", id, shared.ErrNotFound)
	}
	return r, nil
}

func (m *mockRepo) CreateRole(ctx context.Context, role Role) (Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.roles {
		if r.Name == role.Name {
			return Role{}, fmt.Errorf("role %q: %w", role.Name, shared.ErrDuplicate)
		}
	}
	role.ID = m.nextID
	m.nextID++
	m.roles[role.ID] = role
	return role, nil
}

func (m *mockRepo) UpdateRole(ctx context.Context, role Role) (Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[role.ID]; !ok {
		return Role{}, fmt.Errorf("role %d: %w", role.ID, shared.ErrNotFound)
	}
	m.roles[role.ID] = role
	return role, nil
}

func (m *mockRepo) DeleteRole(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[id]; !ok {
		return fmt.Errorf("role %d: %w", id, shared.ErrNotFound)
	}
	delete(m.roles, id)
	return nil
}

func (m *mockRepo) LookupRole(ctx context.Context, id int64) (rbac.Role, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return rbac.Role{}, false, m.err
	}
	r, ok := m.roles[id]
	if !ok {
		return rbac.Role{}, false, nil
	}
	return rbac.Role{ID: r.ID, Name: r.Name, Permissions: r.Permissions}, true, nil
}

func (m *mockRepo) lookupCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type recordingInvalidator struct {
	ids []int64
	err error
	// failAt makes only the n-th call (1-based) return err.
	failAt int
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, id int64) error {
	r.ids = append(r.ids, id)
	if r.failAt > 0 && len(r.ids) != r.failAt {
		return nil
	}
	return r.err
}
