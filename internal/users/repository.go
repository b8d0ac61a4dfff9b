package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/rbac"
	"github.com/jaiminpanchal50/FeatureBaseAccess/internal/shared"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

const userColumns = `id, name, email, role_id, permissions_override, is_super_admin, is_active, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListUsers returns all users, newest first.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// GetUser fetches a single user.
func (r *Repository) GetUser(ctx context.Context, id int64) (User, error) {
	return oneUser(id, r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// UpdateProfile writes name, email and active flag.
func (r *Repository) UpdateProfile(ctx context.Context, u User) (User, error) {
	row := r.pool.QueryRow(ctx, `UPDATE users
SET name = $2, email = $3, is_active = $4, updated_at = NOW()
WHERE id = $1
RETURNING `+userColumns, u.ID, u.Name, u.Email, u.IsActive)
	return oneUser(u.ID, row)
}

// DeleteUser removes a user.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

// SetRole assigns roleID to the user; nil clears the assignment.
func (r *Repository) SetRole(ctx context.Context, id int64, roleID *int64) (User, error) {
	row := r.pool.QueryRow(ctx, `UPDATE users SET role_id = $2, updated_at = NOW()
WHERE id = $1
RETURNING `+userColumns, id, roleID)
	return oneUser(id, row)
}

// SetPermissionsOverride replaces the user's extra permissions.
func (r *Repository) SetPermissionsOverride(ctx context.Context, id int64, perms []string) (User, error) {
	if perms == nil {
		perms = []string{}
	}
	row := r.pool.QueryRow(ctx, `UPDATE users SET permissions_override = $2, updated_at = NOW()
WHERE id = $1
RETURNING `+userColumns, id, perms)
	return oneUser(id, row)
}

// SetSuperAdmin sets or clears the super-admin flag.
func (r *Repository) SetSuperAdmin(ctx context.Context, id int64, value bool) (User, error) {
	row := r.pool.QueryRow(ctx, `UPDATE users SET is_super_admin = $2, updated_at = NOW()
WHERE id = $1
RETURNING `+userColumns, id, value)
	return oneUser(id, row)
}

// LookupSubject implements rbac.SubjectLookup.
func (r *Repository) LookupSubject(ctx context.Context, id int64) (rbac.Subject, bool, error) {
	s := rbac.Subject{UserID: id}
	err := r.pool.QueryRow(ctx, `SELECT role_id, permissions_override, is_super_admin, is_active FROM users WHERE id = $1`, id).
		Scan(&s.RoleID, &s.PermissionsOverride, &s.IsSuperAdmin, &s.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return rbac.Subject{}, false, nil
	}
	if err != nil {
		return rbac.Subject{}, false, err
	}
	return s, true, nil
}

func oneUser(id int64, row pgx.Row) (User, error) {
	u, err := scanUser(row)
	if err == nil {
		return u, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("user %d: %w", id, shared.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return User{}, fmt.Errorf("email already in use: %w", shared.ErrDuplicate)
		case foreignKeyViolation:
			return User{}, fmt.Errorf("role does not exist: %w", shared.ErrNotFound)
		}
	}
	return User{}, err
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.RoleID, &u.PermissionsOverride, &u.IsSuperAdmin, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if u.PermissionsOverride == nil {
		u.PermissionsOverride = []string{}
	}
	return u, err
}
