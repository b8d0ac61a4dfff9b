package rbac

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Wildcard grants every permission.
const Wildcard = "*"

// Permission catalog shared by route guards, role writes and API clients.
const (
	PermUserRead   = "user.read"
	PermUserCreate = "user.create"
	PermUserUpdate = "user.update"
	PermUserDelete = "user.delete"

	PermRoleRead   = "role.read"
	PermRoleCreate = "role.create"
	PermRoleUpdate = "role.update"
	PermRoleDelete = "role.delete"

	PermReportView     = "report.view"
	PermReportDownload = "report.download"

	PermBillingView   = "billing.view"
	PermBillingManage = "billing.manage"

	PermAdminManage = "admin.manage"
)

var catalog = []string{
	PermUserRead,
	PermUserCreate,
	PermUserUpdate,
	PermUserDelete,
	PermRoleRead,
	PermRoleCreate,
	PermRoleUpdate,
	PermRoleDelete,
	PermReportView,
	PermReportDownload,
	PermBillingView,
	PermBillingManage,
	PermAdminManage,
}

var known = func() map[string]struct{} {
	m := make(map[string]struct{}, len(catalog)+1)
	for _, p := range catalog {
		m[p] = struct{}{}
	}
	m[Wildcard] = struct{}{}
	return m
}()

// Catalog lists every concrete permission, excluding the wildcard.
func Catalog() []string {
	out := make([]string, len(catalog))
	copy(out, catalog)
	return out
}

// IsKnown reports whether p is a catalog permission or the wildcard.
func IsKnown(p string) bool {
	_, ok := known[p]
	return ok
}

// ValidatePermissions rejects any entry outside the catalog.
func ValidatePermissions(perms []string) error {
	var unknown []string
	for _, p := range perms {
		if !IsKnown(p) {
			unknown = append(unknown, p)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPermission, strings.Join(unknown, ", "))
	}
	return nil
}

// RegisterValidation installs the "permission" tag on v. Apply it to string
// fields, or to slices with "dive".
func RegisterValidation(v *validator.Validate) error {
	return v.RegisterValidation("permission", func(fl validator.FieldLevel) bool {
		return IsKnown(fl.Field().String())
	})
}

// NewValidator returns a validator with the "permission" tag installed.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterValidation(v); err != nil {
		panic(err)
	}
	return v
}
