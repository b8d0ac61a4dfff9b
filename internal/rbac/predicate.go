package rbac

// The helpers below evaluate the permission list an API response carries.
// They gate presentation only; Middleware is the enforcement point.
//
// A nil list means no permissions were loaded and never grants, not even an
// empty requirement. A non-nil empty list is a loaded list with no grants and
// follows Authorize: CanAll with no requirement is true, CanAny is false.

// Can reports whether perms grants p.
func Can(perms []string, p string) bool {
	if perms == nil {
		return false
	}
	return NewPermissionSet(perms...).Has(p)
}

// CanAny reports whether perms grants at least one of required.
func CanAny(perms []string, required ...string) bool {
	if perms == nil {
		return false
	}
	return Authorize(NewPermissionSet(perms...), required, ModeAny).Allowed
}

// CanAll reports whether perms grants every entry of required. CanAll(nil)
// is false while CanAll([]string{}) is true.
func CanAll(perms []string, required ...string) bool {
	if perms == nil {
		return false
	}
	return Authorize(NewPermissionSet(perms...), required, ModeAll).Allowed
}
