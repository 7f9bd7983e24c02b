package domain

import dErrors "verifi/pkg/domain-errors"

// Role is a named capability tier. Membership lives in the role registry;
// the fixed admin-of relation below decides who may mutate it.
type Role string

const (
	// RoleAdmin is the root role. It administers verifier membership and
	// itself, binds aliases, and attests documents.
	RoleAdmin Role = "admin"

	// RoleVerifier may register documents and retrieve registered documents.
	RoleVerifier Role = "verifier"
)

// adminOf is the single source of truth for which role administers which.
// Admin is self-administering: only an existing admin can appoint or remove
// another admin.
var adminOf = map[Role]Role{
	RoleAdmin:    RoleAdmin,
	RoleVerifier: RoleAdmin,
}

// ParseRole constructs a Role from external input.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := adminOf[r]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role")
	}
	return r, nil
}

// AdministeredBy returns the role a caller must hold to grant or revoke r.
func (r Role) AdministeredBy() Role {
	return adminOf[r]
}

// IsValid checks the role against the supported set.
func (r Role) IsValid() bool {
	_, ok := adminOf[r]
	return ok
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}
