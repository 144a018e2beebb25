package domain

// Role is the operator role carried in a session token. Exactly two roles
// exist; there is no registration flow.
type Role string

const (
	RoleAdmin  Role = "admin"  // creates/approves/rejects/authorises payments
	RoleLoader Role = "loader" // loads approved payments into the bank platform
)

// Valid reports whether r is a known operator role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleLoader
}

// Identity is the verified operator identity attached to a request after the
// session guard has validated the session token.
type Identity struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
