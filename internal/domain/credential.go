package domain

// Role identifies the kind of authenticated caller.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleCustomer Role = "customer"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleCustomer:
		return true
	}
	return false
}

// Credential is an email/password/role tuple used for login. Email is the
// unique key, compared case-insensitively. Password holds either a bcrypt
// hash or, in compatibility mode, the plaintext value written by older
// versions of the store.
type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Session is the persisted identity of the authenticated caller, restored on
// restart without re-login. EmployeeID/CustomerID reference the matching
// directory record; both are empty for administrators.
type Session struct {
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	EmployeeID string `json:"employeeId,omitempty"`
	CustomerID string `json:"customerId,omitempty"`
}
