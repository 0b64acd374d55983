package entity

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is read-only from this service's point of view. Account management
// and credential handling live in the identity service that issues the
// tokens this service verifies.
type User struct {
	Base
	FirstName string   `db:"first_name"`
	LastName  string   `db:"last_name"`
	Email     string   `db:"email"`
	Phone     *string  `db:"phone"`
	Role      UserRole `db:"role"`
	IsActive  bool     `db:"is_active"`
}
