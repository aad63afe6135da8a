package employee

import "time"

// Role is the approval authority an account carries. Validators own
// exactly one stage of the approval chain.
type Role string

const (
	RoleEmployee  Role = "employee"
	RoleDirection Role = "direction"
	RoleDGPEC     Role = "dgpec"
	RoleDG        Role = "dg"
)

// ValidatorRoles returns the roles that own an approval stage, in
// chain order.
func ValidatorRoles() []Role {
	return []Role{RoleDirection, RoleDGPEC, RoleDG}
}

// Employee entity; doubles as the account record (email + password
// hash) since the organization has a single tenant.
type Employee struct {
	ID           string
	Name         string
	Email        string
	Department   string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
