package employee

import "context"

// EmployeeRepository - interface for employees table
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	ListByRole(ctx context.Context, role Role) ([]Employee, error)
	List(ctx context.Context) ([]Employee, error)
}
