package auth

import (
	"context"
	"testing"

	"github.com/gestion-conges/leave-backend-go/internal/domain/employee"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.Email == email {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListByRole(ctx context.Context, role employee.Role) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) List(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("motdepasse"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {
			ID:           "emp-1",
			Name:         "Awa Diop",
			Email:        "awa.diop@example.sn",
			Department:   "Informatique",
			Role:         employee.RoleEmployee,
			PasswordHash: string(hash),
		},
	}}
	return NewAuthService(repo, jwt.NewJWTService("test-secret", "15m"))
}

func TestAuthService_Login_Success(t *testing.T) {
	t.Parallel()
	svc := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), employee.LoginRequest{
		Email:    "awa.diop@example.sn",
		Password: "motdepasse",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Greater(t, resp.ExpiresAt, int64(0))
	assert.Equal(t, "emp-1", resp.User.ID)
	assert.Equal(t, employee.RoleEmployee, resp.User.Role)
	// The hash never leaves the service.
	assert.NotContains(t, resp.AccessToken, "motdepasse")
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	t.Parallel()
	svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), employee.LoginRequest{
		Email:    "awa.diop@example.sn",
		Password: "incorrect",
	})

	assert.ErrorIs(t, err, employee.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	t.Parallel()
	svc := newAuthFixture(t)

	// Unknown email and wrong password are indistinguishable.
	_, err := svc.Login(context.Background(), employee.LoginRequest{
		Email:    "inconnu@example.sn",
		Password: "motdepasse",
	})

	assert.ErrorIs(t, err, employee.ErrInvalidCredentials)
}

func TestAuthService_Login_InvalidEmail(t *testing.T) {
	t.Parallel()
	svc := newAuthFixture(t)

	_, err := svc.Login(context.Background(), employee.LoginRequest{
		Email:    "pas-un-email",
		Password: "motdepasse",
	})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, employee.ErrInvalidCredentials)
}

func TestAuthService_Me(t *testing.T) {
	t.Parallel()
	svc := newAuthFixture(t)

	resp, err := svc.Me(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Awa Diop", resp.Name)

	_, err = svc.Me(context.Background(), "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
