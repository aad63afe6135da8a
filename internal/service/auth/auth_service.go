package auth

import (
	"context"

	"github.com/gestion-conges/leave-backend-go/internal/domain/employee"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	employee.EmployeeRepository
	jwtService jwt.Service
}

func NewAuthService(employeeRepository employee.EmployeeRepository, jwtService jwt.Service) *AuthService {
	return &AuthService{
		EmployeeRepository: employeeRepository,
		jwtService:         jwtService,
	}
}

// Login verifies the credentials and issues an access token. Unknown
// email and wrong password come back as the same error.
func (s *AuthService) Login(ctx context.Context, req employee.LoginRequest) (employee.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.LoginResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == employee.ErrEmployeeNotFound {
			return employee.LoginResponse{}, employee.ErrInvalidCredentials
		}
		return employee.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return employee.LoginResponse{}, employee.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(emp)
	if err != nil {
		return employee.LoginResponse{}, err
	}

	return employee.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        emp.ToResponse(),
	}, nil
}

// Me returns the authenticated employee's profile.
func (s *AuthService) Me(ctx context.Context, employeeID string) (employee.EmployeeResponse, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return emp.ToResponse(), nil
}
