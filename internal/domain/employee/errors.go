package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
