package middleware

import (
	"net/http"

	"github.com/gestion-conges/leave-backend-go/internal/domain/employee"
	"github.com/gestion-conges/leave-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, employee.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, employee.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, employee.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// CurrentEmployee rebuilds the acting employee from the verified
// token claims.
func CurrentEmployee(r *http.Request) (employee.Employee, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return employee.Employee{}, employee.ErrInvalidToken
	}

	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return employee.Employee{}, employee.ErrInvalidToken
	}

	emp := employee.Employee{ID: id}
	if name, ok := claims["name"].(string); ok {
		emp.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		emp.Email = email
	}
	if department, ok := claims["department"].(string); ok {
		emp.Department = department
	}
	if role, ok := claims["role"].(string); ok {
		emp.Role = employee.Role(role)
	}

	return emp, nil
}
