package middleware

import (
	"fmt"
	"net/http"

	"github.com/gestion-conges/leave-backend-go/internal/domain/employee"
	"github.com/gestion-conges/leave-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequireRole restricts a route to the given roles.
func RequireRole(roles ...employee.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Forbidden(w, "Insufficient permissions")
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok {
				response.Forbidden(w, "Insufficient permissions")
				return
			}

			role := employee.Role(roleStr)
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, fmt.Sprintf("Access requires one of the roles %v", roles))
		})
	}
}

// RequireValidator restricts a route to the three approval roles.
func RequireValidator(next http.Handler) http.Handler {
	return RequireRole(employee.ValidatorRoles()...)(next)
}
