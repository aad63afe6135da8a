package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gestion-conges/leave-backend-go/internal/domain/employee"
	"github.com/gestion-conges/leave-backend-go/internal/handler/http/middleware"
	"github.com/gestion-conges/leave-backend-go/internal/handler/http/response"
	"github.com/gestion-conges/leave-backend-go/internal/service/auth"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService *auth.AuthService
}

func NewAuthHandler(authService *auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{authService: authService}
}

func (h *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq employee.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.authService.Login(r.Context(), loginReq)
	if err != nil {
		slog.Warn("Login failed", "email", loginReq.Email, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	emp, err := middleware.CurrentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	profile, err := h.authService.Me(r.Context(), emp.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, profile)
}
