package http

import (
	"encoding/json"
	"net/http"

	"github.com/gestion-conges/leave-backend-go/internal/domain/quota"
	"github.com/gestion-conges/leave-backend-go/internal/handler/http/middleware"
	"github.com/gestion-conges/leave-backend-go/internal/handler/http/response"
	quotaservice "github.com/gestion-conges/leave-backend-go/internal/service/quota"
	"github.com/go-chi/chi/v5"
)

type QuotaHandler interface {
	Mine(w http.ResponseWriter, r *http.Request)
	ForEmployee(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Adjust(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type QuotaHandlerImpl struct {
	quotaService *quotaservice.QuotaService
}

func NewQuotaHandler(quotaService *quotaservice.QuotaService) QuotaHandler {
	return &QuotaHandlerImpl{quotaService: quotaService}
}

func (h *QuotaHandlerImpl) Mine(w http.ResponseWriter, r *http.Request) {
	emp, err := middleware.CurrentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.quotaService.GetForEmployee(r.Context(), emp.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *QuotaHandlerImpl) ForEmployee(w http.ResponseWriter, r *http.Request) {
	result, err := h.quotaService.GetForEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *QuotaHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := quota.QuotaFilter{}
	if v := q.Get("department"); v != "" {
		filter.Department = &v
	}
	if v := q.Get("category"); v != "" {
		filter.Category = &v
	}

	result, err := h.quotaService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *QuotaHandlerImpl) Adjust(w http.ResponseWriter, r *http.Request) {
	emp, err := middleware.CurrentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req quota.AdjustQuotaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AdjusterID = emp.ID

	result, err := h.quotaService.Adjust(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Quota adjusted", result)
}

func (h *QuotaHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	result, err := h.quotaService.History(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
