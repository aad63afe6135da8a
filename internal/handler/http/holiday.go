package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/domain/holiday"
	"github.com/gestion-conges/leave-backend-go/internal/handler/http/middleware"
	"github.com/gestion-conges/leave-backend-go/internal/handler/http/response"
	holidayservice "github.com/gestion-conges/leave-backend-go/internal/service/holiday"
	"github.com/go-chi/chi/v5"
)

type HolidayHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ListYear(w http.ResponseWriter, r *http.Request)
}

type HolidayHandlerImpl struct {
	holidayService *holidayservice.HolidayService
}

func NewHolidayHandler(holidayService *holidayservice.HolidayService) HolidayHandler {
	return &HolidayHandlerImpl{holidayService: holidayService}
}

func (h *HolidayHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	emp, err := middleware.CurrentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req holiday.CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.holidayService.Create(r.Context(), req, emp.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created", result)
}

func (h *HolidayHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	emp, err := middleware.CurrentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req holiday.UpdateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.holidayService.Update(r.Context(), req, emp.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday updated", result)
}

func (h *HolidayHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.holidayService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday deleted", nil)
}

func (h *HolidayHandlerImpl) ListYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year == 0 {
		year = time.Now().Year()
	}

	result, err := h.holidayService.ListYear(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
