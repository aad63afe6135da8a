package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/domain/leave"
	"github.com/gestion-conges/leave-backend-go/internal/handler/http/middleware"
	"github.com/gestion-conges/leave-backend-go/internal/handler/http/response"
	"github.com/gestion-conges/leave-backend-go/internal/service/approval"
	"github.com/gestion-conges/leave-backend-go/internal/service/reminder"
	"github.com/gestion-conges/leave-backend-go/internal/service/workingdays"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Queue(w http.ResponseWriter, r *http.Request)
	Transition(w http.ResponseWriter, r *http.Request)
	SetPriority(w http.ResponseWriter, r *http.Request)
	Timeline(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Performance(w http.ResponseWriter, r *http.Request)
	Delayed(w http.ResponseWriter, r *http.Request)
	DelayedCount(w http.ResponseWriter, r *http.Request)
	WorkingDays(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	approvalService *approval.ApprovalService
	reminderService *reminder.ReminderService
	calculator      *workingdays.Calculator
}

func NewLeaveHandler(approvalService *approval.ApprovalService, reminderService *reminder.ReminderService, calculator *workingdays.Calculator) LeaveHandler {
	return &LeaveHandlerImpl{
		approvalService: approvalService,
		reminderService: reminderService,
		calculator:      calculator,
	}
}

func (h *LeaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	emp, err := middleware.CurrentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.SubmitRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = emp.ID

	result, err := h.approvalService.Submit(r.Context(), emp, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", result)
}

func (h *LeaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	emp, err := middleware.CurrentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.approvalService.Get(r.Context(), emp, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func parseFilter(r *http.Request) leave.RequestFilter {
	q := r.URL.Query()
	filter := leave.RequestFilter{
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := q.Get("type"); v != "" {
		filter.Category = &v
	}
	if v := q.Get("department"); v != "" {
		filter.Department = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	return filter
}

func (h *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	emp, err := middleware.CurrentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.approvalService.List(r.Context(), emp, parseFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *LeaveHandlerImpl) Queue(w http.ResponseWriter, r *http.Request) {
	emp, err := middleware.CurrentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.approvalService.Queue(r.Context(), emp, parseFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *LeaveHandlerImpl) Transition(w http.ResponseWriter, r *http.Request) {
	emp, err := middleware.CurrentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Transition decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RequestID = chi.URLParam(r, "id")

	result, err := h.approvalService.Transition(r.Context(), emp, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Decision recorded", result)
}

func (h *LeaveHandlerImpl) SetPriority(w http.ResponseWriter, r *http.Request) {
	emp, err := middleware.CurrentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req leave.SetPriorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RequestID = chi.URLParam(r, "id")

	if err := h.approvalService.SetPriority(r.Context(), emp, req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Priority updated", nil)
}

func (h *LeaveHandlerImpl) Timeline(w http.ResponseWriter, r *http.Request) {
	emp, err := middleware.CurrentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.approvalService.Timeline(r.Context(), emp, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *LeaveHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	emp, err := middleware.CurrentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.approvalService.History(r.Context(), emp, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *LeaveHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	result, err := h.approvalService.Stats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *LeaveHandlerImpl) Performance(w http.ResponseWriter, r *http.Request) {
	months, _ := strconv.Atoi(r.URL.Query().Get("months"))

	result, err := h.approvalService.Performance(r.Context(), months)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// WorkingDays previews the chargeable-day breakdown of a date range,
// used by the request form before anything is submitted.
func (h *LeaveHandlerImpl) WorkingDays(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := time.Parse("2006-01-02", q.Get("start_date"))
	if err != nil {
		response.BadRequest(w, "start_date must be a valid date (YYYY-MM-DD)", nil)
		return
	}
	end, err := time.Parse("2006-01-02", q.Get("end_date"))
	if err != nil {
		response.BadRequest(w, "end_date must be a valid date (YYYY-MM-DD)", nil)
		return
	}

	result, err := h.calculator.Calculate(r.Context(), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *LeaveHandlerImpl) Delayed(w http.ResponseWriter, r *http.Request) {
	result, err := h.reminderService.Delayed(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *LeaveHandlerImpl) DelayedCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.reminderService.DelayedCount(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int{"count": count})
}
