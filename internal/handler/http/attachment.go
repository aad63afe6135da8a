package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	attachmentdomain "github.com/gestion-conges/leave-backend-go/internal/domain/attachment"
	"github.com/gestion-conges/leave-backend-go/internal/handler/http/middleware"
	"github.com/gestion-conges/leave-backend-go/internal/handler/http/response"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/storage"
	attachmentservice "github.com/gestion-conges/leave-backend-go/internal/service/attachment"
	"github.com/go-chi/chi/v5"
)

type AttachmentHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
	ListForRequest(w http.ResponseWriter, r *http.Request)
	SetStatus(w http.ResponseWriter, r *http.Request)
	Download(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ServeFile(w http.ResponseWriter, r *http.Request)
}

type AttachmentHandlerImpl struct {
	attachmentService *attachmentservice.AttachmentService
	localStorage      *storage.LocalStorage
}

func NewAttachmentHandler(attachmentService *attachmentservice.AttachmentService, localStorage *storage.LocalStorage) AttachmentHandler {
	return &AttachmentHandlerImpl{
		attachmentService: attachmentService,
		localStorage:      localStorage,
	}
}

func (h *AttachmentHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	emp, err := middleware.CurrentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := r.ParseMultipartForm(attachmentservice.MaxFileSize); err != nil {
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Missing file field", nil)
		return
	}
	defer file.Close()

	result, err := h.attachmentService.Upload(r.Context(), chi.URLParam(r, "id"), emp.ID, header.Filename, header.Size, file)
	if err != nil {
		slog.Error("Attachment upload failed", "request_id", chi.URLParam(r, "id"), "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attachment uploaded", result)
}

func (h *AttachmentHandlerImpl) ListForRequest(w http.ResponseWriter, r *http.Request) {
	result, err := h.attachmentService.ListForRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *AttachmentHandlerImpl) SetStatus(w http.ResponseWriter, r *http.Request) {
	emp, err := middleware.CurrentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attachmentdomain.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AttachmentID = chi.URLParam(r, "attachmentID")
	req.ValidatorID = emp.ID

	result, err := h.attachmentService.SetStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attachment review recorded", result)
}

func (h *AttachmentHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	reader, a, err := h.attachmentService.Download(r.Context(), chi.URLParam(r, "attachmentID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", a.FileType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.FileName))
	if _, err := io.Copy(w, reader); err != nil {
		slog.Error("Attachment download failed mid-stream", "attachment_id", a.ID, "error", err)
	}
}

func (h *AttachmentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	emp, err := middleware.CurrentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.attachmentService.Delete(r.Context(), chi.URLParam(r, "attachmentID"), emp.ID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attachment deleted", nil)
}

// ServeFile serves a stored file through its signed URL. No auth
// middleware here; possession of a valid unexpired signature is the
// authorization.
func (h *AttachmentHandlerImpl) ServeFile(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(chi.URLParam(r, "*"), "/")

	expires, err := strconv.ParseInt(r.URL.Query().Get("expires"), 10, 64)
	if err != nil {
		response.Forbidden(w, "Invalid or expired link")
		return
	}
	signature := r.URL.Query().Get("signature")

	if !h.localStorage.VerifySignedPath(path, expires, signature) {
		response.Forbidden(w, "Invalid or expired link")
		return
	}

	reader, err := h.localStorage.Download(r.Context(), path)
	if err != nil {
		response.NotFound(w, "File not found")
		return
	}
	defer reader.Close()

	if _, err := io.Copy(w, reader); err != nil {
		slog.Error("File serve failed mid-stream", "path", path, "error", err)
	}
}
