package http

import (
	"log/slog"
	"net/http"

	"github.com/auction1/pto-backend-go/internal/domain/auth"
	"github.com/auction1/pto-backend-go/internal/domain/pto"
	"github.com/auction1/pto-backend-go/internal/handler/http/middleware"
	"github.com/auction1/pto-backend-go/internal/handler/http/response"
	"github.com/auction1/pto-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type PTOHandler interface {
	Balance(w http.ResponseWriter, r *http.Request)
	Months(w http.ResponseWriter, r *http.Request)
	Month(w http.ResponseWriter, r *http.Request)
	Renewal(w http.ResponseWriter, r *http.Request)
}

type PTOHandlerImpl struct {
	ptoService pto.PTOService
}

func NewPTOHandler(ptoService pto.PTOService) PTOHandler {
	return &PTOHandlerImpl{ptoService: ptoService}
}

// Balance implements PTOHandler.
func (h *PTOHandlerImpl) Balance(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	resp, err := h.ptoService.Balance(r.Context(), session.Subject)
	if err != nil {
		slog.Info("Balance unavailable", "subject", session.Subject, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Months implements PTOHandler.
func (h *PTOHandlerImpl) Months(w http.ResponseWriter, r *http.Request) {
	months, err := h.ptoService.Months(r.Context())
	if err != nil {
		slog.Info("Monthly files unavailable", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, months)
}

// Month implements PTOHandler.
func (h *PTOHandlerImpl) Month(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	fileID := chi.URLParam(r, "fileID")
	if !validator.IsValidFileID(fileID) {
		response.BadRequest(w, "Invalid file id", map[string]string{"file_id": "invalid file id"})
		return
	}

	resp, err := h.ptoService.Month(r.Context(), session.Subject, fileID)
	if err != nil {
		slog.Info("Month unavailable", "subject", session.Subject, "file_id", fileID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Renewal implements PTOHandler.
func (h *PTOHandlerImpl) Renewal(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	resp, err := h.ptoService.Renewal(r.Context(), session.Subject)
	if err != nil {
		slog.Info("Renewal unavailable", "subject", session.Subject, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
