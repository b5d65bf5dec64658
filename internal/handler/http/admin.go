package http

import (
	"log/slog"
	"net/http"

	"github.com/auction1/pto-backend-go/internal/domain/auth"
	"github.com/auction1/pto-backend-go/internal/handler/http/response"
)

type AdminHandler interface {
	Users(w http.ResponseWriter, r *http.Request)
}

type AdminHandlerImpl struct {
	authService auth.AuthService
}

func NewAdminHandler(authService auth.AuthService) AdminHandler {
	return &AdminHandlerImpl{authService: authService}
}

// Users implements AdminHandler.
func (h *AdminHandlerImpl) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		slog.Error("ListUsers service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, users)
}
