package response

import (
	"errors"
	"net/http"

	"github.com/auction1/pto-backend-go/internal/domain/auth"
	"github.com/auction1/pto-backend-go/internal/domain/pto"
	"github.com/auction1/pto-backend-go/internal/domain/user"
	"github.com/auction1/pto-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Check your name and password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Session has ended, please log in again")
	case errors.Is(err, auth.ErrPasswordChangeRequired):
		Forbidden(w, "Change your initial password before continuing")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserNameExists):
		Conflict(w, "User name already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrCredentialStore):
		ServiceUnavailable(w, "Sign-in is temporarily unavailable")

	// PTO domain errors
	case errors.Is(err, pto.ErrDataUnavailable),
		errors.Is(err, pto.ErrNoMonthlyFiles):
		NoData(w, "No attendance data available")
	case errors.Is(err, pto.ErrRecordNotFound):
		NoData(w, "No attendance record for this employee")
	case errors.Is(err, pto.ErrMonthNotFound):
		NotFound(w, "Monthly file not found")
	case errors.Is(err, pto.ErrRenewalNotFound):
		NoData(w, "No renewal record for this employee")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
