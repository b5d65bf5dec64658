package middleware

import (
	"net/http"

	"github.com/auction1/pto-backend-go/internal/domain/auth"
	"github.com/auction1/pto-backend-go/internal/domain/user"
	"github.com/auction1/pto-backend-go/internal/handler/http/response"
)

// ImpersonateParam names the query parameter an admin uses to view another
// employee's data.
const ImpersonateParam = "as"

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		if user.ParseRole(session.Role) != user.RoleAdmin {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequirePermission checks if the session role has a specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if !user.HasPermission(user.ParseRole(session.Role), permission) {
				response.HandleError(w, user.ErrInsufficientPermissions)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Impersonate switches the session subject to ?as=<name> for roles allowed
// to view every balance. Other roles get 403 when they pass the parameter.
func Impersonate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		as := user.NormalizeName(r.URL.Query().Get(ImpersonateParam))
		if as == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !user.HasPermission(user.ParseRole(session.Role), user.PermissionBalanceViewAll) {
			response.HandleError(w, user.ErrInsufficientPermissions)
			return
		}

		session.Subject = as
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}
