package middleware

import (
	"context"
	"net/http"

	"github.com/auction1/pto-backend-go/internal/domain/auth"
	"github.com/auction1/pto-backend-go/internal/handler/http/response"
	"github.com/auction1/pto-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type sessionKey struct{}

// SessionFromContext returns the session AuthRequired stored on the request.
func SessionFromContext(ctx context.Context) (auth.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(auth.Session)
	return s, ok
}

func WithSession(ctx context.Context, s auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// AuthRequired turns the verified access token into an auth.Session. It must
// run after jwtauth.Verifier.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claimsMap, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := jwt.ClaimsFromMap(claimsMap)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if jwtService.IsTokenRevoked(claims.TokenID) {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			session := auth.Session{
				Name:       claims.UserName,
				Title:      claims.Title,
				Role:       string(claims.Role),
				FirstLogin: claims.FirstLogin,
				Subject:    claims.UserName,
				TokenID:    claims.TokenID,
				ExpiresAt:  claims.ExpiresAt,
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		}
		return http.HandlerFunc(hfn)
	}
}

// RequirePasswordChanged refreshes the session from the credential store and
// blocks users still on their initial password. A reset or role change takes
// effect on tokens issued before it.
func RequirePasswordChanged(authService auth.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			session, err := authService.Refresh(r.Context(), session)
			if err != nil {
				response.HandleError(w, err)
				return
			}
			if session.FirstLogin {
				response.HandleError(w, auth.ErrPasswordChangeRequired)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		}
		return http.HandlerFunc(hfn)
	}
}
