package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/auction1/pto-backend-go/internal/domain/auth"
	"github.com/auction1/pto-backend-go/internal/domain/user"
	"github.com/auction1/pto-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash keeps the unknown-user path as slow as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unused-password"), bcrypt.DefaultCost)

var _ auth.AuthService = (*AuthServiceImpl)(nil)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
	now func() time.Time
}

func NewAuthService(userRepository user.UserRepository, jwtService jwt.Service) *AuthServiceImpl {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
		now:            time.Now,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func isBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}

// verifyPassword checks password against the stored credential. Legacy
// documents hold plaintext; legacy reports that case.
func verifyPassword(stored, password string) (ok bool, legacy bool) {
	if stored == "" {
		return false, false
	}
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1, true
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	name := user.NormalizeName(req.Name)

	userData, err := a.UserRepository.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by name: %w", err)
	}

	ok, legacy := verifyPassword(userData.PasswordHash, req.Password)
	if !ok {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if legacy {
		if hash, err := a.hashPassword(req.Password); err != nil {
			slog.Error("Failed to hash legacy password", "user", name, "error", err)
		} else {
			userData.PasswordHash = hash
			userData.UpdatedAt = a.now()
			if err := a.UserRepository.Save(ctx, userData); err != nil {
				slog.Warn("Failed to upgrade legacy password", "user", name, "error", err)
			} else {
				slog.Info("Upgraded legacy password to bcrypt", "user", name)
			}
		}
	}

	token, claims, err := a.Service.GenerateAccessToken(userData)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: claims.ExpiresAt.Unix(),
		FirstLogin:           userData.FirstLogin,
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, session auth.Session) error {
	if session.TokenID == "" {
		return auth.ErrInvalidToken
	}
	a.Service.RevokeToken(session.TokenID, session.ExpiresAt)
	return nil
}

// Refresh implements auth.AuthService. Role, title and the initial-password
// flag are re-read from the credential store; the token only proves identity.
func (a *AuthServiceImpl) Refresh(ctx context.Context, session auth.Session) (auth.Session, error) {
	userData, err := a.UserRepository.GetByName(ctx, session.Name)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.Session{}, auth.ErrInvalidToken
		}
		return auth.Session{}, fmt.Errorf("failed to get user by name: %w", err)
	}

	session.Role = string(userData.Role)
	session.Title = userData.Title
	session.FirstLogin = userData.FirstLogin
	return session, nil
}

// ChangePassword implements auth.AuthService. The first change (from the
// initial password) ends the session so the user logs in again.
func (a *AuthServiceImpl) ChangePassword(ctx context.Context, session auth.Session, req auth.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	userData, err := a.UserRepository.GetByName(ctx, session.Name)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.ErrUserNotFound
		}
		return fmt.Errorf("failed to get user by name: %w", err)
	}

	hash, err := a.hashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	wasFirstLogin := userData.FirstLogin
	userData.PasswordHash = hash
	userData.FirstLogin = false
	userData.UpdatedAt = a.now()
	if err := a.UserRepository.Save(ctx, userData); err != nil {
		return fmt.Errorf("failed to save password: %w", err)
	}

	if wasFirstLogin || session.FirstLogin {
		a.Service.RevokeToken(session.TokenID, session.ExpiresAt)
	}
	return nil
}

// ListUsers implements auth.AuthService.
func (a *AuthServiceImpl) ListUsers(ctx context.Context) ([]user.UserResponse, error) {
	users, err := a.UserRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	resp := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, user.NewUserResponse(u))
	}
	return resp, nil
}

// CreateUser implements auth.AuthService. New users start on their initial
// password.
func (a *AuthServiceImpl) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	name := user.NormalizeName(req.Name)
	_, err := a.UserRepository.GetByName(ctx, name)
	if err == nil {
		return user.UserResponse{}, user.ErrUserNameExists
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return user.UserResponse{}, fmt.Errorf("failed to get user by name: %w", err)
	}

	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := user.User{
		Name:         name,
		PasswordHash: hash,
		FirstLogin:   true,
		Role:         user.ParseRole(req.Role),
		Title:        strings.TrimSpace(req.Title),
		UpdatedAt:    a.now(),
	}
	if err := a.UserRepository.Save(ctx, newUser); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to save user: %w", err)
	}

	slog.Info("User created", "user", name, "role", newUser.Role)
	return user.NewUserResponse(newUser), nil
}

// ResetPassword implements auth.AuthService. The user must change the new
// password at the next login.
func (a *AuthServiceImpl) ResetPassword(ctx context.Context, req user.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	name := user.NormalizeName(req.Name)
	userData, err := a.UserRepository.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get user by name: %w", err)
	}

	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	userData.PasswordHash = hash
	userData.FirstLogin = true
	userData.UpdatedAt = a.now()
	if err := a.UserRepository.Save(ctx, userData); err != nil {
		return fmt.Errorf("failed to save password: %w", err)
	}

	slog.Info("Password reset", "user", name)
	return nil
}
