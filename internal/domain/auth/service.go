package auth

import (
	"context"

	"github.com/auction1/pto-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, session Session) error
	Refresh(ctx context.Context, session Session) (Session, error)
	ChangePassword(ctx context.Context, session Session, req ChangePasswordRequest) error
	ListUsers(ctx context.Context) ([]user.UserResponse, error)
	CreateUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error)
	ResetPassword(ctx context.Context, req user.ResetPasswordRequest) error
}
