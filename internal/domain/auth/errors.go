package auth

import "errors"

var (
	ErrInvalidCredentials     = errors.New("invalid name or password")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrTokenRevoked           = errors.New("token has been revoked")
	ErrPasswordChangeRequired = errors.New("password change required before continuing")
	ErrUserNotFound           = errors.New("user not found")
)
