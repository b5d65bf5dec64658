package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserNameExists          = errors.New("user name already registered")
	ErrInvalidPasswordLength   = errors.New("password must be at least 4 characters")
	ErrAdminPrivilegeRequired  = errors.New("admin privilege required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrCredentialStore         = errors.New("credential store unavailable")
)
