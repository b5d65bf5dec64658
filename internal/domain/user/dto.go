package user

import (
	"strings"

	"github.com/auction1/pto-backend-go/internal/pkg/validator"
)

// MinPasswordLength is the shortest password accepted on change or reset.
const MinPasswordLength = 4

// UserResponse represents user data in API responses
type UserResponse struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	Role       string `json:"role"`
	FirstLogin bool   `json:"first_login"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

func NewUserResponse(u User) UserResponse {
	resp := UserResponse{
		Name:       u.Name,
		Title:      u.Title,
		Role:       string(u.Role),
		FirstLogin: u.FirstLogin,
	}
	if !u.UpdatedAt.IsZero() {
		resp.UpdatedAt = u.UpdatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// CreateUserRequest represents request to register an employee out of band
type CreateUserRequest struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// NormalizeName strips all whitespace, the way names are matched at login.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), "")
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len([]rune(r.Password)) < MinPasswordLength {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 4 characters",
		})
	}

	if r.Role != "" {
		validRoles := []string{string(RoleUser), string(RoleAdmin)}
		if !validator.IsInSlice(r.Role, validRoles) {
			errs = append(errs, validator.ValidationError{
				Field:   "role",
				Message: "invalid role",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ResetPasswordRequest sets a new initial password for an employee.
type ResetPasswordRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (r *ResetPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len([]rune(r.Password)) < MinPasswordLength {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 4 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
