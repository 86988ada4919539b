package auth

import "russify/internal/domain"

const (
	ActionLogin         = "login"
	ActionRegister      = "register"
	ActionResetPassword = "reset_password"
)

type actionEnvelope struct {
	Action string `json:"action"`
}

// LoginRequest accepts the login as phone or email; a bare "login" field
// may carry either.
type LoginRequest struct {
	Login    string `json:"login"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

func (r LoginRequest) identifier() string {
	switch {
	case r.Login != "":
		return r.Login
	case r.Phone != "":
		return r.Phone
	default:
		return r.Email
	}
}

type RegisterRequest struct {
	Name            string  `json:"name" binding:"required" validate:"required"`
	CompanyName     *string `json:"company_name"`
	Phone           string  `json:"phone" binding:"required" validate:"required"`
	Email           *string `json:"email" binding:"omitempty,email" validate:"omitempty,email"`
	Password        string  `json:"password" binding:"required" validate:"required"`
	PasswordConfirm string  `json:"password_confirm" binding:"required" validate:"required"`
}

type ResetPasswordRequest struct {
	Phone           string `json:"phone" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	NewPassword     string `json:"new_password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

// CreateAdminRequest is only reachable from the ops CLI.
type CreateAdminRequest struct {
	Name     string  `validate:"required"`
	Phone    string  `validate:"required"`
	Email    *string `validate:"omitempty,email"`
	Password string  `validate:"required"`
}

type Result struct {
	User  *domain.User
	Token string
}
