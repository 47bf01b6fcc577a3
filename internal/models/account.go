package models

import "time"

type Role string

const (
	RoleUser    Role = "USER"
	RolePremium Role = "PREMIUM"
	RoleAdmin   Role = "ADMIN"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// Account is the stored credential record. It never leaves the service layer as-is;
// handlers respond with AccountView.
type Account struct {
	ID                  string
	Email               string
	UserName            string
	PasswordHash        string
	FirstName           string
	LastName            string
	PhoneNumber         string
	Gender              Gender
	DateOfBirth         *time.Time
	Verified            bool
	VerifiedAt          *time.Time
	ResetTokenHash      *string
	ResetTokenExpiresAt *time.Time
	Roles               []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// AccountView is the sanitized projection of an Account.
type AccountView struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	UserName    string     `json:"userName"`
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Gender      Gender     `json:"gender,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Verified    bool       `json:"verified"`
	Roles       []string   `json:"roles"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func NewAccountView(a *Account) AccountView {
	roles := a.Roles
	if roles == nil {
		roles = []string{}
	}
	return AccountView{
		ID:          a.ID,
		Email:       a.Email,
		UserName:    a.UserName,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		PhoneNumber: a.PhoneNumber,
		Gender:      a.Gender,
		DateOfBirth: a.DateOfBirth,
		Verified:    a.Verified,
		Roles:       roles,
		CreatedAt:   a.CreatedAt,
	}
}

type RegisterRequest struct {
	Email       string     `json:"email" validate:"required"`
	UserName    string     `json:"username" validate:"required,min=2,max=64"`
	Password    string     `json:"password" validate:"required,min=8"`
	FirstName   string     `json:"firstName,omitempty" validate:"max=100"`
	LastName    string     `json:"lastName,omitempty" validate:"max=100"`
	PhoneNumber string     `json:"phoneNumber" validate:"required"`
	Gender      Gender     `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
}

type LoginRequest struct {
	UserName string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// UpdateProfileRequest carries the mutable profile fields. Nil fields are left as stored.
type UpdateProfileRequest struct {
	UserName    string     `json:"userName" validate:"required"`
	FirstName   *string    `json:"firstName,omitempty" validate:"omitempty,min=1"`
	LastName    *string    `json:"lastName,omitempty" validate:"omitempty,min=1"`
	PhoneNumber *string    `json:"phoneNumber,omitempty"`
	Gender      *Gender    `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
}

type ChangePasswordRequest struct {
	UserName        string `json:"userName" validate:"required"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}
