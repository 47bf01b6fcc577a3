package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"fitness/internal/middleware"
	"fitness/internal/models"
	"fitness/internal/services"
	"github.com/go-chi/chi/v5"
)

// AccountManager is the account lifecycle as seen by the HTTP layer.
type AccountManager interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AccountView, error)
	SendVerificationEmail(ctx context.Context, email string) error
	ConfirmEmail(ctx context.Context, token string) (*models.AccountView, error)
	Login(ctx context.Context, userName string, password string) (*models.LoginResponse, error)
	UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.AccountView, error)
	ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (services.Outcome, error)
	RequestPasswordReset(ctx context.Context, email string) (services.Outcome, error)
	RedeemPasswordReset(ctx context.Context, token string, newPassword string, confirmPassword string) (services.Outcome, error)
	GetAccount(ctx context.Context, id string) (*models.AccountView, error)
	ListAccounts(ctx context.Context, limit int, offset int) ([]models.AccountView, int, error)
	DeleteAccount(ctx context.Context, id string) error
}

type AccountHandler struct {
	accounts AccountManager
	logger   *slog.Logger
}

func NewAccountHandler(accounts AccountManager, logger *slog.Logger) *AccountHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountHandler{accounts: accounts, logger: logger}
}

// @Tags Person
// @Summary Register a new account
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Account details"
// @Success 201 {object} models.AccountView
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/v1/person/register [post]
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// @Tags Person
// @Summary Confirm an email address
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/person/confirm [get]
func (h *AccountHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	view, err := h.accounts.ConfirmEmail(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "email verified",
		"account": view,
	})
}

// @Tags Person
// @Summary Send a new verification email
// @Accept json
// @Produce json
// @Param request body models.EmailRequest true "Email"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/v1/person/resend-verification [post]
func (h *AccountHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req models.EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.accounts.SendVerificationEmail(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSONMessage(w, http.StatusOK, "verification email sent")
}

// @Tags Person
// @Summary Log in
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/person/login [post]
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.accounts.Login(r.Context(), req.UserName, req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// actingUserName returns the account a profile request may touch. Admins can name
// any account; everyone else acts on their own.
func actingUserName(r *http.Request, requested string) string {
	if middleware.RoleFromContext(r.Context()) == string(models.RoleAdmin) && requested != "" {
		return requested
	}
	return middleware.UserNameFromContext(r.Context())
}

// @Tags Person
// @Summary Update profile details
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.AccountView
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/person/update [put]
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserName = actingUserName(r, req.UserName)

	view, err := h.accounts.UpdateProfile(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ChangePassword answers 200 for declined attempts too; the status field tells them apart.
// @Tags Person
// @Summary Change the current password
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ChangePasswordRequest true "Passwords"
// @Success 200 {object} services.Outcome
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/person/change-password [put]
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserName = actingUserName(r, req.UserName)

	outcome, err := h.accounts.ChangePassword(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// @Tags Person
// @Summary Request a password reset email
// @Accept json
// @Produce json
// @Param request body models.EmailRequest true "Email"
// @Success 200 {object} services.Outcome
// @Failure 404 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/v1/person/reset-password [post]
func (h *AccountHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req models.EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	outcome, err := h.accounts.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// @Tags Person
// @Summary Set a new password with a reset token
// @Accept json
// @Produce json
// @Param token query string true "Reset token"
// @Param request body models.ResetPasswordRequest true "New password"
// @Success 200 {object} services.Outcome
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/person/update-password [put]
func (h *AccountHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	outcome, err := h.accounts.RedeemPasswordReset(r.Context(), r.URL.Query().Get("token"), req.NewPassword, req.ConfirmPassword)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// @Tags Accounts
// @Summary List accounts
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/accounts [get]
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	views, total, err := h.accounts.ListAccounts(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": views,
		"total": total,
	})
}

// @Tags Accounts
// @Summary Get account
// @Security BearerAuth
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} models.AccountView
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/accounts/{id} [get]
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	view, err := h.accounts.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// @Tags Accounts
// @Summary Delete account
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.DeleteAccount(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
