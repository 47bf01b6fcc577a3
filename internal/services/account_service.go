package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"fitness/internal/interfaces"
	"fitness/internal/metrics"
	"fitness/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const minPasswordLength = 8

// LifecycleConfig carries the settings the account flows need from configuration.
type LifecycleConfig struct {
	SiteHost        string
	SitePort        string
	VerificationTTL time.Duration
	ResetTTL        time.Duration
}

type AccountServiceDeps struct {
	Store         interfaces.Store
	Tokens        TokenIssuer
	Mailer        EmailSender
	Authenticator Authenticator
	Sessions      SessionIssuer
	Hasher        PasswordHasher
	Metrics       metrics.Recorder
	Logger        *slog.Logger
	Config        LifecycleConfig
}

// AccountService drives registration, verification, login and the password flows.
type AccountService struct {
	store    interfaces.Store
	tokens   TokenIssuer
	mailer   EmailSender
	authn    Authenticator
	sessions SessionIssuer
	hasher   PasswordHasher
	metrics  metrics.Recorder
	logger   *slog.Logger
	cfg      LifecycleConfig
	v        *validator.Validate
	now      func() time.Time
}

func NewAccountService(d AccountServiceDeps) *AccountService {
	if d.Metrics == nil {
		d.Metrics = metrics.Noop{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Config.VerificationTTL <= 0 {
		d.Config.VerificationTTL = 24 * time.Hour
	}
	if d.Config.ResetTTL <= 0 {
		d.Config.ResetTTL = 24 * time.Hour
	}
	return &AccountService{
		store:    d.Store,
		tokens:   d.Tokens,
		mailer:   d.Mailer,
		authn:    d.Authenticator,
		sessions: d.Sessions,
		hasher:   d.Hasher,
		metrics:  d.Metrics,
		logger:   d.Logger,
		cfg:      d.Config,
		v:        NewValidator(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewValidator returns a validator that reports json field names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidationErrorFrom converts validator output into a ValidationError for the first failing field.
func ValidationErrorFrom(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{Field: fe.Field(), Message: fmt.Sprintf("failed on %q", fe.Tag())}
	}
	return &ValidationError{Message: err.Error()}
}

func (s *AccountService) checkEmail(email string) error {
	if err := s.v.Var(email, "required,email"); err != nil {
		return &ValidationError{Field: "email", Message: "invalid email address"}
	}
	return nil
}

func (s *AccountService) checkPhone(phone string) error {
	if err := s.v.Var(phone, "required,e164"); err != nil {
		return &ValidationError{Field: "phoneNumber", Message: "phone number must be in E.164 format"}
	}
	return nil
}

func checkPassword(field, password string) error {
	if len(password) < minPasswordLength {
		return &ValidationError{Field: field, Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength)}
	}
	return nil
}

// conflictFromDuplicate maps a unique violation on accounts to the field the caller
// sent. Any other constraint is not a caller conflict and reports false.
func conflictFromDuplicate(dup *interfaces.DuplicateError) (*ConflictError, bool) {
	switch dup.Constraint {
	case "accounts_user_name_key":
		return &ConflictError{Field: "username", Message: "user name already taken"}, true
	case "accounts_email_key", "accounts_email_lower_idx":
		return &ConflictError{Field: "email", Message: "email already registered"}, true
	default:
		return nil, false
	}
}

// Register creates an unverified account and emails its verification link. The account
// and the token are written together; a mail failure leaves both in place and is
// reported as NotificationError.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (*models.AccountView, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.UserName = strings.TrimSpace(req.UserName)

	if err := s.v.Struct(req); err != nil {
		return nil, ValidationErrorFrom(err)
	}
	if err := s.checkEmail(req.Email); err != nil {
		return nil, err
	}
	if err := s.checkPhone(req.PhoneNumber); err != nil {
		return nil, err
	}

	accounts := s.store.Accounts()
	if _, err := accounts.GetByEmail(ctx, req.Email); err == nil {
		return nil, &ConflictError{Field: "email", Message: "email already registered"}
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if _, err := accounts.GetByUserName(ctx, req.UserName); err == nil {
		return nil, &ConflictError{Field: "username", Message: "user name already taken"}
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, fmt.Errorf("check user name: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        req.Email,
		UserName:     req.UserName,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		Gender:       req.Gender,
		DateOfBirth:  req.DateOfBirth,
		Roles:        []string{string(models.RoleUser)},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	issued, err := s.tokens.Issue()
	if err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(tx interfaces.Store) error {
		if err := tx.Accounts().Create(ctx, account); err != nil {
			return err
		}
		return tx.VerificationTokens().Create(ctx, &models.VerificationToken{
			ID:        uuid.NewString(),
			AccountID: account.ID,
			TokenHash: issued.Digest,
			ExpiresAt: now.Add(s.cfg.VerificationTTL),
		})
	})
	if err != nil {
		var dup *interfaces.DuplicateError
		if errors.As(err, &dup) {
			if conflict, ok := conflictFromDuplicate(dup); ok {
				return nil, conflict
			}
		}
		return nil, fmt.Errorf("register account: %w", err)
	}

	s.metrics.RecordRegistration()
	s.logger.Info("account registered", "account_id", account.ID, "user_name", account.UserName)

	if err := s.sendVerification(account, issued.Raw); err != nil {
		return nil, err
	}

	view := models.NewAccountView(account)
	return &view, nil
}

// SendVerificationEmail replaces any outstanding verification token of the account
// with a fresh one and mails it.
func (s *AccountService) SendVerificationEmail(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := s.checkEmail(email); err != nil {
		return err
	}
	account, err := s.store.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return &NotFoundError{Resource: "account", Message: "no account registered with this email"}
		}
		return err
	}
	if account.Verified {
		return &ConflictError{Field: "email", Message: "email already verified"}
	}

	issued, err := s.tokens.Issue()
	if err != nil {
		return err
	}
	err = s.store.WithinTx(ctx, func(tx interfaces.Store) error {
		if _, err := tx.VerificationTokens().DeleteByAccount(ctx, account.ID); err != nil {
			return err
		}
		return tx.VerificationTokens().Create(ctx, &models.VerificationToken{
			ID:        uuid.NewString(),
			AccountID: account.ID,
			TokenHash: issued.Digest,
			ExpiresAt: s.now().Add(s.cfg.VerificationTTL),
		})
	})
	if err != nil {
		return fmt.Errorf("store verification token: %w", err)
	}

	return s.sendVerification(account, issued.Raw)
}

// ConfirmEmail redeems a verification token. A token works once.
func (s *AccountService) ConfirmEmail(ctx context.Context, token string) (*models.AccountView, error) {
	notFound := &NotFoundError{Resource: "verification token", Message: "verification token is invalid or expired"}
	if token == "" {
		return nil, notFound
	}

	var account *models.Account
	err := s.store.WithinTx(ctx, func(tx interfaces.Store) error {
		vt, err := tx.VerificationTokens().GetByTokenHash(ctx, DigestToken(token))
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return notFound
			}
			return err
		}
		now := s.now()
		if vt.Expired(now) {
			return notFound
		}
		if err := tx.Accounts().MarkVerified(ctx, vt.AccountID, now); err != nil {
			return err
		}
		if err := tx.VerificationTokens().Delete(ctx, vt.ID); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				// redeemed concurrently
				return notFound
			}
			return err
		}
		account, err = tx.Accounts().GetByID(ctx, vt.AccountID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("email verified", "account_id", account.ID)
	view := models.NewAccountView(account)
	return &view, nil
}

// Login checks the credentials and issues a session token carrying the selected role.
// Every failure looks the same to the caller.
func (s *AccountService) Login(ctx context.Context, userName string, password string) (*models.LoginResponse, error) {
	account, err := s.authn.Authenticate(ctx, userName, password)
	if err != nil {
		s.metrics.RecordLogin(false)
		if !errors.Is(err, ErrBadCredentials) {
			s.logger.Error("authentication backend failed", "error", err)
		}
		return nil, &AuthenticationError{Err: ErrBadCredentials}
	}

	role := selectRole(account.Roles)
	token, err := s.sessions.Issue(account.ID, account.UserName, role)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	s.metrics.RecordLogin(true)
	return &models.LoginResponse{Token: token, Role: role}, nil
}

// UpdateProfile overwrites the profile fields present in req. The account row is
// locked between the read and the write.
func (s *AccountService) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.AccountView, error) {
	if err := s.v.Struct(req); err != nil {
		return nil, ValidationErrorFrom(err)
	}
	if req.PhoneNumber != nil {
		if err := s.checkPhone(*req.PhoneNumber); err != nil {
			return nil, err
		}
	}

	var account *models.Account
	err := s.store.WithinTx(ctx, func(tx interfaces.Store) error {
		accounts := tx.Accounts()
		var err error
		account, err = accounts.GetByUserNameForUpdate(ctx, req.UserName)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return &NotFoundError{Resource: "account", Message: "account not found"}
			}
			return err
		}

		if req.FirstName != nil {
			account.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			account.LastName = *req.LastName
		}
		if req.PhoneNumber != nil {
			account.PhoneNumber = *req.PhoneNumber
		}
		if req.Gender != nil {
			account.Gender = *req.Gender
		}
		if req.DateOfBirth != nil {
			account.DateOfBirth = req.DateOfBirth
		}

		if err := accounts.UpdateProfile(ctx, account); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	view := models.NewAccountView(account)
	return &view, nil
}

// ChangePassword replaces the password after checking the current one. The account row
// stays locked for the whole check-and-write.
func (s *AccountService) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (Outcome, error) {
	var outcome Outcome
	err := s.store.WithinTx(ctx, func(tx interfaces.Store) error {
		account, err := tx.Accounts().GetByUserNameForUpdate(ctx, req.UserName)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return &NotFoundError{Resource: "account", Message: "account not found"}
			}
			return err
		}
		if err := s.hasher.Compare(account.PasswordHash, req.CurrentPassword); err != nil {
			outcome = outcomeIncorrectPassword
			return nil
		}
		if req.NewPassword != req.ConfirmPassword {
			outcome = outcomeMismatch
			return nil
		}
		if err := checkPassword("newPassword", req.NewPassword); err != nil {
			return err
		}
		hash, err := s.hasher.Hash(req.NewPassword)
		if err != nil {
			return err
		}
		if err := tx.Accounts().UpdatePasswordHash(ctx, account.ID, hash); err != nil {
			return err
		}
		outcome = outcomePasswordChanged
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	s.metrics.RecordPasswordOutcome(string(outcome.Status))
	return outcome, nil
}

// RequestPasswordReset issues a reset token for the account, replacing any earlier one,
// and mails the reset link.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) (Outcome, error) {
	email = strings.TrimSpace(email)
	if err := s.checkEmail(email); err != nil {
		return Outcome{}, err
	}
	accounts := s.store.Accounts()
	account, err := accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return Outcome{}, &NotFoundError{Resource: "account", Message: "no account registered with this email"}
		}
		return Outcome{}, err
	}

	issued, err := s.tokens.Issue()
	if err != nil {
		return Outcome{}, err
	}
	expiresAt := s.now().Add(s.cfg.ResetTTL)
	if err := accounts.SetResetToken(ctx, account.ID, &issued.Digest, &expiresAt); err != nil {
		return Outcome{}, fmt.Errorf("store reset token: %w", err)
	}

	body, err := render(resetTemplate, emailData{
		Name: displayName(account),
		Link: siteLink(s.cfg.SiteHost, s.cfg.SitePort, ResetPasswordPath, issued.Raw),
		TTL:  s.cfg.ResetTTL.String(),
	})
	if err != nil {
		return Outcome{}, err
	}
	if err := s.deliver("reset", account.Email, "Reset your password", body); err != nil {
		return Outcome{}, err
	}
	return outcomeEmailSent, nil
}

// RedeemPasswordReset sets a new password using a reset token. A mismatch keeps the
// token usable; success consumes it.
func (s *AccountService) RedeemPasswordReset(ctx context.Context, token string, newPassword string, confirmPassword string) (Outcome, error) {
	notFound := &NotFoundError{Resource: "reset token", Message: "reset token is invalid or expired"}
	if token == "" {
		return Outcome{}, notFound
	}

	var outcome Outcome
	err := s.store.WithinTx(ctx, func(tx interfaces.Store) error {
		account, err := tx.Accounts().GetByResetTokenHashForUpdate(ctx, DigestToken(token))
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				return notFound
			}
			return err
		}
		if account.ResetTokenExpiresAt == nil || !s.now().Before(*account.ResetTokenExpiresAt) {
			return notFound
		}
		if newPassword != confirmPassword {
			outcome = outcomeMismatch
			return nil
		}
		if err := checkPassword("newPassword", newPassword); err != nil {
			return err
		}
		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return err
		}
		if err := tx.Accounts().UpdatePasswordHash(ctx, account.ID, hash); err != nil {
			return err
		}
		if err := tx.Accounts().SetResetToken(ctx, account.ID, nil, nil); err != nil {
			return err
		}
		outcome = outcomePasswordUpdated
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	s.metrics.RecordPasswordOutcome(string(outcome.Status))
	return outcome, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id string) (*models.AccountView, error) {
	account, err := s.store.Accounts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, &NotFoundError{Resource: "account", Message: "account not found"}
		}
		return nil, err
	}
	view := models.NewAccountView(account)
	return &view, nil
}

func (s *AccountService) ListAccounts(ctx context.Context, limit int, offset int) ([]models.AccountView, int, error) {
	limit, offset = Page(limit, offset)
	accounts := s.store.Accounts()
	list, err := accounts.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := accounts.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	views := make([]models.AccountView, 0, len(list))
	for i := range list {
		views = append(views, models.NewAccountView(&list[i]))
	}
	return views, total, nil
}

func (s *AccountService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.store.Accounts().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return &NotFoundError{Resource: "account", Message: "account not found"}
		}
		return err
	}
	s.logger.Info("account deleted", "account_id", id)
	return nil
}

// PurgeExpiredVerificationTokens removes verification tokens that can no longer be redeemed.
func (s *AccountService) PurgeExpiredVerificationTokens(ctx context.Context) (int64, error) {
	return s.store.VerificationTokens().DeleteExpired(ctx, s.now())
}

func (s *AccountService) sendVerification(account *models.Account, rawToken string) error {
	body, err := render(verificationTemplate, emailData{
		Name: displayName(account),
		Link: siteLink(s.cfg.SiteHost, s.cfg.SitePort, ConfirmEmailPath, rawToken),
		TTL:  s.cfg.VerificationTTL.String(),
	})
	if err != nil {
		return err
	}
	return s.deliver("verification", account.Email, "Confirm your email", body)
}

func (s *AccountService) deliver(kind, to, subject, body string) error {
	err := s.mailer.Send(to, subject, body)
	s.metrics.RecordEmail(kind, err)
	if err != nil {
		s.logger.Error("email delivery failed", "kind", kind, "to", to, "error", err)
		return &NotificationError{Err: err}
	}
	return nil
}

func displayName(a *models.Account) string {
	if a.FirstName != "" {
		return a.FirstName
	}
	return a.UserName
}
