package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fitness/internal/db"
	"fitness/internal/interfaces"
	"fitness/internal/models"
	"github.com/lib/pq"
)

const accountColumns = `id, email, user_name, password_hash, first_name, last_name, phone_number, gender,
		date_of_birth, verified, verified_at, reset_token_hash, reset_token_expires_at, roles,
		created_at, updated_at`

type accountRepository struct {
	db db.DBTX
}

func NewAccountRepository(conn db.DBTX) interfaces.AccountRepository {
	return &accountRepository{db: conn}
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		a          models.Account
		gender     string
		dob        sql.NullTime
		verifiedAt sql.NullTime
		resetHash  sql.NullString
		resetExp   sql.NullTime
	)
	err := row.Scan(
		&a.ID, &a.Email, &a.UserName, &a.PasswordHash, &a.FirstName, &a.LastName, &a.PhoneNumber, &gender,
		&dob, &a.Verified, &verifiedAt, &resetHash, &resetExp, pq.Array(&a.Roles),
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	a.Gender = models.Gender(gender)
	if dob.Valid {
		a.DateOfBirth = &dob.Time
	}
	if verifiedAt.Valid {
		a.VerifiedAt = &verifiedAt.Time
	}
	if resetHash.Valid {
		a.ResetTokenHash = &resetHash.String
	}
	if resetExp.Valid {
		a.ResetTokenExpiresAt = &resetExp.Time
	}
	return &a, nil
}

func (r *accountRepository) Create(ctx context.Context, a *models.Account) error {
	query := `
		INSERT INTO accounts (id, email, user_name, password_hash, first_name, last_name, phone_number,
			gender, date_of_birth, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	roles := a.Roles
	if len(roles) == 0 {
		roles = []string{string(models.RoleUser)}
		a.Roles = roles
	}

	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.Email, a.UserName, a.PasswordHash, a.FirstName, a.LastName, a.PhoneNumber,
		string(a.Gender), a.DateOfBirth, pq.Array(roles), a.CreatedAt, a.UpdatedAt,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create account: %w", mapError(err))
	}
	return nil
}

func (r *accountRepository) getOne(ctx context.Context, where string, arg any, lock bool) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where
	if lock {
		query += ` FOR UPDATE`
	}
	return scanAccount(r.db.QueryRowContext(ctx, query, arg))
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.getOne(ctx, `id = $1`, id, false)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getOne(ctx, `LOWER(email) = LOWER($1)`, email, false)
}

func (r *accountRepository) GetByUserName(ctx context.Context, userName string) (*models.Account, error) {
	return r.getOne(ctx, `user_name = $1`, userName, false)
}

func (r *accountRepository) GetByUserNameForUpdate(ctx context.Context, userName string) (*models.Account, error) {
	return r.getOne(ctx, `user_name = $1`, userName, true)
}

func (r *accountRepository) GetByResetTokenHashForUpdate(ctx context.Context, tokenHash string) (*models.Account, error) {
	return r.getOne(ctx, `reset_token_hash = $1`, tokenHash, true)
}

func (r *accountRepository) List(ctx context.Context, limit int, offset int) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC`

	args := make([]any, 0, 2)
	argPos := 1
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, limit)
		argPos++
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *accountRepository) UpdateProfile(ctx context.Context, a *models.Account) error {
	query := `
		UPDATE accounts
		SET first_name = $1,
			last_name = $2,
			phone_number = $3,
			gender = $4,
			date_of_birth = $5,
			updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		a.FirstName, a.LastName, a.PhoneNumber, string(a.Gender), a.DateOfBirth, a.ID,
	).Scan(&a.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (r *accountRepository) UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// SetResetToken overwrites the reset token of the account. Nil arguments clear it.
func (r *accountRepository) SetResetToken(ctx context.Context, id string, tokenHash *string, expiresAt *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET reset_token_hash = $1, reset_token_expires_at = $2, updated_at = NOW() WHERE id = $3`,
		tokenHash, expiresAt, id)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(res)
}

func (r *accountRepository) MarkVerified(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET verified = TRUE, verified_at = $1, updated_at = NOW() WHERE id = $2`, at, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}
