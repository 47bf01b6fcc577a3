package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"fitness/internal/interfaces"
	"fitness/internal/models"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountRowColumns = []string{
	"id", "email", "user_name", "password_hash", "first_name", "last_name", "phone_number", "gender",
	"date_of_birth", "verified", "verified_at", "reset_token_hash", "reset_token_expires_at", "roles",
	"created_at", "updated_at",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, mock
}

func TestAccountRepository_GetByUserName(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewAccountRepository(conn)
	now := time.Now()

	rows := sqlmock.NewRows(accountRowColumns).AddRow(
		"a-1", "jane@example.com", "jane", "hash", "Jane", "Doe", "+14155550100", "FEMALE",
		nil, true, now, nil, nil, "{USER,ADMIN}", now, now,
	)
	mock.ExpectQuery(`SELECT .* FROM accounts WHERE user_name = \$1$`).
		WithArgs("jane").
		WillReturnRows(rows)

	a, err := repo.GetByUserName(context.Background(), "jane")
	require.NoError(t, err)
	assert.Equal(t, "a-1", a.ID)
	assert.Equal(t, models.GenderFemale, a.Gender)
	assert.Equal(t, []string{"USER", "ADMIN"}, a.Roles)
	assert.True(t, a.Verified)
	require.NotNil(t, a.VerifiedAt)
	assert.Nil(t, a.DateOfBirth)
	assert.Nil(t, a.ResetTokenHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetByEmailNotFound(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewAccountRepository(conn)

	mock.ExpectQuery(`FROM accounts WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestAccountRepository_ResetLookupLocksRow(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewAccountRepository(conn)
	now := time.Now()
	digest := "abc123"

	rows := sqlmock.NewRows(accountRowColumns).AddRow(
		"a-1", "jane@example.com", "jane", "hash", "", "", "", "",
		nil, false, nil, digest, now.Add(time.Hour), "{USER}", now, now,
	)
	mock.ExpectQuery(`FROM accounts WHERE reset_token_hash = \$1 FOR UPDATE`).
		WithArgs(digest).
		WillReturnRows(rows)

	a, err := repo.GetByResetTokenHashForUpdate(context.Background(), digest)
	require.NoError(t, err)
	require.NotNil(t, a.ResetTokenHash)
	assert.Equal(t, digest, *a.ResetTokenHash)
	require.NotNil(t, a.ResetTokenExpiresAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_CreateDuplicate(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewAccountRepository(conn)

	mock.ExpectQuery(`INSERT INTO accounts`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "accounts_user_name_key"})

	err := repo.Create(context.Background(), &models.Account{ID: "a-1", Email: "jane@example.com", UserName: "jane"})
	var dup *interfaces.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "accounts_user_name_key", dup.Constraint)
}

func TestAccountRepository_CreateDefaultsRole(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewAccountRepository(conn)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO accounts`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	a := &models.Account{ID: "a-1", Email: "jane@example.com", UserName: "jane", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(context.Background(), a))
	assert.Equal(t, []string{"USER"}, a.Roles)
}

func TestAccountRepository_SetResetTokenMissingAccount(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewAccountRepository(conn)

	mock.ExpectExec(`UPDATE accounts SET reset_token_hash = \$1`).
		WithArgs(nil, nil, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetResetToken(context.Background(), "missing", nil, nil)
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestAccountRepository_ListPaginates(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewAccountRepository(conn)
	now := time.Now()

	mock.ExpectQuery(`FROM accounts ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows(accountRowColumns).AddRow(
			"a-2", "b@example.com", "bob", "hash", "", "", "", "",
			nil, false, nil, nil, nil, "{USER}", now, now,
		))

	accounts, err := repo.List(context.Background(), 10, 20)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "bob", accounts[0].UserName)
}

func TestVerificationTokenRepository_DeleteByAccount(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewVerificationTokenRepository(conn)

	mock.ExpectExec(`DELETE FROM verification_tokens WHERE account_id = \$1`).
		WithArgs("a-1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.DeleteByAccount(context.Background(), "a-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestVerificationTokenRepository_GetByTokenHashNotFound(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewVerificationTokenRepository(conn)

	mock.ExpectQuery(`FROM verification_tokens WHERE token_hash = \$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByTokenHash(context.Background(), "nope")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestVerificationTokenRepository_DeleteExpired(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewVerificationTokenRepository(conn)
	cutoff := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`DELETE FROM verification_tokens WHERE expires_at <= \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(context.Background(), cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
