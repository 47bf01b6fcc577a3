package repository

import (
	"context"
	"database/sql"
	"errors"

	"fitness/internal/db"
	"fitness/internal/interfaces"
	"github.com/lib/pq"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// mapError translates driver errors into the repository error contract.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return interfaces.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return &interfaces.DuplicateError{Constraint: pqErr.Constraint}
	}
	return err
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

type store struct {
	conn db.DBTX
	sql  *sql.DB
}

// NewStore returns an interfaces.Store backed by PostgreSQL.
func NewStore(sqlDB *sql.DB) interfaces.Store {
	return &store{conn: sqlDB, sql: sqlDB}
}

func (s *store) Accounts() interfaces.AccountRepository {
	return &accountRepository{db: s.conn}
}

func (s *store) VerificationTokens() interfaces.VerificationTokenRepository {
	return &verificationTokenRepository{db: s.conn}
}

func (s *store) Products() interfaces.ProductRepository {
	return &productRepository{db: s.conn}
}

func (s *store) Cart() interfaces.CartRepository {
	return &cartRepository{db: s.conn}
}

func (s *store) Orders() interfaces.OrderRepository {
	return &orderRepository{db: s.conn}
}

func (s *store) PaymentCards() interfaces.PaymentCardRepository {
	return &paymentCardRepository{db: s.conn}
}

func (s *store) WithinTx(ctx context.Context, fn func(tx interfaces.Store) error) error {
	if s.sql == nil {
		// already inside a transaction
		return fn(s)
	}
	return db.WithTx(ctx, s.sql, nil, func(ctx context.Context, tx *sql.Tx) error {
		return fn(&store{conn: tx})
	})
}
