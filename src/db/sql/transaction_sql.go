package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"fintrack-server/src/apperr"
	"fintrack-server/src/models"
)

const foreignKeyViolation = "23503"

// amount travels as text so decimal precision never passes through float64.
const transactionColumns = `id, owner_id, title, amount::text, type, category, note, date, created_at, updated_at`

// TransactionStore keeps transactions in Postgres. Every statement that
// touches a single row filters on both id and owner_id.
type TransactionStore struct {
	pool *pgxpool.Pool
}

func NewTransactionStore(pool *pgxpool.Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

func (s *TransactionStore) Insert(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (id, owner_id, title, amount, type, category, note, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + transactionColumns
	row := s.pool.QueryRow(ctx, query,
		uuid.NewString(), t.OwnerID, t.Title, t.Amount.String(), string(t.Type), t.Category, t.Note, t.Date)
	created, err := scanTransaction(row)
	if err != nil {
		// owner_id references users; a token for a deleted account lands here.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, apperr.ErrUnauthenticated
		}
		return nil, err
	}
	return created, nil
}

func (s *TransactionStore) FindByOwner(ctx context.Context, ownerID string) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

func (s *TransactionStore) FindOne(ctx context.Context, id, ownerID string) (*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions WHERE id = $1 AND owner_id = $2
	`
	return scanTransaction(s.pool.QueryRow(ctx, query, id, ownerID))
}

func (s *TransactionStore) Update(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET title = $1, amount = $2, type = $3, category = $4, note = $5, date = $6, updated_at = NOW()
		WHERE id = $7 AND owner_id = $8
		RETURNING ` + transactionColumns
	row := s.pool.QueryRow(ctx, query,
		t.Title, t.Amount.String(), string(t.Type), t.Category, t.Note, t.Date, t.ID, t.OwnerID)
	return scanTransaction(row)
}

func (s *TransactionStore) Delete(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM transactions WHERE id = $1 AND owner_id = $2`
	cmd, err := s.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *TransactionStore) Summarize(ctx context.Context, ownerID string) (*models.Summary, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0)::text,
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)::text,
			COUNT(*)
		FROM transactions WHERE owner_id = $1
	`
	var (
		summary         models.Summary
		income, expense string
	)
	err := s.pool.QueryRow(ctx, query, ownerID).Scan(&income, &expense, &summary.Count)
	if err != nil {
		return nil, err
	}
	if summary.Income, err = decimal.NewFromString(income); err != nil {
		return nil, err
	}
	if summary.Expense, err = decimal.NewFromString(expense); err != nil {
		return nil, err
	}
	summary.Balance = summary.Income.Sub(summary.Expense)
	return &summary, nil
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var (
		t      models.Transaction
		amount string
		txType string
	)
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &amount, &txType,
		&t.Category, &t.Note, &t.Date, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, err
	}
	t.Type = models.TransactionType(txType)
	return &t, nil
}
