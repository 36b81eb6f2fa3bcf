// Package testutil provides in-memory stores that satisfy the service store
// contracts, for tests that should not need Postgres.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack-server/src/apperr"
	"fintrack-server/src/models"
)

type TransactionStore struct {
	mu   sync.Mutex
	rows []models.Transaction // insertion order

	// Err, when set, is returned by every call.
	Err error
}

func NewTransactionStore() *TransactionStore {
	return &TransactionStore{}
}

func (s *TransactionStore) Insert(_ context.Context, t *models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	row := *t
	row.ID = uuid.NewString()
	row.CreatedAt = time.Now().UTC()
	row.UpdatedAt = row.CreatedAt
	s.rows = append(s.rows, row)

	out := row
	return &out, nil
}

func (s *TransactionStore) FindByOwner(_ context.Context, ownerID string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	var out []models.Transaction
	for i := len(s.rows) - 1; i >= 0; i-- {
		if s.rows[i].OwnerID == ownerID {
			out = append(out, s.rows[i])
		}
	}
	return out, nil
}

func (s *TransactionStore) FindOne(_ context.Context, id, ownerID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	i := s.index(id, ownerID)
	if i < 0 {
		return nil, apperr.ErrNotFound
	}
	out := s.rows[i]
	return &out, nil
}

func (s *TransactionStore) Update(_ context.Context, t *models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	i := s.index(t.ID, t.OwnerID)
	if i < 0 {
		return nil, apperr.ErrNotFound
	}
	row := &s.rows[i]
	row.Title = t.Title
	row.Amount = t.Amount
	row.Type = t.Type
	row.Category = t.Category
	row.Note = t.Note
	row.Date = t.Date
	row.UpdatedAt = time.Now().UTC()

	out := *row
	return &out, nil
}

func (s *TransactionStore) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	i := s.index(id, ownerID)
	if i < 0 {
		return apperr.ErrNotFound
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	return nil
}

func (s *TransactionStore) Summarize(_ context.Context, ownerID string) (*models.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	summary := &models.Summary{Income: decimal.Zero, Expense: decimal.Zero}
	for _, row := range s.rows {
		if row.OwnerID != ownerID {
			continue
		}
		summary.Count++
		switch row.Type {
		case models.TransactionTypeIncome:
			summary.Income = summary.Income.Add(row.Amount)
		case models.TransactionTypeExpense:
			summary.Expense = summary.Expense.Add(row.Amount)
		}
	}
	summary.Balance = summary.Income.Sub(summary.Expense)
	return summary, nil
}

// Len reports how many transactions are stored across all owners.
func (s *TransactionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *TransactionStore) index(id, ownerID string) int {
	for i := range s.rows {
		if s.rows[i].ID == id && s.rows[i].OwnerID == ownerID {
			return i
		}
	}
	return -1
}

type UserStore struct {
	mu    sync.Mutex
	users []models.User
}

func NewUserStore() *UserStore {
	return &UserStore{}
}

func (s *UserStore) CreateUser(_ context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return nil, apperr.ErrConflict
		}
	}
	row := *u
	row.ID = uuid.NewString()
	row.CreatedAt = time.Now().UTC()
	s.users = append(s.users, row)

	out := row
	return &out, nil
}

func (s *UserStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Username == username })
}

func (s *UserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Email == email })
}

func (s *UserStore) find(match func(models.User) bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			out := u
			return &out, nil
		}
	}
	return nil, apperr.ErrNotFound
}
