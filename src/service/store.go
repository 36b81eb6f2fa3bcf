package service

import (
	"context"

	"fintrack-server/src/models"
)

// TransactionStore persists transactions. Every lookup, update and delete is
// keyed by both id and owner; a miss on either returns apperr.ErrNotFound.
type TransactionStore interface {
	Insert(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	FindByOwner(ctx context.Context, ownerID string) ([]models.Transaction, error)
	FindOne(ctx context.Context, id, ownerID string) (*models.Transaction, error)
	Update(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	Delete(ctx context.Context, id, ownerID string) error
	Summarize(ctx context.Context, ownerID string) (*models.Summary, error)
}

// UserStore persists accounts for register and login. Duplicate email or
// username returns apperr.ErrConflict; unknown users return apperr.ErrNotFound.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
