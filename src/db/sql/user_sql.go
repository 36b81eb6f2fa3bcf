package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack-server/src/apperr"
	"fintrack-server/src/models"
)

const uniqueViolation = "23505"

type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (id, email, username, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, username, password_hash, created_at
	`
	user, err := scanUser(s.pool.QueryRow(ctx, query, uuid.NewString(), u.Email, u.Username, string(u.PasswordHash)))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperr.ErrConflict
		}
		return nil, err
	}
	return user, nil
}

func (s *UserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, email, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`
	return scanUser(s.pool.QueryRow(ctx, query, username))
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, username, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		user models.User
		hash string
	)
	err := row.Scan(&user.ID, &user.Email, &user.Username, &hash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	user.PasswordHash = []byte(hash)
	return &user, nil
}
