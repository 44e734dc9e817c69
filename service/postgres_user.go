package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/srvalle/contract-pro/model"
)

// PostgresUserStore keeps accounts in the users table
type PostgresUserStore struct {
	db DBTX
}

func NewPostgresUserStore(db DBTX) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (id, email, display_name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING created_at, updated_at`

	err := s.db.QueryRow(ctx, query, u.ID, u.Email, u.DisplayName, u.PasswordHash).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %s already registered", model.ErrConflict, u.Email)
		}
		return fmt.Errorf("%w: insert user: %v", model.ErrPersistence, err)
	}
	return nil
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	if !validUUID(id) {
		return nil, model.ErrNotFound
	}
	return s.getOne(ctx, `WHERE id = $1`, id)
}

func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getOne(ctx, `WHERE lower(email) = lower($1)`, email)
}

func (s *PostgresUserStore) getOne(ctx context.Context, where string, arg string) (*model.User, error) {
	query := `SELECT id, email, display_name, password_hash, created_at, updated_at FROM users ` + where

	u := &model.User{}
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get user: %v", model.ErrPersistence, err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (s *PostgresUserStore) Update(ctx context.Context, u *model.User) error {
	if !validUUID(u.ID) {
		return model.ErrNotFound
	}

	query := `
		UPDATE users SET email = $2, display_name = $3, password_hash = $4, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := s.db.QueryRow(ctx, query, u.ID, u.Email, u.DisplayName, u.PasswordHash).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrNotFound
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %s already registered", model.ErrConflict, u.Email)
		}
		return fmt.Errorf("%w: update user: %v", model.ErrPersistence, err)
	}
	return nil
}
