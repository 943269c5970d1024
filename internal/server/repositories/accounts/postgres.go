package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/usermanagement/internal/common"
	"github.com/dmitrijs2005/usermanagement/internal/dbx"
	"github.com/dmitrijs2005/usermanagement/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint breach.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, username, email, passwordHash string) (*models.Account, error) {

	query :=
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING user_id, username, email, password_hash, created_at, updated_at
		 `

	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, username, email, passwordHash).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		return nil, wrapWriteError(err)
	}

	return a, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query :=
		`SELECT user_id, username, email, password_hash, created_at, updated_at FROM users
		 WHERE user_id = $1
		 `

	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT user_id, username, email, password_hash, created_at, updated_at FROM users
		 WHERE email = $1
		 `

	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

// Update overwrites all mutable fields and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, id int64, username, email, passwordHash string) (*models.Account, error) {
	query :=
		`UPDATE users SET username = $1, email = $2, password_hash = $3, updated_at = now()
		 WHERE user_id = $4
		 RETURNING user_id, username, email, password_hash, created_at, updated_at
		 `

	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, username, email, passwordHash, id).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, wrapWriteError(err)
	}

	return a, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE user_id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func wrapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("db error: %w: %w", common.ErrAlreadyExists, err)
	}
	return fmt.Errorf("db error: %w", err)
}
