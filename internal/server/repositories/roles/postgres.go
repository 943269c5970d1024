package roles

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/usermanagement/internal/dbx"
	"github.com/dmitrijs2005/usermanagement/internal/logging"
	"github.com/dmitrijs2005/usermanagement/internal/server/models"
)

type PostgresRepository struct {
	db     dbx.DBTX
	logger logging.Logger
}

func NewPostgresRepository(db dbx.DBTX, logger logging.Logger) *PostgresRepository {
	if logger == nil {
		logger = logging.Nop()
	}
	return &PostgresRepository{db: db, logger: logger}
}

// Assign inserts exactly one assignment. A missing role or an existing
// assignment is an error.
func (r *PostgresRepository) Assign(ctx context.Context, userID int64, role models.RoleName) error {
	query :=
		`INSERT INTO user_roles (user_id, role_id)
		 SELECT $1, role_id FROM roles WHERE role_name = $2
		 `

	res, err := r.db.ExecContext(ctx, query, userID, string(role))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("db error: role %q assigned %d times", role, n)
	}

	return nil
}

// Grant is Assign that tolerates an existing assignment.
func (r *PostgresRepository) Grant(ctx context.Context, userID int64, role models.RoleName) error {
	query :=
		`INSERT INTO user_roles (user_id, role_id)
		 SELECT $1, role_id FROM roles WHERE role_name = $2
		 ON CONFLICT (user_id, role_id) DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, string(role)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context, userID int64) error {
	query := `DELETE FROM user_roles WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// ListByUser returns the role names assigned to userID, never nil.
// Names outside the known set are skipped.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.RoleName, error) {
	query :=
		`SELECT r.role_name FROM user_roles ur
		 JOIN roles r ON r.role_id = ur.role_id
		 WHERE ur.user_id = $1
		 ORDER BY r.role_id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.RoleName, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		role, ok := models.ParseRoleName(name)
		if !ok {
			r.logger.Warn(ctx, "unknown role name skipped", "user_id", userID, "role_name", name)
			continue
		}
		result = append(result, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
