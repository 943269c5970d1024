// Package roles stores account-role assignments.
package roles

import (
	"context"

	"github.com/dmitrijs2005/usermanagement/internal/server/models"
)

type Repository interface {
	Assign(ctx context.Context, userID int64, role models.RoleName) error
	Grant(ctx context.Context, userID int64, role models.RoleName) error
	DeleteAll(ctx context.Context, userID int64) error
	ListByUser(ctx context.Context, userID int64) ([]models.RoleName, error)
}
