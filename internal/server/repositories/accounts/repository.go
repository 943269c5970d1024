// Package accounts stores user accounts.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/usermanagement/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, username, email, passwordHash string) (*models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, id int64, username, email, passwordHash string) (*models.Account, error)
	Delete(ctx context.Context, id int64) error
}
