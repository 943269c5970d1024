// Package services contains server-side business logic. This file implements
// AccountService, which owns the multi-statement account transactions.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/usermanagement/internal/dbx"
	"github.com/dmitrijs2005/usermanagement/internal/logging"
	"github.com/dmitrijs2005/usermanagement/internal/server/models"
	"github.com/dmitrijs2005/usermanagement/internal/server/repositories/repomanager"
)

// AccountService reads and writes accounts and their role assignments.
// Creation and deletion each touch two tables inside one transaction, so
// partial state is never visible.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tx          *dbx.Transactor
	logger      logging.Logger
}

var _ AccountStore = (*AccountService)(nil)

// NewAccountService constructs an AccountService. txTimeout bounds each
// transaction; zero disables the bound.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, txTimeout time.Duration, logger logging.Logger) *AccountService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &AccountService{
		db:          db,
		repomanager: m,
		tx:          dbx.NewTransactor(db, nil, txTimeout),
		logger:      logger,
	}
}

// CreateAccount inserts the account and assigns it the default role.
// Either both rows exist afterwards or neither does.
func (s *AccountService) CreateAccount(ctx context.Context, username, email, passwordHash string) (*models.Account, error) {
	return s.CreateAccountWithRoles(ctx, username, email, passwordHash)
}

// CreateAccountWithRoles is CreateAccount that also grants extra roles in the
// same transaction. A failed grant leaves no account behind.
func (s *AccountService) CreateAccountWithRoles(ctx context.Context, username, email, passwordHash string, extra ...models.RoleName) (*models.Account, error) {
	var account *models.Account

	err := s.tx.Do(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		a, err := s.repomanager.Accounts(tx).Create(ctx, username, email, passwordHash)
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}

		roles := s.repomanager.Roles(tx)
		if err := roles.Assign(ctx, a.ID, models.DefaultRole); err != nil {
			return fmt.Errorf("error assigning default role: %w", err)
		}
		for _, role := range extra {
			if err := roles.Grant(ctx, a.ID, role); err != nil {
				return fmt.Errorf("error granting role: %w", err)
			}
		}

		account = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "account created", "user_id", account.ID, "extra_roles", len(extra))
	return account, nil
}

// DeleteAccount removes the role assignments and then the account.
// A missing account rolls the transaction back and yields common.ErrorNotFound.
func (s *AccountService) DeleteAccount(ctx context.Context, id int64) error {
	err := s.tx.Do(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Roles(tx).DeleteAll(ctx, id); err != nil {
			return fmt.Errorf("error deleting roles: %w", err)
		}
		if err := s.repomanager.Accounts(tx).Delete(ctx, id); err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "account deleted", "user_id", id)
	return nil
}

func (s *AccountService) UpdateAccount(ctx context.Context, id int64, username, email, passwordHash string) (*models.Account, error) {
	a, err := s.repomanager.Accounts(s.db).Update(ctx, id, username, email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return a, nil
}

func (s *AccountService) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).GetByID(ctx, id)
}

func (s *AccountService) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).GetByEmail(ctx, email)
}

// RolesOf returns the account's roles; an empty slice means no privileges.
func (s *AccountService) RolesOf(ctx context.Context, id int64) ([]models.RoleName, error) {
	return s.repomanager.Roles(s.db).ListByUser(ctx, id)
}

// AssignRole grants role to the account. Granting an already held role is a
// no-op. The account must exist.
func (s *AccountService) AssignRole(ctx context.Context, id int64, role models.RoleName) error {
	err := s.tx.Do(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Accounts(tx).GetByID(ctx, id); err != nil {
			return err
		}
		if err := s.repomanager.Roles(tx).Grant(ctx, id, role); err != nil {
			return fmt.Errorf("error granting role: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "role granted", "user_id", id, "role", string(role))
	return nil
}
