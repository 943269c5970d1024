package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/usermanagement/internal/dbx"
	"github.com/dmitrijs2005/usermanagement/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/usermanagement/internal/server/repositories/roles"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Roles(db dbx.DBTX) roles.Repository
}
