// Package repomanager vends repositories bound to a dbx.DBTX, so the same
// repository code runs against the pooled connection or inside an open
// transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/ums/internal/dbx"
	"github.com/dmitrijs2005/ums/internal/server/repositories/roles"
	"github.com/dmitrijs2005/ums/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Roles(db dbx.DBTX) roles.Repository
}
