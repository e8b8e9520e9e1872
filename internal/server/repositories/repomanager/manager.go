package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/staffbook/internal/dbx"
	"github.com/dmitrijs2005/staffbook/internal/server/repositories/employees"
	"github.com/dmitrijs2005/staffbook/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// them either on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Employees(db dbx.DBTX) employees.Repository
}
