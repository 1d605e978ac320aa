// Package repomanager hands out repositories bound to a database handle and
// owns schema migrations. Services ask the manager for a repository with
// either the pooled *sql.DB or a transaction, which keeps the repositories
// usable inside dbx.WithTx blocks.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/parthpl/userbase/internal/dbx"
	"github.com/parthpl/userbase/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
