package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/refreshtokens"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends repositories over an embedded SQLite
// database, for single-node deployments and tests.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) SQLDriver() string {
	return "sqlite"
}

func (m *SQLiteRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, "sqlite3", migrations.SQLiteDir)
}

func NewSQLiteRepositoryManager() RepositoryManager {
	return &SQLiteRepositoryManager{}
}
