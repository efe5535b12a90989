// Package repomanager provides a concrete repository manager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/toxidity-18/Veritas/internal/dbx"
	"github.com/toxidity-18/Veritas/internal/store/migrations"
	"github.com/toxidity-18/Veritas/internal/store/repositories/casefiles"
	"github.com/toxidity-18/Veritas/internal/store/repositories/evidence"
	"github.com/toxidity-18/Veritas/internal/store/repositories/preferences"
	"github.com/toxidity-18/Veritas/internal/store/repositories/profiles"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations bound to the provided DBTX (a connection or a
// transaction) and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Open dials the database with the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return db, nil
}

// Profiles returns a profiles.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewPostgresRepository(db)
}

// Preferences returns a preferences.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Preferences(db dbx.DBTX) preferences.Repository {
	return preferences.NewPostgresRepository(db)
}

// CaseFiles returns a casefiles.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) CaseFiles(db dbx.DBTX) casefiles.Repository {
	return casefiles.NewPostgresRepository(db)
}

// Evidence returns an evidence.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Evidence(db dbx.DBTX) evidence.Repository {
	return evidence.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}
