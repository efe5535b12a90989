package repomanager

import (
	"context"
	"database/sql"

	"github.com/toxidity-18/Veritas/internal/dbx"
	"github.com/toxidity-18/Veritas/internal/models"
)

// TxCaseImporter runs batch case inserts inside a single transaction so an
// import lands all cases or none.
type TxCaseImporter struct {
	db *sql.DB
	m  *PostgresRepositoryManager
}

func NewTxCaseImporter(db *sql.DB, m *PostgresRepositoryManager) *TxCaseImporter {
	return &TxCaseImporter{db: db, m: m}
}

func (t *TxCaseImporter) InsertBatch(ctx context.Context, cases []*models.CaseFile) error {
	return dbx.WithTx(ctx, t.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return t.m.CaseFiles(tx).InsertBatch(ctx, cases)
	})
}
