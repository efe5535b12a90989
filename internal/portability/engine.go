// Package portability serializes a user's entire record graph to a portable
// JSON document and merges externally supplied documents back in. Export is
// read-only; import is insert-only and validated fully before any write.
package portability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/toxidity-18/Veritas/internal/common"
	"github.com/toxidity-18/Veritas/internal/logging"
	"github.com/toxidity-18/Veritas/internal/models"
	"github.com/toxidity-18/Veritas/internal/store/repositories/casefiles"
	"github.com/toxidity-18/Veritas/internal/store/repositories/evidence"
	"github.com/toxidity-18/Veritas/internal/store/repositories/profiles"
)

// CaseImporter is the write half of import: all mapped cases go through one
// batch insert. casefiles.Repository satisfies it; the Postgres composition
// wraps it in a transaction (see repomanager.TxCaseImporter).
type CaseImporter interface {
	InsertBatch(ctx context.Context, cases []*models.CaseFile) error
}

type Engine struct {
	profiles profiles.Repository
	cases    casefiles.Repository
	evidence evidence.Repository
	importer CaseImporter
	logger   logging.Logger

	// now is a test seam for the export timestamp.
	now func() time.Time
}

func NewEngine(p profiles.Repository, c casefiles.Repository, e evidence.Repository, importer CaseImporter, logger logging.Logger) *Engine {
	return &Engine{
		profiles: p,
		cases:    c,
		evidence: e,
		importer: importer,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Export gathers the user's cases, profile, and reachable evidence
// concurrently. Each fetch that fails is logged and defaulted to an empty
// collection, so export always produces a document and never a partial
// failure. No remote write occurs.
func (e *Engine) Export(ctx context.Context, userID string) *models.ExportDocument {
	var (
		wg      sync.WaitGroup
		cases   []models.CaseFile
		profile *models.Profile
		items   []models.EvidenceItem
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		v, err := e.cases.ListByUser(ctx, userID)
		if err != nil {
			e.logger.Warn(ctx, "export: case fetch failed", "error", err)
			return
		}
		cases = v
	}()

	go func() {
		defer wg.Done()
		v, err := e.profiles.Get(ctx, userID)
		if err != nil {
			if !errors.Is(err, common.ErrorNotFound) {
				e.logger.Warn(ctx, "export: profile fetch failed", "error", err)
			}
			return
		}
		profile = v
	}()

	go func() {
		defer wg.Done()
		v, err := e.evidence.ListByOwner(ctx, userID)
		if err != nil {
			e.logger.Warn(ctx, "export: evidence fetch failed", "error", err)
			return
		}
		items = v
	}()

	wg.Wait()

	if cases == nil {
		cases = []models.CaseFile{}
	}
	if items == nil {
		items = []models.EvidenceItem{}
	}

	return &models.ExportDocument{
		ExportDate: e.now(),
		UserID:     userID,
		Profile:    profile,
		Cases:      cases,
		Evidence:   items,
	}
}

// WriteExport serializes the export document for userID to w as indented
// JSON, the downloadable artifact handed to the caller.
func (e *Engine) WriteExport(ctx context.Context, userID string, w io.Writer) error {
	doc := e.Export(ctx, userID)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("export encode error: %w", err)
	}
	return nil
}

// ExportFileName returns the conventional artifact name for an export
// produced now, e.g. "veritas-data-export-2026-08-30.json".
func (e *Engine) ExportFileName() string {
	return fmt.Sprintf("veritas-data-export-%s.json", e.now().Format("2006-01-02"))
}

// importedCase is the untrusted per-case shape read from a document.
// Ownership and identity fields present in the file are ignored.
type importedCase struct {
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Status               string   `json:"status"`
	SocialMediaPlatforms []string `json:"social_media_platforms"`
}

// Import validates and ingests an externally supplied document on behalf of
// userID, returning the number of cases inserted.
//
// The document must be a JSON object with a "cases" array; anything else
// fails with common.ErrorBadFormat before any store mutation. Every case is
// re-owned by the importing user with status defaulted to draft. Evidence
// items in the document are not re-imported: they reference file storage
// outside this subsystem.
func (e *Engine) Import(ctx context.Context, userID string, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("document read error: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("%w: not a JSON object", common.ErrorBadFormat)
	}

	// JSON null unmarshals into a slice without error, so it has to be
	// rejected explicitly: a null cases field is not a sequence.
	casesRaw, ok := raw["cases"]
	if !ok || string(bytes.TrimSpace(casesRaw)) == "null" {
		return 0, fmt.Errorf("%w: missing cases field", common.ErrorBadFormat)
	}

	var entries []importedCase
	if err := json.Unmarshal(casesRaw, &entries); err != nil {
		return 0, fmt.Errorf("%w: cases is not an array", common.ErrorBadFormat)
	}

	if len(entries) == 0 {
		return 0, nil
	}

	mapped := make([]*models.CaseFile, 0, len(entries))
	for _, entry := range entries {
		status := models.CaseStatus(entry.Status)
		if status == "" {
			status = models.CaseStatusDraft
		}
		platforms := entry.SocialMediaPlatforms
		if platforms == nil {
			platforms = []string{}
		}
		mapped = append(mapped, &models.CaseFile{
			ID:                   uuid.NewString(),
			UserID:               userID,
			Title:                entry.Title,
			Description:          entry.Description,
			Status:               status,
			SocialMediaPlatforms: platforms,
		})
	}

	if err := e.importer.InsertBatch(ctx, mapped); err != nil {
		return 0, fmt.Errorf("import insert error: %w", err)
	}

	e.logger.Info(ctx, "import complete", "user", userID, "cases", len(mapped))
	return len(mapped), nil
}
