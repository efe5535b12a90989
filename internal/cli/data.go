package cli

import (
	"context"
	"errors"
	"os"

	"github.com/toxidity-18/Veritas/internal/common"
)

// Export writes the full account data to a dated JSON file in the current
// directory.
func (a *App) Export(ctx context.Context) error {
	sess := a.sessions.Current()
	if sess == nil {
		printlnFn("You need to log in first.")
		return common.ErrorUnauthorized
	}

	name := a.data.ExportFileName()
	f, err := os.Create(name)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	if err := a.data.WriteExport(ctx, sess.PrincipalID, f); err != nil {
		f.Close()
		printlnFn("Error:", err)
		return err
	}
	if err := f.Close(); err != nil {
		printlnFn("Error:", err)
		return err
	}

	printlnFn("Export written to", name)
	return nil
}

// Import reads a previously exported JSON document and merges its cases into
// the account. Imported cases become drafts owned by the current user.
func (a *App) Import(ctx context.Context) error {
	sess := a.sessions.Current()
	if sess == nil {
		printlnFn("You need to log in first.")
		return common.ErrorUnauthorized
	}

	path, err := GetSimpleText(a.reader, "Path to the export file", os.Stdout)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	defer f.Close()

	n, err := a.data.Import(ctx, sess.PrincipalID, f)
	if err != nil {
		if errors.Is(err, common.ErrorBadFormat) {
			printlnFn("Import rejected:", err)
		} else {
			printlnFn("Error:", err)
		}
		return err
	}

	printlnFn("Imported", n, "case(s).")
	return nil
}
