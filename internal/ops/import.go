package ops

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/pelvilog/internal/config"
	"github.com/hpungsan/pelvilog/internal/csvcodec"
	"github.com/hpungsan/pelvilog/internal/db"
	"github.com/hpungsan/pelvilog/internal/errors"
	"github.com/hpungsan/pelvilog/internal/record"
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path   string `json:"path"`              // required, .csv
	DryRun bool   `json:"dry_run,omitempty"` // decode and report without storing
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported    int                   `json:"imported"`
	Skipped     int                   `json:"skipped"`
	Diagnostics []csvcodec.Diagnostic `json:"diagnostics"`
	DryRun      bool                  `json:"dry_run,omitempty"`

	// Records are the stored records, or the would-be records on a dry run
	Records []record.Record `json:"records"`
}

// Import reads a CSV export and stores every decodable row as a new record
// with a fresh ID. Rows that cannot be decoded are reported, not fatal.
func Import(ctx context.Context, database *sql.DB, cfg *config.Config, loc *record.Locale, log *zap.Logger, input ImportInput) (*ImportOutput, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	text, err := readImport(input.Path)
	if err != nil {
		return nil, err
	}

	res, err := csvcodec.Decode(text, loc)
	if stderrors.Is(err, csvcodec.ErrEmptyInput) {
		return nil, errors.NewEmptyInput(input.Path)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	for _, d := range res.Diagnostics {
		log.Warn("skipped csv row",
			zap.String("path", input.Path),
			zap.Int("line", d.Line),
			zap.String("reason", d.Reason),
		)
	}

	now := time.Now()
	records := make([]record.Record, 0, len(res.Entries))
	for _, e := range res.Entries {
		if ctx.Err() != nil {
			return nil, errors.NewCancelled("import")
		}
		records = append(records, record.Record{ID: newID(now), Entry: e})
	}

	out := &ImportOutput{
		Skipped:     res.Skipped + len(res.Diagnostics),
		Diagnostics: res.Diagnostics,
		DryRun:      input.DryRun,
		Records:     records,
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []csvcodec.Diagnostic{}
	}
	if input.DryRun || len(records) == 0 {
		return out, nil
	}

	if err := db.InsertBatch(ctx, database, records); err != nil {
		return nil, err
	}
	out.Imported = len(records)

	log.Info("imported csv",
		zap.String("path", input.Path),
		zap.Int("imported", out.Imported),
		zap.Int("skipped", out.Skipped),
	)
	return out, nil
}

func readImport(path string) (string, error) {
	f, err := openImport(path)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return "", err
		}
		return "", errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImportBytes+1))
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to read import file: %w", err))
	}
	if len(data) > MaxImportBytes {
		return "", errors.NewInvalidRequest(fmt.Sprintf("import file exceeds %d bytes", MaxImportBytes))
	}
	return string(data), nil
}
