package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/pelvilog/internal/config"
	"github.com/hpungsan/pelvilog/internal/csvcodec"
	"github.com/hpungsan/pelvilog/internal/errors"
	"github.com/hpungsan/pelvilog/internal/record"
)

// DefaultExportName is the download name used by the web UI.
const DefaultExportName = "registros-terapia.csv"

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path  string `json:"path,omitempty"`  // optional, default: <base>/exports/registros-terapia-<timestamp>.csv
	Range string `json:"range,omitempty"` // week (default), month, all, day
	Day   string `json:"day,omitempty"`   // for range=day, default today
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// Export writes the selected records to a BOM-prefixed CSV file.
func Export(ctx context.Context, database *sql.DB, cfg *config.Config, loc *record.Locale, input ExportInput) (*ExportOutput, error) {
	now := time.Now()

	rng, err := ParseRange(input.Range)
	if err != nil {
		return nil, err
	}

	exportPath := input.Path
	if exportPath == "" {
		exportPath, err = defaultExportPath(now)
		if err != nil {
			return nil, err
		}
	}

	// Default paths are validated too; they must sit in the exports dir.
	if err := ValidatePath(exportPath, PathCheckWrite, cfg); err != nil {
		return nil, err
	}

	text, count, err := RenderCSV(ctx, database, loc, Selection{Range: rng, Day: input.Day})
	if err != nil {
		return nil, err
	}

	if err := writeFileAtomic(exportPath, []byte(text)); err != nil {
		return nil, err
	}

	return &ExportOutput{
		Path:       exportPath,
		Count:      count,
		ExportedAt: now.Unix(),
	}, nil
}

// RenderCSV returns the BOM-prefixed CSV text of the records in sel and how
// many rows it holds. An empty selection is an error.
func RenderCSV(ctx context.Context, database *sql.DB, loc *record.Locale, sel Selection) (string, int, error) {
	records, err := Select(ctx, database, loc, sel)
	if err != nil {
		return "", 0, err
	}
	if len(records) == 0 {
		return "", 0, errors.NewInvalidRequest("no records in the selected range")
	}
	if ctx.Err() != nil {
		return "", 0, errors.NewCancelled("export")
	}
	return csvcodec.BOM + csvcodec.Encode(records), len(records), nil
}

// writeFileAtomic writes data to a temp file beside path and renames it into
// place, so an existing file survives a failed write.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"

	file, err := createTemp(tempPath)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return err
		}
		return errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}

	// Close before rename (required on Windows).
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlink at the destination
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("path must not be a symlink")
	}

	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; choose a new path or delete the existing file")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return nil
}

// defaultExportPath is <base>/exports/registros-terapia-<timestamp>.csv.
func defaultExportPath(now time.Time) (string, error) {
	dir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("registros-terapia-%s.csv", now.Format("2006-01-02T150405"))
	return filepath.Join(dir, filename), nil
}
