package ops

import (
	"context"
	"database/sql"
	"math"

	"github.com/hpungsan/pelvilog/internal/db"
	"github.com/hpungsan/pelvilog/internal/record"
)

// DaySummaryInput contains parameters for the DaySummary operation.
type DaySummaryInput struct {
	Date string `json:"date,omitempty"` // DD/MM/YYYY, default today
}

// DaySummaryOutput holds one day's totals.
type DaySummaryOutput struct {
	Date       string `json:"date"`
	Records    int    `json:"records"`
	FluidML    int    `json:"fluid_ml"`
	Urinations int    `json:"urinations"`
	Leakages   int    `json:"leakages"`
	Urgencies  int    `json:"urgencies"`
	PadChanges int    `json:"pad_changes"`

	// MLPerUrination is the rounded intake per urination; nil unless both
	// intake and urinations are non-zero.
	MLPerUrination *int `json:"ml_per_urination,omitempty"`
}

// DaySummary totals the records of one day.
func DaySummary(ctx context.Context, database *sql.DB, loc *record.Locale, input DaySummaryInput) (*DaySummaryOutput, error) {
	date, err := normalizeDay(loc, input.Date)
	if err != nil {
		return nil, err
	}

	records, err := db.List(ctx, database, db.ListFilter{Date: date})
	if err != nil {
		return nil, err
	}

	out := Summarize(records)
	out.Date = date
	return out, nil
}

// Summarize totals records regardless of their dates.
func Summarize(records []record.Record) *DaySummaryOutput {
	out := &DaySummaryOutput{Records: len(records)}
	for _, r := range records {
		switch v := r.Details.(type) {
		case record.FluidIntake:
			out.FluidML += v.Amount
		case record.Urination:
			out.Urinations++
		case record.Leakage:
			out.Leakages++
		case record.Urgency:
			out.Urgencies++
		case record.PadUse:
			out.PadChanges++
		}
	}
	if out.FluidML > 0 && out.Urinations > 0 {
		avg := int(math.Round(float64(out.FluidML) / float64(out.Urinations)))
		out.MLPerUrination = &avg
	}
	return out
}
