package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/pelvilog/internal/errors"
	"github.com/hpungsan/pelvilog/internal/record"
	"github.com/hpungsan/pelvilog/internal/share"
)

// Share text layouts.
const (
	FormatSummary  = "summary"
	FormatDetailed = "detailed"
)

// ShareInput contains parameters for the Share operation.
type ShareInput struct {
	Format string `json:"format,omitempty"` // summary (default) or detailed
	Range  string `json:"range,omitempty"`  // week (default), month, all, day; detailed always uses day
	Day    string `json:"day,omitempty"`    // for range=day, default today
}

// ShareOutput contains the generated text and what it covers.
type ShareOutput struct {
	Text   string `json:"text"`
	Format string `json:"format"`
	Count  int    `json:"count"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// Share renders the selected records as messaging-app text.
func Share(ctx context.Context, database *sql.DB, loc *record.Locale, input ShareInput) (*ShareOutput, error) {
	format := strings.ToLower(strings.TrimSpace(input.Format))
	if format == "" {
		format = FormatSummary
	}
	if format != FormatSummary && format != FormatDetailed {
		return nil, errors.NewInvalidRequest("format must be one of: summary, detailed")
	}

	rng, err := ParseRange(input.Range)
	if err != nil {
		return nil, err
	}
	if format == FormatDetailed {
		rng = RangeDay
	}

	records, err := Select(ctx, database, loc, Selection{Range: rng, Day: input.Day})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.NewInvalidRequest("no records in the selected range")
	}

	// records are newest first
	start := records[len(records)-1].Date
	end := records[0].Date

	out := &ShareOutput{
		Format: format,
		Count:  len(records),
		Start:  start,
		End:    end,
	}
	if format == FormatDetailed {
		out.Text = share.Detailed(records, end)
	} else {
		out.Text = share.Summary(records, start, end)
	}
	return out, nil
}
