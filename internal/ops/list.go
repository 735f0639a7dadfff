package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/pelvilog/internal/db"
	"github.com/hpungsan/pelvilog/internal/record"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Date   string `json:"date,omitempty"`  // optional DD/MM/YYYY filter
	Range  string `json:"range,omitempty"` // optional: week, month, all (default all)
	Limit  int    `json:"limit,omitempty"` // default: 50, max: 500
	Offset int    `json:"offset,omitempty"`
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []record.Record `json:"items"`
	Pagination Pagination      `json:"pagination"`
	Sort       string          `json:"sort"`
}

// List retrieves records newest first with pagination.
func List(ctx context.Context, database *sql.DB, loc *record.Locale, input ListInput) (*ListOutput, error) {
	rng := RangeAll
	if strings.TrimSpace(input.Range) != "" {
		var err error
		if rng, err = ParseRange(input.Range); err != nil {
			return nil, err
		}
	}
	filter := rng.filter(loc)
	if rng == RangeDay || strings.TrimSpace(input.Date) != "" {
		date, err := normalizeDay(loc, input.Date)
		if err != nil {
			return nil, err
		}
		filter.Date = date
	}
	filter.Limit = clampLimit(input.Limit)
	filter.Offset = max(input.Offset, 0)

	items, err := db.List(ctx, database, filter)
	if err != nil {
		return nil, err
	}
	total, err := db.Count(ctx, database, filter)
	if err != nil {
		return nil, err
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   filter.Limit,
			Offset:  filter.Offset,
			HasMore: filter.Offset+len(items) < total,
			Total:   total,
		},
		Sort: "timestamp_desc",
	}, nil
}
