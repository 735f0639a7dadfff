package ops

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hpungsan/pelvilog/internal/db"
	"github.com/hpungsan/pelvilog/internal/errors"
	"github.com/hpungsan/pelvilog/internal/record"
)

// Range selects the records handed to export and share.
type Range string

const (
	RangeWeek  Range = "week"  // at most 7 whole days old
	RangeMonth Range = "month" // at most 30 whole days old
	RangeAll   Range = "all"
	RangeDay   Range = "day" // date label equality
)

// ParseRange validates a range name; empty means week.
func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RangeWeek, nil
	case RangeWeek, RangeMonth, RangeAll, RangeDay:
		return r, nil
	}
	return "", errors.NewInvalidRequest("range must be one of: week, month, all, day")
}

// filter converts an age-based range into a lower timestamp bound.
// A record is floor((now - ts) / 24h) days old, so "at most n days" means
// ts > now - (n+1) days. Records in the future always qualify.
func (r Range) filter(loc *record.Locale) db.ListFilter {
	var days int
	switch r {
	case RangeWeek:
		days = 7
	case RangeMonth:
		days = 30
	default:
		return db.ListFilter{}
	}
	from := loc.Now().Add(-time.Duration(days+1) * 24 * time.Hour).Add(time.Millisecond)
	return db.ListFilter{From: from}
}

// Selection names a range and, for RangeDay, the day label.
type Selection struct {
	Range Range
	Day   string // DD/MM/YYYY, default today
}

// Select returns the records in sel, newest first.
func Select(ctx context.Context, database *sql.DB, loc *record.Locale, sel Selection) ([]record.Record, error) {
	filter := sel.Range.filter(loc)
	if sel.Range == RangeDay {
		day, err := normalizeDay(loc, sel.Day)
		if err != nil {
			return nil, err
		}
		filter.Date = day
	}
	return db.List(ctx, database, filter)
}

// normalizeDay renders a lenient day label ("1/3/2024") as stored
// ("01/03/2024"). Empty means today.
func normalizeDay(loc *record.Locale, day string) (string, error) {
	day = strings.TrimSpace(day)
	if day == "" {
		return loc.Today(), nil
	}
	t, err := loc.ParseDate(day)
	if err != nil {
		return "", errors.NewInvalidRequest(fmt.Sprintf("day must be DD/MM/YYYY, got %q", day))
	}
	return loc.FormatDate(t), nil
}
