package record

import (
	"fmt"
	"time"
)

// Spanish-locale renderings used by every CSV and share string.
const (
	DateLayout = "02/01/2006"
	TimeLayout = "15:04"

	// parseLayout accepts one- or two-digit day, month and hour.
	parseLayout = "2/1/2006 15:04"
)

// Locale renders and parses dates in a fixed time zone and supplies "now".
// The same Locale must be used to encode and decode for dates to round-trip.
type Locale struct {
	loc *time.Location
	now func() time.Time
}

// NewLocale returns a Locale in loc; nil means time.Local.
func NewLocale(loc *time.Location) *Locale {
	if loc == nil {
		loc = time.Local
	}
	return &Locale{loc: loc, now: time.Now}
}

// LoadLocale resolves an IANA zone name. Empty and "Local" mean time.Local.
func LoadLocale(name string) (*Locale, error) {
	if name == "" || name == "Local" {
		return NewLocale(time.Local), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return NewLocale(loc), nil
}

// WithClock returns a copy of l whose Now is driven by now. Used by tests.
func (l *Locale) WithClock(now func() time.Time) *Locale {
	return &Locale{loc: l.loc, now: now}
}

// Location returns the zone used for rendering and parsing.
func (l *Locale) Location() *time.Location {
	return l.loc
}

// Now returns the current instant in the locale's zone.
func (l *Locale) Now() time.Time {
	return l.now().In(l.loc)
}

// FormatDate renders t as DD/MM/YYYY.
func (l *Locale) FormatDate(t time.Time) string {
	return t.In(l.loc).Format(DateLayout)
}

// FormatTime renders t as HH:MM.
func (l *Locale) FormatTime(t time.Time) string {
	return t.In(l.loc).Format(TimeLayout)
}

// Today returns the DD/MM/YYYY label of the current day.
func (l *Locale) Today() string {
	return l.FormatDate(l.Now())
}

// Parse combines a DD/MM/YYYY date and an HH:MM time into an instant.
func (l *Locale) Parse(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(parseLayout, date+" "+clock, l.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", date, clock, err)
	}
	return t, nil
}

// ParseDate parses a DD/MM/YYYY label as midnight of that day.
func (l *Locale) ParseDate(date string) (time.Time, error) {
	return l.Parse(date, "00:00")
}

// Stamp builds an Entry at t with date and time rendered from it.
func (l *Locale) Stamp(t time.Time, d Details) Entry {
	return Entry{
		Timestamp: t,
		Date:      l.FormatDate(t),
		Time:      l.FormatTime(t),
		Details:   d,
	}
}

// StampNow builds an Entry at the current instant.
func (l *Locale) StampNow(d Details) Entry {
	return l.Stamp(l.Now(), d)
}

// StampAt builds an Entry at an explicit date and time.
func (l *Locale) StampAt(date, clock string, d Details) (Entry, error) {
	t, err := l.Parse(date, clock)
	if err != nil {
		return Entry{}, err
	}
	return l.Stamp(t, d), nil
}
