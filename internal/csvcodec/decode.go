package csvcodec

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/hpungsan/pelvilog/internal/record"
)

// ErrEmptyInput is returned when the text has no data row after the header.
var ErrEmptyInput = errors.New("csv file is empty or has no data rows")

// Diagnostic explains why a row was skipped.
type Diagnostic struct {
	// Line is the 1-based line number in the input; the header is line 1
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s", d.Line, d.Reason)
}

// Result is the outcome of decoding a CSV export.
type Result struct {
	// Entries are the decoded rows in file order, without identifiers
	Entries []record.Entry

	// Diagnostics lists rows that were rejected
	Diagnostics []Diagnostic

	// Skipped counts rows dropped silently because they had fewer than four fields
	Skipped int
}

// fieldPattern matches one field and its separator. A quoted field ends at
// the first quote followed by optional blanks and a comma or the line end,
// so unescaped inner quotes survive.
var fieldPattern = regexp.MustCompile(`\s*(?:"(.*?)"|([^",]*?))\s*(?:,|$)`)

// Detail sub-format patterns, one per variant.
var (
	fluidPattern     = regexp.MustCompile(`^(\d+)\s*ml - (.+)$`)
	urinationPattern = regexp.MustCompile(`^(.+?) - A tiempo: (\S+) - Vaciado: (\S+)$`)
	leakagePattern   = regexp.MustCompile(`^(.+?) - (.+?) - Intensidad: (\d+)(?:/5)?$`)
	urgencyPattern   = regexp.MustCompile(`^Intensidad: (\d+)(?:/10)? - Llegó: (.+?) - Aviso: (.+)$`)
	padPattern       = regexp.MustCompile(`^(.+?) - (.+)$`)
)

// Decode parses CSV text produced by Encode. Dates are interpreted in loc.
// Malformed rows never abort the batch: each is skipped and reported in
// Result.Diagnostics. Only input without any data row is an error.
//
// Entry date and time are rendered back from the parsed instant, so a wall
// time that does not exist in loc (a DST gap) comes back shifted forward,
// e.g. 02:30 on a spring-forward day in Europe/Madrid decodes as 03:30.
func Decode(text string, loc *record.Locale) (*Result, error) {
	text = strings.TrimSpace(strings.TrimPrefix(text, BOM))
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return nil, ErrEmptyInput
	}

	result := &Result{Entries: []record.Entry{}}

	// lines[0] is the header; it is not validated.
	for i, line := range lines[1:] {
		lineNum := i + 2
		line = strings.TrimRight(line, "\r")

		fields := splitFields(line)
		if len(fields) < 4 {
			result.Skipped++
			continue
		}

		entry, err := decodeRow(fields[0], fields[1], fields[2], fields[3], loc)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Line:   lineNum,
				Reason: err.Error(),
			})
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}

// splitFields tokenizes one line into trimmed, unquoted fields. Quoted
// fields may contain commas; blanks around separators are ignored.
func splitFields(line string) []string {
	matches := fieldPattern.FindAllStringSubmatch(line, -1)
	fields := make([]string, 0, len(matches))
	for _, m := range matches {
		fields = append(fields, strings.TrimSpace(m[1]+m[2]))
	}
	return fields
}

func decodeRow(date, clock, tag, details string, loc *record.Locale) (record.Entry, error) {
	ts, err := loc.Parse(date, clock)
	if err != nil {
		return record.Entry{}, err
	}

	typ, ok := record.ParseType(tag)
	if !ok {
		return record.Entry{}, fmt.Errorf("unknown record type %q", tag)
	}

	d, err := decodeDetails(typ, norm.NFC.String(details))
	if err != nil {
		return record.Entry{}, err
	}
	if err := record.Validate(d); err != nil {
		return record.Entry{}, fmt.Errorf("invalid %s details: %w", typ, err)
	}

	return loc.Stamp(ts, d), nil
}

func decodeDetails(typ record.Type, details string) (record.Details, error) {
	switch typ {
	case record.TypeFluidIntake:
		m := fluidPattern.FindStringSubmatch(details)
		if m == nil {
			return nil, mismatch(typ, details)
		}
		amount, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("invalid fluid amount %q", m[1])
		}
		return record.FluidIntake{
			Amount:    amount,
			DrinkType: record.DrinkTypeFromLabel(m[2]),
		}, nil

	case record.TypeUrination:
		m := urinationPattern.FindStringSubmatch(details)
		if m == nil {
			return nil, mismatch(typ, details)
		}
		amount := record.AmountFromLabel(m[1])
		if amount != record.AmountMedium && amount != record.AmountLarge {
			amount = record.AmountSmall
		}
		return record.Urination{
			Amount:           amount,
			ArrivedOnTime:    record.ParseYesNo(m[2]),
			CompleteEmptying: record.ParseYesNo(m[3]),
		}, nil

	case record.TypeLeakage:
		m := leakagePattern.FindStringSubmatch(details)
		if m == nil {
			return nil, mismatch(typ, details)
		}
		intensity, err := strconv.Atoi(m[3])
		if err != nil {
			return nil, fmt.Errorf("invalid leakage intensity %q", m[3])
		}
		amount := record.AmountFromLabel(m[1])
		if !record.ValidLeakageAmount(amount) {
			amount = record.AmountSmall
		}
		return record.Leakage{
			Amount:       amount,
			Circumstance: record.CircumstanceFromLabel(m[2]),
			Intensity:    intensity,
		}, nil

	case record.TypeUrgency:
		m := urgencyPattern.FindStringSubmatch(details)
		if m == nil {
			return nil, mismatch(typ, details)
		}
		intensity, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("invalid urgency intensity %q", m[1])
		}
		return record.Urgency{
			Intensity:       intensity,
			ReachedBathroom: record.ReachedBathroomFromLabel(m[2]),
			WarningTime:     record.WarningTimeFromLabel(m[3]),
		}, nil

	case record.TypePadUse:
		m := padPattern.FindStringSubmatch(details)
		if m == nil {
			return nil, mismatch(typ, details)
		}
		return record.PadUse{
			PadType:   record.PadTypeFromLabel(m[1]),
			Condition: record.ConditionFromLabel(m[2]),
		}, nil
	}
	return nil, fmt.Errorf("unknown record type %q", typ)
}

func mismatch(typ record.Type, details string) error {
	return fmt.Errorf("details %q do not match the %s format", details, typ)
}
