package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/pelvilog/internal/db"
	"github.com/hpungsan/pelvilog/internal/errors"
	"github.com/hpungsan/pelvilog/internal/record"
)

// AddInput contains parameters for the Add operation.
// Only the fields of the chosen Type are read; unset ones take the same
// defaults as the entry forms.
type AddInput struct {
	Type string `json:"type"` // required: fluid-intake, urination, leakage, urgency, pad-use

	// Date (DD/MM/YYYY) and Time (HH:MM) are given together or not at all.
	// When omitted the record is stamped now.
	Date string `json:"date,omitempty"`
	Time string `json:"time,omitempty"`

	Milliliters *int   `json:"ml,omitempty"`         // fluid-intake, default 250
	DrinkType   string `json:"drink_type,omitempty"` // fluid-intake, default water

	Amount           string `json:"amount,omitempty"`            // urination (default medium), leakage (default small)
	ArrivedOnTime    *bool  `json:"arrived_on_time,omitempty"`   // urination, default true
	CompleteEmptying *bool  `json:"complete_emptying,omitempty"` // urination, default true

	Circumstance string `json:"circumstance,omitempty"` // leakage, default none
	Intensity    *int   `json:"intensity,omitempty"`    // leakage (default 3), urgency (default 5)

	ReachedBathroom string `json:"reached_bathroom,omitempty"` // urgency, default yes
	WarningTime     string `json:"warning_time,omitempty"`     // urgency, default 30-60

	PadType   string `json:"pad_type,omitempty"`  // pad-use, default small
	Condition string `json:"condition,omitempty"` // pad-use, default dry
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	Record record.Record `json:"record"`
}

// Add builds, validates and stores a new record.
func Add(ctx context.Context, database *sql.DB, loc *record.Locale, input AddInput) (*AddOutput, error) {
	typ, ok := record.ParseType(strings.TrimSpace(input.Type))
	if !ok {
		return nil, errors.NewInvalidRequest("type must be one of: fluid-intake, urination, leakage, urgency, pad-use")
	}

	d := buildDetails(typ, input)
	if err := record.Validate(d); err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	date := strings.TrimSpace(input.Date)
	clock := strings.TrimSpace(input.Time)
	var entry record.Entry
	switch {
	case date == "" && clock == "":
		entry = loc.StampNow(d)
	case date == "" || clock == "":
		return nil, errors.NewInvalidRequest("date and time must be given together")
	default:
		var err error
		entry, err = loc.StampAt(date, clock, d)
		if err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
	}

	r := record.Record{ID: newID(time.Now()), Entry: entry}
	if err := db.Insert(ctx, database, &r); err != nil {
		return nil, err
	}

	return &AddOutput{Record: r}, nil
}

func buildDetails(typ record.Type, in AddInput) record.Details {
	switch typ {
	case record.TypeFluidIntake:
		return record.FluidIntake{
			Amount:    intOr(in.Milliliters, 250),
			DrinkType: record.DrinkType(or(in.DrinkType, string(record.DrinkWater))),
		}
	case record.TypeUrination:
		return record.Urination{
			Amount:           record.Amount(or(in.Amount, string(record.AmountMedium))),
			ArrivedOnTime:    boolOr(in.ArrivedOnTime, true),
			CompleteEmptying: boolOr(in.CompleteEmptying, true),
		}
	case record.TypeLeakage:
		return record.Leakage{
			Amount:       record.Amount(or(in.Amount, string(record.AmountSmall))),
			Circumstance: record.Circumstance(or(in.Circumstance, string(record.CircumstanceNone))),
			Intensity:    intOr(in.Intensity, 3),
		}
	case record.TypeUrgency:
		return record.Urgency{
			Intensity:       intOr(in.Intensity, 5),
			ReachedBathroom: record.ReachedBathroom(or(in.ReachedBathroom, string(record.ReachedYes))),
			WarningTime:     record.WarningTime(or(in.WarningTime, string(record.Warning30To60))),
		}
	case record.TypePadUse:
		return record.PadUse{
			PadType:   record.PadType(or(in.PadType, string(record.PadSmall))),
			Condition: record.Condition(or(in.Condition, string(record.ConditionDry))),
		}
	}
	return nil
}

func or(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
