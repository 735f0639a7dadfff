package record

import (
	"encoding/json"
	"fmt"
	"time"
)

// DecodeDetails unmarshals the JSON payload of a variant identified by typ.
func DecodeDetails(typ Type, data []byte) (Details, error) {
	var (
		d   Details
		err error
	)
	switch typ {
	case TypeFluidIntake:
		var v FluidIntake
		err = json.Unmarshal(data, &v)
		d = v
	case TypeUrination:
		var v Urination
		err = json.Unmarshal(data, &v)
		d = v
	case TypeLeakage:
		var v Leakage
		err = json.Unmarshal(data, &v)
		d = v
	case TypeUrgency:
		var v Urgency
		err = json.Unmarshal(data, &v)
		d = v
	case TypePadUse:
		var v PadUse
		err = json.Unmarshal(data, &v)
		d = v
	default:
		return nil, fmt.Errorf("unknown record type %q", typ)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s details: %w", typ, err)
	}
	return d, nil
}

type recordJSON struct {
	ID        string          `json:"id"`
	Type      Type            `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Date      string          `json:"date"`
	Time      string          `json:"time"`
	Details   json.RawMessage `json:"details"`
}

// MarshalJSON writes the record with its variant tag next to the details.
func (r Record) MarshalJSON() ([]byte, error) {
	details, err := json.Marshal(r.Details)
	if err != nil {
		return nil, err
	}
	return json.Marshal(recordJSON{
		ID:        r.ID,
		Type:      r.Type(),
		Timestamp: r.Timestamp,
		Date:      r.Date,
		Time:      r.Time,
		Details:   details,
	})
}

// UnmarshalJSON reverses MarshalJSON.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := DecodeDetails(raw.Type, raw.Details)
	if err != nil {
		return err
	}
	*r = Record{
		ID: raw.ID,
		Entry: Entry{
			Timestamp: raw.Timestamp,
			Date:      raw.Date,
			Time:      raw.Time,
			Details:   d,
		},
	}
	return nil
}
