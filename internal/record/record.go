package record

import "time"

// Type is the variant discriminator written to the "Tipo" CSV column.
type Type string

const (
	TypeFluidIntake Type = "fluid-intake"
	TypeUrination   Type = "urination"
	TypeLeakage     Type = "leakage"
	TypeUrgency     Type = "urgency"
	TypePadUse      Type = "pad-use"
)

// Types lists every variant in display order.
var Types = []Type{TypeFluidIntake, TypeUrination, TypeLeakage, TypeUrgency, TypePadUse}

// ParseType returns the Type for an exact tag match.
func ParseType(s string) (Type, bool) {
	for _, t := range Types {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Entry is a logged event without an identifier.
// Decoded CSV rows and freshly stamped records start as entries.
type Entry struct {
	// Timestamp is the canonical ordering key
	Timestamp time.Time

	// Date is Timestamp rendered as DD/MM/YYYY in the entry's locale
	Date string

	// Time is Timestamp rendered as HH:MM in the entry's locale
	Time string

	// Details carries the variant-specific fields
	Details Details
}

// Type returns the variant tag of the entry.
func (e Entry) Type() Type {
	if e.Details == nil {
		return ""
	}
	return e.Details.Type()
}

// Record is an Entry that has been assigned an identifier by the collection.
type Record struct {
	// ID is a ULID assigned at creation or import time
	ID string

	Entry
}

// Details is the closed set of variant payloads.
// The unexported method keeps implementations inside this package.
type Details interface {
	Type() Type
	details()
}

// FluidIntake is a drink of Amount millilitres.
type FluidIntake struct {
	Amount    int       `json:"amount"`
	DrinkType DrinkType `json:"drinkType"`
}

// Urination is a bathroom visit.
type Urination struct {
	Amount           Amount `json:"amount"`
	ArrivedOnTime    bool   `json:"arrivedOnTime"`
	CompleteEmptying bool   `json:"completeEmptying"`
}

// Leakage is an involuntary loss; Intensity ranges 1-5.
type Leakage struct {
	Amount       Amount       `json:"amount"`
	Circumstance Circumstance `json:"circumstance"`
	Intensity    int          `json:"intensity"`
}

// Urgency is an urgency episode; Intensity ranges 1-10.
type Urgency struct {
	Intensity       int             `json:"intensity"`
	ReachedBathroom ReachedBathroom `json:"reachedBathroom"`
	WarningTime     WarningTime     `json:"warningTime"`
}

// PadUse is a pad change.
type PadUse struct {
	PadType   PadType   `json:"padType"`
	Condition Condition `json:"condition"`
}

func (FluidIntake) Type() Type { return TypeFluidIntake }
func (Urination) Type() Type   { return TypeUrination }
func (Leakage) Type() Type     { return TypeLeakage }
func (Urgency) Type() Type     { return TypeUrgency }
func (PadUse) Type() Type      { return TypePadUse }

func (FluidIntake) details() {}
func (Urination) details()   {}
func (Leakage) details()     {}
func (Urgency) details()     {}
func (PadUse) details()      {}
