package record

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DrinkType is the kind of fluid consumed.
type DrinkType string

const (
	DrinkWater   DrinkType = "water"
	DrinkCoffee  DrinkType = "coffee"
	DrinkTea     DrinkType = "tea"
	DrinkSoda    DrinkType = "soda"
	DrinkAlcohol DrinkType = "alcohol"
	DrinkOther   DrinkType = "other"
)

// Amount is the shared size vocabulary of urination and leakage records.
type Amount string

const (
	AmountDrops    Amount = "drops"
	AmountSmall    Amount = "small"
	AmountMedium   Amount = "medium"
	AmountModerate Amount = "moderate"
	AmountLarge    Amount = "large"
)

// Circumstance is what triggered a leakage.
type Circumstance string

const (
	CircumstanceCough    Circumstance = "cough"
	CircumstanceSneeze   Circumstance = "sneeze"
	CircumstanceLaugh    Circumstance = "laugh"
	CircumstanceExercise Circumstance = "exercise"
	CircumstanceUrgency  Circumstance = "urgency"
	CircumstanceNone     Circumstance = "none"
)

// ReachedBathroom records whether an urgency episode ended in time.
type ReachedBathroom string

const (
	ReachedYes     ReachedBathroom = "yes"
	ReachedNo      ReachedBathroom = "no"
	ReachedLeakage ReachedBathroom = "leakage"
)

// WarningTime is the warning interval before an urgency, in seconds.
type WarningTime string

const (
	WarningUnder10 WarningTime = "<10"
	Warning10To30  WarningTime = "10-30"
	Warning30To60  WarningTime = "30-60"
	WarningOver60  WarningTime = ">60"
)

// PadType is the absorbent product changed.
type PadType string

const (
	PadPantyliner PadType = "pantyliner"
	PadSmall      PadType = "small"
	PadMedium     PadType = "medium"
	PadLarge      PadType = "large"
)

// Condition is the state of the removed pad.
type Condition string

const (
	ConditionDry     Condition = "dry"
	ConditionDamp    Condition = "damp"
	ConditionWet     Condition = "wet"
	ConditionVeryWet Condition = "very-wet"
)

// labelTable is an ordered tag/label vocabulary.
type labelTable[T ~string] []struct {
	tag   T
	label string
}

func (lt labelTable[T]) label(tag T) string {
	for _, e := range lt {
		if e.tag == tag {
			return e.label
		}
	}
	return string(tag)
}

// lookup maps a display label back to its tag. The canonical tag itself is
// accepted too, since older exports wrote tags instead of labels.
func (lt labelTable[T]) lookup(s string, fallback T) T {
	s = foldLabel(s)
	for _, e := range lt {
		if e.label == s {
			return e.tag
		}
	}
	for _, e := range lt {
		if string(e.tag) == s {
			return e.tag
		}
	}
	return fallback
}

func (lt labelTable[T]) has(tag T) bool {
	for _, e := range lt {
		if e.tag == tag {
			return true
		}
	}
	return false
}

// foldLabel trims and NFC-normalizes s so that decomposed accents from
// spreadsheet round trips compare equal to the label tables.
func foldLabel(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

var drinkLabels = labelTable[DrinkType]{
	{DrinkWater, "Agua"},
	{DrinkCoffee, "Café"},
	{DrinkTea, "Té"},
	{DrinkSoda, "Refresco"},
	{DrinkAlcohol, "Alcohol"},
	{DrinkOther, "Otro"},
}

var amountLabels = labelTable[Amount]{
	{AmountSmall, "Pequeña"},
	{AmountMedium, "Mediana"},
	{AmountLarge, "Grande"},
	{AmountDrops, "Gotas"},
	{AmountModerate, "Moderada"},
}

var circumstanceLabels = labelTable[Circumstance]{
	{CircumstanceCough, "Tos"},
	{CircumstanceSneeze, "Estornudo"},
	{CircumstanceLaugh, "Risa"},
	{CircumstanceExercise, "Ejercicio"},
	{CircumstanceUrgency, "Urgencia"},
	{CircumstanceNone, "Sin motivo"},
}

var reachedLabels = labelTable[ReachedBathroom]{
	{ReachedYes, "Sí, a tiempo"},
	{ReachedNo, "No llegué"},
	{ReachedLeakage, "Hubo pérdida"},
}

var warningLabels = labelTable[WarningTime]{
	{WarningUnder10, "<10 seg"},
	{Warning10To30, "10-30 seg"},
	{Warning30To60, "30-60 seg"},
	{WarningOver60, ">60 seg"},
}

var padLabels = labelTable[PadType]{
	{PadPantyliner, "Salvaslip"},
	{PadSmall, "Pequeña"},
	{PadMedium, "Mediana"},
	{PadLarge, "Grande"},
}

var conditionLabels = labelTable[Condition]{
	{ConditionDry, "Seca"},
	{ConditionDamp, "Húmeda"},
	{ConditionWet, "Mojada"},
	{ConditionVeryWet, "Muy mojada"},
}

// Label returns the Spanish display label.
func (d DrinkType) Label() string       { return drinkLabels.label(d) }
func (a Amount) Label() string          { return amountLabels.label(a) }
func (c Circumstance) Label() string    { return circumstanceLabels.label(c) }
func (r ReachedBathroom) Label() string { return reachedLabels.label(r) }
func (w WarningTime) Label() string     { return warningLabels.label(w) }
func (p PadType) Label() string         { return padLabels.label(p) }
func (c Condition) Label() string       { return conditionLabels.label(c) }

// Unknown labels fall back to a fixed default per field.

func DrinkTypeFromLabel(s string) DrinkType { return drinkLabels.lookup(s, DrinkOther) }
func AmountFromLabel(s string) Amount       { return amountLabels.lookup(s, AmountSmall) }
func CircumstanceFromLabel(s string) Circumstance {
	return circumstanceLabels.lookup(s, CircumstanceNone)
}
func ReachedBathroomFromLabel(s string) ReachedBathroom {
	return reachedLabels.lookup(s, ReachedNo)
}
func WarningTimeFromLabel(s string) WarningTime { return warningLabels.lookup(s, WarningUnder10) }
func PadTypeFromLabel(s string) PadType         { return padLabels.lookup(s, PadPantyliner) }
func ConditionFromLabel(s string) Condition     { return conditionLabels.lookup(s, ConditionDry) }

// YesNo renders a boolean the way the CSV details field does.
func YesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

// ParseYesNo is true only for "Sí"; any other value reads as false.
func ParseYesNo(s string) bool {
	return foldLabel(s) == "Sí"
}

// Title returns the display title of a variant.
func (t Type) Title() string {
	switch t {
	case TypeFluidIntake:
		return "Ingesta de líquido"
	case TypeUrination:
		return "Micción"
	case TypeLeakage:
		return "Pérdida"
	case TypeUrgency:
		return "Urgencia"
	case TypePadUse:
		return "Cambio de compresa"
	}
	return string(t)
}

// Emoji returns the prefix used in lists and share text.
func (t Type) Emoji() string {
	switch t {
	case TypeFluidIntake:
		return "💧"
	case TypeUrination:
		return "🚽"
	case TypeLeakage:
		return "💦"
	case TypeUrgency:
		return "⚡"
	case TypePadUse:
		return "🩹"
	}
	return "•"
}
