package record

import "fmt"

// Intensity bounds per variant.
const (
	MinIntensity        = 1
	MaxLeakageIntensity = 5
	MaxUrgencyIntensity = 10
)

// Validate checks the field domains of d. Construction never calls it;
// callers that accept user input or decoded text do.
func Validate(d Details) error {
	switch v := d.(type) {
	case FluidIntake:
		if v.Amount < 0 {
			return fmt.Errorf("amount must be >= 0, got %d", v.Amount)
		}
		if !drinkLabels.has(v.DrinkType) {
			return fmt.Errorf("unknown drink type %q", v.DrinkType)
		}
	case Urination:
		if !validUrinationAmount(v.Amount) {
			return fmt.Errorf("urination amount must be small, medium or large, got %q", v.Amount)
		}
	case Leakage:
		if !ValidLeakageAmount(v.Amount) {
			return fmt.Errorf("leakage amount must be drops, small, moderate or large, got %q", v.Amount)
		}
		if !circumstanceLabels.has(v.Circumstance) {
			return fmt.Errorf("unknown circumstance %q", v.Circumstance)
		}
		if v.Intensity < MinIntensity || v.Intensity > MaxLeakageIntensity {
			return fmt.Errorf("leakage intensity must be between %d and %d, got %d", MinIntensity, MaxLeakageIntensity, v.Intensity)
		}
	case Urgency:
		if v.Intensity < MinIntensity || v.Intensity > MaxUrgencyIntensity {
			return fmt.Errorf("urgency intensity must be between %d and %d, got %d", MinIntensity, MaxUrgencyIntensity, v.Intensity)
		}
		if !reachedLabels.has(v.ReachedBathroom) {
			return fmt.Errorf("unknown reached-bathroom value %q", v.ReachedBathroom)
		}
		if !warningLabels.has(v.WarningTime) {
			return fmt.Errorf("unknown warning time %q", v.WarningTime)
		}
	case PadUse:
		if !padLabels.has(v.PadType) {
			return fmt.Errorf("unknown pad type %q", v.PadType)
		}
		if !conditionLabels.has(v.Condition) {
			return fmt.Errorf("unknown condition %q", v.Condition)
		}
	case nil:
		return fmt.Errorf("details are required")
	default:
		return fmt.Errorf("unsupported details %T", d)
	}
	return nil
}

func validUrinationAmount(a Amount) bool {
	return a == AmountSmall || a == AmountMedium || a == AmountLarge
}

// ValidLeakageAmount reports whether a belongs to the leakage vocabulary.
func ValidLeakageAmount(a Amount) bool {
	return a == AmountDrops || a == AmountSmall || a == AmountModerate || a == AmountLarge
}
