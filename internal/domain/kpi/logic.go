package kpi

import "fmt"

// WithDefaults returns a copy with unset thresholds and modes resolved to
// their effective values. A zero threshold means "not configured".
func (k Kpi) WithDefaults() Kpi {
	if k.RewardThreshold == 0 {
		k.RewardThreshold = DefaultRewardThreshold
	}
	if k.PenaltyThreshold == 0 {
		k.PenaltyThreshold = DefaultPenaltyThreshold
	}
	if k.RewardMode == "" {
		k.RewardMode = ModeFixed
	}
	if k.PenaltyMode == "" {
		k.PenaltyMode = ModeFixed
	}
	return k
}

func Validate(k Kpi) error {
	if k.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if k.Weight < 0 || k.Weight > 100 {
		return fmt.Errorf("%w: weight must be between 0 and 100", ErrInvalidDefinition)
	}
	if k.RewardAmount < 0 || k.PenaltyAmount < 0 {
		return fmt.Errorf("%w: amounts must not be negative", ErrInvalidDefinition)
	}
	effective := k.WithDefaults()
	if effective.PenaltyThreshold >= effective.RewardThreshold {
		return fmt.Errorf("%w: penalty threshold must be below reward threshold", ErrInvalidDefinition)
	}
	switch effective.RewardMode {
	case ModeFixed, ModeRate:
	default:
		return fmt.Errorf("%w: unknown reward mode %q", ErrInvalidDefinition, k.RewardMode)
	}
	switch effective.PenaltyMode {
	case ModeFixed, ModeRate:
	default:
		return fmt.Errorf("%w: unknown penalty mode %q", ErrInvalidDefinition, k.PenaltyMode)
	}
	return nil
}

// recordFlow is the legal status progression for a KpiRecord. Rejected
// records may be reworked and resubmitted.
var recordFlow = map[string][]string{
	RecordStatusNotStarted: {RecordStatusInProgress},
	RecordStatusInProgress: {RecordStatusSubmitted},
	RecordStatusSubmitted:  {RecordStatusApproved, RecordStatusRejected},
	RecordStatusRejected:   {RecordStatusInProgress, RecordStatusSubmitted},
	RecordStatusApproved:   {},
}

func RecordMoveAllowed(from, to string) bool {
	for _, next := range recordFlow[from] {
		if next == to {
			return true
		}
	}
	return false
}

func CheckRecordMove(from, to string) error {
	if !RecordMoveAllowed(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidRecordMove, from, to)
	}
	return nil
}
