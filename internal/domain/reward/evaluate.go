package reward

import "kpidash/internal/domain/kpi"

// Outcome is the result of evaluating one record against its definition.
type Outcome struct {
	AchievementRate float64
	RewardAmount    float64
	PenaltyAmount   float64
}

// Evaluate computes achievement rate and gross reward/penalty for one
// KpiRecord. Pure: no I/O, no clock, same inputs give the same outcome.
// A non-positive target yields rate 0 instead of failing; historical data
// is noisy and must degrade, not abort.
func Evaluate(record kpi.Record, def kpi.Kpi) Outcome {
	def = def.WithDefaults()

	var rate float64
	if record.Target > 0 {
		rate = record.Actual / record.Target * 100
	}

	var reward float64
	if rate >= def.RewardThreshold {
		reward = def.RewardAmount
		if def.RewardMode == kpi.ModeRate {
			reward = def.RewardAmount * rate / 100
		}
	}

	var penalty float64
	if rate < def.PenaltyThreshold {
		penalty = def.PenaltyAmount
		if def.PenaltyMode == kpi.ModeRate {
			penalty = def.PenaltyAmount * (def.PenaltyThreshold - rate) / 100
		}
	}

	return Outcome{AchievementRate: rate, RewardAmount: reward, PenaltyAmount: penalty}
}
