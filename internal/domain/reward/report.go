package reward

import "strings"

const (
	BandExcellent  = "excellent"
	BandGood       = "good"
	BandAcceptable = "acceptable"
	BandPoor       = "poor"
)

// Band buckets an achievement rate. Boundaries are right-open below the next
// tier so every rate lands in exactly one band.
func Band(rate float64) string {
	switch {
	case rate >= 100:
		return BandExcellent
	case rate >= 80:
		return BandGood
	case rate >= 60:
		return BandAcceptable
	default:
		return BandPoor
	}
}

type Filter struct {
	Search     string `json:"search"`
	Department string `json:"department"`
	EmployeeID string `json:"employeeId"`
	Period     string `json:"period"`
}

// FilterResults is a pure in-memory filter. The search term matches
// case-insensitively as a substring of the employee name, KPI name, or
// department; the other fields are exact.
func FilterResults(results []CalculationResult, f Filter) []CalculationResult {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []CalculationResult
	for _, r := range results {
		if f.Period != "" && f.Period != PeriodAll && r.Period != f.Period {
			continue
		}
		if f.Department != "" && !strings.EqualFold(r.Department, f.Department) {
			continue
		}
		if f.EmployeeID != "" && r.EmployeeID != f.EmployeeID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(r.EmployeeName), search) &&
			!strings.Contains(strings.ToLower(r.KpiName), search) &&
			!strings.Contains(strings.ToLower(r.Department), search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

type Distribution struct {
	Excellent  int `json:"excellent"`
	Good       int `json:"good"`
	Acceptable int `json:"acceptable"`
	Poor       int `json:"poor"`
}

type Summary struct {
	TotalRecords       int          `json:"totalRecords"`
	TotalRewardAmount  float64      `json:"totalRewardAmount"`
	TotalPenaltyAmount float64      `json:"totalPenaltyAmount"`
	NetAmount          float64      `json:"netAmount"`
	AverageAchievement float64      `json:"averageAchievement"`
	Distribution       Distribution `json:"performanceDistribution"`
}

// Summarize folds the results into totals and a performance distribution.
// Pure, stateless, safe to call concurrently.
func Summarize(results []CalculationResult) Summary {
	summary := Summary{TotalRecords: len(results)}
	var rateSum float64
	for _, r := range results {
		summary.TotalRewardAmount += r.RewardAmount
		summary.TotalPenaltyAmount += r.PenaltyAmount
		summary.NetAmount += r.NetAmount
		rateSum += r.AchievementRate

		switch Band(r.AchievementRate) {
		case BandExcellent:
			summary.Distribution.Excellent++
		case BandGood:
			summary.Distribution.Good++
		case BandAcceptable:
			summary.Distribution.Acceptable++
		default:
			summary.Distribution.Poor++
		}
	}
	if len(results) > 0 {
		summary.AverageAchievement = rateSum / float64(len(results))
	}
	return summary
}
