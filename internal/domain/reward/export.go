package reward

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

var exportHeader = []string{
	"employeeName", "department", "kpiName", "period",
	"targetValue", "actualValue", "achievementRate",
	"rewardAmount", "penaltyAmount", "netAmount", "status",
}

// ExportCSV renders one row per result. Achievement rate keeps one decimal;
// currency fields are integer VND with no grouping separators.
func ExportCSV(results []CalculationResult) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return "", err
	}
	for _, r := range results {
		row := []string{
			r.EmployeeName,
			r.Department,
			r.KpiName,
			r.Period,
			formatValue(r.TargetValue),
			formatValue(r.ActualValue),
			strconv.FormatFloat(r.AchievementRate, 'f', 1, 64),
			formatAmount(r.RewardAmount),
			formatAmount(r.PenaltyAmount),
			formatAmount(r.NetAmount),
			string(r.Status),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
