package reward

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

// StatementPDF renders a reward/penalty statement for one result and returns
// the file path. Results must at least be calculated; amounts on the
// statement always come from the stored result, never recomputed here.
func (s *Service) StatementPDF(ctx context.Context, id, dir string) (string, error) {
	result, err := s.store.GetResult(ctx, id)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(dir, result.ID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "KPI Reward Statement")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", result.EmployeeName, result.Department))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("KPI: %s", result.KpiName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", result.Period))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Target: %s  Actual: %s", formatValue(result.TargetValue), formatValue(result.ActualValue)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Achievement: %.1f%%", result.AchievementRate))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Reward: %s VND", formatAmount(result.RewardAmount)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Penalty: %s VND", formatAmount(result.PenaltyAmount)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Net: %s VND", formatAmount(result.NetAmount)))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", result.Status))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
