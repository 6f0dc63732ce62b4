package reward

import "testing"

func sampleResults() []CalculationResult {
	return []CalculationResult{
		{EmployeeID: "e1", EmployeeName: "Nguyen Van A", Department: "Sales", KpiName: "Revenue", Period: "2024-Q4", AchievementRate: 120, RewardAmount: 5000000, NetAmount: 5000000},
		{EmployeeID: "e2", EmployeeName: "Tran Thi B", Department: "Marketing", KpiName: "Leads", Period: "2024-Q4", AchievementRate: 85, NetAmount: 0},
		{EmployeeID: "e3", EmployeeName: "Le Van C", Department: "Sales", KpiName: "New Accounts", Period: "2024-Q3", AchievementRate: 65, NetAmount: 0},
		{EmployeeID: "e4", EmployeeName: "Pham Thi D", Department: "Support", KpiName: "CSAT", Period: "2024-Q4", AchievementRate: 40, PenaltyAmount: 2000000, NetAmount: -2000000},
	}
}

func TestFilterResultsBySearch(t *testing.T) {
	results := sampleResults()

	byName := FilterResults(results, Filter{Search: "nguyen"})
	if len(byName) != 1 || byName[0].EmployeeID != "e1" {
		t.Fatalf("expected employee-name match, got %+v", byName)
	}

	byKpi := FilterResults(results, Filter{Search: "leads"})
	if len(byKpi) != 1 || byKpi[0].EmployeeID != "e2" {
		t.Fatalf("expected kpi-name match, got %+v", byKpi)
	}

	byDept := FilterResults(results, Filter{Search: "SALES"})
	if len(byDept) != 2 {
		t.Fatalf("expected department matches, got %+v", byDept)
	}

	none := FilterResults(results, Filter{Search: "does-not-exist"})
	if len(none) != 0 {
		t.Fatalf("expected no matches, got %+v", none)
	}
}

func TestFilterResultsByFields(t *testing.T) {
	results := sampleResults()

	byPeriod := FilterResults(results, Filter{Period: "2024-Q4"})
	if len(byPeriod) != 3 {
		t.Fatalf("expected 3 Q4 results, got %d", len(byPeriod))
	}

	byAll := FilterResults(results, Filter{Period: PeriodAll})
	if len(byAll) != 4 {
		t.Fatalf("expected period 'all' to pass everything, got %d", len(byAll))
	}

	byEmployee := FilterResults(results, Filter{EmployeeID: "e3"})
	if len(byEmployee) != 1 {
		t.Fatalf("expected 1 result for e3, got %d", len(byEmployee))
	}

	combined := FilterResults(results, Filter{Department: "sales", Period: "2024-Q4"})
	if len(combined) != 1 || combined[0].EmployeeID != "e1" {
		t.Fatalf("expected combined filter to intersect, got %+v", combined)
	}
}

func TestSummarizeTotals(t *testing.T) {
	summary := Summarize(sampleResults())

	if summary.TotalRecords != 4 {
		t.Fatalf("expected 4 records, got %d", summary.TotalRecords)
	}
	if summary.TotalRewardAmount != 5000000 || summary.TotalPenaltyAmount != 2000000 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if summary.NetAmount != 3000000 {
		t.Fatalf("expected net 3000000, got %v", summary.NetAmount)
	}
	want := (120.0 + 85 + 65 + 40) / 4
	if summary.AverageAchievement != want {
		t.Fatalf("expected average %v, got %v", want, summary.AverageAchievement)
	}
}

func TestSummarizeDistributionPartition(t *testing.T) {
	results := sampleResults()
	// Boundary rates: each must land in exactly one band.
	results = append(results,
		CalculationResult{AchievementRate: 100},
		CalculationResult{AchievementRate: 99.99},
		CalculationResult{AchievementRate: 80},
		CalculationResult{AchievementRate: 79.99},
		CalculationResult{AchievementRate: 60},
		CalculationResult{AchievementRate: 59.99},
		CalculationResult{AchievementRate: 0},
	)

	summary := Summarize(results)
	d := summary.Distribution
	if d.Excellent+d.Good+d.Acceptable+d.Poor != len(results) {
		t.Fatalf("distribution does not partition: %+v over %d results", d, len(results))
	}
	if d.Excellent != 2 || d.Good != 3 || d.Acceptable != 3 || d.Poor != 3 {
		t.Fatalf("unexpected distribution: %+v", d)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalRecords != 0 || summary.AverageAchievement != 0 {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
}

func TestBandBoundaries(t *testing.T) {
	cases := map[float64]string{
		150:   BandExcellent,
		100:   BandExcellent,
		99.99: BandGood,
		80:    BandGood,
		79.99: BandAcceptable,
		60:    BandAcceptable,
		59.99: BandPoor,
		0:     BandPoor,
	}
	for rate, want := range cases {
		if got := Band(rate); got != want {
			t.Fatalf("rate %v: expected %s, got %s", rate, want, got)
		}
	}
}
