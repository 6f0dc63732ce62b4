package reward

import (
	"testing"

	"kpidash/internal/domain/kpi"
)

func standardKpi() kpi.Kpi {
	return kpi.Kpi{
		ID:               "k1",
		Name:             "Monthly Sales",
		Target:           100,
		RewardAmount:     5000000,
		PenaltyAmount:    2000000,
		RewardThreshold:  100,
		PenaltyThreshold: 60,
	}
}

func TestEvaluateOverAchievement(t *testing.T) {
	record := kpi.Record{Target: 100, Actual: 120}
	outcome := Evaluate(record, standardKpi())

	if outcome.AchievementRate != 120 {
		t.Fatalf("expected rate 120, got %v", outcome.AchievementRate)
	}
	if outcome.RewardAmount != 5000000 {
		t.Fatalf("expected reward 5000000, got %v", outcome.RewardAmount)
	}
	if outcome.PenaltyAmount != 0 {
		t.Fatalf("expected no penalty, got %v", outcome.PenaltyAmount)
	}
}

func TestEvaluateUnderAchievement(t *testing.T) {
	record := kpi.Record{Target: 100, Actual: 50}
	outcome := Evaluate(record, standardKpi())

	if outcome.AchievementRate != 50 {
		t.Fatalf("expected rate 50, got %v", outcome.AchievementRate)
	}
	if outcome.RewardAmount != 0 {
		t.Fatalf("expected no reward, got %v", outcome.RewardAmount)
	}
	if outcome.PenaltyAmount != 2000000 {
		t.Fatalf("expected penalty 2000000, got %v", outcome.PenaltyAmount)
	}
}

func TestEvaluateBetweenThresholds(t *testing.T) {
	record := kpi.Record{Target: 100, Actual: 75}
	outcome := Evaluate(record, standardKpi())

	if outcome.RewardAmount != 0 || outcome.PenaltyAmount != 0 {
		t.Fatalf("expected neutral outcome, got reward %v penalty %v", outcome.RewardAmount, outcome.PenaltyAmount)
	}
}

func TestEvaluateZeroTargetGuard(t *testing.T) {
	for _, target := range []float64{0, -10} {
		record := kpi.Record{Target: target, Actual: 50}
		outcome := Evaluate(record, standardKpi())
		if outcome.AchievementRate != 0 {
			t.Fatalf("target %v: expected rate 0, got %v", target, outcome.AchievementRate)
		}
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	record := kpi.Record{Target: 80, Actual: 93}
	def := standardKpi()
	first := Evaluate(record, def)
	for i := 0; i < 10; i++ {
		if Evaluate(record, def) != first {
			t.Fatal("expected identical outcome on repeated evaluation")
		}
	}
}

func TestEvaluateDefaultThresholds(t *testing.T) {
	def := kpi.Kpi{ID: "k1", RewardAmount: 1000, PenaltyAmount: 500}

	atTarget := Evaluate(kpi.Record{Target: 100, Actual: 100}, def)
	if atTarget.RewardAmount != 1000 {
		t.Fatalf("expected default reward threshold 100 to grant reward, got %v", atTarget.RewardAmount)
	}

	below := Evaluate(kpi.Record{Target: 100, Actual: 59}, def)
	if below.PenaltyAmount != 500 {
		t.Fatalf("expected default penalty threshold 60 to apply penalty, got %v", below.PenaltyAmount)
	}

	at60 := Evaluate(kpi.Record{Target: 100, Actual: 60}, def)
	if at60.PenaltyAmount != 0 {
		t.Fatalf("rate equal to penalty threshold must not be penalized, got %v", at60.PenaltyAmount)
	}
}

func TestEvaluateRateModes(t *testing.T) {
	def := standardKpi()
	def.RewardMode = kpi.ModeRate
	def.PenaltyMode = kpi.ModeRate

	over := Evaluate(kpi.Record{Target: 100, Actual: 120}, def)
	if over.RewardAmount != 5000000*1.2 {
		t.Fatalf("expected rate-scaled reward %v, got %v", 5000000*1.2, over.RewardAmount)
	}

	// Shortfall of 20 points below the penalty threshold.
	under := Evaluate(kpi.Record{Target: 100, Actual: 40}, def)
	want := 2000000 * (60.0 - 40.0) / 100
	if under.PenaltyAmount != want {
		t.Fatalf("expected shortfall-scaled penalty %v, got %v", want, under.PenaltyAmount)
	}
}
