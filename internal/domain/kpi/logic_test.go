package kpi

import (
	"errors"
	"testing"
)

func TestWithDefaultsFillsThresholdsAndModes(t *testing.T) {
	k := Kpi{Name: "Revenue"}.WithDefaults()
	if k.RewardThreshold != DefaultRewardThreshold {
		t.Fatalf("expected reward threshold %v, got %v", DefaultRewardThreshold, k.RewardThreshold)
	}
	if k.PenaltyThreshold != DefaultPenaltyThreshold {
		t.Fatalf("expected penalty threshold %v, got %v", DefaultPenaltyThreshold, k.PenaltyThreshold)
	}
	if k.RewardMode != ModeFixed || k.PenaltyMode != ModeFixed {
		t.Fatalf("expected fixed modes, got %s/%s", k.RewardMode, k.PenaltyMode)
	}
}

func TestWithDefaultsKeepsExplicitValues(t *testing.T) {
	k := Kpi{RewardThreshold: 110, PenaltyThreshold: 50, RewardMode: ModeRate}.WithDefaults()
	if k.RewardThreshold != 110 || k.PenaltyThreshold != 50 {
		t.Fatalf("explicit thresholds overwritten: %+v", k)
	}
	if k.RewardMode != ModeRate {
		t.Fatalf("explicit mode overwritten: %s", k.RewardMode)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		kpi     Kpi
		wantErr bool
	}{
		{"valid", Kpi{Name: "Sales", Weight: 30, RewardAmount: 5000000, PenaltyAmount: 2000000}, false},
		{"missing name", Kpi{Weight: 10}, true},
		{"weight too high", Kpi{Name: "X", Weight: 120}, true},
		{"negative weight", Kpi{Name: "X", Weight: -1}, true},
		{"negative amount", Kpi{Name: "X", RewardAmount: -1}, true},
		{"thresholds inverted", Kpi{Name: "X", RewardThreshold: 60, PenaltyThreshold: 80}, true},
		{"unknown mode", Kpi{Name: "X", RewardMode: "percentage"}, true},
	}
	for _, tc := range cases {
		err := Validate(tc.kpi)
		if tc.wantErr && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if tc.wantErr && !errors.Is(err, ErrInvalidDefinition) {
			t.Fatalf("%s: expected ErrInvalidDefinition, got %v", tc.name, err)
		}
	}
}

func TestRecordMoveAllowed(t *testing.T) {
	allowed := [][2]string{
		{RecordStatusNotStarted, RecordStatusInProgress},
		{RecordStatusInProgress, RecordStatusSubmitted},
		{RecordStatusSubmitted, RecordStatusApproved},
		{RecordStatusSubmitted, RecordStatusRejected},
		{RecordStatusRejected, RecordStatusSubmitted},
	}
	for _, move := range allowed {
		if !RecordMoveAllowed(move[0], move[1]) {
			t.Fatalf("expected %s -> %s to be allowed", move[0], move[1])
		}
	}

	denied := [][2]string{
		{RecordStatusApproved, RecordStatusSubmitted},
		{RecordStatusApproved, RecordStatusInProgress},
		{RecordStatusNotStarted, RecordStatusApproved},
		{RecordStatusInProgress, RecordStatusApproved},
	}
	for _, move := range denied {
		if RecordMoveAllowed(move[0], move[1]) {
			t.Fatalf("expected %s -> %s to be denied", move[0], move[1])
		}
		if err := CheckRecordMove(move[0], move[1]); !errors.Is(err, ErrInvalidRecordMove) {
			t.Fatalf("expected ErrInvalidRecordMove, got %v", err)
		}
	}
}
