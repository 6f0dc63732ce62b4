package reward

import "time"

// Status is the lifecycle of a calculation result. Transitions only move
// forward: pending -> calculated -> approved -> paid.
type Status string

const (
	StatusPending    Status = "pending"
	StatusCalculated Status = "calculated"
	StatusApproved   Status = "approved"
	StatusPaid       Status = "paid"
)

var nextStatus = map[Status]Status{
	StatusPending:    StatusCalculated,
	StatusCalculated: StatusApproved,
	StatusApproved:   StatusPaid,
}

func (s Status) CanMoveTo(to Status) bool {
	return nextStatus[s] == to
}

// CalculationResult is the monetary outcome for one approved KpiRecord.
// Employee, department and KPI names are denormalized for reporting.
// NetAmount is always RewardAmount - PenaltyAmount.
type CalculationResult struct {
	ID              string     `json:"id"`
	KpiRecordID     string     `json:"kpiRecordId"`
	EmployeeID      string     `json:"employeeId"`
	EmployeeName    string     `json:"employeeName"`
	Department      string     `json:"department"`
	KpiID           string     `json:"kpiId"`
	KpiName         string     `json:"kpiName"`
	Period          string     `json:"period"`
	TargetValue     float64    `json:"targetValue"`
	ActualValue     float64    `json:"actualValue"`
	AchievementRate float64    `json:"achievementRate"`
	RewardAmount    float64    `json:"rewardAmount"`
	PenaltyAmount   float64    `json:"penaltyAmount"`
	NetAmount       float64    `json:"netAmount"`
	Status          Status     `json:"status"`
	CalculatedAt    time.Time  `json:"calculatedAt"`
	CalculatedBy    string     `json:"calculatedBy"`
	ApprovedBy      string     `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

// RunSummary reports the outcome of a bulk calculation: Attempted counts
// eligible records, Succeeded the persisted results. Skipped records (broken
// references) are logged, not fatal.
type RunSummary struct {
	Succeeded int `json:"succeeded"`
	Attempted int `json:"attempted"`
	Skipped   int `json:"skipped"`
}
