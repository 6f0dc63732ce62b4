package kpi

import "time"

// Kpi is a KPI definition. Thresholds and modes are resolved to effective
// values at load time (see WithDefaults); downstream code never re-infers
// defaults per call site.
type Kpi struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Unit             string    `json:"unit"`
	Weight           float64   `json:"weight"`
	Target           float64   `json:"target"`
	RewardAmount     float64   `json:"rewardAmount"`
	RewardMode       string    `json:"rewardMode"`
	RewardThreshold  float64   `json:"rewardThreshold"`
	PenaltyAmount    float64   `json:"penaltyAmount"`
	PenaltyMode      string    `json:"penaltyMode"`
	PenaltyThreshold float64   `json:"penaltyThreshold"`
	Frequency        string    `json:"frequency"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Record is the assignment of one KPI to one employee for one period.
type Record struct {
	ID         string    `json:"id"`
	KpiID      string    `json:"kpiId"`
	EmployeeID string    `json:"employeeId"`
	Period     string    `json:"period"`
	Target     float64   `json:"target"`
	Actual     float64   `json:"actual"`
	Status     string    `json:"status"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
