package kpi

const (
	RecordStatusNotStarted = "not_started"
	RecordStatusInProgress = "in_progress"
	RecordStatusSubmitted  = "submitted"
	RecordStatusApproved   = "approved"
	RecordStatusRejected   = "rejected"

	ModeFixed = "fixed"
	ModeRate  = "rate"

	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyYearly    = "yearly"

	DefaultRewardThreshold  = 100.0
	DefaultPenaltyThreshold = 60.0
)
