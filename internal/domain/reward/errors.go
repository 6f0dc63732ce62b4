package reward

import "errors"

var (
	ErrRecordNotApproved = errors.New("kpi record is not approved for calculation")
	ErrKpiNotFound       = errors.New("kpi definition not found")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrResultNotFound    = errors.New("calculation result not found")
	ErrInvalidTransition = errors.New("status transition not allowed")
)
