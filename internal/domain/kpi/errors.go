package kpi

import "errors"

var (
	ErrKpiNotFound       = errors.New("kpi not found")
	ErrRecordNotFound    = errors.New("kpi record not found")
	ErrInvalidDefinition = errors.New("invalid kpi definition")
	ErrInvalidRecordMove = errors.New("kpi record status change not allowed")
)
