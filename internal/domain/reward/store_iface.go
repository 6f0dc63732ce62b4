package reward

import (
	"context"
	"time"

	"kpidash/internal/domain/directory"
	"kpidash/internal/domain/kpi"
)

// StoreAPI is the narrow persistence port the engine consumes. The pgx
// implementation lives in store_data.go; tests use the in-memory one.
type StoreAPI interface {
	ListKpiRecords(ctx context.Context, period string) ([]kpi.Record, error)
	ListKpis(ctx context.Context) ([]kpi.Kpi, error)
	ListEmployees(ctx context.Context) ([]directory.Employee, error)
	ListPeriods(ctx context.Context) ([]string, error)

	ListResults(ctx context.Context, period string) ([]CalculationResult, error)
	GetResult(ctx context.Context, id string) (CalculationResult, error)
	SaveResult(ctx context.Context, result CalculationResult) (string, error)
	DeleteResult(ctx context.Context, id string) error
	MarkResultApproved(ctx context.Context, id, approvedBy string, at time.Time) error
	MarkResultPaid(ctx context.Context, id string, at time.Time) error
}
