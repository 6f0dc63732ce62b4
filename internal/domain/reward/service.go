package reward

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"kpidash/internal/domain/directory"
	"kpidash/internal/domain/kpi"
)

// PeriodAll selects every period known to the store.
const PeriodAll = "all"

// Service owns calculation results: it is the only writer that creates or
// deletes them. Status mutation goes through lifecycle.go.
type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// CalculateOne builds a result for one approved record. It does not persist;
// bulk runs and callers decide when to save.
func (s *Service) CalculateOne(record kpi.Record, def kpi.Kpi, employee directory.Employee, actor string) (CalculationResult, error) {
	if record.Status != kpi.RecordStatusApproved {
		return CalculationResult{}, fmt.Errorf("%w: record %s is %s", ErrRecordNotApproved, record.ID, record.Status)
	}
	if def.ID == "" || def.ID != record.KpiID {
		return CalculationResult{}, fmt.Errorf("%w: record %s references kpi %s", ErrKpiNotFound, record.ID, record.KpiID)
	}
	if employee.ID == "" || employee.ID != record.EmployeeID {
		return CalculationResult{}, fmt.Errorf("%w: record %s references employee %s", ErrEmployeeNotFound, record.ID, record.EmployeeID)
	}

	outcome := Evaluate(record, def)
	return CalculationResult{
		KpiRecordID:     record.ID,
		EmployeeID:      employee.ID,
		EmployeeName:    employee.Name,
		Department:      employee.DepartmentName,
		KpiID:           def.ID,
		KpiName:         def.Name,
		Period:          record.Period,
		TargetValue:     record.Target,
		ActualValue:     record.Actual,
		AchievementRate: outcome.AchievementRate,
		RewardAmount:    outcome.RewardAmount,
		PenaltyAmount:   outcome.PenaltyAmount,
		NetAmount:       outcome.RewardAmount - outcome.PenaltyAmount,
		Status:          StatusCalculated,
		CalculatedAt:    time.Now().UTC(),
		CalculatedBy:    actor,
	}, nil
}

// CalculateAllForPeriod recalculates every approved record of the period,
// replacing prior results for the same records. period may be PeriodAll.
// On a persistence failure the remaining batch is abandoned and the partial
// summary is returned alongside the error.
func (s *Service) CalculateAllForPeriod(ctx context.Context, period, actor string) (RunSummary, error) {
	periods := []string{period}
	if period == PeriodAll {
		known, err := s.store.ListPeriods(ctx)
		if err != nil {
			return RunSummary{}, err
		}
		periods = known
	}

	var total RunSummary
	for _, p := range periods {
		summary, err := s.calculatePeriod(ctx, p, actor)
		total.Succeeded += summary.Succeeded
		total.Attempted += summary.Attempted
		total.Skipped += summary.Skipped
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (s *Service) calculatePeriod(ctx context.Context, period, actor string) (RunSummary, error) {
	records, err := s.store.ListKpiRecords(ctx, period)
	if err != nil {
		return RunSummary{}, err
	}
	kpis, err := s.store.ListKpis(ctx)
	if err != nil {
		return RunSummary{}, err
	}
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	kpisByID := make(map[string]kpi.Kpi, len(kpis))
	for _, k := range kpis {
		kpisByID[k.ID] = k
	}
	employeesByID := make(map[string]directory.Employee, len(employees))
	for _, e := range employees {
		employeesByID[e.ID] = e
	}

	eligible := eligibleRecords(records)

	existing, err := s.store.ListResults(ctx, period)
	if err != nil {
		return RunSummary{}, err
	}
	priorByRecord := make(map[string][]string)
	for _, r := range existing {
		priorByRecord[r.KpiRecordID] = append(priorByRecord[r.KpiRecordID], r.ID)
	}

	summary := RunSummary{Attempted: len(eligible)}
	for _, record := range eligible {
		result, err := s.CalculateOne(record, kpisByID[record.KpiID], employeesByID[record.EmployeeID], actor)
		if err != nil {
			summary.Skipped++
			slog.Warn("reward calculation skipped record", "recordId", record.ID, "period", period, "err", err)
			continue
		}

		// Replace, never duplicate: prior results for this record go first.
		for _, priorID := range priorByRecord[record.ID] {
			if err := s.store.DeleteResult(ctx, priorID); err != nil {
				return summary, fmt.Errorf("replacing result for record %s: %w", record.ID, err)
			}
		}
		delete(priorByRecord, record.ID)

		if _, err := s.store.SaveResult(ctx, result); err != nil {
			return summary, fmt.Errorf("saving result for record %s: %w", record.ID, err)
		}
		summary.Succeeded++
	}
	return summary, nil
}

// eligibleRecords keeps approved records only. Should several records exist
// for one employee+kpi+period, the latest UpdatedAt wins.
func eligibleRecords(records []kpi.Record) []kpi.Record {
	type recordKey struct{ employeeID, kpiID, period string }
	latest := make(map[recordKey]kpi.Record)
	var order []recordKey
	for _, r := range records {
		if r.Status != kpi.RecordStatusApproved {
			continue
		}
		key := recordKey{r.EmployeeID, r.KpiID, r.Period}
		prior, seen := latest[key]
		if !seen {
			order = append(order, key)
			latest[key] = r
			continue
		}
		if r.UpdatedAt.After(prior.UpdatedAt) {
			latest[key] = r
		}
	}
	out := make([]kpi.Record, 0, len(order))
	for _, key := range order {
		out = append(out, latest[key])
	}
	return out
}

// RemoveDuplicates keeps, per kpiRecordId, the most recently calculated
// result and deletes the rest. Idempotent: a second run deletes nothing.
func (s *Service) RemoveDuplicates(ctx context.Context) (int, error) {
	results, err := s.store.ListResults(ctx, "")
	if err != nil {
		return 0, err
	}

	byRecord := make(map[string][]CalculationResult)
	for _, r := range results {
		byRecord[r.KpiRecordID] = append(byRecord[r.KpiRecordID], r)
	}

	deleted := 0
	for recordID, group := range byRecord {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			return group[i].CalculatedAt.After(group[j].CalculatedAt)
		})
		for _, stale := range group[1:] {
			if err := s.store.DeleteResult(ctx, stale.ID); err != nil {
				return deleted, fmt.Errorf("deleting duplicate result %s for record %s: %w", stale.ID, recordID, err)
			}
			deleted++
		}
	}
	return deleted, nil
}

// ResultsForPeriod is a single-period read-through; callers wanting all
// periods pass an empty period to the store or iterate ListPeriods.
func (s *Service) ResultsForPeriod(ctx context.Context, period string) ([]CalculationResult, error) {
	if period == PeriodAll {
		period = ""
	}
	return s.store.ListResults(ctx, period)
}

func (s *Service) GetResult(ctx context.Context, id string) (CalculationResult, error) {
	return s.store.GetResult(ctx, id)
}
