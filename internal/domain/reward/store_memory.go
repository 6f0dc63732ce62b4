package reward

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"kpidash/internal/domain/directory"
	"kpidash/internal/domain/kpi"
)

// MemoryStore is an in-memory StoreAPI for tests and local development.
type MemoryStore struct {
	mu        sync.RWMutex
	records   []kpi.Record
	kpis      []kpi.Kpi
	employees []directory.Employee
	results   map[string]CalculationResult

	// FailSaves makes SaveResult fail after N successful saves; used to
	// exercise partial-batch semantics.
	FailSaves int
	saves     int
}

type memoryFailure struct{}

func (memoryFailure) Error() string { return "memory store: simulated save failure" }

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{results: make(map[string]CalculationResult), FailSaves: -1}
}

func (m *MemoryStore) SeedRecords(records ...kpi.Record) { m.records = append(m.records, records...) }

func (m *MemoryStore) SeedKpis(kpis ...kpi.Kpi) { m.kpis = append(m.kpis, kpis...) }

func (m *MemoryStore) SeedEmployees(emps ...directory.Employee) {
	m.employees = append(m.employees, emps...)
}

func (m *MemoryStore) ListKpiRecords(_ context.Context, period string) ([]kpi.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []kpi.Record
	for _, r := range m.records {
		if period == "" || r.Period == period {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListKpis(_ context.Context) ([]kpi.Kpi, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]kpi.Kpi(nil), m.kpis...), nil
}

func (m *MemoryStore) ListEmployees(_ context.Context) ([]directory.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]directory.Employee(nil), m.employees...), nil
}

func (m *MemoryStore) ListPeriods(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := map[string]bool{}
	var periods []string
	for _, r := range m.records {
		if !seen[r.Period] {
			seen[r.Period] = true
			periods = append(periods, r.Period)
		}
	}
	sort.Strings(periods)
	return periods, nil
}

func (m *MemoryStore) ListResults(_ context.Context, period string) ([]CalculationResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []CalculationResult
	for _, r := range m.results {
		if period == "" || r.Period == period {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CalculatedAt.After(out[j].CalculatedAt) })
	return out, nil
}

func (m *MemoryStore) GetResult(_ context.Context, id string) (CalculationResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result, ok := m.results[id]
	if !ok {
		return CalculationResult{}, ErrResultNotFound
	}
	return result, nil
}

func (m *MemoryStore) SaveResult(_ context.Context, result CalculationResult) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves >= 0 && m.saves >= m.FailSaves {
		return "", memoryFailure{}
	}
	m.saves++
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	m.results[result.ID] = result
	return result.ID, nil
}

func (m *MemoryStore) DeleteResult(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.results, id)
	return nil
}

func (m *MemoryStore) MarkResultApproved(_ context.Context, id, approvedBy string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	result, ok := m.results[id]
	if !ok {
		return ErrResultNotFound
	}
	result.Status = StatusApproved
	result.ApprovedBy = approvedBy
	result.ApprovedAt = &at
	m.results[id] = result
	return nil
}

func (m *MemoryStore) MarkResultPaid(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	result, ok := m.results[id]
	if !ok {
		return ErrResultNotFound
	}
	result.Status = StatusPaid
	result.PaidAt = &at
	m.results[id] = result
	return nil
}

var _ StoreAPI = (*MemoryStore)(nil)
