package reward

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kpidash/internal/domain/directory"
	"kpidash/internal/domain/kpi"
)

// Store is the pgx-backed StoreAPI. Reads go through the kpi and directory
// stores so scanning and defaulting stay in one place per entity.
type Store struct {
	DB        *pgxpool.Pool
	kpis      *kpi.Store
	employees *directory.Store
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db, kpis: kpi.NewStore(db), employees: directory.NewStore(db)}
}

var _ StoreAPI = (*Store)(nil)

func (s *Store) ListKpiRecords(ctx context.Context, period string) ([]kpi.Record, error) {
	return s.kpis.ListRecords(ctx, period, "")
}

func (s *Store) ListKpis(ctx context.Context) ([]kpi.Kpi, error) {
	return s.kpis.ListKpis(ctx)
}

func (s *Store) ListEmployees(ctx context.Context) ([]directory.Employee, error) {
	return s.employees.ListEmployees(ctx)
}

func (s *Store) ListPeriods(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT DISTINCT period FROM kpi_records ORDER BY period")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []string
	for rows.Next() {
		var period string
		if err := rows.Scan(&period); err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}
	return periods, nil
}

const resultColumns = `
    id, kpi_record_id, employee_id, employee_name, department, kpi_id, kpi_name, period,
    target_value, actual_value, achievement_rate, reward_amount, penalty_amount, net_amount,
    status, calculated_at, calculated_by, COALESCE(approved_by, ''), approved_at, paid_at, COALESCE(notes, '')`

func scanResult(row pgx.Row) (CalculationResult, error) {
	var r CalculationResult
	err := row.Scan(&r.ID, &r.KpiRecordID, &r.EmployeeID, &r.EmployeeName, &r.Department,
		&r.KpiID, &r.KpiName, &r.Period,
		&r.TargetValue, &r.ActualValue, &r.AchievementRate,
		&r.RewardAmount, &r.PenaltyAmount, &r.NetAmount,
		&r.Status, &r.CalculatedAt, &r.CalculatedBy, &r.ApprovedBy, &r.ApprovedAt, &r.PaidAt, &r.Notes)
	return r, err
}

func (s *Store) ListResults(ctx context.Context, period string) ([]CalculationResult, error) {
	query := "SELECT " + resultColumns + " FROM kpi_reward_calculations"
	args := []any{}
	if period != "" {
		query += " WHERE period = $1"
		args = append(args, period)
	}
	query += " ORDER BY calculated_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []CalculationResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *Store) GetResult(ctx context.Context, id string) (CalculationResult, error) {
	r, err := scanResult(s.DB.QueryRow(ctx, "SELECT "+resultColumns+" FROM kpi_reward_calculations WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return CalculationResult{}, ErrResultNotFound
	}
	return r, err
}

func (s *Store) SaveResult(ctx context.Context, result CalculationResult) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO kpi_reward_calculations
      (kpi_record_id, employee_id, employee_name, department, kpi_id, kpi_name, period,
       target_value, actual_value, achievement_rate, reward_amount, penalty_amount, net_amount,
       status, calculated_at, calculated_by, notes)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
    RETURNING id
  `, result.KpiRecordID, result.EmployeeID, result.EmployeeName, result.Department,
		result.KpiID, result.KpiName, result.Period,
		result.TargetValue, result.ActualValue, result.AchievementRate,
		result.RewardAmount, result.PenaltyAmount, result.NetAmount,
		result.Status, result.CalculatedAt, result.CalculatedBy, nullIfEmpty(result.Notes)).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) DeleteResult(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM kpi_reward_calculations WHERE id = $1", id)
	return err
}

func (s *Store) MarkResultApproved(ctx context.Context, id, approvedBy string, at time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE kpi_reward_calculations
    SET status = $1, approved_by = $2, approved_at = $3
    WHERE id = $4
  `, StatusApproved, approvedBy, at, id)
	return err
}

func (s *Store) MarkResultPaid(ctx context.Context, id string, at time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE kpi_reward_calculations
    SET status = $1, paid_at = $2
    WHERE id = $3
  `, StatusPaid, at, id)
	return err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
