package kpi

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const kpiColumns = `
    id, name, unit, weight, target,
    reward_amount, reward_mode, COALESCE(reward_threshold, 0),
    penalty_amount, penalty_mode, COALESCE(penalty_threshold, 0),
    frequency, created_at`

func scanKpi(row pgx.Row) (Kpi, error) {
	var k Kpi
	err := row.Scan(&k.ID, &k.Name, &k.Unit, &k.Weight, &k.Target,
		&k.RewardAmount, &k.RewardMode, &k.RewardThreshold,
		&k.PenaltyAmount, &k.PenaltyMode, &k.PenaltyThreshold,
		&k.Frequency, &k.CreatedAt)
	if err != nil {
		return Kpi{}, err
	}
	return k.WithDefaults(), nil
}

func (s *Store) ListKpis(ctx context.Context) ([]Kpi, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+kpiColumns+" FROM kpis ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kpis []Kpi
	for rows.Next() {
		k, err := scanKpi(rows)
		if err != nil {
			return nil, err
		}
		kpis = append(kpis, k)
	}
	return kpis, nil
}

func (s *Store) GetKpi(ctx context.Context, id string) (Kpi, error) {
	k, err := scanKpi(s.DB.QueryRow(ctx, "SELECT "+kpiColumns+" FROM kpis WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Kpi{}, ErrKpiNotFound
	}
	return k, err
}

func (s *Store) CreateKpi(ctx context.Context, k Kpi) (string, error) {
	k = k.WithDefaults()
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO kpis (name, unit, weight, target, reward_amount, reward_mode, reward_threshold,
                      penalty_amount, penalty_mode, penalty_threshold, frequency)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id
  `, k.Name, k.Unit, k.Weight, k.Target, k.RewardAmount, k.RewardMode, k.RewardThreshold,
		k.PenaltyAmount, k.PenaltyMode, k.PenaltyThreshold, k.Frequency).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateKpi(ctx context.Context, id string, k Kpi) error {
	k = k.WithDefaults()
	_, err := s.DB.Exec(ctx, `
    UPDATE kpis
    SET name = $1, unit = $2, weight = $3, target = $4,
        reward_amount = $5, reward_mode = $6, reward_threshold = $7,
        penalty_amount = $8, penalty_mode = $9, penalty_threshold = $10,
        frequency = $11
    WHERE id = $12
  `, k.Name, k.Unit, k.Weight, k.Target, k.RewardAmount, k.RewardMode, k.RewardThreshold,
		k.PenaltyAmount, k.PenaltyMode, k.PenaltyThreshold, k.Frequency, id)
	return err
}

const recordColumns = `
    id, kpi_id, employee_id, period, target, actual, status, start_date, end_date, updated_at`

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.KpiID, &r.EmployeeID, &r.Period, &r.Target, &r.Actual,
		&r.Status, &r.StartDate, &r.EndDate, &r.UpdatedAt)
	return r, err
}

func (s *Store) ListRecords(ctx context.Context, period, employeeID string) ([]Record, error) {
	query := "SELECT " + recordColumns + " FROM kpi_records WHERE 1=1"
	args := []any{}
	if period != "" {
		args = append(args, period)
		query += " AND period = $1"
	}
	if employeeID != "" {
		args = append(args, employeeID)
		if len(args) == 1 {
			query += " AND employee_id = $1"
		} else {
			query += " AND employee_id = $2"
		}
	}
	query += " ORDER BY period DESC, updated_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func (s *Store) GetRecord(ctx context.Context, id string) (Record, error) {
	r, err := scanRecord(s.DB.QueryRow(ctx, "SELECT "+recordColumns+" FROM kpi_records WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	return r, err
}

func (s *Store) CreateRecord(ctx context.Context, r Record) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO kpi_records (kpi_id, employee_id, period, target, actual, status, start_date, end_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, r.KpiID, r.EmployeeID, r.Period, r.Target, r.Actual, r.Status, r.StartDate, r.EndDate).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateRecordProgress(ctx context.Context, id string, actual float64, status string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE kpi_records SET actual = $1, status = $2, updated_at = now() WHERE id = $3
  `, actual, status, id)
	return err
}

func (s *Store) UpdateRecordStatus(ctx context.Context, id, status string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE kpi_records SET status = $1, updated_at = now() WHERE id = $2
  `, status, id)
	return err
}
