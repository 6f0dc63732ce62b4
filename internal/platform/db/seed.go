package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"kpidash/internal/domain/auth"
	"kpidash/internal/domain/kpi"
	"kpidash/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return nil
	}

	if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}
	if err := ensureSampleDepartments(ctx, pool); err != nil {
		return err
	}
	return ensureSampleKpis(ctx, pool)
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, password_hash, name, role, status)
    VALUES ($1, $2, $3, $4, 'active')
  `, email, hash, "Administrator", auth.RoleAdmin)
	return err
}

func ensureSampleDepartments(ctx context.Context, pool *pgxpool.Pool) error {
	for _, name := range []string{"Sales", "Marketing", "Engineering"} {
		if _, err := pool.Exec(ctx, "INSERT INTO departments (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name); err != nil {
			return err
		}
	}
	return nil
}

func ensureSampleKpis(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM kpis").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	samples := []kpi.Kpi{
		{
			Name:          "Monthly Revenue",
			Unit:          "VND",
			Weight:        40,
			Target:        500000000,
			RewardAmount:  5000000,
			RewardMode:    kpi.ModeFixed,
			PenaltyAmount: 2000000,
			PenaltyMode:   kpi.ModeFixed,
			Frequency:     kpi.FrequencyMonthly,
		},
		{
			Name:          "New Customers",
			Unit:          "customers",
			Weight:        30,
			Target:        20,
			RewardAmount:  3000000,
			RewardMode:    kpi.ModeRate,
			PenaltyAmount: 1000000,
			PenaltyMode:   kpi.ModeFixed,
			Frequency:     kpi.FrequencyMonthly,
		},
		{
			Name:          "Quarterly Retention Rate",
			Unit:          "%",
			Weight:        30,
			Target:        95,
			RewardAmount:  4000000,
			RewardMode:    kpi.ModeFixed,
			PenaltyAmount: 1500000,
			PenaltyMode:   kpi.ModeRate,
			Frequency:     kpi.FrequencyQuarterly,
		},
	}
	store := kpi.NewStore(pool)
	for _, sample := range samples {
		if _, err := store.CreateKpi(ctx, sample); err != nil {
			return err
		}
	}
	return nil
}
