package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/andresuchdata/supplyplan/internal/domain"
	"github.com/andresuchdata/supplyplan/internal/repository"
)

const defaultRunListLimit = 50

const planningRunsSchema = `
	CREATE TABLE IF NOT EXISTS planning_runs (
		id                   UUID PRIMARY KEY,
		dataset_name         TEXT NOT NULL DEFAULT '',
		sku_count            INTEGER NOT NULL,
		factory_count        INTEGER NOT NULL,
		supplier_count       INTEGER NOT NULL,
		used_festival_plan   BOOLEAN NOT NULL,
		total_cost           DOUBLE PRECISION NOT NULL,
		service_level        DOUBLE PRECISION NOT NULL,
		inventory_turnover   DOUBLE PRECISION NOT NULL,
		capacity_utilization DOUBLE PRECISION NOT NULL,
		cost_efficiency      DOUBLE PRECISION NOT NULL,
		forecast_accuracy    DOUBLE PRECISION NOT NULL,
		critical_shortages   TEXT[] NOT NULL DEFAULT '{}',
		started_at           TIMESTAMPTZ NOT NULL,
		completed_at         TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_planning_runs_dataset_completed
		ON planning_runs (dataset_name, completed_at DESC);
`

const runColumns = `id, dataset_name, sku_count, factory_count, supplier_count, used_festival_plan,
	total_cost, service_level, inventory_turnover, capacity_utilization, cost_efficiency,
	forecast_accuracy, critical_shortages, started_at, completed_at`

// runRow mirrors a planning_runs row.
type runRow struct {
	ID                  string         `db:"id"`
	DatasetName         string         `db:"dataset_name"`
	SKUCount            int            `db:"sku_count"`
	FactoryCount        int            `db:"factory_count"`
	SupplierCount       int            `db:"supplier_count"`
	UsedFestivalPlan    bool           `db:"used_festival_plan"`
	TotalCost           float64        `db:"total_cost"`
	ServiceLevel        float64        `db:"service_level"`
	InventoryTurnover   float64        `db:"inventory_turnover"`
	CapacityUtilization float64        `db:"capacity_utilization"`
	CostEfficiency      float64        `db:"cost_efficiency"`
	ForecastAccuracy    float64        `db:"forecast_accuracy"`
	CriticalShortages   pq.StringArray `db:"critical_shortages"`
	StartedAt           time.Time      `db:"started_at"`
	CompletedAt         time.Time      `db:"completed_at"`
}

func toRunRow(run domain.PlanningRun) runRow {
	shortages := pq.StringArray(run.CriticalShortages)
	if shortages == nil {
		shortages = pq.StringArray{}
	}
	return runRow{
		ID:                  run.ID,
		DatasetName:         run.DatasetName,
		SKUCount:            run.SKUCount,
		FactoryCount:        run.FactoryCount,
		SupplierCount:       run.SupplierCount,
		UsedFestivalPlan:    run.UsedFestivalPlan,
		TotalCost:           run.TotalCost,
		ServiceLevel:        run.ServiceLevel,
		InventoryTurnover:   run.InventoryTurnover,
		CapacityUtilization: run.CapacityUtilization,
		CostEfficiency:      run.CostEfficiency,
		ForecastAccuracy:    run.ForecastAccuracy,
		CriticalShortages:   shortages,
		StartedAt:           run.StartedAt.UTC(),
		CompletedAt:         run.CompletedAt.UTC(),
	}
}

func (r runRow) toDomain() domain.PlanningRun {
	return domain.PlanningRun{
		ID:                  r.ID,
		DatasetName:         r.DatasetName,
		SKUCount:            r.SKUCount,
		FactoryCount:        r.FactoryCount,
		SupplierCount:       r.SupplierCount,
		UsedFestivalPlan:    r.UsedFestivalPlan,
		TotalCost:           r.TotalCost,
		ServiceLevel:        r.ServiceLevel,
		InventoryTurnover:   r.InventoryTurnover,
		CapacityUtilization: r.CapacityUtilization,
		CostEfficiency:      r.CostEfficiency,
		ForecastAccuracy:    r.ForecastAccuracy,
		CriticalShortages:   []string(r.CriticalShortages),
		StartedAt:           r.StartedAt,
		CompletedAt:         r.CompletedAt,
	}
}

type runRepository struct {
	db *DB
}

func NewRunRepository(db *DB) repository.RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, planningRunsSchema); err != nil {
		return fmt.Errorf("error creating planning_runs schema: %w", err)
	}
	return nil
}

func (r *runRepository) SaveRun(ctx context.Context, run domain.PlanningRun) error {
	query := `
		INSERT INTO planning_runs (` + runColumns + `)
		VALUES (:id, :dataset_name, :sku_count, :factory_count, :supplier_count, :used_festival_plan,
			:total_cost, :service_level, :inventory_turnover, :capacity_utilization, :cost_efficiency,
			:forecast_accuracy, :critical_shortages, :started_at, :completed_at)
		ON CONFLICT (id) DO NOTHING
	`

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, query, toRunRow(run)); err != nil {
			return fmt.Errorf("error saving planning run %s: %w", run.ID, err)
		}
		return nil
	})
}

func (r *runRepository) GetRun(ctx context.Context, id string) (*domain.PlanningRun, error) {
	query := `SELECT ` + runColumns + ` FROM planning_runs WHERE id = $1`

	var row runRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", repository.ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("error getting planning run %s: %w", id, err)
	}

	run := row.toDomain()
	return &run, nil
}

func (r *runRepository) ListRuns(ctx context.Context, datasetName string, limit int) ([]domain.PlanningRun, error) {
	query, args := buildListRunsQuery(datasetName, limit)

	var rows []runRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error listing planning runs: %w", err)
	}

	runs := make([]domain.PlanningRun, len(rows))
	for i, row := range rows {
		runs[i] = row.toDomain()
	}
	return runs, nil
}

func buildListRunsQuery(datasetName string, limit int) (string, []any) {
	if limit <= 0 || limit > 500 {
		limit = defaultRunListLimit
	}

	var (
		conditions []string
		args       []any
	)
	if name := strings.TrimSpace(datasetName); name != "" {
		args = append(args, name)
		conditions = append(conditions, fmt.Sprintf("dataset_name = $%d", len(args)))
	}

	query := `SELECT ` + runColumns + ` FROM planning_runs`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY completed_at DESC LIMIT $%d`, len(args))

	return query, args
}
