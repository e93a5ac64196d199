package ingest

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) CreateRun(ctx context.Context, run *Run) error {
	const sql = `
		INSERT INTO ingest_runs (id, started_at, status, config_categories, config_batch_size)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, sql, run.ID, run.StartedAt, run.Status, strings.Join(run.Categories, ","), run.BatchSize)
	return err
}

func (r *PostgresRepo) UpdateRun(ctx context.Context, run *Run) error {
	const sql = `
		UPDATE ingest_runs SET
			finished_at = $1,
			status = $2,
			products_fetched = $3,
			products_upserted = $4,
			products_skipped = $5,
			error = $6
		WHERE id = $7`

	tag, err := r.db.Exec(ctx, sql, run.FinishedAt, run.Status, run.ProductsFetched, run.ProductsUpserted, run.ProductsSkipped, run.Error, run.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}

func (r *PostgresRepo) LinkProductToRun(ctx context.Context, runID, productID string) error {
	const sql = `
		INSERT INTO ingest_run_products (run_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
	_, err := r.db.Exec(ctx, sql, runID, productID)
	return err
}

func (r *PostgresRepo) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	const sql = `
		SELECT id, started_at, finished_at, status, config_categories, config_batch_size,
		       products_fetched, products_upserted, products_skipped, error
		FROM ingest_runs
		ORDER BY started_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		var (
			run  Run
			cats string
		)
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Status, &cats, &run.BatchSize,
			&run.ProductsFetched, &run.ProductsUpserted, &run.ProductsSkipped, &run.Error); err != nil {
			return nil, err
		}
		if cats != "" {
			run.Categories = strings.Split(cats, ",")
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
