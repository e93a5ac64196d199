package inquiry

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Create(ctx context.Context, inq *Inquiry) error {
	const sql = `
		INSERT INTO artisan_inquiries (id, name, email, phone, craft, message, forwarded, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, sql, inq.ID, inq.Name, inq.Email, inq.Phone, inq.Craft, inq.Message, inq.Forwarded, inq.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert inquiry: %w", err)
	}
	return nil
}

func (r *PostgresRepo) MarkForwarded(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `UPDATE artisan_inquiries SET forwarded = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark inquiry forwarded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) ListRecent(ctx context.Context, limit int) ([]Inquiry, error) {
	const sql = `
		SELECT id, name, email, phone, craft, message, forwarded, created_at
		FROM artisan_inquiries
		ORDER BY created_at DESC
		LIMIT $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	out := []Inquiry{}
	for rows.Next() {
		var inq Inquiry
		if err := rows.Scan(&inq.ID, &inq.Name, &inq.Email, &inq.Phone, &inq.Craft, &inq.Message, &inq.Forwarded, &inq.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inq)
	}
	return out, rows.Err()
}
