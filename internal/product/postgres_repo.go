package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"kalasahayak/internal/catalog"
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

// Prices travel as text so that numeric precision survives without a
// custom pgx type registration.
const selectProduct = `
	SELECT id, title, artisan_name, category, price::text, original_price::text,
	       image_url, rating, review_count, is_new, is_on_sale
	FROM products`

func (r *PostgresRepo) Candidates(ctx context.Context) ([]catalog.Item, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, selectProduct+`
	WHERE published
	ORDER BY position ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var out []catalog.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (catalog.Item, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	it, err := scanItem(r.db.QueryRow(timeoutCtx, selectProduct+`
	WHERE id = $1 AND published`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Item{}, ErrNotFound
		}
		return catalog.Item{}, err
	}
	return it, nil
}

func (r *PostgresRepo) Upsert(ctx context.Context, it catalog.Item) error {
	if err := it.Validate(); err != nil {
		return err
	}
	const sql = `
		INSERT INTO products (id, title, artisan_name, category, price, original_price,
		                      image_url, rating, review_count, is_new, is_on_sale,
		                      published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7, $8, $9, $10, $11, TRUE, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			artisan_name = EXCLUDED.artisan_name,
			category = EXCLUDED.category,
			price = EXCLUDED.price,
			original_price = EXCLUDED.original_price,
			image_url = EXCLUDED.image_url,
			rating = EXCLUDED.rating,
			review_count = EXCLUDED.review_count,
			is_new = EXCLUDED.is_new,
			is_on_sale = EXCLUDED.is_on_sale,
			published = TRUE,
			updated_at = NOW()`

	var original *string
	if it.OriginalPrice != nil {
		s := it.OriginalPrice.String()
		original = &s
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, sql,
		it.ID, it.Title, it.ArtisanName, string(it.Category), it.Price.String(), original,
		it.ImageURL, it.Rating, it.ReviewCount, it.IsNew, it.IsOnSale,
	)
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", it.ID, err)
	}
	return nil
}

// RecordSource stores the raw upstream payload an item was built from.
func (r *PostgresRepo) RecordSource(ctx context.Context, id, provider string, raw []byte) error {
	const sql = `
		INSERT INTO product_sources (product_id, provider, raw_json, fetched_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (product_id, provider) DO UPDATE SET
			raw_json = EXCLUDED.raw_json,
			fetched_at = NOW()`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(timeoutCtx, sql, id, provider, raw); err != nil {
		return fmt.Errorf("record product source: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(timeoutCtx)
}

func scanItem(row pgx.Row) (catalog.Item, error) {
	var (
		it       catalog.Item
		category string
		priceStr string
		original *string
	)
	if err := row.Scan(
		&it.ID, &it.Title, &it.ArtisanName, &category, &priceStr, &original,
		&it.ImageURL, &it.Rating, &it.ReviewCount, &it.IsNew, &it.IsOnSale,
	); err != nil {
		return catalog.Item{}, err
	}
	it.Category = catalog.Category(category)

	p, err := decimal.NewFromString(priceStr)
	if err != nil {
		return catalog.Item{}, fmt.Errorf("product %s price: %w", it.ID, err)
	}
	it.Price = p
	if original != nil {
		op, err := decimal.NewFromString(*original)
		if err != nil {
			return catalog.Item{}, fmt.Errorf("product %s original price: %w", it.ID, err)
		}
		it.OriginalPrice = &op
	}
	return it, nil
}
