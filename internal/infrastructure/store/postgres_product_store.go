package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/example/catalog-browser/internal/domain/catalog"
)

const productsSchema = `
CREATE TABLE IF NOT EXISTS catalog_products (
	id             TEXT PRIMARY KEY,
	position       SERIAL,
	name           TEXT NOT NULL,
	brand          TEXT NOT NULL,
	price          INT NOT NULL,
	original_price INT,
	image          TEXT NOT NULL DEFAULT '',
	features       TEXT[] NOT NULL DEFAULT '{}',
	category       TEXT NOT NULL,
	in_stock       BOOLEAN NOT NULL DEFAULT TRUE,
	rating         DOUBLE PRECISION NOT NULL DEFAULT 0,
	review_count   INT NOT NULL DEFAULT 0,
	discount       INT
)`

// PostgresProductStore reads the catalog from PostgreSQL
type PostgresProductStore struct {
	db *sql.DB
}

func NewPostgresProductStore(db *sql.DB) *PostgresProductStore {
	return &PostgresProductStore{db: db}
}

// EnsureSchema creates the products table if missing
func (s *PostgresProductStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, productsSchema)
	return err
}

// LoadProducts returns every product in insertion order
func (s *PostgresProductStore) LoadProducts(ctx context.Context) ([]catalog.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, brand, price, original_price, image, features, category,
		        in_stock, rating, review_count, discount
		 FROM catalog_products
		 ORDER BY position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []catalog.Product{}
	for rows.Next() {
		var (
			p             catalog.Product
			originalPrice sql.NullInt64
			discount      sql.NullInt64
			features      pq.StringArray
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Price, &originalPrice, &p.Image, &features,
			&p.Category, &p.InStock, &p.Rating, &p.ReviewCount, &discount); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if originalPrice.Valid {
			p.OriginalPrice = catalog.IntPtr(int(originalPrice.Int64))
		}
		if discount.Valid {
			p.Discount = catalog.IntPtr(int(discount.Int64))
		}
		p.Features = []string(features)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}

// SeedProducts upserts products in one transaction
func (s *PostgresProductStore) SeedProducts(ctx context.Context, products []catalog.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range products {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO catalog_products
			   (id, name, brand, price, original_price, image, features, category, in_stock, rating, review_count, discount)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 ON CONFLICT (id) DO UPDATE SET
			   name = EXCLUDED.name, brand = EXCLUDED.brand, price = EXCLUDED.price,
			   original_price = EXCLUDED.original_price, image = EXCLUDED.image,
			   features = EXCLUDED.features, category = EXCLUDED.category,
			   in_stock = EXCLUDED.in_stock, rating = EXCLUDED.rating,
			   review_count = EXCLUDED.review_count, discount = EXCLUDED.discount`,
			p.ID, p.Name, p.Brand, p.Price, nullableInt(p.OriginalPrice), p.Image,
			pq.Array(p.Features), p.Category, p.InStock, p.Rating, p.ReviewCount, nullableInt(p.Discount),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
