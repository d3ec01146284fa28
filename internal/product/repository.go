package product

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, product *Product) error {
	product.UUID = uuid.New().String()
	product.Active = true
	product.CreatedAt = time.Now()

	query := `
		INSERT INTO products (uuid, name, code, description, category, list_price, active, component_uuids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		product.UUID,
		product.Name,
		product.Code,
		product.Description,
		product.Category,
		product.ListPrice,
		product.Active,
		pq.Array(product.ComponentUUIDs),
		product.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrCodeTaken
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	log.Printf("Created product %s (%s)", product.Name, product.Category)
	return nil
}

func (r *Repository) GetByUUID(ctx context.Context, productUUID string) (*Product, error) {
	query := `
		SELECT uuid, name, code, description, category, list_price, active, component_uuids, created_at, updated_at
		FROM products
		WHERE uuid = $1
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, productUUID))
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// ListWithPagination retrieves products with pagination support, optionally
// restricted to the lab categories.
func (r *Repository) ListWithPagination(ctx context.Context, labOnly bool, limit, offset int) ([]Product, int, error) {
	where := ""
	if labOnly {
		where = `WHERE category IN ('` + CategoryLabTest + `', '` + CategoryLabPanel + `')`
	}

	var totalCount int
	countQuery := `SELECT COUNT(*) FROM products ` + where
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := `
		SELECT uuid, name, code, description, category, list_price, active, component_uuids, created_at, updated_at
		FROM products ` + where + `
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, totalCount, nil
}

func (r *Repository) Update(ctx context.Context, product *Product) error {
	product.UpdatedAt = time.Now()

	query := `
		UPDATE products
		SET name = $1, code = $2, description = $3, category = $4,
		    list_price = $5, active = $6, component_uuids = $7, updated_at = $8
		WHERE uuid = $9
	`

	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.Code,
		product.Description,
		product.Category,
		product.ListPrice,
		product.Active,
		pq.Array(product.ComponentUUIDs),
		product.UpdatedAt,
		product.UUID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrCodeTaken
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrProductNotFound
	}

	log.Printf("Updated product %s (%s)", product.Name, product.Category)
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var product Product
	var code sql.NullString
	var description sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(
		&product.UUID,
		&product.Name,
		&code,
		&description,
		&product.Category,
		&product.ListPrice,
		&product.Active,
		pq.Array(&product.ComponentUUIDs),
		&product.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if code.Valid {
		product.Code = code.String
	}
	if description.Valid {
		product.Description = description.String
	}
	if updatedAt.Valid {
		product.UpdatedAt = updatedAt.Time
	}

	return &product, nil
}
