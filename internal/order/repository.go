package order

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the order and its lines in one transaction.
func (r *Repository) Create(ctx context.Context, order *Order) error {
	order.UUID = uuid.New().String()
	order.Status = StatusDraft
	order.CreatedAt = time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (uuid, reference, patient_uuid, status, order_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, orderQuery,
		order.UUID,
		order.Reference,
		order.PatientUUID,
		order.Status,
		order.OrderDate,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	lineQuery := `
		INSERT INTO order_lines (order_uuid, product_uuid, quantity, unit_price, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	for i := range order.Lines {
		line := &order.Lines[i]
		err = tx.QueryRowContext(ctx, lineQuery,
			order.UUID,
			line.ProductUUID,
			line.Quantity,
			line.UnitPrice,
			line.Comment,
		).Scan(&line.ID)
		if err != nil {
			return fmt.Errorf("failed to create order line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	log.Printf("Created order %s with %d lines", order.Reference, len(order.Lines))
	return nil
}

// GetByUUID loads an order with its lines, joined against the catalog for
// the current product name and category.
func (r *Repository) GetByUUID(ctx context.Context, orderUUID string) (*Order, error) {
	query := `
		SELECT uuid, reference, patient_uuid, status, order_date, confirmed_at, created_at, updated_at
		FROM orders
		WHERE uuid = $1
	`

	order := &Order{}
	var confirmedAt sql.NullTime
	var updatedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, orderUUID).Scan(
		&order.UUID,
		&order.Reference,
		&order.PatientUUID,
		&order.Status,
		&order.OrderDate,
		&confirmedAt,
		&order.CreatedAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if confirmedAt.Valid {
		order.ConfirmedAt = confirmedAt.Time
	}
	if updatedAt.Valid {
		order.UpdatedAt = updatedAt.Time
	}

	lines, err := r.loadLines(ctx, order.UUID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	return order, nil
}

func (r *Repository) loadLines(ctx context.Context, orderUUID string) ([]Line, error) {
	query := `
		SELECT ol.id, ol.product_uuid, p.name, p.category, ol.quantity, ol.unit_price, COALESCE(ol.comment, '')
		FROM order_lines ol
		JOIN products p ON p.uuid = ol.product_uuid
		WHERE ol.order_uuid = $1
		ORDER BY ol.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order lines: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var line Line
		err := rows.Scan(
			&line.ID,
			&line.ProductUUID,
			&line.ProductName,
			&line.ProductCategory,
			&line.Quantity,
			&line.UnitPrice,
			&line.Comment,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	return lines, nil
}

// ListWithPagination retrieves orders (without lines) with pagination support
func (r *Repository) ListWithPagination(ctx context.Context, limit, offset int) ([]Order, int, error) {
	var totalCount int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := `
		SELECT uuid, reference, patient_uuid, status, order_date, confirmed_at, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var order Order
		var confirmedAt sql.NullTime
		var updatedAt sql.NullTime

		err := rows.Scan(
			&order.UUID,
			&order.Reference,
			&order.PatientUUID,
			&order.Status,
			&order.OrderDate,
			&confirmedAt,
			&order.CreatedAt,
			&updatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}

		if confirmedAt.Valid {
			order.ConfirmedAt = confirmedAt.Time
		}
		if updatedAt.Valid {
			order.UpdatedAt = updatedAt.Time
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, totalCount, nil
}

// Confirm flips a draft order to confirmed. The WHERE clause makes the
// transition race-free: a second concurrent confirm hits zero rows.
func (r *Repository) Confirm(ctx context.Context, orderUUID string, confirmedAt time.Time) error {
	query := `
		UPDATE orders
		SET status = $1, confirmed_at = $2, updated_at = $2
		WHERE uuid = $3 AND status = $4
	`

	result, err := r.db.ExecContext(ctx, query, StatusConfirmed, confirmedAt, orderUUID, StatusDraft)
	if err != nil {
		return fmt.Errorf("failed to confirm order: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		// Distinguish missing from already-confirmed for the caller.
		var status string
		err := r.db.QueryRowContext(ctx, `SELECT status FROM orders WHERE uuid = $1`, orderUUID).Scan(&status)
		if err == sql.ErrNoRows {
			return ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check order status: %w", err)
		}
		return ErrNotDraft
	}

	return nil
}

// Cancel flips a draft or confirmed order to cancelled.
func (r *Repository) Cancel(ctx context.Context, orderUUID string) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE uuid = $3 AND status IN ($4, $5)
	`

	result, err := r.db.ExecContext(ctx, query, StatusCancelled, time.Now(), orderUUID, StatusDraft, StatusConfirmed)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		var status string
		err := r.db.QueryRowContext(ctx, `SELECT status FROM orders WHERE uuid = $1`, orderUUID).Scan(&status)
		if err == sql.ErrNoRows {
			return ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check order status: %w", err)
		}
		return ErrAlreadyCancelled
	}

	return nil
}
