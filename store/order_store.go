// api/store/order_store.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"cartfunnel/api/models"
)

type OrderStore struct {
	db *sql.DB
}

// NewOrderStore creates a new OrderStore instance. The orders table carries
// a unique constraint on order_id; that constraint, not an existence check,
// is what makes webhook redelivery safe under concurrency.
func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

// InsertOrderIfAbsent persists the order record unless one with the same
// order_id already exists. Returns false (and no error) when the insert was
// skipped because of a prior record.
func (s *OrderStore) InsertOrderIfAbsent(ctx context.Context, rec *models.OrderRecord) (bool, error) {
	customerJSON, err := json.Marshal(rec.Customer)
	if err != nil {
		return false, fmt.Errorf("failed to marshal customer: %w", err)
	}
	lineItemsJSON, err := json.Marshal(rec.LineItems)
	if err != nil {
		return false, fmt.Errorf("failed to marshal line items: %w", err)
	}
	sourceJSON, err := json.Marshal(rec.Source)
	if err != nil {
		return false, fmt.Errorf("failed to marshal order source: %w", err)
	}
	clicksJSON, err := json.Marshal(rec.MatchedClicks)
	if err != nil {
		return false, fmt.Errorf("failed to marshal matched clicks: %w", err)
	}

	query := `
		INSERT INTO orders (
			order_id, order_number, session_id, total_price, subtotal_price, total_tax,
			currency, customer, line_items, raw_source, processed, matched_clicks,
			click_count, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (order_id) DO NOTHING;
	`
	res, err := s.db.ExecContext(ctx, query,
		rec.OrderID,
		rec.OrderNumber,
		rec.SessionID,
		rec.TotalPrice,
		rec.SubtotalPrice,
		rec.TotalTax,
		rec.Currency,
		customerJSON,
		lineItemsJSON,
		sourceJSON,
		rec.Processed,
		clicksJSON,
		rec.ClickCount,
		rec.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert order %s: %w", rec.OrderID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for order %s: %w", rec.OrderID, err)
	}
	return affected > 0, nil
}

// GetByOrderID fetches one order record. Returns sql.ErrNoRows (wrapped)
// when no record exists.
func (s *OrderStore) GetByOrderID(ctx context.Context, orderID string) (*models.OrderRecord, error) {
	query := `
		SELECT order_id, order_number, session_id, total_price, subtotal_price, total_tax,
		       currency, customer, line_items, raw_source, processed, matched_clicks,
		       click_count, created_at
		FROM orders
		WHERE order_id = $1;
	`
	rec, err := scanOrderRow(s.db.QueryRowContext(ctx, query, orderID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("order %s not found: %w", orderID, err)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	return rec, nil
}

// ListCheckouts returns order records matching the filter, newest first.
// Defaults: last 30 days, at most 100 rows.
func (s *OrderStore) ListCheckouts(ctx context.Context, filter models.CheckoutFilter) ([]models.OrderRecord, error) {
	days := filter.Days
	if days <= 0 {
		days = 30
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT order_id, order_number, session_id, total_price, subtotal_price, total_tax,
		       currency, customer, line_items, raw_source, processed, matched_clicks,
		       click_count, created_at
		FROM orders
		WHERE created_at >= now() - ($1 * interval '1 day')
	`
	args := []interface{}{days}

	if filter.SessionID != "" {
		query += ` AND session_id = $2`
		args = append(args, filter.SessionID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkouts: %w", err)
	}
	defer rows.Close()

	records := []models.OrderRecord{}
	for rows.Next() {
		rec, err := scanOrderRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checkout row: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error listing checkouts: %w", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrderRow(row rowScanner) (*models.OrderRecord, error) {
	rec := &models.OrderRecord{}
	var (
		customerJSON  []byte
		lineItemsJSON []byte
		sourceJSON    []byte
		clicksJSON    []byte
	)
	if err := row.Scan(
		&rec.OrderID,
		&rec.OrderNumber,
		&rec.SessionID,
		&rec.TotalPrice,
		&rec.SubtotalPrice,
		&rec.TotalTax,
		&rec.Currency,
		&customerJSON,
		&lineItemsJSON,
		&sourceJSON,
		&rec.Processed,
		&clicksJSON,
		&rec.ClickCount,
		&rec.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(customerJSON, &rec.Customer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal customer for order %s: %w", rec.OrderID, err)
	}
	if len(lineItemsJSON) > 0 {
		if err := json.Unmarshal(lineItemsJSON, &rec.LineItems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal line items for order %s: %w", rec.OrderID, err)
		}
	}
	if err := json.Unmarshal(sourceJSON, &rec.Source); err != nil {
		return nil, fmt.Errorf("failed to unmarshal source for order %s: %w", rec.OrderID, err)
	}
	rec.MatchedClicks = []models.ClickEvent{}
	if len(clicksJSON) > 0 {
		if err := json.Unmarshal(clicksJSON, &rec.MatchedClicks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal matched clicks for order %s: %w", rec.OrderID, err)
		}
	}
	// A literal JSON null in the column would reset the slice to nil and
	// leak "matched_clicks": null into API responses.
	if rec.MatchedClicks == nil {
		rec.MatchedClicks = []models.ClickEvent{}
	}
	return rec, nil
}
