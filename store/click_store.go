// api/store/click_store.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"cartfunnel/api/models"
)

type ClickStore struct {
	db *sql.DB
}

// NewClickStore creates a new ClickStore instance.
func NewClickStore(db *sql.DB) *ClickStore {
	return &ClickStore{db: db}
}

// InsertClick records a product click. Clicks are append-only; there is no
// update path.
func (s *ClickStore) InsertClick(ctx context.Context, click *models.ClickEvent) error {
	query := `
		INSERT INTO product_clicks (click_id, session_id, product_id, product_name, search_query, clicked_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := s.db.ExecContext(ctx, query,
		click.ClickID,
		click.SessionID,
		click.ProductID,
		click.ProductName,
		click.SearchQuery,
		click.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product click: %w", err)
	}
	return nil
}

// ListBySession returns all clicks recorded for a session, oldest first.
// A session with no clicks yields an empty slice, not an error.
func (s *ClickStore) ListBySession(ctx context.Context, sessionID string) ([]models.ClickEvent, error) {
	query := `
		SELECT click_id, session_id, product_id, product_name, search_query, clicked_at
		FROM product_clicks
		WHERE session_id = $1
		ORDER BY clicked_at ASC;
	`
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query clicks for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	clicks := []models.ClickEvent{}
	for rows.Next() {
		var click models.ClickEvent
		if err := rows.Scan(
			&click.ClickID,
			&click.SessionID,
			&click.ProductID,
			&click.ProductName,
			&click.SearchQuery,
			&click.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan click row: %w", err)
		}
		clicks = append(clicks, click)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error listing clicks for session %s: %w", sessionID, err)
	}

	return clicks, nil
}
