// api/models/event.go
package models

import "time"

// Event types emitted by the storefront recorder.
const (
	EventProductClick      = "product_click"
	EventAddToCart         = "add_to_cart"
	EventCheckoutInitiated = "checkout_initiated"
	EventCheckoutCompleted = "checkout_completed"
)

// TrackedEvent is one funnel event document as composed by the client
// recorder: the event payload merged with the search context that was
// current when the event fired. Append-only once ingested.
type TrackedEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type" binding:"required"`
	SessionID     string    `json:"session_id"`
	Timestamp     time.Time `json:"timestamp"`
	SearchQuery   string    `json:"search_query"`
	SearchResults []string  `json:"search_results"`
	Tier2Results  []string  `json:"tier2_results"`
	ProductID     string    `json:"product_id,omitempty"`
	ProductName   string    `json:"product_name,omitempty"`
	Quantity      int64     `json:"quantity,omitempty"`
	CartTotal     float64   `json:"cart_total,omitempty"`
	OrderID       string    `json:"order_id,omitempty"`
	OrderTotal    float64   `json:"order_total,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	IPAddress     string    `json:"ip_address,omitempty"`
	UserAgent     string    `json:"user_agent,omitempty"`
}

// TrackEventRequest wraps the composed document the recorder sends to
// /track/search-to-cart.
type TrackEventRequest struct {
	Document TrackedEvent `json:"document" binding:"required"`
}

// ClickEvent is a product click recorded against a search session. Clicks
// are the half of the join that arrives before the order webhook does.
type ClickEvent struct {
	ClickID     string    `json:"click_id"`
	SessionID   string    `json:"session_id" binding:"required"`
	ProductID   string    `json:"product_id" binding:"required"`
	ProductName string    `json:"product_name"`
	SearchQuery string    `json:"search_query"`
	Timestamp   time.Time `json:"timestamp"`
}

// EventCountByTime is one bucket of the event-counts stats query.
type EventCountByTime struct {
	Time      time.Time `json:"time"`
	EventType *string   `json:"eventType,omitempty"`
	Count     uint64    `json:"count"`
}
