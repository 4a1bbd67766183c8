// api/models/order.go
package models

import "time"

// OrderCustomer is the customer sub-record carried on an OrderRecord.
type OrderCustomer struct {
	ID        int64  `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// OrderLineItem is one purchased line on an order.
type OrderLineItem struct {
	ProductID int64   `json:"product_id"`
	VariantID int64   `json:"variant_id,omitempty"`
	Title     string  `json:"title"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderSource identifies where the order webhook came from.
type OrderSource struct {
	Provider   string `json:"provider"`
	ShopDomain string `json:"shop_domain,omitempty"`
	OrderName  string `json:"order_name,omitempty"`
}

// OrderRecord is the persisted, correlation-enriched order. Exactly one
// record exists per order_id; webhook redelivery never creates a second one.
// SessionID is nil when checkout did not propagate a session, which is a
// valid state, not an error.
type OrderRecord struct {
	OrderID       string          `json:"order_id"`
	OrderNumber   int64           `json:"order_number"`
	SessionID     *string         `json:"session_id"`
	TotalPrice    float64         `json:"total_price"`
	SubtotalPrice float64         `json:"subtotal_price"`
	TotalTax      float64         `json:"total_tax"`
	Currency      string          `json:"currency"`
	Customer      OrderCustomer   `json:"customer"`
	LineItems     []OrderLineItem `json:"line_items"`
	Source        OrderSource     `json:"source"`
	Processed     bool            `json:"processed"`
	MatchedClicks []ClickEvent    `json:"matched_clicks"`
	ClickCount    int             `json:"click_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CheckoutSummary is the aggregate header of a /checkout-events response.
type CheckoutSummary struct {
	Count         int     `json:"count"`
	TotalRevenue  float64 `json:"total_revenue"`
	AvgOrderValue float64 `json:"avg_order_value"`
	Currency      string  `json:"currency"`
}

// CheckoutFilter narrows a ListCheckouts query. Zero values mean
// "use the default" (30 days, 100 rows, any session).
type CheckoutFilter struct {
	SessionID string
	Days      int
	Limit     int
}
