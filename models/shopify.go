// api/models/shopify.go
package models

import (
	"strconv"
	"time"
)

// ShopifyNoteAttribute is one name/value pair from the order's
// note_attributes (cart attributes survive checkout through these).
type ShopifyNoteAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ShopifyCustomer is the customer block of an order webhook.
type ShopifyCustomer struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ShopifyLineItem is one line of an order webhook. Shopify sends money
// amounts as strings.
type ShopifyLineItem struct {
	ProductID int64  `json:"product_id"`
	VariantID int64  `json:"variant_id"`
	Title     string `json:"title"`
	Quantity  int64  `json:"quantity"`
	Price     string `json:"price"`
}

// ShopifyOrder is the orders/create webhook body, reduced to the fields
// this service reads. Everything else in the payload is ignored.
type ShopifyOrder struct {
	ID             int64                  `json:"id"`
	OrderNumber    int64                  `json:"order_number"`
	Name           string                 `json:"name"`
	Email          string                 `json:"email"`
	Currency       string                 `json:"currency"`
	TotalPrice     string                 `json:"total_price"`
	SubtotalPrice  string                 `json:"subtotal_price"`
	TotalTax       string                 `json:"total_tax"`
	CreatedAt      time.Time              `json:"created_at"`
	NoteAttributes []ShopifyNoteAttribute `json:"note_attributes"`
	Customer       ShopifyCustomer        `json:"customer"`
	LineItems      []ShopifyLineItem      `json:"line_items"`
}

// SessionID scans the note attributes for the session identifier the
// storefront recorder attached to the cart. Returns "" when checkout did
// not propagate one.
func (o *ShopifyOrder) SessionID() string {
	for _, attr := range o.NoteAttributes {
		if attr.Name == "session_id" {
			return attr.Value
		}
	}
	return ""
}

// ToOrderRecord converts the webhook payload into the record this service
// persists. Correlation fields (SessionID, MatchedClicks, ClickCount) are
// filled in by the caller after the click lookup.
func (o *ShopifyOrder) ToOrderRecord(shopDomain string) *OrderRecord {
	rec := &OrderRecord{
		OrderID:       strconv.FormatInt(o.ID, 10),
		OrderNumber:   o.OrderNumber,
		TotalPrice:    parseMoney(o.TotalPrice),
		SubtotalPrice: parseMoney(o.SubtotalPrice),
		TotalTax:      parseMoney(o.TotalTax),
		Currency:      o.Currency,
		Customer: OrderCustomer{
			ID:        o.Customer.ID,
			Email:     o.Customer.Email,
			FirstName: o.Customer.FirstName,
			LastName:  o.Customer.LastName,
		},
		Source: OrderSource{
			Provider:   "shopify",
			ShopDomain: shopDomain,
			OrderName:  o.Name,
		},
		MatchedClicks: []ClickEvent{},
		CreatedAt:     o.CreatedAt,
	}
	if rec.Customer.Email == "" {
		rec.Customer.Email = o.Email
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	for _, li := range o.LineItems {
		rec.LineItems = append(rec.LineItems, OrderLineItem{
			ProductID: li.ProductID,
			VariantID: li.VariantID,
			Title:     li.Title,
			Quantity:  li.Quantity,
			Price:     parseMoney(li.Price),
		})
	}
	return rec
}

func parseMoney(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
