// api/client/recorder.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// Recorder is the storefront-side funnel recorder: it captures search
// context and emits typed events (click, add-to-cart, checkout) tagged with
// a session identifier, fire-and-forget.
//
// Tracking calls never fail from the caller's point of view: transport and
// server errors are logged and surface only as a nil result. Telemetry must
// never break the storefront.
type Recorder struct {
	endpoint string
	apiKey   string
	client   *http.Client
	sessions SessionStore
}

// NewRecorder creates a Recorder posting to the given track endpoint base
// (e.g. "https://api.example.com/api/track") with an in-memory session
// store.
func NewRecorder(endpoint, apiKey string) *Recorder {
	return NewRecorderWithSessions(endpoint, apiKey, NewMemorySessionStore())
}

// NewRecorderWithSessions creates a Recorder backed by a caller-provided
// SessionStore (e.g. one persisted alongside the shopper's browser session).
func NewRecorderWithSessions(endpoint, apiKey string, sessions SessionStore) *Recorder {
	return &Recorder{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		sessions: sessions,
	}
}

// SessionID exposes the recorder's session identifier (minted on first
// read) so callers can attach it to cart attributes at checkout.
func (r *Recorder) SessionID() string {
	return r.sessions.SessionID()
}

// RecordSearch stores the current search context for the session,
// overwriting any previous one. Every subsequent emission snapshots this
// context until the next search replaces it.
func (r *Recorder) RecordSearch(query string, primaryResults, secondaryResults []string) {
	if primaryResults == nil {
		primaryResults = []string{}
	}
	if secondaryResults == nil {
		secondaryResults = []string{}
	}
	r.sessions.SetSearchContext(SearchContext{
		Query:        query,
		Results:      primaryResults,
		Tier2Results: secondaryResults,
	})
}

// Emit composes the event document (current search context + session id +
// payload) and sends it to the search-to-cart endpoint. The returned
// channel always resolves with exactly one value: the parsed response, or
// nil if anything went wrong.
func (r *Recorder) Emit(ctx context.Context, eventType string, payload map[string]interface{}) <-chan map[string]interface{} {
	doc := map[string]interface{}{
		"event_type": eventType,
		"session_id": r.sessions.SessionID(),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}
	if sc, ok := r.sessions.SearchContext(); ok {
		doc["search_query"] = sc.Query
		doc["search_results"] = sc.Results
		doc["tier2_results"] = sc.Tier2Results
	}
	for k, v := range payload {
		doc[k] = v
	}

	return r.post(ctx, "/search-to-cart", map[string]interface{}{"document": doc})
}

// TrackAddToCart emits an add_to_cart event for a product.
func (r *Recorder) TrackAddToCart(ctx context.Context, productID string, quantity int64) <-chan map[string]interface{} {
	return r.Emit(ctx, "add_to_cart", map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
	})
}

// TrackCheckoutInitiated emits a checkout_initiated event with the cart total.
func (r *Recorder) TrackCheckoutInitiated(ctx context.Context, cartTotal float64, currency string) <-chan map[string]interface{} {
	return r.Emit(ctx, "checkout_initiated", map[string]interface{}{
		"cart_total": cartTotal,
		"currency":   currency,
	})
}

// TrackCheckoutCompleted emits a checkout_completed event with the order
// id and total.
func (r *Recorder) TrackCheckoutCompleted(ctx context.Context, orderID string, orderTotal float64, currency string) <-chan map[string]interface{} {
	return r.Emit(ctx, "checkout_completed", map[string]interface{}{
		"order_id":    orderID,
		"order_total": orderTotal,
		"currency":    currency,
	})
}

// TrackClick records a search result click on the product-click endpoint.
// The click body is flat, not document-wrapped.
func (r *Recorder) TrackClick(ctx context.Context, productID, productName string) <-chan map[string]interface{} {
	body := map[string]interface{}{
		"product_id":   productID,
		"product_name": productName,
		"session_id":   r.sessions.SessionID(),
	}
	if sc, ok := r.sessions.SearchContext(); ok {
		body["search_query"] = sc.Query
	}
	return r.post(ctx, "/product-click", body)
}

// ProductClicks fetches the clicks previously recorded for this session.
// Like the tracking calls it resolves with nil on any failure.
func (r *Recorder) ProductClicks(ctx context.Context) <-chan map[string]interface{} {
	result := make(chan map[string]interface{}, 1)
	go func() {
		defer close(result)
		url := fmt.Sprintf("%s/product-clicks/%s", r.endpoint, r.sessions.SessionID())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			log.Printf("recorder: failed to build clicks request: %v", err)
			result <- nil
			return
		}
		req.Header.Set("X-API-Key", r.apiKey)
		result <- r.do(req)
	}()
	return result
}

// post sends a JSON body asynchronously. The returned channel receives the
// parsed response, or nil on failure, and is then closed.
func (r *Recorder) post(ctx context.Context, path string, body map[string]interface{}) <-chan map[string]interface{} {
	result := make(chan map[string]interface{}, 1)
	go func() {
		defer close(result)
		payload, err := json.Marshal(body)
		if err != nil {
			log.Printf("recorder: failed to marshal %s body: %v", path, err)
			result <- nil
			return
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+path, bytes.NewReader(payload))
		if err != nil {
			log.Printf("recorder: failed to build %s request: %v", path, err)
			result <- nil
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", r.apiKey)
		result <- r.do(req)
	}()
	return result
}

func (r *Recorder) do(req *http.Request) map[string]interface{} {
	resp, err := r.client.Do(req)
	if err != nil {
		log.Printf("recorder: %s %s failed: %v", req.Method, req.URL.Path, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Printf("recorder: %s %s returned %d", req.Method, req.URL.Path, resp.StatusCode)
		return nil
	}

	var parsed map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("recorder: failed to decode %s response: %v", req.URL.Path, err)
		return nil
	}
	return parsed
}
