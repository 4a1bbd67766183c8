package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cartfunnel/api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventSink struct {
	events       []models.TrackedEvent
	counts       []models.EventCountByTime
	sessions     []models.EventCountByTime
	lastInterval string
	lastFilter   string
}

func (f *fakeEventSink) InsertEvents(_ context.Context, events []models.TrackedEvent) error {
	f.events = append(f.events, events...)
	return nil
}

func (f *fakeEventSink) EventCountsOverTime(_ context.Context, interval string, start, end time.Time, eventTypeFilter string) ([]models.EventCountByTime, error) {
	f.lastInterval = interval
	f.lastFilter = eventTypeFilter
	return f.counts, nil
}

func (f *fakeEventSink) UniqueSessionsOverTime(_ context.Context, interval string, start, end time.Time) ([]models.EventCountByTime, error) {
	f.lastInterval = interval
	return f.sessions, nil
}

func newTrackRouter(events *fakeEventSink, clicks *fakeClickRecorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewTrackHandlers(events, clicks)
	r.POST("/api/track/search-to-cart", h.TrackSearchToCart)
	r.POST("/api/track/product-click", h.TrackProductClick)
	r.GET("/api/track/product-clicks/:session_id", h.GetProductClicks)
	r.GET("/api/stats/event-counts", h.GetEventCounts)
	r.GET("/api/stats/unique-sessions", h.GetUniqueSessions)
	return r
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTrackSearchToCart(t *testing.T) {
	events := &fakeEventSink{}
	r := newTrackRouter(events, newFakeClickRecorder())

	w := postJSON(r, "/api/track/search-to-cart", map[string]interface{}{
		"document": map[string]interface{}{
			"event_type":     "add_to_cart",
			"session_id":     "sess-1",
			"search_query":   "red wine dry",
			"search_results": []string{"Wine A", "Wine B"},
			"tier2_results":  []string{},
			"product_id":     "12345",
			"quantity":       2,
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, events.events, 1)

	event := events.events[0]
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "add_to_cart", event.EventType)
	assert.Equal(t, "sess-1", event.SessionID)
	assert.Equal(t, "red wine dry", event.SearchQuery)
	assert.Equal(t, []string{"Wine A", "Wine B"}, event.SearchResults)
	assert.Equal(t, "12345", event.ProductID)
	assert.Equal(t, int64(2), event.Quantity)
	assert.False(t, event.Timestamp.IsZero())
}

func TestTrackSearchToCartRejectsInvalidBody(t *testing.T) {
	events := &fakeEventSink{}
	r := newTrackRouter(events, newFakeClickRecorder())

	// Missing the required event_type inside the document.
	w := postJSON(r, "/api/track/search-to-cart", map[string]interface{}{
		"document": map[string]interface{}{"session_id": "sess-1"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, events.events)
}

func TestTrackProductClick(t *testing.T) {
	clicks := newFakeClickRecorder()
	r := newTrackRouter(&fakeEventSink{}, clicks)

	w := postJSON(r, "/api/track/product-click", map[string]interface{}{
		"product_id":   "12345",
		"product_name": "Wine A",
		"search_query": "red wine dry",
		"session_id":   "sess-1",
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, clicks.clicks["sess-1"], 1)

	click := clicks.clicks["sess-1"][0]
	assert.NotEmpty(t, click.ClickID)
	assert.Equal(t, "12345", click.ProductID)
	assert.Equal(t, "Wine A", click.ProductName)
	assert.False(t, click.Timestamp.IsZero())
}

func TestTrackProductClickRequiresSessionAndProduct(t *testing.T) {
	clicks := newFakeClickRecorder()
	r := newTrackRouter(&fakeEventSink{}, clicks)

	w := postJSON(r, "/api/track/product-click", map[string]interface{}{
		"product_name": "Wine A",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, clicks.clicks)
}

func TestGetProductClicksUnknownSessionIsEmpty(t *testing.T) {
	r := newTrackRouter(&fakeEventSink{}, newFakeClickRecorder())

	req := httptest.NewRequest(http.MethodGet, "/api/track/product-clicks/sess-unknown", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SessionID string              `json:"session_id"`
		Count     int                 `json:"count"`
		Clicks    []models.ClickEvent `json:"clicks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sess-unknown", resp.SessionID)
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Clicks)
}

func TestGetEventCountsRequiresInterval(t *testing.T) {
	r := newTrackRouter(&fakeEventSink{}, newFakeClickRecorder())

	req := httptest.NewRequest(http.MethodGet, "/api/stats/event-counts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEventCountsReturnsBuckets(t *testing.T) {
	addToCart := "add_to_cart"
	bucket := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	events := &fakeEventSink{counts: []models.EventCountByTime{
		{Time: bucket, EventType: &addToCart, Count: 4},
		{Time: bucket.Add(24 * time.Hour), EventType: &addToCart, Count: 7},
	}}
	r := newTrackRouter(events, newFakeClickRecorder())

	req := httptest.NewRequest(http.MethodGet, "/api/stats/event-counts?interval=Day&eventType=add_to_cart", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []models.EventCountByTime
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, uint64(4), resp[0].Count)
	assert.Equal(t, uint64(7), resp[1].Count)
	require.NotNil(t, resp[0].EventType)
	assert.Equal(t, "add_to_cart", *resp[0].EventType)
	assert.Equal(t, "Day", events.lastInterval)
	assert.Equal(t, "add_to_cart", events.lastFilter)
}

func TestGetUniqueSessionsReturnsBuckets(t *testing.T) {
	bucket := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	events := &fakeEventSink{sessions: []models.EventCountByTime{
		{Time: bucket, Count: 12},
	}}
	r := newTrackRouter(events, newFakeClickRecorder())

	req := httptest.NewRequest(http.MethodGet, "/api/stats/unique-sessions?interval=Day", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []models.EventCountByTime
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, uint64(12), resp[0].Count)
	assert.Nil(t, resp[0].EventType)
	assert.Equal(t, "Day", events.lastInterval)

	missing := httptest.NewRecorder()
	r.ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/api/stats/unique-sessions", nil))
	assert.Equal(t, http.StatusBadRequest, missing.Code)
}
