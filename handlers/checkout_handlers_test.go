package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cartfunnel/api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCheckoutLister struct {
	orders     []models.OrderRecord
	lastFilter models.CheckoutFilter
}

func (f *fakeCheckoutLister) ListCheckouts(_ context.Context, filter models.CheckoutFilter) ([]models.OrderRecord, error) {
	f.lastFilter = filter
	return f.orders, nil
}

func newCheckoutRouter(lister *fakeCheckoutLister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/checkout-events", NewCheckoutHandlers(lister).ListCheckoutEvents)
	return r
}

func getCheckouts(r *gin.Engine, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/checkout-events"+query, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListCheckoutEventsSummary(t *testing.T) {
	lister := &fakeCheckoutLister{orders: []models.OrderRecord{
		{OrderID: "1", TotalPrice: 100, Currency: "EUR"},
		{OrderID: "2", TotalPrice: 200, Currency: "EUR"},
		{OrderID: "3", TotalPrice: 300, Currency: "EUR"},
	}}
	r := newCheckoutRouter(lister)

	w := getCheckouts(r, "?days=7")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Summary models.CheckoutSummary `json:"summary"`
		Orders  []models.OrderRecord   `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 3, resp.Summary.Count)
	assert.Equal(t, 600.0, resp.Summary.TotalRevenue)
	assert.Equal(t, 200.0, resp.Summary.AvgOrderValue)
	assert.Equal(t, "EUR", resp.Summary.Currency)
	assert.Len(t, resp.Orders, 3)
	assert.Equal(t, 7, lister.lastFilter.Days)
}

func TestListCheckoutEventsDefaults(t *testing.T) {
	lister := &fakeCheckoutLister{}
	r := newCheckoutRouter(lister)

	w := getCheckouts(r, "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 30, lister.lastFilter.Days)
	assert.Equal(t, 100, lister.lastFilter.Limit)
	assert.Equal(t, "", lister.lastFilter.SessionID)

	var resp struct {
		Summary models.CheckoutSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Summary.Count)
	assert.Equal(t, 0.0, resp.Summary.AvgOrderValue)
}

func TestListCheckoutEventsSessionFilterPassedThrough(t *testing.T) {
	lister := &fakeCheckoutLister{}
	r := newCheckoutRouter(lister)

	w := getCheckouts(r, "?session_id=sess-9&limit=5")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-9", lister.lastFilter.SessionID)
	assert.Equal(t, 5, lister.lastFilter.Limit)
}

func TestListCheckoutEventsRejectsBadParams(t *testing.T) {
	r := newCheckoutRouter(&fakeCheckoutLister{})

	assert.Equal(t, http.StatusBadRequest, getCheckouts(r, "?days=zero").Code)
	assert.Equal(t, http.StatusBadRequest, getCheckouts(r, "?days=-3").Code)
	assert.Equal(t, http.StatusBadRequest, getCheckouts(r, "?limit=nope").Code)
}
