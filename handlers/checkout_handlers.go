// api/handlers/checkout_handlers.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"cartfunnel/api/models"

	"github.com/gin-gonic/gin"
)

// CheckoutLister reads persisted order records, newest first.
type CheckoutLister interface {
	ListCheckouts(ctx context.Context, filter models.CheckoutFilter) ([]models.OrderRecord, error)
}

type CheckoutHandlers struct {
	Orders CheckoutLister
}

func NewCheckoutHandlers(orders CheckoutLister) *CheckoutHandlers {
	return &CheckoutHandlers{Orders: orders}
}

// ListCheckoutEvents serves GET /checkout-events: a revenue summary plus
// the matching order records with their attached clicks. Pure read.
func (h *CheckoutHandlers) ListCheckoutEvents(c *gin.Context) {
	filter := models.CheckoutFilter{
		SessionID: c.Query("session_id"),
		Days:      30,
		Limit:     100,
	}

	if daysParam := c.Query("days"); daysParam != "" {
		days, err := strconv.Atoi(daysParam)
		if err != nil || days <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'days' parameter. Must be a positive integer."})
			return
		}
		filter.Days = days
	}

	if limitParam := c.Query("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' parameter. Must be a positive integer."})
			return
		}
		filter.Limit = limit
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	orders, err := h.Orders.ListCheckouts(ctx, filter)
	if err != nil {
		log.Printf("Error listing checkout events: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve checkout events"})
		return
	}

	summary := summarizeCheckouts(orders)

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"orders":  orders,
	})
}

func summarizeCheckouts(orders []models.OrderRecord) models.CheckoutSummary {
	summary := models.CheckoutSummary{Count: len(orders)}
	for _, o := range orders {
		summary.TotalRevenue += o.TotalPrice
		if summary.Currency == "" {
			summary.Currency = o.Currency
		}
	}
	if summary.Count > 0 {
		summary.AvgOrderValue = summary.TotalRevenue / float64(summary.Count)
	}
	return summary
}
