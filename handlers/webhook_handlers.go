// api/handlers/webhook_handlers.go
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"cartfunnel/api/models"
	"cartfunnel/api/utils"

	"github.com/gin-gonic/gin"
)

// OrderArchive persists correlation-enriched order records. Insert must be
// atomic insert-if-absent; redelivered webhooks must never create a second
// record for the same order_id.
type OrderArchive interface {
	InsertOrderIfAbsent(ctx context.Context, rec *models.OrderRecord) (bool, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.OrderRecord, error)
}

type WebhookHandlers struct {
	Orders OrderArchive
	Clicks ClickRecorder

	// Shared secret for X-Shopify-Hmac-Sha256 verification. Empty disables
	// the check; main logs a warning at startup when that is the case.
	WebhookSecret string
}

func NewWebhookHandlers(orders OrderArchive, clicks ClickRecorder, webhookSecret string) *WebhookHandlers {
	return &WebhookHandlers{
		Orders:        orders,
		Clicks:        clicks,
		WebhookSecret: webhookSecret,
	}
}

// OrderCreated ingests a Shopify orders/create webhook: verifies the HMAC
// signature over the exact raw body, extracts the funnel session id from
// the note attributes, joins previously recorded clicks for that session,
// and persists the enriched record. Safe to redeliver.
func (h *WebhookHandlers) OrderCreated(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("Error reading webhook body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	if h.WebhookSecret != "" {
		signature := c.GetHeader("X-Shopify-Hmac-Sha256")
		if signature == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing X-Shopify-Hmac-Sha256 header"})
			return
		}
		if !utils.VerifyWebhookSignature(body, signature, h.WebhookSecret) {
			log.Printf("Webhook signature verification failed (shop: %s)", c.GetHeader("X-Shopify-Shop-Domain"))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature"})
			return
		}
	}

	var order models.ShopifyOrder
	if err := json.Unmarshal(body, &order); err != nil {
		log.Printf("Error parsing order webhook JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
		return
	}
	if order.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order payload missing required 'id' field"})
		return
	}

	shopDomain := c.GetHeader("X-Shopify-Shop-Domain")
	rec := order.ToOrderRecord(shopDomain)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	// Join: attach every click previously recorded for this session. No
	// session or no clicks is a normal outcome, not a failure.
	sessionID := order.SessionID()
	if sessionID != "" {
		rec.SessionID = &sessionID
		clicks, err := h.Clicks.ListBySession(ctx, sessionID)
		if err != nil {
			log.Printf("Error looking up clicks for session %s (order %s): %v", sessionID, rec.OrderID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to correlate session clicks"})
			return
		}
		if len(clicks) > 0 {
			rec.MatchedClicks = clicks
			rec.ClickCount = len(clicks)
		}
	}
	rec.Processed = true

	inserted, err := h.Orders.InsertOrderIfAbsent(ctx, rec)
	if err != nil {
		log.Printf("Error persisting order %s: %v", rec.OrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist order"})
		return
	}

	if !inserted {
		// Redelivery: return the previously persisted state unmodified.
		prior, err := h.Orders.GetByOrderID(ctx, rec.OrderID)
		if err != nil {
			log.Printf("Error fetching prior record for redelivered order %s: %v", rec.OrderID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load existing order"})
			return
		}
		log.Printf("Duplicate webhook for order %s ignored.", rec.OrderID)
		c.JSON(http.StatusOK, gin.H{
			"status":         "duplicate",
			"order_id":       prior.OrderID,
			"session_id":     prior.SessionID,
			"saved_to":       "orders",
			"matched_clicks": prior.ClickCount > 0,
		})
		return
	}

	log.Printf("Order %s ingested (session: %v, matched clicks: %d)", rec.OrderID, sessionID, rec.ClickCount)
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"order_id":       rec.OrderID,
		"session_id":     rec.SessionID,
		"saved_to":       "orders",
		"matched_clicks": rec.ClickCount > 0,
	})
}
