// api/handlers/track_handlers.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"cartfunnel/api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventSink stores the append-only funnel event firehose.
type EventSink interface {
	InsertEvents(ctx context.Context, events []models.TrackedEvent) error
	EventCountsOverTime(ctx context.Context, interval string, start, end time.Time, eventTypeFilter string) ([]models.EventCountByTime, error)
	UniqueSessionsOverTime(ctx context.Context, interval string, start, end time.Time) ([]models.EventCountByTime, error)
}

// ClickRecorder stores product clicks keyed by session for later
// correlation with order webhooks.
type ClickRecorder interface {
	InsertClick(ctx context.Context, click *models.ClickEvent) error
	ListBySession(ctx context.Context, sessionID string) ([]models.ClickEvent, error)
}

type TrackHandlers struct {
	Events EventSink
	Clicks ClickRecorder
}

func NewTrackHandlers(events EventSink, clicks ClickRecorder) *TrackHandlers {
	return &TrackHandlers{
		Events: events,
		Clicks: clicks,
	}
}

// TrackSearchToCart ingests one composed funnel event document
// (add-to-cart / checkout events, merged with their search context).
func (h *TrackHandlers) TrackSearchToCart(c *gin.Context) {
	var req models.TrackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("Error binding incoming track JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	event := req.Document
	event.EventID = uuid.New().String()
	event.IPAddress = c.ClientIP()
	if event.UserAgent == "" {
		event.UserAgent = c.Request.UserAgent()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.Events.InsertEvents(ctx, []models.TrackedEvent{event}); err != nil {
		log.Printf("Error inserting funnel event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"event_id":   event.EventID,
		"event_type": event.EventType,
	})
}

// TrackProductClick records a search result click against its session.
func (h *TrackHandlers) TrackProductClick(c *gin.Context) {
	var click models.ClickEvent
	if err := c.ShouldBindJSON(&click); err != nil {
		log.Printf("Error binding incoming click JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	click.ClickID = uuid.New().String()
	if click.Timestamp.IsZero() {
		click.Timestamp = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Clicks.InsertClick(ctx, &click); err != nil {
		log.Printf("Error inserting product click (session %s): %v", click.SessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record click"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"click_id": click.ClickID,
	})
}

// GetProductClicks returns all clicks recorded for a session. An unknown
// session is not an error; it returns an empty list.
func (h *TrackHandlers) GetProductClicks(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id path parameter is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	clicks, err := h.Clicks.ListBySession(ctx, sessionID)
	if err != nil {
		log.Printf("Error listing clicks for session %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve clicks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"count":      len(clicks),
		"clicks":     clicks,
	})
}

// GetEventCounts buckets funnel event counts by interval, optionally
// filtered to one event type.
func (h *TrackHandlers) GetEventCounts(c *gin.Context) {
	interval := c.Query("interval")
	if interval == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval query parameter is required (e.g., 'Day', 'Hour')"})
		return
	}

	eventTypeFilter := c.Query("eventType")

	var start, end time.Time
	var err error

	startParam := c.Query("start")
	if startParam != "" {
		start, err = time.Parse(time.RFC3339, startParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'start' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
			return
		}
	} else {
		start = time.Now().UTC().Add(-7 * 24 * time.Hour)
	}

	endParam := c.Query("end")
	if endParam != "" {
		end, err = time.Parse(time.RFC3339, endParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'end' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
			return
		}
	} else {
		end = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, err := h.Events.EventCountsOverTime(ctx, interval, start, end, eventTypeFilter)
	if err != nil {
		log.Printf("Error getting event counts over time: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event statistics"})
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetUniqueSessions buckets distinct funnel session counts by interval.
func (h *TrackHandlers) GetUniqueSessions(c *gin.Context) {
	interval := c.Query("interval")
	if interval == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval query parameter is required (e.g., 'Day', 'Hour')"})
		return
	}

	var start, end time.Time
	var err error

	startParam := c.Query("start")
	if startParam != "" {
		start, err = time.Parse(time.RFC3339, startParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'start' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
			return
		}
	} else {
		start = time.Now().UTC().Add(-7 * 24 * time.Hour)
	}

	endParam := c.Query("end")
	if endParam != "" {
		end, err = time.Parse(time.RFC3339, endParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'end' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
			return
		}
	} else {
		end = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, err := h.Events.UniqueSessionsOverTime(ctx, interval, start, end)
	if err != nil {
		log.Printf("Error getting unique sessions over time: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session statistics"})
		return
	}

	c.JSON(http.StatusOK, results)
}
