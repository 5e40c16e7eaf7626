// api/handlers/analytics_handlers.go
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mileusna/useragent"

	"brightlane/api/models"
	"brightlane/api/utils"
)

// EventStore is the slice of the ClickHouse store the analytics
// handlers need.
type EventStore interface {
	InsertEvent(ctx context.Context, event models.AnalyticsEvent) error
	GetEventCountsOverTime(ctx context.Context, interval string, start, end time.Time, eventTypeFilter string) ([]models.EventCountByTime, error)
	GetUniqueSessionsOverTime(ctx context.Context, interval string, start, end time.Time) ([]models.EventCountByTime, error)
	GetTopPages(ctx context.Context, start, end time.Time, limit uint64) ([]models.TopPageResult, error)
}

type AnalyticsHandlers struct {
	EventStore EventStore

	// SecureCookies marks the session cookie Secure; set in release mode.
	SecureCookies bool
}

func NewAnalyticsHandlers(s EventStore, secureCookies bool) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		EventStore:    s,
		SecureCookies: secureCookies,
	}
}

// TrackEvent handles POST /api/analytics. Delivery is best-effort: once
// the body validates, the client gets 200 no matter what happens to the
// write. Only a missing event_type/event_name yields 400.
func (h *AnalyticsHandlers) TrackEvent(c *gin.Context) {
	var req models.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.EventType == "" || req.EventName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_type and event_name are required"})
		return
	}

	event := h.buildEvent(c, req)

	// Detached context: the insert outlives the request and its failure
	// is logged, never surfaced.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := h.EventStore.InsertEvent(ctx, event); err != nil {
			log.Printf("Error inserting analytics event %s: %v", event.EventID, err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// buildEvent enriches the request with server-observed metadata and
// resolves the session cookie, issuing one only when absent.
func (h *AnalyticsHandlers) buildEvent(c *gin.Context, req models.TrackRequest) models.AnalyticsEvent {
	event := models.AnalyticsEvent{
		EventID:    uuid.New().String(),
		EventType:  req.EventType,
		EventName:  req.EventName,
		Timestamp:  time.Now().UTC(),
		PageURL:    req.PageURL,
		Referrer:   utils.Referrer(c.Request.Header),
		IPAddress:  utils.ClientIP(c.Request.Header),
		Properties: req.Properties,
	}
	if len(event.Properties) == 0 {
		event.Properties = json.RawMessage("{}")
	}

	if ua := c.GetHeader("User-Agent"); ua != "" {
		event.UserAgent = &ua
		parsed := useragent.Parse(ua)
		event.Browser = parsed.Name
		event.OS = parsed.OS
		event.Device = deviceType(parsed)
	}

	sessionID, err := c.Cookie(utils.SessionCookieName)
	if err != nil || sessionID == "" {
		sessionID = utils.GenerateSessionID()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(utils.SessionCookieName, sessionID, int(utils.SessionTTL.Seconds()), "/", "", h.SecureCookies, true)
	}
	event.SessionID = sessionID

	return event
}

func deviceType(ua useragent.UserAgent) string {
	switch {
	case ua.Mobile:
		return "mobile"
	case ua.Tablet:
		return "tablet"
	case ua.Bot:
		return "bot"
	default:
		return "desktop"
	}
}

// GetEventCountsOverTime handles GET /api/stats/event-counts.
func (h *AnalyticsHandlers) GetEventCountsOverTime(c *gin.Context) {
	interval := c.Query("interval")
	if interval == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval query parameter is required (e.g., 'Day', 'Hour')"})
		return
	}

	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, err := h.EventStore.GetEventCountsOverTime(ctx, interval, start, end, c.Query("event_type"))
	if err != nil {
		log.Printf("Error getting event counts over time: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event statistics"})
		return
	}
	if results == nil {
		results = []models.EventCountByTime{}
	}

	c.JSON(http.StatusOK, results)
}

// GetUniqueSessionsOverTime handles GET /api/stats/sessions.
func (h *AnalyticsHandlers) GetUniqueSessionsOverTime(c *gin.Context) {
	interval := c.Query("interval")
	if interval == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval query parameter is required (e.g., 'Day', 'Hour')"})
		return
	}

	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, err := h.EventStore.GetUniqueSessionsOverTime(ctx, interval, start, end)
	if err != nil {
		log.Printf("Error getting unique sessions over time: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session statistics"})
		return
	}
	if results == nil {
		results = []models.EventCountByTime{}
	}

	c.JSON(http.StatusOK, results)
}

// GetTopPages handles GET /api/stats/top-pages.
func (h *AnalyticsHandlers) GetTopPages(c *gin.Context) {
	start, end, ok := parseTimeRange(c)
	if !ok {
		return
	}

	var limit uint64 = 10
	if limitParam := c.Query("limit"); limitParam != "" {
		parsedLimit, err := strconv.ParseUint(limitParam, 10, 64)
		if err != nil || parsedLimit == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' parameter. Must be a positive integer."})
			return
		}
		limit = parsedLimit
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, err := h.EventStore.GetTopPages(ctx, start, end, limit)
	if err != nil {
		log.Printf("Error getting top pages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve top pages statistics"})
		return
	}
	if results == nil {
		results = []models.TopPageResult{}
	}

	c.JSON(http.StatusOK, results)
}

// parseTimeRange reads start/end query params, defaulting to the last
// seven days. On a malformed timestamp it writes the 400 itself and
// reports !ok.
func parseTimeRange(c *gin.Context) (start, end time.Time, ok bool) {
	var err error

	start = time.Now().UTC().Add(-7 * 24 * time.Hour)
	if startParam := c.Query("start"); startParam != "" {
		start, err = time.Parse(time.RFC3339, startParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'start' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
			return start, end, false
		}
	}

	end = time.Now().UTC()
	if endParam := c.Query("end"); endParam != "" {
		end, err = time.Parse(time.RFC3339, endParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'end' timestamp format. Use RFC3339 (e.g., 2006-01-02T15:04:05Z)"})
			return start, end, false
		}
	}

	return start, end, true
}
