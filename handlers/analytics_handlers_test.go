package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brightlane/api/models"
	"brightlane/api/utils"
)

const testUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

// fakeEventStore captures inserted events on a channel so tests can
// wait for the fire-and-forget write.
type fakeEventStore struct {
	insertErr error
	inserted  chan models.AnalyticsEvent

	topPages []models.TopPageResult
	counts   []models.EventCountByTime
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{inserted: make(chan models.AnalyticsEvent, 8)}
}

func (f *fakeEventStore) InsertEvent(_ context.Context, event models.AnalyticsEvent) error {
	f.inserted <- event
	return f.insertErr
}

func (f *fakeEventStore) GetEventCountsOverTime(_ context.Context, interval string, start, end time.Time, eventTypeFilter string) ([]models.EventCountByTime, error) {
	return f.counts, nil
}

func (f *fakeEventStore) GetUniqueSessionsOverTime(_ context.Context, interval string, start, end time.Time) ([]models.EventCountByTime, error) {
	return f.counts, nil
}

func (f *fakeEventStore) GetTopPages(_ context.Context, start, end time.Time, limit uint64) ([]models.TopPageResult, error) {
	return f.topPages, nil
}

func newAnalyticsRouter(fake *fakeEventStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAnalyticsHandlers(fake, false)
	r := gin.New()
	r.POST("/api/analytics", h.TrackEvent)
	r.GET("/api/stats/event-counts", h.GetEventCountsOverTime)
	r.GET("/api/stats/sessions", h.GetUniqueSessionsOverTime)
	r.GET("/api/stats/top-pages", h.GetTopPages)
	return r
}

func postEvent(r *gin.Engine, body string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analytics", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}
	r.ServeHTTP(w, req)
	return w
}

func awaitEvent(t *testing.T, fake *fakeEventStore) models.AnalyticsEvent {
	t.Helper()
	select {
	case event := <-fake.inserted:
		return event
	case <-time.After(time.Second):
		t.Fatal("analytics event was never persisted")
		return models.AnalyticsEvent{}
	}
}

func TestTrackEventValidation(t *testing.T) {
	fake := newFakeEventStore()
	r := newAnalyticsRouter(fake)

	tests := []struct {
		name string
		body string
	}{
		{"missing event_name", `{"event_type":"page_view"}`},
		{"missing event_type", `{"event_name":"home"}`},
		{"empty values", `{"event_type":"","event_name":""}`},
		{"malformed body", `{"event_type":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postEvent(r, tt.body, nil)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "event_type")
			assert.Contains(t, w.Body.String(), "event_name")
		})
	}

	select {
	case <-fake.inserted:
		t.Fatal("no event may be persisted for an invalid request")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTrackEventEnrichment(t *testing.T) {
	fake := newFakeEventStore()
	r := newAnalyticsRouter(fake)

	w := postEvent(r, `{"event_type":"page_view","event_name":"home","page_url":"/","properties":{"plan":"pro"}}`, func(req *http.Request) {
		req.Header.Set("User-Agent", testUserAgent)
		req.Header.Set("Referer", "https://www.google.com/")
		req.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	event := awaitEvent(t, fake)
	assert.Equal(t, "page_view", event.EventType)
	assert.Equal(t, "home", event.EventName)
	assert.NotEmpty(t, event.EventID)
	assert.NotEmpty(t, event.SessionID)
	require.NotNil(t, event.IPAddress)
	assert.Equal(t, "203.0.113.7", *event.IPAddress)
	require.NotNil(t, event.Referrer)
	assert.Equal(t, "https://www.google.com/", *event.Referrer)
	require.NotNil(t, event.UserAgent)
	assert.Equal(t, "mobile", event.Device)
	assert.JSONEq(t, `{"plan":"pro"}`, string(event.Properties))
}

func TestTrackEventDefaults(t *testing.T) {
	fake := newFakeEventStore()
	r := newAnalyticsRouter(fake)

	w := postEvent(r, `{"event_type":"cta_click","event_name":"signup"}`, func(req *http.Request) {
		req.Header.Del("User-Agent")
	})
	require.Equal(t, http.StatusOK, w.Code)

	event := awaitEvent(t, fake)
	assert.Nil(t, event.IPAddress)
	assert.Nil(t, event.Referrer)
	assert.Nil(t, event.PageURL)
	assert.Equal(t, "{}", string(event.Properties))
}

func TestTrackEventRealIPFallback(t *testing.T) {
	fake := newFakeEventStore()
	r := newAnalyticsRouter(fake)

	w := postEvent(r, `{"event_type":"page_view","event_name":"home"}`, func(req *http.Request) {
		req.Header.Set("X-Real-IP", "198.51.100.4")
	})
	require.Equal(t, http.StatusOK, w.Code)

	event := awaitEvent(t, fake)
	require.NotNil(t, event.IPAddress)
	assert.Equal(t, "198.51.100.4", *event.IPAddress)
}

func TestTrackEventStoreFailureStillSucceeds(t *testing.T) {
	fake := newFakeEventStore()
	fake.insertErr = errors.New("clickhouse unavailable")
	r := newAnalyticsRouter(fake)

	w := postEvent(r, `{"event_type":"page_view","event_name":"home"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	awaitEvent(t, fake)
}

func TestTrackEventSessionCookie(t *testing.T) {
	fake := newFakeEventStore()
	r := newAnalyticsRouter(fake)

	// First request: no cookie, one must be issued.
	w := postEvent(r, `{"event_type":"page_view","event_name":"home"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	var session *http.Cookie
	for _, ck := range cookies {
		if ck.Name == utils.SessionCookieName {
			session = ck
		}
	}
	require.NotNil(t, session, "first request must set the session cookie")
	assert.True(t, session.HttpOnly)
	assert.Equal(t, "/", session.Path)
	assert.Equal(t, int(utils.SessionTTL.Seconds()), session.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, session.SameSite)

	first := awaitEvent(t, fake)
	assert.Equal(t, session.Value, first.SessionID)

	// Second request replays the cookie: no re-set, same session.
	w = postEvent(r, `{"event_type":"page_view","event_name":"pricing"}`, func(req *http.Request) {
		req.AddCookie(session)
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies(), "replayed cookie must not be re-set")

	second := awaitEvent(t, fake)
	assert.Equal(t, first.SessionID, second.SessionID)
}

func TestStatsIntervalRequired(t *testing.T) {
	fake := newFakeEventStore()
	r := newAnalyticsRouter(fake)

	for _, url := range []string{"/api/stats/event-counts", "/api/stats/sessions"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, url)
	}
}

func TestStatsBadTimestamp(t *testing.T) {
	fake := newFakeEventStore()
	r := newAnalyticsRouter(fake)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats/top-pages?start=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTopPages(t *testing.T) {
	fake := newFakeEventStore()
	fake.topPages = []models.TopPageResult{{PageURL: "/", Count: 42}}
	r := newAnalyticsRouter(fake)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats/top-pages?limit=5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":42`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats/top-pages?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
