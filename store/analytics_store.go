package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"brightlane/api/database"
	"brightlane/api/models"
	"brightlane/api/utils"
)

type AnalyticsStore struct {
	DB *database.ClickHouseClient
}

func NewAnalyticsStore(chClient *database.ClickHouseClient) *AnalyticsStore {
	return &AnalyticsStore{
		DB: chClient,
	}
}

// InsertEvent persists one analytics event. Nullable columns receive
// NULL when the request carried no usable value.
func (s *AnalyticsStore) InsertEvent(ctx context.Context, event models.AnalyticsEvent) error {
	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO analytics_events (
			event_id, event_type, event_name, session_id, timestamp, page_url,
			referrer, user_agent, ip_address, browser, os, device, properties
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare event insert: %w", err)
	}

	err = batch.Append(
		event.EventID,
		event.EventType,
		event.EventName,
		event.SessionID,
		event.Timestamp,
		event.PageURL,
		event.Referrer,
		event.UserAgent,
		event.IPAddress,
		event.Browser,
		event.OS,
		event.Device,
		string(event.Properties),
	)
	if err != nil {
		return fmt.Errorf("failed to append event %s: %w", event.EventID, err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send event batch: %w", err)
	}

	return nil
}

// GetEventCountsOverTime buckets event counts by the given interval,
// optionally split by event type.
func (s *AnalyticsStore) GetEventCountsOverTime(ctx context.Context, interval string, start, end time.Time, eventTypeFilter string) ([]models.EventCountByTime, error) {
	if !utils.IsValidInterval(interval) {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}

	var args []interface{}
	args = append(args, start, end)

	selectCols := fmt.Sprintf("toStartOf%s(timestamp) as time_bucket, count() as total_events", interval)
	groupByCols := "time_bucket"
	whereClause := "WHERE timestamp >= ? AND timestamp <= ?"
	orderByCols := "time_bucket ASC"
	isFilteringByType := eventTypeFilter != ""

	if isFilteringByType {
		selectCols += ", event_type"
		groupByCols += ", event_type"
		whereClause += " AND event_type = ?"
		args = append(args, eventTypeFilter)
		orderByCols += ", event_type ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM analytics_events
		%s
		GROUP BY %s
		ORDER BY %s
	`, selectCols, whereClause, groupByCols, orderByCols)

	rows, err := s.DB.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query event counts over time: %w", err)
	}
	defer rows.Close()

	var results []models.EventCountByTime
	for rows.Next() {
		var (
			timeBucket    time.Time
			count         uint64
			eventTypeDB   string
			currentResult models.EventCountByTime
		)

		if isFilteringByType {
			if err := rows.Scan(&timeBucket, &count, &eventTypeDB); err != nil {
				log.Printf("Error scanning row for event counts over time (with type filter): %v", err)
				continue
			}
			currentResult.EventType = &eventTypeDB
		} else {
			if err := rows.Scan(&timeBucket, &count); err != nil {
				log.Printf("Error scanning row for event counts over time (no type filter): %v", err)
				continue
			}
		}

		currentResult.Time = timeBucket
		currentResult.Count = count
		results = append(results, currentResult)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during event counts over time query: %w", err)
	}

	return results, nil
}

// GetUniqueSessionsOverTime buckets distinct session counts by the
// given interval.
func (s *AnalyticsStore) GetUniqueSessionsOverTime(ctx context.Context, interval string, start, end time.Time) ([]models.EventCountByTime, error) {
	if !utils.IsValidInterval(interval) {
		return nil, fmt.Errorf("invalid interval: %s", interval)
	}

	query := fmt.Sprintf(`
		SELECT toStartOf%s(timestamp) AS time_bucket, uniq(session_id) AS unique_sessions
		FROM analytics_events
		WHERE timestamp >= ? AND timestamp <= ?
		GROUP BY time_bucket
		ORDER BY time_bucket ASC
	`, interval)

	rows, err := s.DB.Conn.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query unique sessions over time: %w", err)
	}
	defer rows.Close()

	var results []models.EventCountByTime
	for rows.Next() {
		var timeBucket time.Time
		var uniqueSessions uint64
		if err := rows.Scan(&timeBucket, &uniqueSessions); err != nil {
			log.Printf("Error scanning row for unique sessions: %v", err)
			continue
		}
		results = append(results, models.EventCountByTime{
			Time:  timeBucket,
			Count: uniqueSessions,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for unique sessions: %w", err)
	}

	return results, nil
}

// GetTopPages returns the most viewed page URLs in the window.
func (s *AnalyticsStore) GetTopPages(ctx context.Context, start, end time.Time, limit uint64) ([]models.TopPageResult, error) {
	if limit == 0 {
		limit = 10
	}

	query := `
		SELECT page_url, count() as view_count
		FROM analytics_events
		WHERE event_type = 'page_view' AND page_url IS NOT NULL
		  AND timestamp >= ? AND timestamp <= ?
		GROUP BY page_url
		ORDER BY view_count DESC
		LIMIT ?
	`
	rows, err := s.DB.Conn.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top pages: %w", err)
	}
	defer rows.Close()

	var results []models.TopPageResult
	for rows.Next() {
		var pageURL string
		var count uint64
		if err := rows.Scan(&pageURL, &count); err != nil {
			log.Printf("Error scanning row for top pages: %v", err)
			continue
		}
		results = append(results, models.TopPageResult{
			PageURL: pageURL,
			Count:   count,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for top pages: %w", err)
	}

	return results, nil
}
