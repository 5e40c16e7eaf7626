package utils

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

func IsValidInterval(interval string) bool {
	switch interval {
	case "Minute", "Hour", "Day", "Week", "Month", "Quarter", "Year":
		return true
	default:
		return false
	}
}

// ParsePagination parses page/limit query values. Non-numeric or
// out-of-range values fall back to the defaults; limit is capped so one
// request cannot drag an unbounded result set.
func ParsePagination(pageStr, limitStr string) (page, limit int) {
	page = DefaultPage
	if v, err := strconv.Atoi(pageStr); err == nil && v >= 1 {
		page = v
	}

	limit = DefaultLimit
	if v, err := strconv.Atoi(limitStr); err == nil && v >= 1 {
		limit = v
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// ClientIP resolves the caller's address: first comma-separated token
// of X-Forwarded-For, else X-Real-IP, else nil. A missing IP never
// fails the request.
func ClientIP(h http.Header) *string {
	if fwd := h.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return &first
		}
	}
	if real := h.Get("X-Real-IP"); real != "" {
		return &real
	}
	return nil
}

// Referrer reads the referrer header, accepting both the misspelled
// standard name and the corrected variant.
func Referrer(h http.Header) *string {
	ref := h.Get("Referer")
	if ref == "" {
		ref = h.Get("Referrer")
	}
	if ref == "" {
		return nil
	}
	return &ref
}
