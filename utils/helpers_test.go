package utils

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		pageStr   string
		limitStr  string
		wantPage  int
		wantLimit int
	}{
		{"both valid", "3", "25", 3, 25},
		{"empty values", "", "", 1, 10},
		{"non-numeric", "abc", "xyz", 1, 10},
		{"zero and negative", "0", "-4", 1, 10},
		{"limit capped", "1", "5000", 1, 100},
		{"float rejected", "1.5", "2.5", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := ParsePagination(tt.pageStr, tt.limitStr)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
		wantNil bool
	}{
		{"forwarded-for single", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "203.0.113.7", false},
		{"forwarded-for chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1, 172.16.0.1"}, "203.0.113.7", false},
		{"forwarded-for padded", map[string]string{"X-Forwarded-For": "  203.0.113.7 , 10.0.0.1"}, "203.0.113.7", false},
		{"real-ip fallback", map[string]string{"X-Real-IP": "198.51.100.4"}, "198.51.100.4", false},
		{"forwarded-for wins", map[string]string{"X-Forwarded-For": "203.0.113.7", "X-Real-IP": "198.51.100.4"}, "203.0.113.7", false},
		{"no headers", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			got := ClientIP(h)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestReferrer(t *testing.T) {
	h := http.Header{}
	assert.Nil(t, Referrer(h))

	h.Set("Referer", "https://a.example.com/")
	ref := Referrer(h)
	require.NotNil(t, ref)
	assert.Equal(t, "https://a.example.com/", *ref)

	h = http.Header{}
	h.Set("Referrer", "https://b.example.com/")
	ref = Referrer(h)
	require.NotNil(t, ref)
	assert.Equal(t, "https://b.example.com/", *ref)
}

func TestIsValidInterval(t *testing.T) {
	for _, valid := range []string{"Minute", "Hour", "Day", "Week", "Month", "Quarter", "Year"} {
		assert.True(t, IsValidInterval(valid), valid)
	}
	for _, invalid := range []string{"", "day", "Fortnight", "DAY; DROP TABLE"} {
		assert.False(t, IsValidInterval(invalid), invalid)
	}
}

func TestGenerateSessionID(t *testing.T) {
	a := GenerateSessionID()
	b := GenerateSessionID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
