package utils

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"time"
)

// SessionCookieName is the analytics session cookie. It is httpOnly and
// holds an opaque identifier only; no server-side session table exists.
const SessionCookieName = "analytics_session_id"

// SessionTTL bounds a browsing session: the cookie expires after 30
// minutes and a later visit starts a fresh session.
const SessionTTL = 30 * time.Minute

// GenerateSessionID creates a random, URL-safe session identifier.
func GenerateSessionID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Printf("ERROR: Failed to generate random bytes for session ID: %v", err)
		return "fallback_session_id_" + time.Now().Format("20060102150405")
	}
	return base64.URLEncoding.EncodeToString(b)
}
