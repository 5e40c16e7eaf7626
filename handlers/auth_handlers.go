// api/handlers/auth_handlers.go
package handlers

import (
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"brightlane/api/auth"
	"brightlane/api/utils"
)

type AuthHandlers struct {
	Provider auth.Exchanger

	// SecureCookies marks the session cookie Secure; set in release mode.
	SecureCookies bool
}

func NewAuthHandlers(provider auth.Exchanger, secureCookies bool) *AuthHandlers {
	return &AuthHandlers{Provider: provider, SecureCookies: secureCookies}
}

const sessionCookie = "jwt_token"

// Callback handles GET /api/auth/callback: the browser lands here after
// the identity provider, carrying either an authorization code or an
// error. Every failure path redirects to /login with a URL-encoded
// message; provider internals never leak beyond error_description.
func (h *AuthHandlers) Callback(c *gin.Context) {
	next := c.Query("next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
	}

	if errParam := c.Query("error"); errParam != "" {
		msg := c.Query("error_description")
		if msg == "" {
			msg = "Authentication failed"
		}
		log.Printf("OAuth callback returned error %q: %s", errParam, msg)
		redirectToLogin(c, msg)
		return
	}

	code := c.Query("code")
	if code == "" {
		redirectToLogin(c, "Invalid authentication response")
		return
	}

	session, err := h.Provider.Exchange(c.Request.Context(), code)
	if err != nil {
		log.Printf("OAuth code exchange failed: %v", err)
		redirectToLogin(c, "Authentication failed. Please try again.")
		return
	}
	if session == nil {
		log.Println("OAuth code exchange yielded no session")
		redirectToLogin(c, "Authentication failed. Please try again.")
		return
	}

	tokenString, err := utils.GenerateJWT(session.Subject, session.Email)
	if err != nil {
		log.Printf("ERROR: Failed to generate session token for %s: %v", session.Subject, err)
		redirectToLogin(c, "Authentication failed. Please try again.")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		sessionCookie,
		tokenString,
		int(24*time.Hour/time.Second),
		"/",
		"",
		h.SecureCookies,
		true,
	)

	log.Printf("User logged in: %s. Session token issued.", session.Subject)
	c.Redirect(http.StatusFound, requestOrigin(c)+next)
}

// Logout handles POST /api/logout by expiring the session cookie.
func (h *AuthHandlers) Logout(c *gin.Context) {
	c.SetCookie(
		sessionCookie,
		"",
		-1,
		"/",
		"",
		h.SecureCookies,
		true,
	)

	log.Println("User logged out (session cookie cleared).")
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func redirectToLogin(c *gin.Context, msg string) {
	c.Redirect(http.StatusFound, "/login?error="+url.QueryEscape(msg))
}

// requestOrigin rebuilds scheme://host for the current request so the
// post-login redirect stays on this site.
func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
