package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// SessionCookieName is the admin session cookie.
const SessionCookieName = "admin_session"

// sessionData is the fixed payload signed into the cookie. The cookie proves
// knowledge of the admin token at login time; there is no per-session state.
const sessionData = "admin"

// SessionCookieValue derives the cookie value for the configured admin token.
func SessionCookieValue(adminToken string) string {
	mac := hmac.New(sha256.New, []byte(adminToken))
	mac.Write([]byte(sessionData))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// IsAdmin reports whether the request carries a valid admin session cookie.
// Always false when no admin token is configured.
func IsAdmin(r *http.Request, adminToken string) bool {
	if adminToken == "" {
		return false
	}
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return false
	}
	expected := SessionCookieValue(adminToken)
	return hmac.Equal([]byte(expected), []byte(cookie.Value))
}

// RequireAdmin rejects requests without a valid admin session.
func RequireAdmin(adminToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(r, adminToken) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
