package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"storefront/internal/middleware"
	"storefront/internal/sqlinline"
)

const sessionMaxAge = 30 * 24 * time.Hour

// AdminLogin exchanges the admin token for a session cookie.
func (a *App) AdminLogin(w http.ResponseWriter, r *http.Request) {
	if a.AdminToken == "" {
		a.error(w, http.StatusInternalServerError, "internal", "admin token not configured")
		return
	}
	if err := r.ParseForm(); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "expected form data")
		return
	}
	token := r.PostFormValue("token")
	if token == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "token required")
		return
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(a.AdminToken)) != 1 {
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    middleware.SessionCookieValue(a.AdminToken),
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   a.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	a.json(w, http.StatusOK, map[string]bool{"ok": true})
}

// AdminLogout clears the session cookie.
func (a *App) AdminLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	a.json(w, http.StatusOK, map[string]bool{"ok": true})
}

// GetAllowlist lists the product ids currently enabled for the storefront.
func (a *App) GetAllowlist(w http.ResponseWriter, r *http.Request) {
	enabled, err := a.Allowlist.Enabled(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("allowlist read failed")
		a.error(w, http.StatusInternalServerError, "internal", "allowlist read failed")
		return
	}
	ids := make([]string, 0, len(enabled))
	for id := range enabled {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	a.json(w, http.StatusOK, map[string]any{"enabled": ids})
}

func (a *App) EnableProduct(w http.ResponseWriter, r *http.Request) {
	a.setAllowlisted(w, r, true)
}

func (a *App) DisableProduct(w http.ResponseWriter, r *http.Request) {
	a.setAllowlisted(w, r, false)
}

func (a *App) setAllowlisted(w http.ResponseWriter, r *http.Request, enabled bool) {
	var body struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ProductID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "product_id required")
		return
	}
	var err error
	if enabled {
		err = a.Allowlist.Enable(r.Context(), body.ProductID)
	} else {
		err = a.Allowlist.Disable(r.Context(), body.ProductID)
	}
	if err != nil {
		a.Logger.Error().Err(err).Str("product_id", body.ProductID).Msg("allowlist update failed")
		a.error(w, http.StatusInternalServerError, "internal", "allowlist update failed")
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"ok": true})
}

// ListShops lists the Printify shops for the configured token. Handy for
// finding the store id during setup.
func (a *App) ListShops(w http.ResponseWriter, r *http.Request) {
	if a.Printify == nil || !a.Printify.TokenConfigured() {
		a.error(w, http.StatusBadRequest, "bad_request", "printify token not configured")
		return
	}
	shops, err := a.Printify.ListShops(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("failed to list shops")
		a.error(w, http.StatusInternalServerError, "internal", "failed to fetch shops")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"stores": shops})
}

type orderLogEntry struct {
	ExternalID string    `json:"external_id"`
	ProductID  string    `json:"product_id"`
	VariantID  int64     `json:"variant_id"`
	Quantity   int       `json:"quantity"`
	Country    string    `json:"country,omitempty"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecentOrders returns the latest recorded orders for the admin dashboard.
func (a *App) RecentOrders(w http.ResponseWriter, r *http.Request) {
	if a.SQL == nil {
		a.json(w, http.StatusOK, map[string]any{"orders": []orderLogEntry{}})
		return
	}
	rows, err := a.SQL.Query(r.Context(), sqlinline.QSelectRecentOrders, 50)
	if err != nil {
		a.Logger.Error().Err(err).Msg("order log query failed")
		a.error(w, http.StatusInternalServerError, "internal", "order log query failed")
		return
	}
	defer rows.Close()

	orders := make([]orderLogEntry, 0, 50)
	for rows.Next() {
		var entry orderLogEntry
		if err := rows.Scan(&entry.ExternalID, &entry.ProductID, &entry.VariantID, &entry.Quantity, &entry.Country, &entry.Source, &entry.CreatedAt); err != nil {
			a.Logger.Error().Err(err).Msg("order log scan failed")
			a.error(w, http.StatusInternalServerError, "internal", "order log query failed")
			return
		}
		orders = append(orders, entry)
	}
	if err := rows.Err(); err != nil {
		a.Logger.Error().Err(err).Msg("order log query failed")
		a.error(w, http.StatusInternalServerError, "internal", "order log query failed")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"orders": orders})
}
