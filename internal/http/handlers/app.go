package handlers

import (
	"encoding/json"
	"net/http"

	"storefront/internal/catalog"
	"storefront/internal/infra"
	"storefront/internal/middleware"
	"storefront/internal/paypal"
	"storefront/internal/printify"
	"storefront/internal/storage"
)

// App holds the storefront's handler dependencies.
type App struct {
	Logger    infra.Logger
	SQL       infra.SQLExecutor
	Printify  *printify.Client
	PayPal    *paypal.Client
	Allowlist *catalog.Allowlist
	Files     *storage.FileStore
	Geo       middleware.CountryLookup

	AdminToken    string
	SecureCookies bool
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}
