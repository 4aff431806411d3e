package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"storefront/internal/storage"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// ServeAsset serves a locally stored artwork file behind its signed URL.
// Only used with the filesystem blob driver; cloud drivers hand out direct
// signed URLs instead.
func (a *App) ServeAsset(w http.ResponseWriter, r *http.Request) {
	if a.Files == nil {
		a.error(w, http.StatusNotFound, "not_found", "asset serving disabled")
		return
	}
	key := chi.URLParam(r, "*")
	query := r.URL.Query()
	err := a.Files.Verify(key, query.Get("expires"), query.Get("sig"), timeNow())
	switch {
	case errors.Is(err, storage.ErrURLExpired):
		a.error(w, http.StatusGone, "expired", "signed url expired")
		return
	case err != nil:
		a.error(w, http.StatusForbidden, "forbidden", "invalid signature")
		return
	}
	path, err := a.Files.Open(key)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "asset not found")
		return
	}
	http.ServeFile(w, r, path)
}
