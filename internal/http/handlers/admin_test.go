package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"storefront/internal/middleware"
)

func TestAdminLogin(t *testing.T) {
	app := newTestApp("")
	app.AdminToken = "super-secret"

	rec := httptest.NewRecorder()
	app.AdminLogin(rec, postForm("/api/admin/login", url.Values{"token": {"super-secret"}}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			session = c
		}
	}
	if session == nil {
		t.Fatal("session cookie not set")
	}
	if session.Value != middleware.SessionCookieValue("super-secret") {
		t.Fatalf("unexpected cookie value %q", session.Value)
	}
	if !session.HttpOnly || session.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie attributes wrong: %+v", session)
	}
	if session.MaxAge != 30*24*3600 {
		t.Fatalf("expected 30 day max age, got %d", session.MaxAge)
	}
}

func TestAdminLogin_WrongToken(t *testing.T) {
	app := newTestApp("")
	app.AdminToken = "super-secret"

	rec := httptest.NewRecorder()
	app.AdminLogin(rec, postForm("/api/admin/login", url.Values{"token": {"guess"}}))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("no cookie must be set on failure")
	}
}

func TestAdminLogin_MissingToken(t *testing.T) {
	app := newTestApp("")
	app.AdminToken = "super-secret"
	rec := httptest.NewRecorder()
	app.AdminLogin(rec, postForm("/api/admin/login", url.Values{}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminLogin_NotConfigured(t *testing.T) {
	app := newTestApp("")
	rec := httptest.NewRecorder()
	app.AdminLogin(rec, postForm("/api/admin/login", url.Values{"token": {"x"}}))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestAdminLogout_ExpiresCookie(t *testing.T) {
	app := newTestApp("")
	rec := httptest.NewRecorder()
	app.AdminLogout(rec, httptest.NewRequest("POST", "/api/admin/logout", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("expected expiring cookie, got %+v", cookies)
	}
}

func TestAllowlistEndpoints(t *testing.T) {
	app := newTestApp("")

	rec := httptest.NewRecorder()
	app.EnableProduct(rec, httptest.NewRequest("POST", "/api/admin/products", strings.NewReader(`{"product_id":"p7"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("enable: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	app.GetAllowlist(rec, httptest.NewRequest("GET", "/api/admin/products", nil))
	var body struct {
		Enabled []string `json:"enabled"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Enabled) != 1 || body.Enabled[0] != "p7" {
		t.Fatalf("unexpected allowlist %v", body.Enabled)
	}

	rec = httptest.NewRecorder()
	app.DisableProduct(rec, httptest.NewRequest("DELETE", "/api/admin/products", strings.NewReader(`{"product_id":"p7"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("disable: expected 200, got %d", rec.Code)
	}
	set, err := app.Allowlist.Enabled(context.Background())
	if err != nil {
		t.Fatalf("Enabled error: %v", err)
	}
	if len(set) != 0 {
		t.Fatalf("expected empty set after disable, got %v", set)
	}
}

func TestAllowlistEndpoints_RequireProductID(t *testing.T) {
	app := newTestApp("")
	for _, payload := range []string{`{}`, `not json`, `{"product_id":""}`} {
		rec := httptest.NewRecorder()
		app.EnableProduct(rec, httptest.NewRequest("POST", "/api/admin/products", strings.NewReader(payload)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %q: expected 400, got %d", payload, rec.Code)
		}
	}
}

func TestListShops(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shops.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id":123,"title":"My Shop"}]`))
	}))
	defer srv.Close()
	app := newTestApp(srv.URL)

	rec := httptest.NewRecorder()
	app.ListShops(rec, httptest.NewRequest("GET", "/api/admin/stores", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "My Shop") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestListShops_NoToken(t *testing.T) {
	app := newTestApp("")
	rec := httptest.NewRecorder()
	app.ListShops(rec, httptest.NewRequest("GET", "/api/admin/stores", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminRoutesRejectAnonymous(t *testing.T) {
	handler := middleware.RequireAdmin("tok")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/admin/products", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
