package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"storefront/internal/printify"
)

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func orderForm() url.Values {
	return url.Values{
		"product_id": {"p1"},
		"variant_id": {"42"},
		"quantity":   {"2"},
		"first_name": {"Ada"},
		"last_name":  {"Lovelace"},
		"email":      {"ada@example.com"},
		"country":    {"GB"},
		"address1":   {"1 Analytical Way"},
		"city":       {"London"},
		"zip":        {"N1 9GU"},
	}
}

func TestCreateOrder(t *testing.T) {
	var captured printify.OrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shops/123/orders.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode order: %v", err)
		}
		w.Write([]byte(`{"id":"order-1"}`))
	}))
	defer srv.Close()
	app := newTestApp(srv.URL)

	rec := httptest.NewRecorder()
	app.CreateOrder(rec, postForm("/api/orders", orderForm()))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if !strings.HasPrefix(captured.ExternalID, "web-") {
		t.Fatalf("expected web- external id, got %q", captured.ExternalID)
	}
	if !captured.SendShippingNotification {
		t.Fatal("shipping notification must be requested")
	}
	if len(captured.LineItems) != 1 || captured.LineItems[0].VariantID != 42 || captured.LineItems[0].Quantity != 2 {
		t.Fatalf("unexpected line items %+v", captured.LineItems)
	}
	if captured.AddressTo.Country != "GB" || captured.AddressTo.City != "London" {
		t.Fatalf("unexpected address %+v", captured.AddressTo)
	}

	var body struct {
		OK      bool           `json:"ok"`
		Created map[string]any `json:"created"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.OK || body.Created["id"] != "order-1" {
		t.Fatalf("unexpected response %+v", body)
	}
}

func TestCreateOrder_Validation(t *testing.T) {
	app := newTestApp("http://unused.invalid")

	cases := map[string]func(url.Values){
		"missing product": func(f url.Values) { f.Del("product_id") },
		"bad variant":     func(f url.Values) { f.Set("variant_id", "abc") },
		"zero quantity":   func(f url.Values) { f.Set("quantity", "0") },
		"bad quantity":    func(f url.Values) { f.Set("quantity", "two") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			form := orderForm()
			mutate(form)
			rec := httptest.NewRecorder()
			app.CreateOrder(rec, postForm("/api/orders", form))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestCreateOrder_Unconfigured(t *testing.T) {
	app := newTestApp("")
	rec := httptest.NewRecorder()
	app.CreateOrder(rec, postForm("/api/orders", orderForm()))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestCreateOrder_UpstreamUnreachable(t *testing.T) {
	app := newTestApp("http://127.0.0.1:1")
	rec := httptest.NewRecorder()
	app.CreateOrder(rec, postForm("/api/orders", orderForm()))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
