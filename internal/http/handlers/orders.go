package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"storefront/internal/httpx"
	"storefront/internal/middleware"
	"storefront/internal/printify"
	"storefront/internal/sqlinline"
)

// CreateOrder places a direct (non-PayPal) Printify order from a submitted
// checkout form.
func (a *App) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if a.Printify == nil || !a.Printify.Configured() {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "ordering not configured")
		return
	}

	if err := r.ParseForm(); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "expected form data")
		return
	}

	productID := r.PostFormValue("product_id")
	variantID, variantErr := strconv.ParseInt(r.PostFormValue("variant_id"), 10, 64)
	quantity, quantityErr := strconv.Atoi(r.PostFormValue("quantity"))
	if productID == "" || variantErr != nil || quantityErr != nil || quantity < 1 {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid order line item")
		return
	}

	country := r.PostFormValue("country")
	if country == "" {
		country = middleware.CountryFromContext(ctx)
	}

	order := printify.OrderRequest{
		ExternalID: "web-" + uuid.NewString(),
		LineItems: []printify.OrderLineItem{{
			ProductID: productID,
			VariantID: variantID,
			Quantity:  quantity,
		}},
		AddressTo: printify.Address{
			FirstName: r.PostFormValue("first_name"),
			LastName:  r.PostFormValue("last_name"),
			Email:     r.PostFormValue("email"),
			Phone:     r.PostFormValue("phone"),
			Country:   country,
			Region:    r.PostFormValue("region"),
			Address1:  r.PostFormValue("address1"),
			Address2:  r.PostFormValue("address2"),
			City:      r.PostFormValue("city"),
			Zip:       r.PostFormValue("zip"),
		},
		SendShippingNotification: true,
	}

	created, err := a.Printify.CreateOrder(ctx, order)
	if err != nil {
		a.Logger.Error().Err(err).Str("external_id", order.ExternalID).Msg("order creation failed")
		if httpx.IsUnavailable(err) {
			a.error(w, http.StatusServiceUnavailable, "unavailable", "fulfillment unreachable")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "order creation failed")
		return
	}

	a.logOrder(ctx, order.ExternalID, productID, variantID, quantity, country, "web", created)
	a.json(w, http.StatusOK, map[string]any{"ok": true, "created": created})
}

// logOrder records a placed order for the admin dashboard. Logging is best
// effort; the order already exists upstream.
func (a *App) logOrder(ctx context.Context, externalID, productID string, variantID int64, quantity int, country, source string, response map[string]any) {
	if a.SQL == nil {
		return
	}
	payload, err := json.Marshal(response)
	if err != nil {
		payload = []byte("{}")
	}
	if _, err := a.SQL.Exec(ctx, sqlinline.QInsertOrder,
		externalID, productID, variantID, quantity, country, source, string(payload),
	); err != nil {
		a.Logger.Warn().Err(err).Str("external_id", externalID).Msg("order log insert failed")
	}
}
