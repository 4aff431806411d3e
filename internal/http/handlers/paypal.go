package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"storefront/internal/httpx"
	"storefront/internal/paypal"
	"storefront/internal/printify"
)

type checkoutDetails struct {
	ProductID string `json:"product_id"`
	VariantID int64  `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// CreatePayPalOrder prices a line item from the live catalog and opens a
// PayPal order for it. The line item rides along in custom_id so capture can
// reconstruct it without server-side state.
func (a *App) CreatePayPalOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if a.PayPal == nil || !a.PayPal.Configured() {
		a.error(w, http.StatusInternalServerError, "internal", "paypal credentials not configured")
		return
	}

	var details checkoutDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if details.ProductID == "" || details.VariantID == 0 || details.Quantity < 1 {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid order parameters")
		return
	}

	product, err := a.Printify.GetProduct(ctx, details.ProductID)
	if err != nil {
		a.Logger.Error().Err(err).Str("product_id", details.ProductID).Msg("product lookup failed")
		if httpx.IsUnavailable(err) {
			a.error(w, http.StatusServiceUnavailable, "unavailable", "catalog unreachable")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to fetch product")
		return
	}
	variant, ok := product.FindVariant(details.VariantID)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "variant not found")
		return
	}

	description := product.Title
	if variant.Title != "" {
		description += " - " + variant.Title
	}
	customID, _ := json.Marshal(details)
	totalCents := variant.Price * details.Quantity

	orderID, err := a.PayPal.CreateOrder(ctx, []paypal.PurchaseUnit{{
		Description: description,
		Amount: paypal.Amount{
			CurrencyCode: "USD",
			Value:        fmt.Sprintf("%.2f", float64(totalCents)/100),
		},
		CustomID: string(customID),
	}})
	if err != nil {
		a.Logger.Error().Err(err).Msg("paypal order creation failed")
		if httpx.IsUnavailable(err) {
			a.error(w, http.StatusServiceUnavailable, "unavailable", "paypal unreachable")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to create paypal order")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"id": orderID})
}

// CapturePayPalOrder captures an approved PayPal order and places the
// matching Printify order. A capture that succeeds but fails fulfillment is
// reported with ok=false so the payment is not silently lost.
func (a *App) CapturePayPalOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if a.PayPal == nil || !a.PayPal.Configured() {
		a.error(w, http.StatusInternalServerError, "internal", "paypal credentials not configured")
		return
	}

	var req struct {
		OrderID  string           `json:"orderID"`
		Shipping printify.Address `json:"shipping_data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.OrderID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "order id required")
		return
	}

	capture, err := a.PayPal.CaptureOrder(ctx, req.OrderID)
	if err != nil {
		a.Logger.Error().Err(err).Str("paypal_order_id", req.OrderID).Msg("paypal capture failed")
		if httpx.IsUnavailable(err) {
			a.error(w, http.StatusServiceUnavailable, "unavailable", "paypal unreachable")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to capture paypal payment")
		return
	}
	if capture.Status != "COMPLETED" {
		a.error(w, http.StatusBadRequest, "bad_request", "payment not completed")
		return
	}

	if len(capture.PurchaseUnits) == 0 || capture.PurchaseUnits[0].CustomID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "order details not found")
		return
	}
	var details checkoutDetails
	if err := json.Unmarshal([]byte(capture.PurchaseUnits[0].CustomID), &details); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid order details")
		return
	}

	order := printify.OrderRequest{
		ExternalID: "paypal-" + req.OrderID,
		LineItems: []printify.OrderLineItem{{
			ProductID: details.ProductID,
			VariantID: details.VariantID,
			Quantity:  details.Quantity,
		}},
		AddressTo:                req.Shipping,
		SendShippingNotification: true,
	}
	created, err := a.Printify.CreateOrder(ctx, order)
	if err != nil {
		// Payment is captured; surface the failure for manual follow-up
		// instead of pretending the checkout succeeded.
		a.Logger.Error().Err(err).Str("external_id", order.ExternalID).Msg("fulfillment after capture failed")
		a.json(w, http.StatusInternalServerError, map[string]any{
			"ok":     false,
			"error":  "payment processed but order creation failed",
			"paypal": capture.Raw,
		})
		return
	}

	a.logOrder(ctx, order.ExternalID, details.ProductID, details.VariantID, details.Quantity, req.Shipping.Country, "paypal", created)
	a.json(w, http.StatusOK, map[string]any{
		"ok":       true,
		"paypal":   capture.Raw,
		"printify": created,
	})
}
