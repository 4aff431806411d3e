package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/httpx"
	"storefront/internal/middleware"
	"storefront/internal/pricing"
	"storefront/internal/printify"
)

type variantView struct {
	ID             int64  `json:"id"`
	Title          string `json:"title,omitempty"`
	Price          int    `json:"price"`
	PriceFormatted string `json:"price_formatted"`
	IsDefault      bool   `json:"is_default,omitempty"`
}

type productView struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Image       string        `json:"image,omitempty"`
	Variants    []variantView `json:"variants"`
}

// ListProducts returns the storefront catalog. When the allowlist is
// non-empty only listed products are shown; otherwise every product
// Printify marks visible.
//
// Catalog failures degrade to an empty list so the storefront still renders.
func (a *App) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if a.Printify == nil || !a.Printify.Configured() {
		a.json(w, http.StatusOK, map[string]any{"products": []productView{}})
		return
	}

	visible, err := a.visibleProducts(ctx)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("failed to load storefront products")
		a.json(w, http.StatusOK, map[string]any{"products": []productView{}})
		return
	}

	locale := middleware.LocaleFromContext(ctx)
	views := make([]productView, 0, len(visible))
	for i := range visible {
		views = append(views, newProductView(&visible[i], locale))
	}
	a.json(w, http.StatusOK, map[string]any{"products": views})
}

// GetProduct returns one product with its enabled variants. Products hidden
// from the storefront read as not found.
func (a *App) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if a.Printify == nil || !a.Printify.Configured() {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "catalog not configured")
		return
	}

	id := chi.URLParam(r, "id")
	product, err := a.Printify.GetProduct(ctx, id)
	if err != nil {
		var status *httpx.StatusError
		if errors.As(err, &status) && status.Status == http.StatusNotFound {
			a.error(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		if httpx.IsUnavailable(err) {
			a.error(w, http.StatusServiceUnavailable, "unavailable", "catalog unreachable")
			return
		}
		a.Logger.Error().Err(err).Str("product_id", id).Msg("failed to load product")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load product")
		return
	}

	if !a.storefrontVisible(ctx, product) {
		a.error(w, http.StatusNotFound, "not_found", "product not found")
		return
	}

	view := newProductView(product, middleware.LocaleFromContext(ctx))
	var defaultVariantID *int64
	for _, v := range view.Variants {
		if v.IsDefault {
			id := v.ID
			defaultVariantID = &id
			break
		}
	}
	if defaultVariantID == nil && len(view.Variants) > 0 {
		id := view.Variants[0].ID
		defaultVariantID = &id
	}
	a.json(w, http.StatusOK, map[string]any{
		"product":            view,
		"default_variant_id": defaultVariantID,
	})
}

func (a *App) visibleProducts(ctx context.Context) ([]printify.Product, error) {
	enabled, err := a.Allowlist.Enabled(ctx)
	if err != nil {
		return nil, err
	}
	all, err := a.Printify.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]printify.Product, 0, len(all))
	for _, p := range all {
		if len(enabled) > 0 {
			if enabled[p.ID] {
				out = append(out, p)
			}
		} else if p.IsVisible() {
			out = append(out, p)
		}
	}
	return out, nil
}

// storefrontVisible applies the listing filter to a single product. An
// allowlist read failure falls back to the visibility flag.
func (a *App) storefrontVisible(ctx context.Context, p *printify.Product) bool {
	enabled, err := a.Allowlist.Enabled(ctx)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("allowlist read failed")
		return p.IsVisible()
	}
	if len(enabled) > 0 {
		return enabled[p.ID]
	}
	return p.IsVisible()
}

func newProductView(p *printify.Product, locale string) productView {
	view := productView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Variants:    []variantView{},
	}
	if len(p.Images) > 0 {
		view.Image = p.Images[0].Src
	}
	for _, v := range p.Variants {
		if v.IsEnabled != nil && !*v.IsEnabled {
			continue
		}
		view.Variants = append(view.Variants, variantView{
			ID:             v.ID,
			Title:          v.Title,
			Price:          v.Price,
			PriceFormatted: pricing.FormatCents(v.Price, locale),
			IsDefault:      v.IsDefault,
		})
	}
	return view
}
