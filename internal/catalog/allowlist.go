// Package catalog maintains the curated set of product ids an administrator
// has enabled for the storefront. The set lives under a single KV key as a
// JSON array of id strings.
package catalog

import (
	"context"
	"encoding/json"
	"sort"
)

const allowlistKey = "enabled_product_ids"

// KV is the small key-value contract the allowlist needs. Get returns an
// empty string (not an error) for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Allowlist reads and mutates the enabled-product set.
type Allowlist struct {
	kv KV
}

func NewAllowlist(kv KV) *Allowlist {
	return &Allowlist{kv: kv}
}

// Enabled returns the set of enabled product ids. A missing key or a value
// that fails to parse yields an empty set; curation is best-effort and an
// empty set falls back to visibility-based listing.
func (a *Allowlist) Enabled(ctx context.Context) (map[string]bool, error) {
	raw, err := a.kv.Get(ctx, allowlistKey)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	if raw == "" {
		return set, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return set, nil
	}
	for _, id := range ids {
		if id != "" {
			set[id] = true
		}
	}
	return set, nil
}

// SetEnabled replaces the stored set.
func (a *Allowlist) SetEnabled(ctx context.Context, ids map[string]bool) error {
	list := make([]string, 0, len(ids))
	for id, ok := range ids {
		if ok && id != "" {
			list = append(list, id)
		}
	}
	sort.Strings(list)
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return a.kv.Set(ctx, allowlistKey, string(raw))
}

// Enable adds a product id to the set.
func (a *Allowlist) Enable(ctx context.Context, id string) error {
	set, err := a.Enabled(ctx)
	if err != nil {
		return err
	}
	set[id] = true
	return a.SetEnabled(ctx, set)
}

// Disable removes a product id from the set.
func (a *Allowlist) Disable(ctx context.Context, id string) error {
	set, err := a.Enabled(ctx)
	if err != nil {
		return err
	}
	delete(set, id)
	return a.SetEnabled(ctx, set)
}
