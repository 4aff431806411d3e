package catalog

import (
	"context"
	"testing"
)

func TestAllowlist_EmptyByDefault(t *testing.T) {
	al := NewAllowlist(NewMemoryKV())
	set, err := al.Enabled(context.Background())
	if err != nil {
		t.Fatalf("Enabled error: %v", err)
	}
	if len(set) != 0 {
		t.Fatalf("expected empty set, got %v", set)
	}
}

func TestAllowlist_EnableDisable(t *testing.T) {
	ctx := context.Background()
	al := NewAllowlist(NewMemoryKV())

	if err := al.Enable(ctx, "prod-1"); err != nil {
		t.Fatalf("Enable error: %v", err)
	}
	if err := al.Enable(ctx, "prod-2"); err != nil {
		t.Fatalf("Enable error: %v", err)
	}
	set, err := al.Enabled(ctx)
	if err != nil {
		t.Fatalf("Enabled error: %v", err)
	}
	if !set["prod-1"] || !set["prod-2"] || len(set) != 2 {
		t.Fatalf("unexpected set %v", set)
	}

	if err := al.Disable(ctx, "prod-1"); err != nil {
		t.Fatalf("Disable error: %v", err)
	}
	set, err = al.Enabled(ctx)
	if err != nil {
		t.Fatalf("Enabled error: %v", err)
	}
	if set["prod-1"] || !set["prod-2"] {
		t.Fatalf("unexpected set after disable %v", set)
	}
}

func TestAllowlist_StoredAsSortedJSONArray(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	al := NewAllowlist(kv)
	if err := al.SetEnabled(ctx, map[string]bool{"b": true, "a": true, "": true, "skip": false}); err != nil {
		t.Fatalf("SetEnabled error: %v", err)
	}
	raw, err := kv.Get(ctx, allowlistKey)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if raw != `["a","b"]` {
		t.Fatalf("unexpected stored value %q", raw)
	}
}

func TestAllowlist_MalformedValueReadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	if err := kv.Set(ctx, allowlistKey, "{not json"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	al := NewAllowlist(kv)
	set, err := al.Enabled(ctx)
	if err != nil {
		t.Fatalf("Enabled error: %v", err)
	}
	if len(set) != 0 {
		t.Fatalf("expected empty set for malformed value, got %v", set)
	}
}
