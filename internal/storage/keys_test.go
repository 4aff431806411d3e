package storage

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestNewObjectKey_Format(t *testing.T) {
	now := time.Unix(1700000000, 0)
	key, err := NewObjectKey("printify-generated", now)
	if err != nil {
		t.Fatalf("NewObjectKey error: %v", err)
	}
	pattern := regexp.MustCompile(`^printify-generated/1700000000-[0-9a-f]{8}\.png$`)
	if !pattern.MatchString(key) {
		t.Fatalf("key %q does not match expected format", key)
	}
}

func TestNewObjectKey_DefaultPrefix(t *testing.T) {
	key, err := NewObjectKey("  ", time.Unix(1, 0))
	if err != nil {
		t.Fatalf("NewObjectKey error: %v", err)
	}
	if !strings.HasPrefix(key, "printify-generated/") {
		t.Fatalf("expected default prefix, got %q", key)
	}
}

func TestNewObjectKey_TrimsSlashes(t *testing.T) {
	key, err := NewObjectKey("/art/daily/", time.Unix(2, 0))
	if err != nil {
		t.Fatalf("NewObjectKey error: %v", err)
	}
	if !strings.HasPrefix(key, "art/daily/2-") {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestNewObjectKey_Unique(t *testing.T) {
	now := time.Unix(1700000000, 0)
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		key, err := NewObjectKey("p", now)
		if err != nil {
			t.Fatalf("NewObjectKey error: %v", err)
		}
		if seen[key] {
			t.Fatalf("duplicate key after %d iterations: %s", i, key)
		}
		seen[key] = true
	}
}
