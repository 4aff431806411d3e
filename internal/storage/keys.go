package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// NewObjectKey builds a per-run-unique, sortable object key of the form
// {prefix}/{unix-seconds}-{8-hex-random}.png. The timestamp keeps listings
// ordered; the random suffix avoids collisions between runs in the same
// second without a coordination step.
func NewObjectKey(prefix string, now time.Time) (string, error) {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = "printify-generated"
	}
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("storage: random suffix: %w", err)
	}
	return fmt.Sprintf("%s/%d-%s.png", prefix, now.Unix(), hex.EncodeToString(suffix)), nil
}
