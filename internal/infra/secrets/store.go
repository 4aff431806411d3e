// Package secrets resolves credential values from the secrets table by an
// opaque reference. Values are resolved fresh on every call; the publishing
// job runs at most a few times per hour, so no cache is kept.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/infra"
	"storefront/internal/sqlinline"
)

// ErrNotFound indicates no secret exists under the given reference.
var ErrNotFound = errors.New("secrets: not found")

// ErrNoValue indicates a secret row exists but carries neither a text nor a
// binary value.
var ErrNoValue = errors.New("secrets: secret has no value")

type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// Resolve returns the secret's string value with surrounding whitespace
// trimmed. Binary values are decoded as UTF-8.
func (s *Store) Resolve(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("secrets: reference is required")
	}
	row := s.sql.QueryRow(ctx, sqlinline.QSelectSecret, ref)
	var text *string
	var binary []byte
	if err := row.Scan(&text, &binary); err != nil {
		if infra.IsNoRows(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
		}
		return "", err
	}
	if text != nil && *text != "" {
		return strings.TrimSpace(*text), nil
	}
	if len(binary) > 0 {
		return strings.TrimSpace(string(binary)), nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoValue, ref)
}

// Set upserts a secret value under the given reference. Used by operators to
// seed credentials; the pipeline itself only reads.
func (s *Store) Set(ctx context.Context, ref, value string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return fmt.Errorf("secrets: reference is required")
	}
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("secrets: value is required")
	}
	_, err := s.sql.Exec(ctx, sqlinline.QUpsertSecret, ref, value)
	return err
}
