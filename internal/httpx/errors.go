package httpx

import (
	"errors"
	"fmt"
	"time"
)

// StatusError reports a response with a status outside [200,300).
type StatusError struct {
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d calling %s: %s", e.Status, e.URL, e.Body)
}

// ParseError reports malformed JSON on an otherwise successful response.
type ParseError struct {
	URL  string
	Body string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse JSON from %s: %v; body=%s", e.URL, e.Err, e.Body)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TimeoutError reports a request aborted because its budget elapsed.
type TimeoutError struct {
	URL   string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout after %s calling %s", e.After, e.URL)
}

// TransportError reports a network-level failure (DNS, connection reset).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure calling %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ShapeError reports well-formed JSON missing an expected field. The Body is
// a truncated dump of the offending response.
type ShapeError struct {
	Source string
	Body   string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected %s response: %s", e.Source, e.Body)
}

// IsUnavailable reports whether err indicates the upstream could not be
// reached at all, as opposed to answering with an error.
func IsUnavailable(err error) bool {
	var te *TransportError
	var to *TimeoutError
	return errors.As(err, &te) || errors.As(err, &to)
}
