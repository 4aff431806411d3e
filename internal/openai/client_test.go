package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/httpx"
)

func TestGenerateImage(t *testing.T) {
	payload := []byte("fake-png-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		var req generationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "gpt-image-1" || req.Size != "1024x1024" || req.ResponseFormat != "b64_json" {
			t.Errorf("unexpected request %+v", req)
		}
		if req.Prompt != "a red fox" {
			t.Errorf("unexpected prompt %q", req.Prompt)
		}
		fmt.Fprintf(w, `{"data":[{"b64_json":%q}]}`, base64.StdEncoding.EncodeToString(payload))
	}))
	defer srv.Close()

	client := NewClient(Options{APIKey: "sk-test", BaseURL: srv.URL})
	data, err := client.GenerateImage(context.Background(), "a red fox")
	if err != nil {
		t.Fatalf("GenerateImage error: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("decoded bytes mismatch: %q", data)
	}
}

func TestGenerateImage_EmptyDataIsShapeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := NewClient(Options{APIKey: "sk-test", BaseURL: srv.URL})
	_, err := client.GenerateImage(context.Background(), "prompt")
	var shape *httpx.ShapeError
	if !errors.As(err, &shape) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
}

func TestGenerateImage_EmptyB64IsShapeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"b64_json":""}]}`))
	}))
	defer srv.Close()

	client := NewClient(Options{APIKey: "sk-test", BaseURL: srv.URL})
	_, err := client.GenerateImage(context.Background(), "prompt")
	var shape *httpx.ShapeError
	if !errors.As(err, &shape) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
}

func TestGenerateImage_StatusErrorPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(Options{APIKey: "sk-test", BaseURL: srv.URL})
	_, err := client.GenerateImage(context.Background(), "prompt")
	var status *httpx.StatusError
	if !errors.As(err, &status) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if status.Status != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", status.Status)
	}
}

func TestGenerateImage_MissingKey(t *testing.T) {
	client := NewClient(Options{})
	if _, err := client.GenerateImage(context.Background(), "prompt"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestGenerateImage_EmptyPrompt(t *testing.T) {
	client := NewClient(Options{APIKey: "sk-test"})
	if _, err := client.GenerateImage(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}
