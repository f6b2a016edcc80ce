package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/imyashkale/gatewayserver/internal/apierrors"
)

// TestDownload_Success tests fetching a valid spec document
func TestDownload_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"openapi": "3.0.3", "info": {"title": "weather"}}`))
	}))
	defer server.Close()

	f := NewSpecFetcher()
	spec, err := f.Download(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if spec["openapi"] != "3.0.3" {
		t.Errorf("Expected openapi 3.0.3, got %v", spec["openapi"])
	}
}

// TestDownload_Non2xx tests that upstream error statuses surface as
// download errors
func TestDownload_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer server.Close()

	f := NewSpecFetcher()
	_, err := f.Download(context.Background(), server.URL)

	var download *apierrors.DownloadError
	if !errors.As(err, &download) {
		t.Fatalf("Expected DownloadError, got %v", err)
	}
}

// TestDownload_InvalidJSON tests malformed body handling
func TestDownload_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("openapi: 3.0.3"))
	}))
	defer server.Close()

	f := NewSpecFetcher()
	_, err := f.Download(context.Background(), server.URL)

	var download *apierrors.DownloadError
	if !errors.As(err, &download) {
		t.Fatalf("Expected DownloadError for non-JSON body, got %v", err)
	}
}

// TestDownload_UnreachableHost tests connection failure handling
func TestDownload_UnreachableHost(t *testing.T) {
	f := NewSpecFetcher()
	_, err := f.Download(context.Background(), "http://127.0.0.1:1/spec.json")

	var download *apierrors.DownloadError
	if !errors.As(err, &download) {
		t.Fatalf("Expected DownloadError for unreachable host, got %v", err)
	}
}
