package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/imyashkale/gatewayserver/internal/apierrors"
)

// descriptor downloads are caller-driven, so they carry an explicit bound
// instead of relying on client defaults
const specDownloadTimeout = 10 * time.Second

// SpecFetcher downloads OpenAPI descriptors from caller-supplied URLs
type SpecFetcher struct {
	client *http.Client
}

// NewSpecFetcher creates a new spec fetcher with a bounded timeout
func NewSpecFetcher() *SpecFetcher {
	return &SpecFetcher{
		client: &http.Client{Timeout: specDownloadTimeout},
	}
}

// Download fetches and parses an OpenAPI spec from the given URL.
// Timeouts, non-2xx responses, and malformed JSON all surface as
// DownloadError since the URL was caller-provided.
func (f *SpecFetcher) Download(ctx context.Context, specURL string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, specURL, nil)
	if err != nil {
		return nil, &apierrors.DownloadError{URL: specURL, Message: err.Error(), Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &apierrors.DownloadError{URL: specURL, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apierrors.DownloadError{
			URL:     specURL,
			Message: fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	var spec map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&spec); err != nil {
		return nil, &apierrors.DownloadError{URL: specURL, Message: "invalid JSON in OpenAPI spec", Err: err}
	}

	return spec, nil
}
