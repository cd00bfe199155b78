package snapshot

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/models"
)

// HTTPFetcher GETs the snapshot from URL.
type HTTPFetcher struct {
	URL    string
	client *http.Client
}

// NewHTTPFetcher uses http.DefaultClient when client is nil.
func NewHTTPFetcher(url string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{URL: url, client: client}
}

func (f *HTTPFetcher) FetchUsers(ctx context.Context) ([]models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build snapshot request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get snapshot: unexpected status %d", resp.StatusCode)
	}
	return decode(resp.Body)
}
