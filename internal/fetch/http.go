package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nholik/stock-sentinel/internal/catalog"
)

const defaultMaxBytes int64 = 5 << 20

// HTTPFetcher retrieves product pages with a plain HTTP client. Suitable for
// storefronts that render availability server-side.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// NewHTTPFetcher constructs an HTTPFetcher with the given timeout and user agent.
func NewHTTPFetcher(timeout time.Duration, userAgent string, maxBytes int64) (*HTTPFetcher, error) {
	if timeout <= 0 {
		return nil, errors.New("timeout must be greater than zero")
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}, nil
}

// Fetch downloads the product page.
func (f *HTTPFetcher) Fetch(ctx context.Context, product catalog.Product) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, product.URL, http.NoBody)
	if err != nil {
		return Page{}, fmt.Errorf("create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return Page{}, &Error{Kind: KindNetwork, URL: product.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Page{}, &Error{Kind: KindStatus, URL: product.URL, StatusCode: resp.StatusCode}
	}

	body, err := readWithLimit(resp.Body, f.maxBytes)
	if err != nil {
		return Page{}, &Error{Kind: KindNetwork, URL: product.URL, Err: err}
	}

	finalURL := product.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return Page{
		Body:       body,
		FinalURL:   finalURL,
		StatusCode: resp.StatusCode,
	}, nil
}

func readWithLimit(r io.Reader, maxBytes int64) ([]byte, error) {
	limited := io.LimitReader(r, maxBytes+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > maxBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", maxBytes)
	}
	return body, nil
}
