// Package fetch retrieves product pages for availability checks.
package fetch

import (
	"context"
	"fmt"

	"github.com/nholik/stock-sentinel/internal/catalog"
)

// Page contains the fetched page content and response metadata.
type Page struct {
	Body       []byte
	FinalURL   string
	StatusCode int
}

// Fetcher retrieves a product page.
type Fetcher interface {
	Fetch(ctx context.Context, product catalog.Product) (Page, error)
}

// ErrorKind classifies fetch failures.
type ErrorKind string

const (
	KindNetwork ErrorKind = "network"
	KindStatus  ErrorKind = "status"
	KindRender  ErrorKind = "render"
)

// Error reports a failed page retrieval. It is never conflated with an
// out-of-stock observation.
type Error struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
