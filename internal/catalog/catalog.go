// Package catalog loads and validates the list of monitored products.
package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nholik/stock-sentinel/internal/stock"
)

// PincodeSelectors locate the location modal on storefronts that gate
// availability behind a delivery pincode.
type PincodeSelectors struct {
	Modal  string `json:"modal,omitempty" yaml:"modal,omitempty"`
	Input  string `json:"input,omitempty" yaml:"input,omitempty"`
	Submit string `json:"submit,omitempty" yaml:"submit,omitempty"`
}

const (
	defaultPincodeModal = "#locationWidgetModal"
	defaultPincodeInput = "#search"
)

// Modal returns the modal selector or its default.
func (s PincodeSelectors) ModalSelector() string {
	if s.Modal != "" {
		return s.Modal
	}
	return defaultPincodeModal
}

// InputSelector returns the pincode input selector or its default.
func (s PincodeSelectors) InputSelector() string {
	if s.Input != "" {
		return s.Input
	}
	return defaultPincodeInput
}

// Product describes a single monitored product. Immutable for the run.
type Product struct {
	ID               string           `json:"id" yaml:"id"`
	Name             string           `json:"name" yaml:"name"`
	URL              string           `json:"url" yaml:"url"`
	Headless         bool             `json:"headless,omitempty" yaml:"headless,omitempty"`
	Pincode          string           `json:"pincode,omitempty" yaml:"pincode,omitempty"`
	PincodeSelectors PincodeSelectors `json:"pincode_selectors,omitempty" yaml:"pincode_selectors,omitempty"`
	Rule             stock.Rule       `json:"rule,omitempty" yaml:"rule,omitempty"`
}

func validateProducts(products []Product) error {
	if len(products) == 0 {
		return fmt.Errorf("product list is empty")
	}

	seen := make(map[string]bool)

	for i := range products {
		p := &products[i]
		if p.ID == "" {
			p.ID = slugify(p.Name)
		}
		if p.ID == "" {
			return fmt.Errorf("product %d: id or name is required", i)
		}
		if p.Name == "" {
			p.Name = p.ID
		}
		if p.URL == "" {
			return fmt.Errorf("product %q: url is required", p.ID)
		}
		if err := validateHTTPURL(p.URL); err != nil {
			return fmt.Errorf("product %q: %w", p.ID, err)
		}
		if seen[p.ID] {
			return fmt.Errorf("product %q: duplicate id", p.ID)
		}
		seen[p.ID] = true
	}

	return nil
}

func validateHTTPURL(value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid url: scheme must be http or https")
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid url: missing host")
	}
	return nil
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}
