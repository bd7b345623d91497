package stock

import (
	"fmt"
	"time"
)

// Status is the observed availability of a product.
type Status string

const (
	StatusInStock    Status = "in_stock"
	StatusOutOfStock Status = "out_of_stock"
)

// Observation is the result of a single availability check.
type Observation struct {
	ProductID  string
	Status     Status
	Price      string
	ObservedAt time.Time
}

// Rule describes how availability is read from a product page.
// Zero-value fields fall back to the defaults below.
type Rule struct {
	SoldOutSelector string `json:"sold_out_selector,omitempty" yaml:"sold_out_selector,omitempty"`
	SoldOutText     string `json:"sold_out_text,omitempty" yaml:"sold_out_text,omitempty"`
	AddToCart       string `json:"add_to_cart,omitempty" yaml:"add_to_cart,omitempty"`
	Price           string `json:"price,omitempty" yaml:"price,omitempty"`
}

const (
	defaultSoldOutSelector = "div.alert.alert-danger"
	defaultSoldOutText     = "sold out"
)

func (r Rule) soldOutSelector() string {
	if r.SoldOutSelector != "" {
		return r.SoldOutSelector
	}
	return defaultSoldOutSelector
}

func (r Rule) soldOutText() string {
	if r.SoldOutText != "" {
		return r.SoldOutText
	}
	return defaultSoldOutText
}

// ParseError reports a page whose expected markers are missing. It signals a
// likely page-structure change, not an out-of-stock product.
type ParseError struct {
	ProductID string
	Reason    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.ProductID, e.Reason)
}
