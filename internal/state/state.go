package state

import (
	"context"
	"time"

	"github.com/nholik/stock-sentinel/internal/stock"
)

// ProductSnapshot captures the last-seen availability for a product.
type ProductSnapshot struct {
	Status    stock.Status `json:"status"`
	Price     string       `json:"price,omitempty"`
	CheckedAt time.Time    `json:"checked_at"`
}

// State stores snapshots for all monitored products.
type State struct {
	Products map[string]ProductSnapshot `json:"products"`
}

// Store defines the interface for persisting state between runs.
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}
