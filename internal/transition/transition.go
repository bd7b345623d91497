// Package transition detects availability changes between runs.
package transition

import (
	"time"

	"github.com/nholik/stock-sentinel/internal/catalog"
	"github.com/nholik/stock-sentinel/internal/state"
	"github.com/nholik/stock-sentinel/internal/stock"
)

// Kind classifies an availability transition.
type Kind string

const (
	// KindRestock is the unavailable → available transition.
	KindRestock Kind = "restock"
	// KindOutOfStock is the available → unavailable transition.
	KindOutOfStock Kind = "out_of_stock"
)

// Transition captures a status change with the product details needed to
// notify about it. Ephemeral: constructed, dispatched, discarded.
type Transition struct {
	ProductID  string
	Name       string
	URL        string
	Previous   stock.Status
	Current    stock.Status
	Kind       Kind
	Price      string
	ObservedAt time.Time
}

// Detect compares the stored snapshot for a product against a fresh
// observation. The first observation for a product never yields a transition;
// it only seeds the store. An unchanged status yields nothing.
func Detect(prev state.State, product catalog.Product, obs stock.Observation) (Transition, bool) {
	snapshot, ok := prev.Products[product.ID]
	if !ok {
		return Transition{}, false
	}
	if snapshot.Status == obs.Status {
		return Transition{}, false
	}

	kind := KindOutOfStock
	if obs.Status == stock.StatusInStock {
		kind = KindRestock
	}

	return Transition{
		ProductID:  product.ID,
		Name:       product.Name,
		URL:        product.URL,
		Previous:   snapshot.Status,
		Current:    obs.Status,
		Kind:       kind,
		Price:      obs.Price,
		ObservedAt: obs.ObservedAt,
	}, true
}
