package stock

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Extract reads a product's availability from rendered page HTML.
//
// When the rule has an add-to-cart selector, a present and enabled control
// means in stock and a disabled one means out of stock. Otherwise the
// sold-out alert decides: an alert containing the sold-out text means out of
// stock, and its absence means in stock. A page with neither marker while an
// add-to-cart selector was configured is a ParseError.
func Extract(productID string, body []byte, rule Rule, observedAt time.Time) (Observation, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Observation{}, &ParseError{ProductID: productID, Reason: "empty page body"}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Observation{}, &ParseError{ProductID: productID, Reason: fmt.Sprintf("parse html: %v", err)}
	}

	obs := Observation{
		ProductID:  productID,
		ObservedAt: observedAt,
		Price:      extractPrice(doc, rule),
	}

	soldOut := findSoldOutAlert(doc, rule)

	if rule.AddToCart != "" {
		control := doc.Find(rule.AddToCart).First()
		if control.Length() == 0 {
			if soldOut {
				obs.Status = StatusOutOfStock
				return obs, nil
			}
			return Observation{}, &ParseError{
				ProductID: productID,
				Reason:    fmt.Sprintf("add-to-cart control %q not found", rule.AddToCart),
			}
		}
		if controlDisabled(control) {
			obs.Status = StatusOutOfStock
			return obs, nil
		}
		obs.Status = StatusInStock
		return obs, nil
	}

	if soldOut {
		obs.Status = StatusOutOfStock
		return obs, nil
	}

	// No sold-out alert present: the storefront only renders the alert for
	// unavailable products, so treat the page as in stock.
	obs.Status = StatusInStock
	return obs, nil
}

func findSoldOutAlert(doc *goquery.Document, rule Rule) bool {
	marker := strings.ToLower(rule.soldOutText())
	found := false
	doc.Find(rule.soldOutSelector()).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(sel.Text()), marker) {
			found = true
			return false
		}
		return true
	})
	return found
}

func controlDisabled(sel *goquery.Selection) bool {
	if _, ok := sel.Attr("disabled"); ok {
		return true
	}
	if class, ok := sel.Attr("class"); ok && strings.Contains(class, "disabled") {
		return true
	}
	return false
}

func extractPrice(doc *goquery.Document, rule Rule) string {
	if rule.Price == "" {
		return ""
	}
	return strings.TrimSpace(doc.Find(rule.Price).First().Text())
}
