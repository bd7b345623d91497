package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseJSON_Valid(t *testing.T) {
	data := []byte(`[
		{"id":"buttermilk","name":"High Protein Buttermilk","url":"https://shop.example.com/buttermilk","headless":true,"pincode":"110001"},
		{"name":"Whey Protein","url":"https://shop.example.com/whey"}
	]`)

	products, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].ID != "buttermilk" || !products[0].Headless {
		t.Fatalf("unexpected first product: %+v", products[0])
	}
	if products[1].ID != "whey-protein" {
		t.Fatalf("expected slugified id, got %q", products[1].ID)
	}
	if products[1].Name != "Whey Protein" {
		t.Fatalf("unexpected name: %q", products[1].Name)
	}
}

func TestParseJSON_Invalid(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"malformed json", `{not-json`},
		{"empty list", `[]`},
		{"missing url", `[{"id":"a"}]`},
		{"missing id and name", `[{"url":"https://example.com/p"}]`},
		{"bad scheme", `[{"id":"a","url":"ftp://example.com/p"}]`},
		{"duplicate ids", `[{"id":"a","url":"https://example.com/1"},{"id":"a","url":"https://example.com/2"}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseJSON([]byte(tc.data)); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.yml")
	content := `products:
  - id: buttermilk
    name: High Protein Buttermilk
    url: https://shop.example.com/buttermilk
    rule:
      sold_out_selector: div.alert.alert-danger
      price: .product-price
  - id: lassi
    url: https://shop.example.com/lassi
    headless: true
    pincode: "110001"
    pincode_selectors:
      modal: "#locationWidgetModal"
      input: "#search"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write products file: %v", err)
	}

	products, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].Rule.Price != ".product-price" {
		t.Fatalf("unexpected rule: %+v", products[0].Rule)
	}
	if products[1].Pincode != "110001" {
		t.Fatalf("unexpected pincode: %q", products[1].Pincode)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.yml")
	if err := os.WriteFile(path, []byte("products:\n  - id: file\n    url: https://example.com/file\n"), 0o600); err != nil {
		t.Fatalf("write products file: %v", err)
	}

	products, err := Load(`[{"id":"inline","url":"https://example.com/inline"}]`, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(products) != 1 || products[0].ID != "inline" {
		t.Fatalf("expected inline json to win, got %+v", products)
	}
}

func TestLoad_NoSource(t *testing.T) {
	if _, err := Load("", ""); err == nil {
		t.Fatalf("expected error when no product source configured")
	}
}

func TestPincodeSelectorDefaults(t *testing.T) {
	var s PincodeSelectors
	if s.ModalSelector() != "#locationWidgetModal" {
		t.Fatalf("unexpected default modal selector: %q", s.ModalSelector())
	}
	if s.InputSelector() != "#search" {
		t.Fatalf("unexpected default input selector: %q", s.InputSelector())
	}

	s = PincodeSelectors{Modal: ".modal", Input: "#pin"}
	if s.ModalSelector() != ".modal" || s.InputSelector() != "#pin" {
		t.Fatalf("expected overrides to win: %+v", s)
	}
}
