package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProductsFile is the parsed YAML structure for file-based configuration:
// products: [{id, name, url, ...}]
type ProductsFile struct {
	Products []Product `yaml:"products"`
}

// Load resolves the product list from an inline JSON document or a YAML file.
// Exactly one source must yield products; the inline JSON takes precedence
// when both are set.
func Load(productsJSON, productsPath string) ([]Product, error) {
	if productsJSON != "" {
		return ParseJSON([]byte(productsJSON))
	}
	if productsPath != "" {
		return LoadFile(productsPath)
	}
	return nil, fmt.Errorf("no products configured")
}

// ParseJSON parses a JSON array of products, as supplied via the environment.
func ParseJSON(data []byte) ([]Product, error) {
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse products json: %w", err)
	}
	if err := validateProducts(products); err != nil {
		return nil, err
	}
	return products, nil
}

// LoadFile parses a YAML products file from the given path.
func LoadFile(path string) ([]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read products file: %w", err)
	}

	var pf ProductsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse products file: %w", err)
	}

	if err := validateProducts(pf.Products); err != nil {
		return nil, err
	}

	return pf.Products, nil
}
