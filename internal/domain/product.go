package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/daduke1/practica-ecommerce/pkg/errors"
)

// Product is a validated catalog item. Instances are immutable: a Product
// can only be obtained through one of the factory functions below, so every
// live Product satisfies the validation rules. "Changing" a field means
// building a new Product.
type Product struct {
	id          string
	name        string
	price       float64
	description string
	imageURL    string
}

// NewProduct validates and builds a Product. The id is always assigned by
// the catalog source; this layer never generates one.
func NewProduct(id, name string, price float64, description, imageURL string) (Product, error) {
	if id == "" {
		return Product{}, apperrors.InvalidProduct("product id is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Product{}, apperrors.InvalidProduct("product name must not be empty")
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return Product{}, apperrors.InvalidProduct(fmt.Sprintf("product price must be a finite non-negative number, got %v", price))
	}
	return Product{
		id:          id,
		name:        name,
		price:       price,
		description: description,
		imageURL:    imageURL,
	}, nil
}

// FromCatalogRecord builds a Product from an untyped catalog API record.
// The record carries its id under "id" or "_id". Missing description or
// imageUrl default to empty; a missing or invalid name or price rejects the
// whole record.
func FromCatalogRecord(rec map[string]any) (Product, error) {
	id, ok := textValue(rec["id"])
	if !ok || id == "" {
		if id, ok = textValue(rec["_id"]); !ok || id == "" {
			return Product{}, apperrors.InvalidProduct("catalog record has no id")
		}
	}
	return FromStoredAttrs(id, rec)
}

// FromStoredAttrs builds a Product from an id plus an untyped attribute map,
// the shape a persisted cart line stores under its "product" key.
func FromStoredAttrs(id string, attrs map[string]any) (Product, error) {
	name, ok := textValue(attrs["name"])
	if !ok {
		return Product{}, apperrors.InvalidProduct("product name is not text")
	}

	price, err := ParsePrice(attrs["price"])
	if err != nil {
		return Product{}, err
	}

	description := ""
	if v, present := attrs["description"]; present && v != nil {
		if description, ok = textValue(v); !ok {
			return Product{}, apperrors.InvalidProduct("product description is not text")
		}
	}

	imageURL := ""
	if v, present := attrs["imageUrl"]; present && v != nil {
		if imageURL, ok = textValue(v); !ok {
			return Product{}, apperrors.InvalidProduct("product image url is not text")
		}
	}

	return NewProduct(id, name, price, description, imageURL)
}

// ParsePrice normalizes a price from any numeric-looking value: JSON numbers,
// Go numeric types, or numeric strings. The result must be finite and >= 0.
func ParsePrice(v any) (float64, error) {
	var price float64
	switch n := v.(type) {
	case float64:
		price = n
	case float32:
		price = float64(n)
	case int:
		price = float64(n)
	case int64:
		price = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, apperrors.InvalidProduct(fmt.Sprintf("product price %q is not numeric", n.String()))
		}
		price = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, apperrors.InvalidProduct(fmt.Sprintf("product price %q is not numeric", n))
		}
		price = f
	default:
		return 0, apperrors.InvalidProduct("product price is missing or not numeric")
	}

	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, apperrors.InvalidProduct("product price must be finite")
	}
	if price < 0 {
		return 0, apperrors.InvalidProduct(fmt.Sprintf("product price must not be negative, got %v", price))
	}
	return price, nil
}

// ID returns the catalog-assigned identifier.
func (p Product) ID() string { return p.id }

// Name returns the trimmed, non-empty product name.
func (p Product) Name() string { return p.name }

// Price returns the unit price.
func (p Product) Price() float64 { return p.price }

// Description returns the product description, possibly empty.
func (p Product) Description() string { return p.description }

// ImageURL returns the product image URL, possibly empty.
func (p Product) ImageURL() string { return p.imageURL }

// Valid reports whether p was built through a factory. The zero Product is
// not valid and is rejected by cart operations.
func (p Product) Valid() bool { return p.id != "" }

// textValue coerces a raw attribute to a string. Only actual strings pass;
// numbers and other types are not silently stringified.
func textValue(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
