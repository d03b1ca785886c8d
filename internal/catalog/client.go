// Package catalog consumes the remote product API: a generic CRUD service
// holding untyped records. Everything that comes back passes through Product
// validation before it can enter the domain.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/daduke1/practica-ecommerce/internal/domain"
	apperrors "github.com/daduke1/practica-ecommerce/pkg/errors"
	"github.com/daduke1/practica-ecommerce/pkg/httpclient"
)

// Client performs CRUD operations against the catalog API.
type Client struct {
	http    *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a catalog client for the given base URL (the collection
// endpoint, e.g. ".../productos").
func NewClient(baseURL string, hc *httpclient.CircuitBreakerClient, logger *slog.Logger) *Client {
	return &Client{http: hc, baseURL: baseURL, logger: logger}
}

// ProductFields is the payload sent on create and update. It never carries
// an id: product identity is assigned by the catalog source, not by this
// layer.
type ProductFields struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
}

// validate applies the same rules a stored product must satisfy, so invalid
// fields are rejected before they reach the wire.
func (f ProductFields) validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return apperrors.InvalidProduct("product name must not be empty")
	}
	if _, err := domain.ParsePrice(f.Price); err != nil {
		return err
	}
	return nil
}

// List fetches every catalog record and validates each into a Product.
// Records that fail validation are skipped with a log entry rather than
// failing the whole listing.
func (c *Client) List(ctx context.Context) ([]domain.Product, error) {
	resp, err := c.http.Get(ctx, c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("catalog list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "catalog")
	}

	var records []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("catalog list: decode response: %w", err)
	}

	products := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		p, err := domain.FromCatalogRecord(rec)
		if err != nil {
			c.logger.WarnContext(ctx, "skipping invalid catalog record",
				slog.Any("record", rec),
				slog.String("error", err.Error()),
			)
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// Get fetches a single product by its catalog id.
func (c *Client) Get(ctx context.Context, id string) (domain.Product, error) {
	resp, err := c.http.Get(ctx, c.baseURL+"/"+id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("catalog get %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Product{}, apperrors.NotFound("product", id)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Product{}, httpclient.ParseResponseError(resp, "catalog")
	}

	var rec map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return domain.Product{}, fmt.Errorf("catalog get %s: decode response: %w", id, err)
	}
	return domain.FromCatalogRecord(rec)
}

// Create posts a new product and returns the stored version carrying the
// API-assigned id.
func (c *Client) Create(ctx context.Context, fields ProductFields) (domain.Product, error) {
	if err := fields.validate(); err != nil {
		return domain.Product{}, err
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return domain.Product{}, fmt.Errorf("catalog create: encode request: %w", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return domain.Product{}, fmt.Errorf("catalog create: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return domain.Product{}, httpclient.ParseResponseError(resp, "catalog")
	}

	var rec map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return domain.Product{}, fmt.Errorf("catalog create: decode response: %w", err)
	}
	return domain.FromCatalogRecord(rec)
}

// Update replaces the record at id with the given fields.
func (c *Client) Update(ctx context.Context, id string, fields ProductFields) error {
	if err := fields.validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("catalog update %s: encode request: %w", id, err)
	}

	resp, err := c.http.Put(ctx, c.baseURL+"/"+id, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("catalog update %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperrors.NotFound("product", id)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return httpclient.ParseResponseError(resp, "catalog")
	}
	return nil
}

// Delete removes the record at id.
func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.http.Delete(ctx, c.baseURL+"/"+id)
	if err != nil {
		return fmt.Errorf("catalog delete %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperrors.NotFound("product", id)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return httpclient.ParseResponseError(resp, "catalog")
	}
	return nil
}

// Sync returns the catalog contents, handling the two degraded cases:
// an unreachable API falls back to local copies of the defaults without
// creating anything, and an empty catalog is seeded with the defaults so
// the page has something to sell.
func (c *Client) Sync(ctx context.Context, defaults []ProductFields) []domain.Product {
	products, err := c.List(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "catalog unreachable, using default products",
			slog.String("error", err.Error()),
		)
		return localProducts(defaults)
	}

	if len(products) > 0 {
		return products
	}

	seeded := make([]domain.Product, 0, len(defaults))
	for _, fields := range defaults {
		created, err := c.Create(ctx, fields)
		if err != nil {
			c.logger.ErrorContext(ctx, "failed to seed default product",
				slog.String("name", fields.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		seeded = append(seeded, created)
	}
	c.logger.InfoContext(ctx, "seeded empty catalog", slog.Int("count", len(seeded)))
	return seeded
}

// localProducts builds display products from field sets that never reached
// the catalog. Their ids carry a "local-" prefix so they cannot collide with
// API-assigned ones.
func localProducts(defaults []ProductFields) []domain.Product {
	products := make([]domain.Product, 0, len(defaults))
	for i, f := range defaults {
		p, err := domain.NewProduct(fmt.Sprintf("local-%d", i+1), f.Name, f.Price, f.Description, f.ImageURL)
		if err != nil {
			continue
		}
		products = append(products, p)
	}
	return products
}
