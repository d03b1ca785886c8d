// Package cartstore persists the cart as a single text record in a KV store,
// and rehydrates it defensively: corrupt or partially-invalid persisted data
// degrades to a smaller (possibly empty) cart instead of a load failure.
package cartstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/daduke1/practica-ecommerce/internal/domain"
	"github.com/daduke1/practica-ecommerce/internal/storage"
	apperrors "github.com/daduke1/practica-ecommerce/pkg/errors"
)

// Key is the well-known storage key the cart record lives under.
const Key = "plantCart"

// Store serializes a Cart to and from the persisted cart record.
type Store struct {
	kv     storage.KV
	logger *slog.Logger
}

// New creates a cart store over the given KV backend.
func New(kv storage.KV, logger *slog.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// Save writes the whole cart under Key, replacing any prior record. A
// medium-level storage failure surfaces as a persistence error; the caller's
// in-memory cart is unaffected either way.
func (s *Store) Save(ctx context.Context, cart *domain.Cart) error {
	lines := cart.Lines()
	rec := cartRecord{Items: make([]cartEntry, 0, len(lines))}
	for _, line := range lines {
		rec.Items = append(rec.Items, cartEntry{
			ID: line.Product.ID(),
			Line: lineRecord{
				Product: map[string]any{
					"name":        line.Product.Name(),
					"price":       line.Product.Price(),
					"description": line.Product.Description(),
					"imageUrl":    line.Product.ImageURL(),
				},
				Amount: line.Amount,
			},
		})
	}

	data, err := json.Marshal(rec)
	if err != nil {
		// Unreachable for a cart of valid products; kept for completeness.
		return apperrors.Persistence("encode", err)
	}

	if err := s.kv.Set(ctx, Key, string(data)); err != nil {
		return apperrors.Persistence("write", err)
	}
	return nil
}

// Load reads the record at Key and rebuilds a Cart.
//
// An absent key yields an empty cart. Text that does not parse as the
// record shape yields an empty cart and the corrupt key is removed, so the
// same failure cannot recur on the next load. Individual lines whose product
// fails validation are dropped (logged, never surfaced); amounts that are
// not positive integers floor to 1. When a non-empty record loses every
// line, the resulting empty cart is persisted back over the corrupt record.
func (s *Store) Load(ctx context.Context) (*domain.Cart, error) {
	text, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		return nil, apperrors.Persistence("read", err)
	}
	if !ok {
		return domain.NewCart(), nil
	}

	var rec cartRecord
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		s.logger.WarnContext(ctx, "persisted cart is corrupt, clearing it",
			slog.String("key", Key),
			slog.String("error", err.Error()),
		)
		if rmErr := s.kv.Remove(ctx, Key); rmErr != nil {
			return nil, apperrors.Persistence("clear", rmErr)
		}
		return domain.NewCart(), nil
	}

	cart := domain.NewCart()
	dropped := 0
	for _, entry := range rec.Items {
		product, err := domain.FromStoredAttrs(entry.ID, entry.Line.Product)
		if err != nil {
			dropped++
			s.logger.WarnContext(ctx, "dropping invalid persisted cart line",
				slog.String("product_id", entry.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if err := cart.AddItem(product, coerceAmount(entry.Line.Amount)); err != nil {
			dropped++
			s.logger.WarnContext(ctx, "dropping unloadable persisted cart line",
				slog.String("product_id", entry.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if len(rec.Items) > 0 && cart.Len() == 0 {
		// Every line was unusable; persist the empty cart so the broken
		// record is not reloaded next time.
		if err := s.Save(ctx, cart); err != nil {
			return nil, err
		}
	} else if dropped > 0 {
		s.logger.InfoContext(ctx, "persisted cart loaded with dropped lines",
			slog.Int("loaded", cart.Len()),
			slog.Int("dropped", dropped),
		)
	}

	return cart, nil
}

// Clear removes the persisted record entirely.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, Key); err != nil {
		return apperrors.Persistence("clear", err)
	}
	return nil
}

// cartRecord is the persisted cart shape: an order-preserving list of
// [id, {product, amount}] pairs under "items", matching the record the
// storefront page has always written.
type cartRecord struct {
	Items []cartEntry `json:"items"`
}

// cartEntry serializes as a two-element JSON array: [id, line].
type cartEntry struct {
	ID   string
	Line lineRecord
}

// lineRecord keeps product attributes and amount untyped so a single bad
// value poisons one line, not the whole record.
type lineRecord struct {
	Product map[string]any `json:"product"`
	Amount  any            `json:"amount"`
}

func (e cartEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.ID, e.Line})
}

func (e *cartEntry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("cart entry must be a [id, line] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.ID); err != nil {
		return fmt.Errorf("cart entry id: %w", err)
	}
	if err := json.Unmarshal(pair[1], &e.Line); err != nil {
		return fmt.Errorf("cart entry line: %w", err)
	}
	return nil
}

// coerceAmount turns a persisted amount into a usable integer. Non-numeric
// or sub-1 values floor to 1: a valid product in the cart is a clear signal
// of intent, so the line is kept at the minimum quantity rather than lost.
func coerceAmount(v any) int {
	switch n := v.(type) {
	case float64:
		if n < 1 || math.IsNaN(n) {
			return 1
		}
		return int(n)
	case int:
		if n < 1 {
			return 1
		}
		return n
	case json.Number:
		f, err := n.Float64()
		if err != nil || f < 1 {
			return 1
		}
		return int(f)
	default:
		return 1
	}
}
