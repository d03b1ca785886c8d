package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daduke1/practica-ecommerce/internal/domain"
	"github.com/daduke1/practica-ecommerce/internal/storage/memory"
	apperrors "github.com/daduke1/practica-ecommerce/pkg/errors"
)

func newTestStore(t *testing.T) (*Store, *memory.Store) {
	t.Helper()
	kv := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(kv, logger), kv
}

func mustProduct(t *testing.T, id, name string, price float64) domain.Product {
	t.Helper()
	p, err := domain.NewProduct(id, name, price, "una planta", "https://img.example.com/p.png")
	require.NoError(t, err)
	return p
}

func TestLoad_AbsentKey(t *testing.T) {
	s, _ := newTestStore(t)

	cart, err := s.Load(context.Background())

	require.NoError(t, err)
	assert.Zero(t, cart.Len())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	cart := domain.NewCart()
	require.NoError(t, cart.AddItem(mustProduct(t, "p1", "Monstera Deliciosa", 42.00), 1))
	require.NoError(t, cart.AddItem(mustProduct(t, "p2", "Suculenta Echeveria", 37.50), 2))

	require.NoError(t, s.Save(ctx, cart))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)

	require.Equal(t, 2, loaded.Len())
	lines := loaded.Lines()
	assert.Equal(t, "p1", lines[0].Product.ID())
	assert.Equal(t, "Monstera Deliciosa", lines[0].Product.Name())
	assert.Equal(t, 42.00, lines[0].Product.Price())
	assert.Equal(t, "una planta", lines[0].Product.Description())
	assert.Equal(t, 1, lines[0].Amount)
	assert.Equal(t, "p2", lines[1].Product.ID())
	assert.Equal(t, 2, lines[1].Amount)
	assert.InDelta(t, cart.Total(), loaded.Total(), 1e-9)
}

func TestSave_WireFormat(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	cart := domain.NewCart()
	require.NoError(t, cart.AddItem(mustProduct(t, "p1", "Sansevieria", 35.00), 3))
	require.NoError(t, s.Save(ctx, cart))

	text, ok, err := kv.Get(ctx, Key)
	require.NoError(t, err)
	require.True(t, ok)

	// The record is a list of [id, {product, amount}] pairs.
	var rec struct {
		Items [][2]json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &rec))
	require.Len(t, rec.Items, 1)

	var id string
	require.NoError(t, json.Unmarshal(rec.Items[0][0], &id))
	assert.Equal(t, "p1", id)

	var line struct {
		Product map[string]any `json:"product"`
		Amount  int            `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(rec.Items[0][1], &line))
	assert.Equal(t, "Sansevieria", line.Product["name"])
	assert.Equal(t, 35.00, line.Product["price"])
	assert.Equal(t, 3, line.Amount)
}

func TestSave_OverwritesEntireRecord(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	cart := domain.NewCart()
	require.NoError(t, cart.AddItem(mustProduct(t, "p1", "Monstera Deliciosa", 42.00), 1))
	require.NoError(t, s.Save(ctx, cart))

	require.NoError(t, cart.RemoveItem("p1"))
	require.NoError(t, cart.AddItem(mustProduct(t, "p2", "Ficus Lyrata", 55.00), 1))
	require.NoError(t, s.Save(ctx, cart))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Len())
	_, ok := loaded.Line("p1")
	assert.False(t, ok, "save must replace, not merge")
}

func TestLoad_CorruptTextSelfHeals(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, Key, "definitely not json"))

	cart, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, cart.Len())

	// The corrupt key is gone; the next load starts clean instead of
	// failing the same way again.
	_, ok, err := kv.Get(ctx, Key)
	require.NoError(t, err)
	assert.False(t, ok)

	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.Len())
}

func TestLoad_DropsInvalidLinesKeepsValid(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	record := `{"items":[
		["p1",{"product":{"name":"Monstera Deliciosa","price":42.00,"description":"","imageUrl":""},"amount":1}],
		["p2",{"product":{"name":"Rota","price":"not-a-number","description":"","imageUrl":""},"amount":1}],
		["p3",{"product":{"name":"","price":10.00,"description":"","imageUrl":""},"amount":1}]
	]}`
	require.NoError(t, kv.Set(ctx, Key, record))

	cart, err := s.Load(ctx)
	require.NoError(t, err)

	require.Equal(t, 1, cart.Len())
	line, ok := cart.Line("p1")
	require.True(t, ok)
	assert.Equal(t, "Monstera Deliciosa", line.Product.Name())
}

func TestLoad_AllLinesDroppedPersistsEmpty(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	record := `{"items":[["p1",{"product":{"name":"","price":"x"},"amount":1}]]}`
	require.NoError(t, kv.Set(ctx, Key, record))

	cart, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, cart.Len())

	// The empty cart was written back over the broken record.
	text, ok, err := kv.Get(ctx, Key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"items":[]}`, text)
}

func TestLoad_LenientAmountCoercion(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	record := `{"items":[
		["p1",{"product":{"name":"Monstera","price":42.00},"amount":"three"}],
		["p2",{"product":{"name":"Echeveria","price":37.50},"amount":-2}],
		["p3",{"product":{"name":"Ficus","price":55.00},"amount":0}],
		["p4",{"product":{"name":"Sansevieria","price":35.00},"amount":4}]
	]}`
	require.NoError(t, kv.Set(ctx, Key, record))

	cart, err := s.Load(ctx)
	require.NoError(t, err)

	require.Equal(t, 4, cart.Len())
	for _, id := range []string{"p1", "p2", "p3"} {
		line, ok := cart.Line(id)
		require.True(t, ok, id)
		assert.Equal(t, 1, line.Amount, "unusable amount floors to 1 for %s", id)
	}
	line, _ := cart.Line("p4")
	assert.Equal(t, 4, line.Amount)
}

func TestLoad_DuplicateIDsMerge(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	record := `{"items":[
		["p1",{"product":{"name":"Monstera","price":42.00},"amount":2}],
		["p1",{"product":{"name":"Monstera","price":42.00},"amount":3}]
	]}`
	require.NoError(t, kv.Set(ctx, Key, record))

	cart, err := s.Load(ctx)
	require.NoError(t, err)

	require.Equal(t, 1, cart.Len())
	line, _ := cart.Line("p1")
	assert.Equal(t, 5, line.Amount)
}

func TestSaveLoad_MediumFailures(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(failingKV{}, logger)
	ctx := context.Background()

	err := s.Save(ctx, domain.NewCart())
	assert.True(t, errors.Is(err, apperrors.ErrPersistence))

	_, err = s.Load(ctx)
	assert.True(t, errors.Is(err, apperrors.ErrPersistence))
}

type failingKV struct{}

func (failingKV) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("medium unavailable")
}

func (failingKV) Set(ctx context.Context, key, value string) error {
	return errors.New("medium unavailable")
}

func (failingKV) Remove(ctx context.Context, key string) error {
	return errors.New("medium unavailable")
}
