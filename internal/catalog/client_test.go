package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/daduke1/practica-ecommerce/pkg/errors"
	"github.com/daduke1/practica-ecommerce/pkg/httpclient"
)

var breakerSeq int

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	hc := httpclient.New(httpclient.Config{
		Timeout:         2 * time.Second,
		MaxRetries:      0,
		RetryWaitMin:    time.Millisecond,
		RetryWaitMax:    time.Millisecond,
		MaxConnsPerHost: 10,
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	breakerSeq++
	cb := httpclient.NewCircuitBreakerClient(hc, httpclient.DefaultCircuitBreakerConfig(fmt.Sprintf("catalog-test-%d", breakerSeq)), logger)
	return NewClient(baseURL, cb, logger)
}

func TestList_ValidatesAndSkipsBadRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"_id":"a1","name":"Monstera Deliciosa","price":42.00,"description":"","imageUrl":""},
			{"_id":"a2","name":"","price":10.00},
			{"name":"Sin Id","price":5.00},
			{"_id":"a3","name":"Sansevieria","price":"35.00"}
		]`)
	}))
	defer srv.Close()

	products, err := newTestClient(t, srv.URL).List(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "a1", products[0].ID())
	assert.Equal(t, 42.00, products[0].Price())
	assert.Equal(t, "a3", products[1].ID())
	assert.Equal(t, 35.00, products[1].Price())
}

func TestGet_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Get(context.Background(), "missing")

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestGet_ReturnsValidatedProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/a1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"_id":"a1","name":"  Ficus Lyrata  ","price":55.00}`)
	}))
	defer srv.Close()

	p, err := newTestClient(t, srv.URL).Get(context.Background(), "a1")

	require.NoError(t, err)
	assert.Equal(t, "a1", p.ID())
	assert.Equal(t, "Ficus Lyrata", p.Name(), "name is trimmed")
}

func TestCreate_PostsFieldsWithoutID(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"_id":"new-1","name":"Monstera Deliciosa","price":42.00,"description":"d","imageUrl":"u"}`)
	}))
	defer srv.Close()

	p, err := newTestClient(t, srv.URL).Create(context.Background(), ProductFields{
		Name:        "Monstera Deliciosa",
		Price:       42.00,
		Description: "d",
		ImageURL:    "u",
	})

	require.NoError(t, err)
	assert.Equal(t, "new-1", p.ID())
	assert.NotContains(t, received, "id")
	assert.NotContains(t, received, "_id")
	assert.Equal(t, "Monstera Deliciosa", received["name"])
}

func TestCreate_RejectsInvalidFieldsLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid fields must not reach the API")
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.Create(context.Background(), ProductFields{Name: "  ", Price: 10})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidProduct))

	_, err = c.Create(context.Background(), ProductFields{Name: "Monstera", Price: -1})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidProduct))
}

func TestUpdate_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	err := newTestClient(t, srv.URL).Update(context.Background(), "missing", ProductFields{Name: "Monstera", Price: 42})

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestDelete(t *testing.T) {
	var deleted string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		deleted = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, newTestClient(t, srv.URL).Delete(context.Background(), "a1"))
	assert.Equal(t, "/a1", deleted)
}

func TestSync_UnreachableFallsBackToDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := newTestClient(t, srv.URL)
	srv.Close()

	products := c.Sync(context.Background(), DefaultPlants())

	require.Len(t, products, 4)
	assert.Equal(t, "local-1", products[0].ID())
	assert.Equal(t, "Monstera Deliciosa", products[0].Name())
	assert.Equal(t, 35.00, products[3].Price())
}

func TestSync_SeedsEmptyCatalog(t *testing.T) {
	var creates int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, `[]`)
		case http.MethodPost:
			creates++
			var fields ProductFields
			require.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintf(w, `{"_id":"seeded-%d","name":%q,"price":%v}`, creates, fields.Name, fields.Price)
		}
	}))
	defer srv.Close()

	products := newTestClient(t, srv.URL).Sync(context.Background(), DefaultPlants())

	assert.Equal(t, 4, creates)
	require.Len(t, products, 4)
	assert.Equal(t, "seeded-1", products[0].ID())
}

func TestSync_NonEmptyCatalogDoesNotSeed(t *testing.T) {
	var posts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts++
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"_id":"a1","name":"Monstera Deliciosa","price":42.00}]`)
	}))
	defer srv.Close()

	products := newTestClient(t, srv.URL).Sync(context.Background(), DefaultPlants())

	assert.Zero(t, posts)
	require.Len(t, products, 1)
	assert.Equal(t, "a1", products[0].ID())
}
