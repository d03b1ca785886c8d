package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daduke1/practica-ecommerce/internal/domain"
	"github.com/daduke1/practica-ecommerce/internal/service"
	"github.com/daduke1/practica-ecommerce/pkg/httputil"
	"github.com/daduke1/practica-ecommerce/pkg/validator"
)

// CartHandler exposes the cart over HTTP.
type CartHandler struct {
	cart   *service.CartController
	logger *slog.Logger
}

// NewCartHandler creates a cart handler.
func NewCartHandler(cart *service.CartController, logger *slog.Logger) *CartHandler {
	return &CartHandler{cart: cart, logger: logger}
}

// RegisterRoutes mounts the cart routes on the given router.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)
		r.Get("/count", h.getCount)
		r.Post("/items", h.addItem)
		r.Put("/items/{productID}", h.updateItem)
		r.Delete("/items/{productID}", h.removeItem)
	})
}

type addItemRequest struct {
	ProductID   string  `json:"productId" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Amount      int     `json:"amount" validate:"required,gte=1"`
}

type updateItemRequest struct {
	// Amount zero removes the line.
	Amount *int `json:"amount" validate:"required,gte=0"`
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.cart.Snapshot()})
}

func (h *CartHandler) getCount(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]int{"count": h.cart.ItemCount()}})
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := domain.NewProduct(req.ProductID, req.Name, req.Price, req.Description, req.ImageURL)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := h.cart.AddItem(r.Context(), product, req.Amount); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: h.cart.Snapshot()})
}

func (h *CartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req updateItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.cart.UpdateItem(r.Context(), productID, *req.Amount); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.cart.Snapshot()})
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	if err := h.cart.RemoveItem(r.Context(), productID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.cart.Snapshot()})
}

func (h *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
