package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrInvalidProduct       = errors.New("invalid product")
	ErrInvalidCartOperation = errors.New("invalid cart operation")
	ErrItemNotFound         = errors.New("item not found")
	ErrPersistence          = errors.New("persistence failure")
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInternal             = errors.New("internal error")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// InvalidProduct creates a 400 error for a product record that failed
// validation. The offending record is discarded by the caller.
func InvalidProduct(message string) *AppError {
	return &AppError{
		Code:    "INVALID_PRODUCT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidProduct,
	}
}

// InvalidCartOperation creates a 400 error for a rejected cart mutation
// (bad amount or invalid product reference). The cart is left untouched.
func InvalidCartOperation(message string) *AppError {
	return &AppError{
		Code:    "INVALID_CART_OPERATION",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidCartOperation,
	}
}

// ItemNotFound creates a 404 error for a cart line that does not exist.
func ItemNotFound(productID string) *AppError {
	return &AppError{
		Code:    "ITEM_NOT_FOUND",
		Message: fmt.Sprintf("no cart item for product %s", productID),
		Status:  http.StatusNotFound,
		Err:     ErrItemNotFound,
	}
}

// Persistence creates a 503 error for a storage-medium read/write failure.
// Parse failures of persisted data are healed inside the store and never
// surface through this constructor.
func Persistence(op string, err error) *AppError {
	return &AppError{
		Code:    "PERSISTENCE_ERROR",
		Message: fmt.Sprintf("storage %s failed", op),
		Status:  http.StatusServiceUnavailable,
		Err:     fmt.Errorf("%w: %w", ErrPersistence, err),
	}
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidProduct),
		errors.Is(err, ErrInvalidCartOperation),
		errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
