package httpclient

import (
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/daduke1/practica-ecommerce/pkg/errors"
)

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an appropriate error. The caller should only invoke this when
// resp.StatusCode indicates an error. The response body is fully consumed
// and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return apperrors.NotFound(serviceName, "requested record")
	case http.StatusBadRequest:
		return apperrors.InvalidInput(fmt.Sprintf("%s: %s", serviceName, string(body)))
	default:
		return fmt.Errorf("%s returned status %d: %s", serviceName, resp.StatusCode, string(body))
	}
}
