// pkg/pipl/errors.go
package pipl

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by query validation and the transport layer.
// Callers can test for them with errors.Is.
var (
	// ErrMissingAPIKey is returned when a search is attempted without an
	// API key configured on the client.
	ErrMissingAPIKey = errors.New("API key is missing")

	// ErrNoSearchableQuery is returned when the query person carries no
	// field strong enough to search on.
	ErrNoSearchableQuery = errors.New("no valid name/username/user_id/phone/email/address or search pointer in request")

	// ErrUnsearchableFields is returned under strict validation when the
	// query contains fields the API would silently ignore.
	ErrUnsearchableFields = errors.New("some fields are unsearchable")

	// ErrInsecureBaseURL is returned by NewClient for a base URL that is
	// not https. The API dropped plain HTTP support, so the client
	// refuses to send the key in the clear.
	ErrInsecureBaseURL = errors.New("base URL must use https")

	// ErrSearchTimeout is returned when a search request exceeds its
	// context deadline or the transport's timeout.
	ErrSearchTimeout = errors.New("search request timed out")
)

// APIError is an error response body returned by the API. The status code
// divides caller mistakes (4xx) from failures on the API's side.
type APIError struct {
	Message    string   `json:"error"`
	StatusCode int      `json:"@http_status_code"`
	Warnings   []string `json:"warnings,omitempty"`

	// Quota is the key's quota and throttle state parsed from the
	// response headers, when the API sent them. Nil otherwise.
	Quota *QuotaInfo `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("search API error (status %d): %s", e.StatusCode, e.Message)
}

// IsUserError reports whether the request itself was at fault, for
// example a bad key or an unsearchable query.
func (e *APIError) IsUserError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// IsServerError reports whether the failure happened on the API's side.
func (e *APIError) IsServerError() bool {
	return !e.IsUserError()
}
