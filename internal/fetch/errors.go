package fetch

import "errors"

// Fetch errors.
//
// Design decision: We define specific error types rather than wrapping
// all errors generically. This allows callers to handle different
// failure modes appropriately (e.g., report quota exhaustion to the
// user, but retry on a transient network error).
var (
	// ErrEmptyURL is returned when no URL was provided.
	ErrEmptyURL = errors.New("no URL provided")

	// ErrInvalidURL is returned when a URL cannot be normalized into a
	// fetchable form.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrQuotaExceeded is returned when the monthly fetch quota is used
	// up. No request is made in that case.
	ErrQuotaExceeded = errors.New("monthly fetch quota exceeded")

	// ErrEmptyBody is returned when the server responds successfully
	// but with no content to analyze.
	ErrEmptyBody = errors.New("response body is empty")

	// ErrUnsupportedContent is returned when the response is not HTML.
	ErrUnsupportedContent = errors.New("response is not HTML")

	// ErrHTTPStatus is returned when the server answers with an error
	// status. The wrapping error carries the status code.
	ErrHTTPStatus = errors.New("unexpected HTTP status")
)
