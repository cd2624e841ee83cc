package domain

import "errors"

// Error taxonomy for the fetch-and-parse pipeline. Callers branch with
// errors.Is; providers wrap these with context via fmt.Errorf and %w.
var (
	// ErrNetwork marks a connection-level failure reaching a provider.
	ErrNetwork = errors.New("network failure")

	// ErrTimeout marks the absence of a complete response within the
	// per-call bound.
	ErrTimeout = errors.New("request timeout")

	// ErrMalformedPayload marks a structurally required field missing from
	// an otherwise readable payload.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrParseFailure marks a feed body that could not be read as a whole.
	// Single bad items inside a readable feed are skipped, not reported.
	ErrParseFailure = errors.New("feed unparsable")
)
