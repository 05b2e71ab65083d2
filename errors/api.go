package errors

import (
	"fmt"
	"net/http"
)

// Kind classifies a failure to obtain a response from a backend.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfigurationMissing
	KindMalformedRequest
	KindUnauthorized
	KindRateLimited
	KindEndpointNotFound
	KindMalformedResponse
	KindNetworkFailure
	KindAllCandidatesExhausted
	KindUpstream
)

var kindNames = map[Kind]string{
	KindUnknown:                "unknown",
	KindConfigurationMissing:   "configuration_missing",
	KindMalformedRequest:       "malformed_request",
	KindUnauthorized:           "unauthorized",
	KindRateLimited:            "rate_limited",
	KindEndpointNotFound:       "endpoint_not_found",
	KindMalformedResponse:      "malformed_response",
	KindNetworkFailure:         "network_failure",
	KindAllCandidatesExhausted: "all_candidates_exhausted",
	KindUpstream:               "upstream",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// APIError is the single error channel of response acquisition. Message is
// meant to be shown to the user as-is.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

// NewAPIError builds an APIError with a formatted, user-facing message.
func NewAPIError(kind Kind, format string, a ...interface{}) *APIError {
	return &APIError{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches another *APIError of the same kind, so callers can write
// errors.Is(err, &APIError{Kind: KindRateLimited}).
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Terminal reports whether the failure should stop a caller from trying
// another endpoint. Endpoint lookups and transport failures are recoverable.
func (e *APIError) Terminal() bool {
	switch e.Kind {
	case KindEndpointNotFound, KindNetworkFailure:
		return false
	}
	return true
}

// KindOf returns the Kind of the first APIError in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var apiErr *APIError
	if As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// IsTerminal reports whether err is an APIError whose kind is terminal.
// Errors that are not APIErrors are treated as terminal.
func IsTerminal(err error) bool {
	var apiErr *APIError
	if As(err, &apiErr) {
		return apiErr.Terminal()
	}
	return err != nil
}

// KindForStatus maps a non-2xx HTTP status to a Kind.
func KindForStatus(status int) Kind {
	switch status {
	case http.StatusNotFound:
		return KindEndpointNotFound
	case http.StatusBadRequest:
		return KindMalformedRequest
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusTooManyRequests:
		return KindRateLimited
	}
	return KindUpstream
}

// FromStatus builds the APIError for a failed HTTP exchange with a backend
// named by service (e.g. "Gemini").
func FromStatus(service string, status int, statusText string) *APIError {
	e := &APIError{Kind: KindForStatus(status), Status: status}
	switch status {
	case http.StatusNotFound:
		e.Message = "Model endpoint not found (404). Trying next model..."
	case http.StatusBadRequest:
		e.Message = "Bad request (400). Check your API key and request format."
	case http.StatusUnauthorized:
		e.Message = fmt.Sprintf("Unauthorized (401). Check that your %s API key is valid.", service)
	case http.StatusForbidden:
		e.Message = fmt.Sprintf("Access forbidden (403). Check if %s API is enabled and your API key is valid.", service)
	case http.StatusTooManyRequests:
		e.Message = "Rate limit exceeded (429). Too many requests."
	default:
		if statusText == "" {
			statusText = http.StatusText(status)
		}
		e.Message = fmt.Sprintf("%s API error: %d - %s", service, status, statusText)
	}
	return e
}
