package scoring

import "fmt"

// APIError is a non-success response from the scoring service. Its message
// is shown to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// TransportError indicates the scoring service could not be reached or its
// reply could not be decoded.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
