package builder

import "fmt"

// InvalidRequestBodyError is returned when a body is required and the text
// is not valid JSON. The submission is aborted before any network call.
type InvalidRequestBodyError struct {
	Cause error
}

func (e *InvalidRequestBodyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid JSON in request body: %v", e.Cause)
	}
	return "invalid JSON in request body"
}

func (e *InvalidRequestBodyError) Unwrap() error {
	return e.Cause
}

// InvalidURLError is returned when the joined URL cannot be parsed as an absolute URL
type InvalidURLError struct {
	URL   string
	Cause error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL %q: %v", e.URL, e.Cause)
}

func (e *InvalidURLError) Unwrap() error {
	return e.Cause
}
