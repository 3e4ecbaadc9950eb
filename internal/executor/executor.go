package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/junnyboy28/InteGreatai/internal/logger"
	"github.com/junnyboy28/InteGreatai/internal/types"
)

// ExecutionError reports a transport-level failure (network, DNS, TLS...).
// A non-2xx status is never an ExecutionError.
type ExecutionError struct {
	Method  string
	URL     string
	Message string
	Cause   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("failed to test endpoint: %s", e.Message)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Executor sends exactly one request per call and normalizes the reply.
// There are no retries and no timeout override; the transport's default applies.
type Executor struct {
	transport Transport
	log       *logger.Logger
}

// New creates an executor over the given transport. A nil logger discards output.
func New(transport Transport, log *logger.Logger) *Executor {
	if log == nil {
		log = logger.Nop()
	}
	return &Executor{transport: transport, log: log.WithComponent("executor")}
}

// Execute performs the request and returns its envelope
func (e *Executor) Execute(ctx context.Context, req *types.RequestDescriptor) (*types.ResponseEnvelope, error) {
	if req == nil {
		return nil, &ExecutionError{Message: "no request", Cause: errors.New("nil request descriptor")}
	}

	start := time.Now()
	raw, err := e.transport.Send(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		e.log.WithError(err).Warnf("%s %s failed after %s", req.Method, req.URL, elapsed)
		return nil, &ExecutionError{
			Method:  req.Method,
			URL:     req.URL,
			Message: err.Error(),
			Cause:   err,
		}
	}

	headers := raw.Headers
	if headers == nil {
		headers = map[string]string{}
	}

	env := &types.ResponseEnvelope{
		StatusCode: raw.StatusCode,
		Headers:    headers,
		TimeMS:     float64(elapsed) / float64(time.Millisecond),
		Response:   types.ResponseBody(raw.Body),
	}

	e.log.ExecutionEvent(req.Method, req.URL, env.StatusCode, env.TimeMS)
	return env, nil
}

// FormatDuration formats milliseconds to a human-readable string
func FormatDuration(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.2f ms", ms)
	}
	return fmt.Sprintf("%.2f s", ms/1000.0)
}

// FormatSize formats byte size to human-readable string
func FormatSize(bytes int) string {
	if bytes < 1024 {
		return fmt.Sprintf("%dB", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.2fKB", float64(bytes)/1024.0)
	}
	return fmt.Sprintf("%.2fMB", float64(bytes)/(1024.0*1024.0))
}

// IsSuccessStatus returns true if status code is 2xx
func IsSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}

// IsClientErrorStatus returns true if status code is 4xx
func IsClientErrorStatus(status int) bool {
	return status >= 400 && status < 500
}

// IsServerErrorStatus returns true if status code is 5xx
func IsServerErrorStatus(status int) bool {
	return status >= 500 && status < 600
}

// StatusClass groups a status for color coding
type StatusClass int

const (
	StatusSuccess StatusClass = iota // 2xx
	StatusWarning                    // 1xx, 3xx
	StatusError                      // >= 400
)

// ClassifyStatus returns the display class of a status code
func ClassifyStatus(status int) StatusClass {
	switch {
	case IsSuccessStatus(status):
		return StatusSuccess
	case status >= 400:
		return StatusError
	default:
		return StatusWarning
	}
}
