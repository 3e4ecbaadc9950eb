/*
Package executor sends a built request description exactly once and
normalizes the reply into a ResponseEnvelope.

# Transports

The executor never talks HTTP itself. It delegates to a Transport:

HTTPTransport (transport.go):
  - Direct net/http call to the target
  - Params go to the query string, merged over the URL's own query
  - JSON body only for POST/PUT/PATCH, Content-Type defaults to application/json
  - Optional TLS/mTLS configuration
  - Client timeout defaults to 30s; the executor never overrides it

ProxyTransport (proxy_transport.go):
  - Posts the descriptor to a backend /api/test-endpoint
  - The backend decides parameter placement and performs the call

# Normalization

  - Elapsed wall-clock time is measured around the transport call (time_ms)
  - Multi-value headers are joined with ", "
  - A body that parses as JSON is kept as raw JSON, otherwise as text

# Error Handling

Transport failures become *ExecutionError carrying the underlying message.
Status codes are never errors: a 404 or 500 is an ordinary envelope, and
color coding is left to the display through ClassifyStatus.

# Example Usage

	transport, err := executor.NewHTTPTransport(executor.HTTPOptions{})
	if err != nil {
		return err
	}
	exec := executor.New(transport, log)

	env, err := exec.Execute(ctx, desc)
	if err != nil {
		return err
	}
	fmt.Printf("Status: %d in %s\n", env.StatusCode, executor.FormatDuration(env.TimeMS))

# Thread Safety

Execute is safe to call concurrently; each call is independent.
*/
package executor
