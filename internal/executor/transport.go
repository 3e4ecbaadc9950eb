package executor

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/junnyboy28/InteGreatai/internal/types"
)

// DefaultTimeout is the transport timeout when none is configured
const DefaultTimeout = 30 * time.Second

// Transport sends one request description and returns the raw reply.
// Any HTTP client that can honour method, URL, headers, params and body satisfies it.
type Transport interface {
	Send(ctx context.Context, req *types.RequestDescriptor) (*RawResponse, error)
}

// RawResponse is what a transport hands back before normalization
type RawResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// HTTPOptions configures the direct HTTP transport
type HTTPOptions struct {
	Timeout time.Duration
	TLS     *types.TLSConfig
}

// HTTPTransport sends requests straight to the target with net/http.
// Params are placed in the query string, merged over any query already in the URL.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a direct transport with optional TLS/mTLS configuration
func NewHTTPTransport(opts HTTPOptions) (*HTTPTransport, error) {
	client, err := buildHTTPClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}
	return &HTTPTransport{client: client}, nil
}

// NewHTTPTransportWithClient wraps an existing client
func NewHTTPTransportWithClient(client *http.Client) *HTTPTransport {
	return &HTTPTransport{client: client}
}

// Send performs the HTTP request
func (t *HTTPTransport) Send(ctx context.Context, req *types.RequestDescriptor) (*RawResponse, error) {
	target, err := withQuery(req.URL, req.Params)
	if err != nil {
		return nil, err
	}

	method := types.NormalizeMethod(req.Method)

	var bodyReader io.Reader
	if types.RequiresBody(method) {
		body := []byte(req.Body)
		if len(body) == 0 {
			body = []byte("{}")
		}
		bodyReader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range req.Headers {
		// net/http writes the Host line from Request.Host, not from Header
		if strings.EqualFold(key, "Host") {
			httpReq.Host = value
			continue
		}
		httpReq.Header.Set(key, value)
	}
	if bodyReader != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       bodyBytes,
	}, nil
}

// withQuery merges params into the URL's query string
func withQuery(rawURL string, params map[string]string) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	query := u.Query()
	for key, value := range params {
		query.Set(key, value)
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// flattenHeaders joins multi-value headers with ", "
func flattenHeaders(h http.Header) map[string]string {
	headers := make(map[string]string, len(h))
	for key, values := range h {
		headers[key] = strings.Join(values, ", ")
	}
	return headers
}

// buildHTTPClient creates an HTTP client with optional TLS/mTLS configuration
func buildHTTPClient(opts HTTPOptions) (*http.Client, error) {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}

	if !opts.TLS.IsZero() {
		tlsCfg := &tls.Config{
			InsecureSkipVerify: opts.TLS.InsecureSkipVerify,
		}

		// Client certificate (mTLS)
		if opts.TLS.CertFile != "" && opts.TLS.KeyFile != "" {
			cert, err := tls.LoadX509KeyPair(opts.TLS.CertFile, opts.TLS.KeyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load client certificate: %w", err)
			}
			tlsCfg.Certificates = []tls.Certificate{cert}
		}

		// CA certificate for server verification
		if opts.TLS.CAFile != "" {
			caCert, err := os.ReadFile(opts.TLS.CAFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read CA certificate: %w", err)
			}
			caCertPool := x509.NewCertPool()
			if !caCertPool.AppendCertsFromPEM(caCert) {
				return nil, fmt.Errorf("failed to parse CA certificate")
			}
			tlsCfg.RootCAs = caCertPool
		}

		transport.TLSClientConfig = tlsCfg
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}
