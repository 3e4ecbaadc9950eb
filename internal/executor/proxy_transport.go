package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/junnyboy28/InteGreatai/internal/types"
)

// ProxyTransport forwards the request description to a backend test proxy
// (POST /api/test-endpoint), which decides parameter placement and performs the call.
type ProxyTransport struct {
	endpoint string
	client   *http.Client
}

// NewProxyTransport creates a transport that talks to the backend at baseURL
func NewProxyTransport(baseURL string, client *http.Client) *ProxyTransport {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &ProxyTransport{
		endpoint: strings.TrimSuffix(baseURL, "/") + "/api/test-endpoint",
		client:   client,
	}
}

// Send posts the descriptor and decodes the backend's envelope
func (t *ProxyTransport) Send(ctx context.Context, req *types.RequestDescriptor) (*RawResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read proxy response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var env types.ResponseEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid proxy response: %w", err)
	}

	headers := env.Headers
	if headers == nil {
		headers = map[string]string{}
	}
	return &RawResponse{
		StatusCode: env.StatusCode,
		Headers:    headers,
		Body:       []byte(env.BodyText()),
	}, nil
}
