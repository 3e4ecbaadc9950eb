package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/junnyboy28/InteGreatai/internal/types"
	"github.com/junnyboy28/InteGreatai/internal/urlutil"
)

// AnalyzeRequest asks the backend to analyze a documentation page
type AnalyzeRequest struct {
	DocumentationURL  string `json:"documentation_url"`
	UseCase           string `json:"use_case"`
	PreferredLanguage string `json:"preferred_language"`
}

// Validate checks the documentation URL is an absolute http(s) URL
func (r AnalyzeRequest) Validate() error {
	u, err := urlutil.ParseAbsolute(r.DocumentationURL)
	if err != nil {
		return fmt.Errorf("invalid documentation_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid documentation_url: unsupported scheme %q", u.Scheme)
	}
	return nil
}

// Client talks to the documentation analysis backend
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the backend at baseURL. Analysis is slow,
// so a nil client gets a generous timeout.
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

// Analyze posts the request to /api/analyze and decodes the catalog
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*types.AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, urlutil.Join(c.baseURL, "/api/analyze"), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach analyzer: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read analyzer response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("invalid analyzer response: %w", err)
	}
	return &result, nil
}
