package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junnyboy28/InteGreatai/internal/builder"
	"github.com/junnyboy28/InteGreatai/internal/collection"
	"github.com/junnyboy28/InteGreatai/internal/executor"
	"github.com/junnyboy28/InteGreatai/internal/types"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	if opts.Executor == nil {
		opts.Executor = executor.New(executor.NewHTTPTransportWithClient(http.DefaultClient), nil)
	}
	ts := httptest.NewServer(New(opts).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeDetail(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body["detail"]
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestTestEndpoint_ProxiesRequest(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "secret", r.Header.Get("X-Token"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7}`))
	}))
	defer target.Close()

	ts := newTestServer(t, Options{})
	resp := postJSON(t, ts.URL+"/api/test-endpoint", types.RequestDescriptor{
		URL:     target.URL + "/users",
		Method:  "post",
		Headers: map[string]string{"X-Token": "secret"},
		Params:  map[string]string{"page": "2"},
		Body:    json.RawMessage(`{"name":"ada"}`),
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env types.ResponseEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, http.StatusCreated, env.StatusCode)
	assert.JSONEq(t, `{"id":7}`, env.BodyText())
	assert.Equal(t, "application/json", env.Headers["Content-Type"])
	assert.GreaterOrEqual(t, env.TimeMS, 0.0)
}

func TestTestEndpoint_Errors(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp := postJSON(t, ts.URL+"/api/test-endpoint", types.RequestDescriptor{URL: "https://example.com", Method: "TRACE"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Unsupported HTTP method: TRACE", decodeDetail(t, resp))

	resp = postJSON(t, ts.URL+"/api/test-endpoint", types.RequestDescriptor{URL: "/relative", Method: "GET"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Closed listener: connection refused
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	resp = postJSON(t, ts.URL+"/api/test-endpoint", types.RequestDescriptor{URL: "http://" + addr, Method: "GET"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, decodeDetail(t, resp), "Failed to test endpoint: ")
}

func TestTestEndpoint_RateLimited(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer target.Close()

	ts := newTestServer(t, Options{RateLimit: 0.001, RateBurst: 1})
	desc := types.RequestDescriptor{URL: target.URL, Method: "GET"}

	first := postJSON(t, ts.URL+"/api/test-endpoint", desc)
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second := postJSON(t, ts.URL+"/api/test-endpoint", desc)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)

	// Other routes are not limited
	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestExportCollection(t *testing.T) {
	exporter := &collection.Exporter{NewID: func() string { return "id-1" }, Description: "test"}
	ts := newTestServer(t, Options{Exporter: exporter})

	resp := postJSON(t, ts.URL+"/api/export-collection", ExportRequest{
		Name:      "My API",
		BaseURL:   "https://api.example.com/",
		Endpoints: []types.Endpoint{{Method: "GET", Path: "/users"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="My_API.postman_collection.json"`, resp.Header.Get("Content-Disposition"))

	var doc collection.Collection
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "id-1", doc.Info.PostmanID)
	require.Len(t, doc.Item, 1)
	assert.Equal(t, "https://api.example.com/users", doc.Item[0].Request.URL.Raw)

	bad := postJSON(t, ts.URL+"/api/export-collection", ExportRequest{
		Name:      "Bad",
		BaseURL:   "https://api.example.com",
		Endpoints: []types.Endpoint{{Method: "GET", Path: "/%zz"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, bad.StatusCode)
}

func TestEndpoints(t *testing.T) {
	empty := newTestServer(t, Options{})
	resp, err := http.Get(empty.URL + "/api/endpoints")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	catalog := &types.AnalysisResult{Endpoints: []types.Endpoint{{Method: "GET", Path: "/ping"}}}
	loaded := newTestServer(t, Options{Catalog: catalog})
	resp, err = http.Get(loaded.URL + "/api/endpoints")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got types.AnalysisResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got.Endpoints, 1)
	assert.Equal(t, "/ping", got.Endpoints[0].Path)
}

func TestPreflight(t *testing.T) {
	ts := newTestServer(t, Options{})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/test-endpoint", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(&builder.InvalidRequestBodyError{Cause: errors.New("x")}))
	assert.Equal(t, http.StatusBadRequest, StatusFor(&builder.InvalidURLError{URL: "x", Cause: errors.New("x")}))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(&collection.ExportError{Message: "x"}))
	assert.Equal(t, http.StatusBadGateway, StatusFor(&executor.ExecutionError{Message: "x"}))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(Options{Executor: executor.New(executor.NewHTTPTransportWithClient(http.DefaultClient), nil)})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
