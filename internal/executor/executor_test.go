package executor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junnyboy28/InteGreatai/internal/types"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	transport, err := NewHTTPTransport(HTTPOptions{})
	require.NoError(t, err)
	return New(transport, nil)
}

func TestExecute_GetWithParams(t *testing.T) {
	var gotQuery string
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotHeader = r.Header.Get("X-Api-Key")
		w.Header().Set("Content-Type", "application/json")
		w.Header().Add("X-Multi", "a")
		w.Header().Add("X-Multi", "b")
		w.Write([]byte(`{"users":[{"id":1}]}`))
	}))
	defer server.Close()

	env, err := newTestExecutor(t).Execute(context.Background(), &types.RequestDescriptor{
		URL:     server.URL + "/users?sort=asc",
		Method:  "GET",
		Headers: map[string]string{"X-Api-Key": "secret"},
		Params:  map[string]string{"page": "2", "sort": "desc"},
		Body:    json.RawMessage(`{}`),
	})
	require.NoError(t, err)

	assert.Equal(t, 200, env.StatusCode)
	assert.Equal(t, "page=2&sort=desc", gotQuery)
	assert.Equal(t, "secret", gotHeader)
	assert.Equal(t, "a, b", env.Headers["X-Multi"])
	assert.True(t, env.IsJSON())
	assert.JSONEq(t, `{"users":[{"id":1}]}`, env.BodyText())
	assert.GreaterOrEqual(t, env.TimeMS, 0.0)
}

func TestExecute_PostSendsJSONBody(t *testing.T) {
	var gotBody string
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("created"))
	}))
	defer server.Close()

	env, err := newTestExecutor(t).Execute(context.Background(), &types.RequestDescriptor{
		URL:    server.URL + "/users",
		Method: "post",
		Body:   json.RawMessage(`{"name":"Ada"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, 201, env.StatusCode)
	assert.Equal(t, `{"name":"Ada"}`, gotBody)
	assert.Equal(t, "application/json", gotContentType)
	assert.False(t, env.IsJSON())
	assert.Equal(t, "created", env.BodyText())
}

func TestExecute_GetSendsNoBody(t *testing.T) {
	var gotLength int64 = -1
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLength = r.ContentLength
	}))
	defer server.Close()

	_, err := newTestExecutor(t).Execute(context.Background(), &types.RequestDescriptor{
		URL:    server.URL,
		Method: "GET",
		Body:   json.RawMessage(`{"ignored":true}`),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), gotLength)
}

func TestExecute_NonSuccessIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	env, err := newTestExecutor(t).Execute(context.Background(), &types.RequestDescriptor{
		URL:    server.URL,
		Method: "DELETE",
	})
	require.NoError(t, err)
	assert.Equal(t, 500, env.StatusCode)
	assert.Equal(t, StatusError, ClassifyStatus(env.StatusCode))
}

func TestExecute_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	env, err := newTestExecutor(t).Execute(context.Background(), &types.RequestDescriptor{
		URL:    addr + "/gone",
		Method: "GET",
	})

	assert.Nil(t, env)
	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr), "expected ExecutionError, got %v", err)
	assert.Equal(t, addr+"/gone", execErr.URL)
	assert.NotEmpty(t, execErr.Message)
}

type countingTransport struct {
	calls int
	resp  *RawResponse
	err   error
}

func (c *countingTransport) Send(ctx context.Context, req *types.RequestDescriptor) (*RawResponse, error) {
	c.calls++
	return c.resp, c.err
}

func TestExecute_SingleAttempt(t *testing.T) {
	transport := &countingTransport{err: errors.New("connection refused")}
	exec := New(transport, nil)

	_, err := exec.Execute(context.Background(), &types.RequestDescriptor{URL: "http://x", Method: "GET"})
	require.Error(t, err)
	assert.Equal(t, 1, transport.calls)
}

func TestExecute_NilHeadersNormalized(t *testing.T) {
	exec := New(&countingTransport{resp: &RawResponse{StatusCode: 204}}, nil)

	env, err := exec.Execute(context.Background(), &types.RequestDescriptor{URL: "http://x", Method: "GET"})
	require.NoError(t, err)
	assert.NotNil(t, env.Headers)
	assert.Equal(t, "", env.BodyText())
}

func TestProxyTransport(t *testing.T) {
	var got types.RequestDescriptor
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/test-endpoint", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"status_code":418,"headers":{"X-Teapot":"yes"},"response":"{\"short\":true}","time_ms":3.2}`))
	}))
	defer server.Close()

	exec := New(NewProxyTransport(server.URL+"/", nil), nil)
	env, err := exec.Execute(context.Background(), &types.RequestDescriptor{
		URL:     "https://api.example.com/tea",
		Method:  "POST",
		Headers: map[string]string{},
		Params:  map[string]string{"cups": "2"},
		Body:    json.RawMessage(`{"milk":false}`),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/tea", got.URL)
	assert.Equal(t, map[string]string{"cups": "2"}, got.Params)
	assert.JSONEq(t, `{"milk":false}`, string(got.Body))

	assert.Equal(t, 418, env.StatusCode)
	assert.Equal(t, "yes", env.Headers["X-Teapot"])
	assert.True(t, env.IsJSON())
}

func TestProxyTransport_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Failed to test endpoint: dns"}`, http.StatusBadGateway)
	}))
	defer server.Close()

	exec := New(NewProxyTransport(server.URL, nil), nil)
	_, err := exec.Execute(context.Background(), &types.RequestDescriptor{URL: "https://x", Method: "GET"})

	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Contains(t, execErr.Message, "server returned 502")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "12.35 ms", FormatDuration(12.346))
	assert.Equal(t, "1.50 s", FormatDuration(1500))
}

func TestClassifyStatus(t *testing.T) {
	assert.Equal(t, StatusSuccess, ClassifyStatus(204))
	assert.Equal(t, StatusWarning, ClassifyStatus(302))
	assert.Equal(t, StatusError, ClassifyStatus(404))
	assert.Equal(t, StatusError, ClassifyStatus(503))
}

func TestExecute_HostHeaderSetsRequestHost(t *testing.T) {
	var gotHost string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Host
	}))
	defer server.Close()

	_, err := newTestExecutor(t).Execute(context.Background(), &types.RequestDescriptor{
		URL:     server.URL,
		Method:  "GET",
		Headers: map[string]string{"host": "api.internal.test"},
	})
	require.NoError(t, err)
	assert.Equal(t, "api.internal.test", gotHost)
}

func TestProxyTransport_JSONStringBodyMatchesDirect(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`"hello"`))
	}))
	defer target.Close()

	direct, err := newTestExecutor(t).Execute(context.Background(), &types.RequestDescriptor{URL: target.URL, Method: "GET"})
	require.NoError(t, err)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := json.Marshal(direct)
		assert.NoError(t, err)
		w.Write(data)
	}))
	defer backend.Close()

	proxied, err := New(NewProxyTransport(backend.URL, nil), nil).Execute(context.Background(), &types.RequestDescriptor{URL: target.URL, Method: "GET"})
	require.NoError(t, err)

	assert.Equal(t, `"hello"`, direct.BodyText())
	assert.Equal(t, direct.BodyText(), proxied.BodyText())
	assert.True(t, proxied.IsJSON())
}
