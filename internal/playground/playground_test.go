package playground

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junnyboy28/InteGreatai/internal/builder"
	"github.com/junnyboy28/InteGreatai/internal/executor"
	"github.com/junnyboy28/InteGreatai/internal/types"
)

// gatedTransport answers immediately unless a gate is registered for the URL,
// in which case it waits for the gate to close or the context to end.
type gatedTransport struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	calls int32
}

func newGatedTransport() *gatedTransport {
	return &gatedTransport{gates: make(map[string]chan struct{})}
}

func (g *gatedTransport) gate(url string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch := make(chan struct{})
	g.gates[url] = ch
	return ch
}

func (g *gatedTransport) Send(ctx context.Context, req *types.RequestDescriptor) (*executor.RawResponse, error) {
	atomic.AddInt32(&g.calls, 1)

	g.mu.Lock()
	gate := g.gates[req.URL]
	g.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &executor.RawResponse{
		StatusCode: 200,
		Headers:    map[string]string{"X-Url": req.URL},
		Body:       []byte(`{"url":"` + req.URL + `"}`),
	}, nil
}

func submission(path string) Submission {
	return Submission{
		Endpoint: types.Endpoint{Method: "GET", Path: path},
		BaseURL:  "https://api.example.com",
	}
}

func TestBuildAndExecute_InvalidBodySkipsTransport(t *testing.T) {
	transport := newGatedTransport()
	exec := executor.New(transport, nil)

	env, err := BuildAndExecute(context.Background(), exec, Submission{
		Endpoint:    types.Endpoint{Method: "POST", Path: "/users"},
		BaseURL:     "https://api.example.com",
		RequestBody: "{invalid",
	})

	assert.Nil(t, env)
	var bodyErr *builder.InvalidRequestBodyError
	require.True(t, errors.As(err, &bodyErr), "expected InvalidRequestBodyError, got %v", err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&transport.calls))
}

func TestBuildAndExecute_InvalidURLSkipsTransport(t *testing.T) {
	transport := newGatedTransport()
	exec := executor.New(transport, nil)

	_, err := BuildAndExecute(context.Background(), exec, Submission{
		Endpoint: types.Endpoint{Method: "GET", Path: "/%zz"},
		BaseURL:  "https://api.example.com",
	})

	var urlErr *builder.InvalidURLError
	require.True(t, errors.As(err, &urlErr))
	assert.Equal(t, int32(0), atomic.LoadInt32(&transport.calls))
}

func TestSubmit_MissingBaseURL(t *testing.T) {
	transport := newGatedTransport()
	p := New(executor.New(transport, nil))

	result, accepted := p.Submit(context.Background(), Submission{Endpoint: types.Endpoint{Method: "GET", Path: "/a"}})

	assert.False(t, accepted)
	assert.ErrorIs(t, result.Err, ErrMissingBaseURL)
	assert.Equal(t, uint64(0), p.Latest())
	assert.Equal(t, int32(0), atomic.LoadInt32(&transport.calls))
}

func TestSubmit_StoresResult(t *testing.T) {
	p := New(executor.New(newGatedTransport(), nil))

	result, accepted := p.Submit(context.Background(), submission("/users"))
	require.True(t, accepted)
	require.NoError(t, result.Err)

	current, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, result.Token, current.Token)
	assert.Equal(t, "https://api.example.com/users", current.Envelope.Headers["X-Url"])
}

func TestResolve_StaleTokenDiscarded(t *testing.T) {
	p := New(executor.New(newGatedTransport(), nil))

	first, _, done1 := p.begin(context.Background())
	defer done1()
	second, _, done2 := p.begin(context.Background())
	defer done2()

	env2 := &types.ResponseEnvelope{StatusCode: 201}
	env1 := &types.ResponseEnvelope{StatusCode: 200}

	assert.True(t, p.resolve(Result{Token: second, Envelope: env2}))
	assert.False(t, p.resolve(Result{Token: first, Envelope: env1}))

	current, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, 201, current.Envelope.StatusCode)
}

func TestSubmitAsync_LastSubmissionWins(t *testing.T) {
	transport := newGatedTransport()
	gate := transport.gate("https://api.example.com/one")
	p := New(executor.New(transport, nil))

	var mu sync.Mutex
	var delivered []Result
	onResult := func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		delivered = append(delivered, r)
	}

	t1 := p.SubmitAsync(context.Background(), submission("/one"), onResult)
	t2 := p.SubmitAsync(context.Background(), submission("/two"), onResult)
	require.Greater(t, t2, t1)

	// S2 resolves first, then S1 is released and resolves late.
	require.Eventually(t, func() bool {
		current, ok := p.Current()
		return ok && current.Token == t2
	}, 2*time.Second, 5*time.Millisecond)

	close(gate)
	p.Wait()

	current, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, t2, current.Token)
	assert.Equal(t, "https://api.example.com/two", current.Envelope.Headers["X-Url"])

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, delivered, 1)
	assert.Equal(t, t2, delivered[0].Token)
	assert.Equal(t, int32(2), atomic.LoadInt32(&transport.calls))
}

func TestSubmitAsync_CancelSuperseded(t *testing.T) {
	transport := newGatedTransport()
	transport.gate("https://api.example.com/slow")
	p := New(executor.New(transport, nil), WithCancelSuperseded(true))

	t1 := p.SubmitAsync(context.Background(), submission("/slow"), nil)
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&transport.calls) == 1
	}, 2*time.Second, 5*time.Millisecond)

	t2 := p.SubmitAsync(context.Background(), submission("/fast"), nil)

	// The slow gate is never opened: only cancellation lets S1 finish.
	p.Wait()

	current, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, t2, current.Token)
	assert.NotEqual(t, t1, current.Token)
	assert.NoError(t, current.Err)
}

func TestReset_InvalidatesInFlight(t *testing.T) {
	transport := newGatedTransport()
	gate := transport.gate("https://api.example.com/one")
	p := New(executor.New(transport, nil))

	token := p.SubmitAsync(context.Background(), submission("/one"), nil)
	p.Reset()
	close(gate)
	p.Wait()

	_, ok := p.Current()
	assert.False(t, ok)
	assert.False(t, p.IsCurrent(token))
}

func TestSubmit_ErrorIsDisplayed(t *testing.T) {
	p := New(executor.New(newGatedTransport(), nil))

	result, accepted := p.Submit(context.Background(), Submission{
		Endpoint:    types.Endpoint{Method: "PUT", Path: "/users/1"},
		BaseURL:     "https://api.example.com",
		RequestBody: "nope",
	})
	require.True(t, accepted)

	var bodyErr *builder.InvalidRequestBodyError
	assert.True(t, errors.As(result.Err, &bodyErr))

	current, _ := p.Current()
	assert.Nil(t, current.Envelope)
	assert.Error(t, current.Err)
}
