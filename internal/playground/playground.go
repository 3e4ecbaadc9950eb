// Package playground runs test submissions for the UI: it builds the request,
// executes it once and keeps only the most recent submission's result.
package playground

import (
	"context"
	"errors"
	"sync"

	"github.com/junnyboy28/InteGreatai/internal/builder"
	"github.com/junnyboy28/InteGreatai/internal/executor"
	"github.com/junnyboy28/InteGreatai/internal/logger"
	"github.com/junnyboy28/InteGreatai/internal/types"
)

// ErrMissingBaseURL is returned when a submission has no base URL; the builder is not invoked
var ErrMissingBaseURL = errors.New("base URL is required")

// Submission is everything the user entered for one "send" action
type Submission = builder.Input

// BuildAndExecute builds the request and executes it once. A body or URL
// error aborts before the transport is called.
func BuildAndExecute(ctx context.Context, exec *executor.Executor, sub Submission) (*types.ResponseEnvelope, error) {
	desc, err := builder.Build(sub)
	if err != nil {
		return nil, err
	}
	return exec.Execute(ctx, desc)
}

// Result is the outcome of one submission
type Result struct {
	Token    uint64
	Endpoint types.Endpoint
	Envelope *types.ResponseEnvelope
	Err      error
}

// Playground tags every submission with a monotonically increasing token and
// only stores a resolution whose token is still the latest one issued.
type Playground struct {
	exec             *executor.Executor
	log              *logger.Logger
	cancelSuperseded bool

	mu      sync.Mutex
	seq     uint64
	current *Result
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures a Playground
type Option func(*Playground)

// WithCancelSuperseded cancels an in-flight submission as soon as a newer one starts
func WithCancelSuperseded(enabled bool) Option {
	return func(p *Playground) {
		p.cancelSuperseded = enabled
	}
}

// WithLogger sets the logger used for stale-result diagnostics
func WithLogger(log *logger.Logger) Option {
	return func(p *Playground) {
		if log != nil {
			p.log = log.WithComponent("playground")
		}
	}
}

// New creates a playground on top of an executor
func New(exec *executor.Executor, opts ...Option) *Playground {
	p := &Playground{
		exec: exec,
		log:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit runs a submission synchronously. The boolean reports whether the
// result became the displayed one (false when a newer submission started meanwhile).
func (p *Playground) Submit(ctx context.Context, sub Submission) (Result, bool) {
	if sub.BaseURL == "" {
		return Result{Endpoint: sub.Endpoint, Err: ErrMissingBaseURL}, false
	}

	token, runCtx, done := p.begin(ctx)
	defer done()

	env, err := BuildAndExecute(runCtx, p.exec, sub)
	result := Result{Token: token, Endpoint: sub.Endpoint, Envelope: env, Err: err}
	return result, p.resolve(result)
}

// SubmitAsync starts a submission in the background and returns its token.
// onResult is called only if the result is still current when it resolves.
func (p *Playground) SubmitAsync(ctx context.Context, sub Submission, onResult func(Result)) uint64 {
	if sub.BaseURL == "" {
		if onResult != nil {
			onResult(Result{Endpoint: sub.Endpoint, Err: ErrMissingBaseURL})
		}
		return 0
	}

	token, runCtx, done := p.begin(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer done()

		env, err := BuildAndExecute(runCtx, p.exec, sub)
		result := Result{Token: token, Endpoint: sub.Endpoint, Envelope: env, Err: err}
		if p.resolve(result) && onResult != nil {
			onResult(result)
		}
	}()

	return token
}

// Current returns the displayed result, if any submission has resolved
func (p *Playground) Current() (Result, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return Result{}, false
	}
	return *p.current, true
}

// Latest returns the most recently issued token
func (p *Playground) Latest() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seq
}

// IsCurrent reports whether token is the latest issued
func (p *Playground) IsCurrent(token uint64) bool {
	return token != 0 && p.Latest() == token
}

// Wait blocks until all background submissions have finished
func (p *Playground) Wait() {
	p.wg.Wait()
}

// Reset clears the displayed result and invalidates in-flight submissions,
// as when the user picks another endpoint.
func (p *Playground) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	p.current = nil
	if p.cancelSuperseded && p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// begin issues the next token and derives the context the submission runs under
func (p *Playground) begin(ctx context.Context) (uint64, context.Context, func()) {
	runCtx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	p.seq++
	token := p.seq
	if p.cancelSuperseded && p.cancel != nil {
		p.cancel()
	}
	p.cancel = cancel
	p.mu.Unlock()

	return token, runCtx, cancel
}

// resolve stores the result if its token is still the latest
func (p *Playground) resolve(result Result) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if result.Token != p.seq {
		p.log.Debugf("discarding stale result for submission %d (latest %d)", result.Token, p.seq)
		return false
	}
	stored := result
	p.current = &stored
	p.cancel = nil
	return true
}
