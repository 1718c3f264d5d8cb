package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/jonathan/profile-builder/internal/llm"
	"github.com/jonathan/profile-builder/internal/observability"
)

// DefaultCascade is the model variant priority order tried until one succeeds.
var DefaultCascade = []string{
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-1.5-flash",
}

// maxAttemptsPerModel bounds retries for a single cascade variant.
const maxAttemptsPerModel = 3

// Result is a successful generation outcome.
type Result struct {
	Text      string
	ModelUsed string
}

// Gateway races each model call against a per-call timeout and falls through
// a fixed cascade of variants. Callers observe only a terminal success,
// *ErrModelTimeout, or *ErrModelGeneration.
type Gateway struct {
	client  llm.Client
	cascade []string
	log     *observability.Logger
	sleep   func(time.Duration) // injectable for tests
}

// New builds a gateway over the given client. An empty cascade falls back to
// DefaultCascade.
func New(client llm.Client, cascade []string, log *observability.Logger) *Gateway {
	if len(cascade) == 0 {
		cascade = DefaultCascade
	}
	return &Gateway{
		client:  client,
		cascade: cascade,
		log:     log.With("component", "gateway"),
		sleep:   time.Sleep,
	}
}

// Generate runs the prompt through the cascade. Each attempt is bounded by
// timeout; a hung provider call fails fast instead of blocking the pipeline.
func (g *Gateway) Generate(ctx context.Context, prompt string, timeout time.Duration) (*Result, error) {
	start := time.Now()
	var lastErr error
	timedOut := false

	for _, model := range g.cascade {
		for attempt := 1; attempt <= maxAttemptsPerModel; attempt++ {
			if err := ctx.Err(); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil, &ErrModelGeneration{Models: g.cascade, Last: err}
				}
				return nil, &ErrModelTimeout{Models: g.cascade, Elapsed: time.Since(start).String()}
			}

			text, err := g.generateOnce(ctx, model, prompt, timeout)
			if err == nil {
				return &Result{Text: text, ModelUsed: model}, nil
			}
			// caller is gone; retrying would only burn attempts
			if errors.Is(err, context.Canceled) {
				return nil, &ErrModelGeneration{Models: g.cascade, Last: err}
			}

			lastErr = err
			if errors.Is(err, context.DeadlineExceeded) {
				timedOut = true
			}
			g.log.Warn("model attempt failed",
				"model", model,
				"attempt", attempt,
				"error", err)

			// brief linear backoff between attempts on the same variant
			if attempt < maxAttemptsPerModel {
				g.sleep(time.Duration(attempt) * 200 * time.Millisecond)
			}
		}
	}

	if timedOut {
		return nil, &ErrModelTimeout{Models: g.cascade, Elapsed: time.Since(start).String()}
	}
	return nil, &ErrModelGeneration{Models: g.cascade, Last: lastErr}
}

// generateOnce races one provider call against the timeout. The provider call
// runs in its own goroutine because some client failures manifest as hangs
// that ignore context cancellation.
func (g *Gateway) generateOnce(ctx context.Context, model, prompt string, timeout time.Duration) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		text string
		err  error
	}
	ch := make(chan outcome, 1)

	go func() {
		text, err := g.client.GenerateJSON(callCtx, model, prompt)
		ch <- outcome{text: text, err: err}
	}()

	select {
	case out := <-ch:
		if out.err != nil && callCtx.Err() != nil {
			return "", callFailure(ctx)
		}
		return out.text, out.err
	case <-callCtx.Done():
		return "", callFailure(ctx)
	}
}

// callFailure classifies why a bounded call ended early. Caller cancellation
// must not masquerade as a model timeout.
func callFailure(parent context.Context) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return context.Canceled
	}
	return context.DeadlineExceeded
}
