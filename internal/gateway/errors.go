// Package gateway wraps generative-model calls with cascade, retry, and
// timeout policy so the rest of the pipeline sees a single success or failure.
package gateway

import "fmt"

// ErrModelTimeout indicates every cascade variant exhausted its attempts on a
// deadline rather than a hard failure.
type ErrModelTimeout struct {
	Models  []string
	Elapsed string
}

func (e *ErrModelTimeout) Error() string {
	return fmt.Sprintf("model generation timed out after %s (tried: %v)", e.Elapsed, e.Models)
}

// ErrModelGeneration indicates every cascade variant failed with a non-timeout
// error.
type ErrModelGeneration struct {
	Models []string
	Last   error
}

func (e *ErrModelGeneration) Error() string {
	return fmt.Sprintf("model generation failed (tried: %v): %v", e.Models, e.Last)
}

func (e *ErrModelGeneration) Unwrap() error {
	return e.Last
}
