// Package llm wraps the language model backends behind a single prompt-in,
// text-out contract.
package llm

import (
	"context"
	"fmt"
)

// Response is the text produced for one prompt.
type Response struct {
	Content string
}

// Model is a synchronous, single-shot prompt completion. Implementations do
// not retry.
type Model interface {
	Invoke(ctx context.Context, prompt string) (*Response, error)
	Name() string
}

// APIError is returned when a model endpoint answers with a non-200 status.
type APIError struct {
	StatusCode int
	Body       string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("model api error: status %d, endpoint %s, body: %s", e.StatusCode, e.Endpoint, e.Body)
}
