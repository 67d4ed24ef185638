package llm

import (
	"context"
)

// Provider is a hosted language model capable of completing a prompt.
// A single failed call is surfaced as an error; no retries are performed
// here — callers decide between retrying and falling back.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Config struct {
	APIURL string
	APIKey string
	Model  string
}
