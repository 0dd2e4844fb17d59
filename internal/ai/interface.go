package ai

import "context"

// Client defines the interface for generative-language backends
type Client interface {
	// GenerateContent sends the request and returns the first candidate's text.
	// It returns ErrEmptyResponse when the provider answered without usable text.
	GenerateContent(ctx context.Context, req *Request) (string, error)
}
