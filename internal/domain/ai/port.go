package ai

import "context"

// Request is one vision analysis submission: a prompt pair plus the image
// the model should inspect.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	ImageData    []byte
	ImageMIME    string
}

// Client submits a (prompt, image) pair to a vision-language model and
// returns the raw response text with all parts concatenated in order.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}
