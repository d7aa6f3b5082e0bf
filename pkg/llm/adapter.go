package llm

import "context"

// Prompt is one completion request: a system instruction, the composed user
// prompt, and a sampling temperature. ImageB64 carries the base64-encoded
// crop photo for future vision-capable models; current adapters reason over
// text only and do not transmit it.
type Prompt struct {
	System      string
	User        string
	Temperature float64
	ImageB64    string
}

type Response struct {
	Text string
}

// Adapter is the uniform contract for language-model providers.
type Adapter interface {
	Generate(ctx context.Context, prompt Prompt) (Response, error)
	Name() string
}
