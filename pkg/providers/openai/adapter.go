package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/harunnryd/tani/pkg/llm"
	"github.com/harunnryd/tani/pkg/resilience"
)

type Adapter struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

func NewAdapter(apiKey, model string, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Adapter{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: "https://api.openai.com/v1",
		Client:  &http.Client{Timeout: timeout},
	}
}

func (a *Adapter) Name() string { return "openai" }

// Generate submits one chat completion. A non-2xx status or an unexpected
// response shape is a hard failure for this call; retrying is the caller's
// policy, not the adapter's.
func (a *Adapter) Generate(ctx context.Context, prompt llm.Prompt) (llm.Response, error) {
	body, err := a.buildRequest(prompt)
	if err != nil {
		return llm.Response{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/chat/completions", body)
	if err != nil {
		return llm.Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.APIKey)

	resp, err := a.client().Do(req)
	if err != nil {
		return llm.Response{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusTooManyRequests {
		body, _ := io.ReadAll(resp.Body)
		return llm.Response{}, resilience.RateLimitError{Provider: "openai", Message: string(body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return llm.Response{}, errors.New(string(body))
	}
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return llm.Response{}, err
	}
	return parseResponse(payload)
}

func (a *Adapter) buildRequest(prompt llm.Prompt) (*bytes.Buffer, error) {
	messages := []map[string]any{}
	if prompt.System != "" {
		messages = append(messages, map[string]any{"role": "system", "content": prompt.System})
	}
	// prompt.ImageB64 is deliberately not transmitted: text-only reasoning
	// until a vision-capable model is wired in.
	messages = append(messages, map[string]any{"role": "user", "content": prompt.User})

	req := map[string]any{
		"model":       a.Model,
		"messages":    messages,
		"temperature": prompt.Temperature,
	}
	b, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	return bytes.NewBuffer(b), nil
}

func parseResponse(payload map[string]any) (llm.Response, error) {
	choices, _ := payload["choices"].([]any)
	if len(choices) == 0 {
		return llm.Response{}, errors.New("no choices in completion response")
	}
	first, _ := choices[0].(map[string]any)
	msg, _ := first["message"].(map[string]any)
	content, ok := msg["content"].(string)
	if !ok {
		return llm.Response{}, errors.New("completion response missing message content")
	}
	return llm.Response{Text: content}, nil
}

func (a *Adapter) client() *http.Client {
	if a.Client != nil {
		return a.Client
	}
	return http.DefaultClient
}

var _ llm.Adapter = (*Adapter)(nil)
