package appointments

import (
	"context"
	"time"

	"github.com/wolfman30/appointment-slots/internal/llm"
)

// CompleterConfig carries the generation parameters for every request.
type CompleterConfig struct {
	Provider    string
	Model       string
	Temperature float32
	MaxTokens   int32
	// Timeout bounds a single completion call. Zero means no extra bound.
	Timeout time.Duration
}

// DefaultCompleterConfig mirrors the generation settings the slot prompt was tuned for.
func DefaultCompleterConfig() CompleterConfig {
	return CompleterConfig{
		Provider:    "openai",
		Model:       llm.DefaultOpenAIModel,
		Temperature: 0.4,
		MaxTokens:   400,
	}
}

// Completer sends a PromptPair to the completion provider, once.
type Completer struct {
	client llm.Client
	cfg    CompleterConfig
}

func NewCompleter(client llm.Client, cfg CompleterConfig) *Completer {
	if client == nil {
		panic("appointments: llm client cannot be nil")
	}
	return &Completer{client: client, cfg: cfg}
}

// Model reports the configured model id.
func (c *Completer) Model() string { return c.cfg.Model }

// Complete returns the first completion's text verbatim. Every failure is an
// *UpstreamError.
func (c *Completer) Complete(ctx context.Context, prompt PromptPair) (string, llm.TokenUsage, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	resp, err := c.client.Complete(ctx, llm.Request{
		Model:  c.cfg.Model,
		System: []string{prompt.System},
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt.User},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", llm.TokenUsage{}, &UpstreamError{Provider: c.cfg.Provider, Model: c.cfg.Model, Err: err}
	}
	return resp.Text, resp.Usage, nil
}
