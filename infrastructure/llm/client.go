// Package llm provides the provider-agnostic completion client used by the
// grading layer. It abstracts Anthropic, OpenAI, and Google Gemini behind a
// single CoreLLM interface and layers cross-cutting concerns (timeout,
// retry, rate limiting, metrics) through a middleware chain, so the grading
// client never deals with provider specifics.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ahrav/pitch-arena/internal/ports"
)

// Request carries the normalized parameters for one completion call.
// Providers translate it into their native wire formats.
type Request struct {
	// Prompt is the user-role input text.
	Prompt string

	// System is an optional system instruction. Providers without a
	// distinct system role prepend it to the prompt.
	System string

	// Temperature controls sampling randomness. Nil means provider
	// default.
	Temperature *float64

	// MaxTokens bounds the generated output. Zero means DefaultMaxTokens.
	MaxTokens int

	// Model overrides the client's configured model for this call.
	Model string
}

// DefaultMaxTokens is applied when a request does not bound its output.
const DefaultMaxTokens = 2000

// CoreLLM is the minimal surface a provider must implement. Middleware
// wraps any conforming implementation.
type CoreLLM interface {
	// Generate sends one completion request and returns the response
	// text. Errors are classified *ProviderError values where possible.
	Generate(ctx context.Context, req Request) (string, error)

	// Model returns the provider's configured model identifier.
	Model() string
}

// Middleware wraps a CoreLLM to add cross-cutting behavior such as
// timeouts, retries, rate limiting, or metrics.
type Middleware func(CoreLLM) CoreLLM

// ClientConfig holds everything needed to build a provider client.
type ClientConfig struct {
	// APIKey authenticates against the provider.
	APIKey string

	// Model selects the provider model. Empty uses the provider default.
	Model string

	// BaseURL overrides the provider endpoint. Empty uses the default.
	BaseURL string

	// Timeout is the per-call deadline. Zero disables the timeout
	// middleware.
	Timeout time.Duration

	// Middleware is applied in order; the first entry is outermost.
	Middleware []Middleware
}

// ProviderFactory builds a CoreLLM from configuration. Providers register
// themselves at init time.
type ProviderFactory func(ClientConfig) (CoreLLM, error)

var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory makes a provider constructible by name.
func RegisterProviderFactory(name string, factory ProviderFactory) {
	providerFactories[name] = factory
}

// Client adapts a middleware-wrapped CoreLLM to the ports.LLMClient
// interface consumed by the grading layer.
type Client struct {
	core CoreLLM
}

var _ ports.LLMClient = (*Client)(nil)

// NewClient builds a client for the named provider, assembling the
// middleware chain so the first configured middleware observes the call
// first. A configured Timeout is always enforced innermost, directly
// around the provider call.
func NewClient(provider string, config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	factory, ok := providerFactories[provider]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider: %q", provider)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", provider, err)
	}

	if config.Timeout > 0 {
		core = TimeoutMiddleware(config.Timeout)(core)
	}
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	return &Client{core: core}, nil
}

// Complete implements ports.LLMClient by translating the loose options
// map into a typed Request.
func (c *Client) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	return c.core.Generate(ctx, requestFromOptions(prompt, options))
}

// EstimateTokens approximates the token count of a text at roughly four
// characters per token, which is adequate for admission control.
func (c *Client) EstimateTokens(text string) (int, error) {
	return (len(text) + 3) / 4, nil
}

// GetModel returns the configured model identifier.
func (c *Client) GetModel() string { return c.core.Model() }

// requestFromOptions normalizes the option map used across the
// ports.LLMClient boundary. Unknown keys are ignored.
func requestFromOptions(prompt string, options map[string]any) Request {
	req := Request{Prompt: prompt}

	if v, ok := options["system"].(string); ok {
		req.System = v
	}
	if v, ok := options["model"].(string); ok && v != "" {
		req.Model = v
	}
	switch v := options["max_tokens"].(type) {
	case int:
		if v > 0 {
			req.MaxTokens = v
		}
	case float64:
		if v > 0 {
			req.MaxTokens = int(v)
		}
	}
	switch v := options["temperature"].(type) {
	case float64:
		if v >= 0 && v <= 1 {
			req.Temperature = &v
		}
	case int:
		f := float64(v)
		if f >= 0 && f <= 1 {
			req.Temperature = &f
		}
	}

	return req
}
