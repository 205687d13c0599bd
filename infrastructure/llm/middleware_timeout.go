package llm

import (
	"context"
	"time"
)

// TimeoutMiddleware enforces a per-call deadline around the wrapped
// provider. An elapsed deadline surfaces as a ProviderError with
// KindTimeout so callers can distinguish it from provider failures.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &timeoutLLM{next: next, timeout: timeout}
	}
}

type timeoutLLM struct {
	next    CoreLLM
	timeout time.Duration
}

func (t *timeoutLLM) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.next.Generate(ctx, req)
	if err != nil && ctx.Err() != nil {
		return "", classifyContextError("llm", ctx.Err())
	}
	return resp, err
}

func (t *timeoutLLM) Model() string { return t.next.Model() }
