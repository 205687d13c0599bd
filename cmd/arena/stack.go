package main

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/ahrav/pitch-arena/infrastructure/grader"
	"github.com/ahrav/pitch-arena/infrastructure/llm"
	"github.com/ahrav/pitch-arena/infrastructure/metrics"
	"github.com/ahrav/pitch-arena/internal/arena"
)

// Grading call resilience defaults. The per-call timeout comes from
// configuration; these govern retries around it.
const (
	retryMaxAttempts = 3
	retryBaseDelay   = 500 * time.Millisecond
	retryMaxDelay    = 8 * time.Second

	// Provider rate limits vary; two requests per second with a small
	// burst stays under every tier we target.
	requestsPerSecond = 2
	requestBurst      = 4
)

// buildManager assembles the full grading stack from configuration:
// provider client with middleware, grading client, engine, and the
// in-memory tournament store behind a manager.
func buildManager(cfg arena.Config, logger *slog.Logger) (*arena.Manager, error) {
	collector := metrics.NewPrometheusMetrics()

	client, err := llm.NewClient(cfg.Provider, llm.ClientConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.GradingTimeout(),
		Middleware: []llm.Middleware{
			llm.MetricsMiddleware(collector),
			llm.RetryMiddleware(retryMaxAttempts, retryBaseDelay, retryMaxDelay),
			llm.RateLimitMiddleware(rate.Limit(requestsPerSecond), requestBurst),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create LLM client: %w", err)
	}

	pitchGrader := grader.NewPitchGrader(client, logger)
	engine := arena.NewEngine(pitchGrader, cfg.MaxConcurrentMatches, logger, collector)
	return arena.NewManager(engine, arena.NewInMemoryStore(), logger), nil
}
