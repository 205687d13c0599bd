// Package ports defines the interfaces that connect the tournament engine
// to infrastructure. These contracts enable dependency inversion and make
// the engine testable with stub implementations.
package ports

import (
	"context"
	"time"

	"github.com/ahrav/pitch-arena/internal/domain"
)

// Grader evaluates sales-pitch transcripts using an LLM.
// Implementations own prompt construction and response parsing; callers
// see only structured domain values or classified errors (provider
// failure, timeout, malformed response).
type Grader interface {
	// Grade evaluates a single transcript against the rubric and
	// returns a structured grade with per-criterion scores on the
	// 1-4 scale.
	Grade(ctx context.Context, transcript domain.Transcript, participant domain.Participant) (*domain.Grade, error)

	// Compare judges two transcripts head to head and returns the
	// structured verdict. The returned winner id is always one of the
	// two participant ids.
	Compare(
		ctx context.Context,
		transcriptA domain.Transcript, participantA domain.Participant,
		transcriptB domain.Transcript, participantB domain.Participant,
	) (domain.Comparison, error)
}

// LLMClient is the provider-agnostic completion interface consumed by the
// grading client. Implementations handle authentication, request
// formatting, and transport-level resilience.
type LLMClient interface {
	// Complete sends a prompt and returns the generated text.
	// Common options: "temperature" (float64), "max_tokens" (int),
	// "system" (string).
	Complete(ctx context.Context, prompt string, options map[string]any) (string, error)

	// EstimateTokens approximates the token count of a text for
	// admission-control purposes.
	EstimateTokens(text string) (int, error)

	// GetModel returns the configured model identifier.
	GetModel() string
}

// TournamentStore keeps finished and in-flight tournament snapshots for
// the front ends. The engine itself never touches the store; the manager
// owns persistence so the core stays free of process-wide state.
type TournamentStore interface {
	// Put stores or replaces a tournament snapshot.
	Put(ctx context.Context, t *domain.Tournament) error

	// Get returns the tournament with the given id, or nil when absent.
	Get(ctx context.Context, id string) (*domain.Tournament, error)

	// List returns all stored tournaments in insertion order.
	List(ctx context.Context) ([]*domain.Tournament, error)
}

// MetricsCollector records operational metrics. Implementations integrate
// with monitoring backends such as Prometheus.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
