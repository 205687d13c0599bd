package llm

import (
	"context"
	"errors"
	"time"

	"github.com/ahrav/pitch-arena/internal/ports"
)

// metricsLLM records per-request latency, outcome, and error kind so
// operators can watch provider health while tournaments run.
type metricsLLM struct {
	next      CoreLLM
	collector ports.MetricsCollector
}

// MetricsMiddleware creates middleware that reports request metrics to
// the given collector.
func MetricsMiddleware(collector ports.MetricsCollector) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &metricsLLM{next: next, collector: collector}
	}
}

func (m *metricsLLM) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	response, err := m.next.Generate(ctx, req)

	labels := map[string]string{
		"model":  m.next.Model(),
		"status": "success",
	}
	if err != nil {
		labels["status"] = "error"
		var perr *ProviderError
		if errors.As(err, &perr) {
			labels["status"] = perr.Kind.String()
		}
	}

	if m.collector != nil {
		m.collector.RecordHistogram("llm_latency_seconds", time.Since(start).Seconds(), labels)
		m.collector.RecordCounter("llm_requests_total", 1, labels)
	}

	return response, err
}

func (m *metricsLLM) Model() string { return m.next.Model() }
