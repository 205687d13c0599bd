// Package testutils provides deterministic test doubles for the
// tournament engine and grading layer.
package testutils

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/ahrav/pitch-arena/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.LLMClient = (*MockLLMClient)(nil)

// MockLLMClient implements ports.LLMClient with deterministic verdicts
// so tournament runs are reproducible in tests. It recognizes the two
// prompt shapes the grading client produces and synthesizes valid JSON
// verdicts for them.
type MockLLMClient struct {
	mu    sync.Mutex
	calls int

	// model is the mock model identifier.
	model string

	// PickWinner chooses the winner name for a comparison prompt. The
	// default picks the lexicographically smaller name.
	PickWinner func(nameA, nameB string) string

	// Score is the per-criterion score used in grading verdicts.
	Score float64

	// Err, when set, fails every call.
	Err error

	// RawResponse, when set, is returned verbatim for every call. Useful
	// for exercising the parser against malformed output.
	RawResponse string
}

// NewMockLLMClient creates a mock with lexicographic winner selection
// and a fixed criterion score of 3.0.
func NewMockLLMClient(model string) *MockLLMClient {
	return &MockLLMClient{
		model: model,
		Score: 3.0,
		PickWinner: func(nameA, nameB string) string {
			if nameA <= nameB {
				return nameA
			}
			return nameB
		},
	}
}

// Calls returns how many completions were requested.
func (m *MockLLMClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Complete synthesizes a verdict for the prompt. Comparison prompts are
// recognized by their participant headers, grading prompts by the
// transcript section.
func (m *MockLLMClient) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if m.Err != nil {
		return "", m.Err
	}
	if m.RawResponse != "" {
		return m.RawResponse, nil
	}

	if nameA, nameB, ok := extractParticipantNames(prompt); ok {
		return m.comparisonJSON(nameA, nameB), nil
	}
	if strings.Contains(prompt, "## Transcript to Evaluate") {
		return m.gradingJSON(), nil
	}

	return "", fmt.Errorf("unrecognized prompt shape")
}

// EstimateTokens approximates four characters per token.
func (m *MockLLMClient) EstimateTokens(text string) (int, error) {
	return (len(text) + 3) / 4, nil
}

// GetModel returns the mock model identifier.
func (m *MockLLMClient) GetModel() string { return m.model }

func (m *MockLLMClient) comparisonJSON(nameA, nameB string) string {
	winner := m.PickWinner(nameA, nameB)
	verdict := map[string]any{
		"winner_name":              winner,
		"winner_reasoning":         fmt.Sprintf("%s presented the stronger pitch.", winner),
		"participant_a_strengths":  []string{"clear ICP research"},
		"participant_a_weaknesses": []string{"thin objection handling"},
		"participant_b_strengths":  []string{"strong business framing"},
		"participant_b_weaknesses": []string{"weak observability context"},
		"key_differentiators":      []string{"research depth"},
		"improvement_suggestions": map[string]string{
			nameA: "tie outcomes to metrics",
			nameB: "deepen account research",
		},
	}
	data, _ := json.Marshal(verdict)
	return string(data)
}

func (m *MockLLMClient) gradingJSON() string {
	criteria := []string{
		"icp_alignment",
		"pbo_messaging",
		"profiling_explanation",
		"observability_context",
		"talk_track_alignment",
	}
	grades := make([]map[string]any, 0, len(criteria))
	for _, c := range criteria {
		grades = append(grades, map[string]any{
			"criterion":   c,
			"score":       m.Score,
			"explanation": "scripted evaluation",
			"feedback":    "scripted feedback",
		})
	}
	verdict := map[string]any{
		"criterion_grades": grades,
		"overall_score":    m.Score,
		"overall_feedback": "scripted summary",
	}
	data, _ := json.Marshal(verdict)
	return string(data)
}

// extractParticipantNames pulls the two names out of a comparison
// prompt's participant headers.
func extractParticipantNames(prompt string) (string, string, bool) {
	nameA, okA := extractHeaderName(prompt, "## Participant A (")
	nameB, okB := extractHeaderName(prompt, "## Participant B (")
	return nameA, nameB, okA && okB
}

func extractHeaderName(prompt, header string) (string, bool) {
	start := strings.Index(prompt, header)
	if start == -1 {
		return "", false
	}
	start += len(header)
	end := strings.Index(prompt[start:], ")")
	if end == -1 {
		return "", false
	}
	return prompt[start : start+end], true
}
