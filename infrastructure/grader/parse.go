package grader

import (
	"encoding/json"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"

	"github.com/ahrav/pitch-arena/internal/domain"
)

var (
	validate = validator.New()

	// foldCaser is a package-level Unicode case folder for performance.
	foldCaser = cases.Fold()
)

// winnerSimilarityThreshold is the minimum normalized Levenshtein
// similarity for a returned winner name to be attributed to a
// participant when it matches neither name exactly.
const winnerSimilarityThreshold = 0.8

// gradingResponse is the wire shape of an individual evaluation verdict.
type gradingResponse struct {
	CriterionGrades []criterionGradeResponse `json:"criterion_grades" validate:"required,min=1,dive"`
	OverallScore    float64                  `json:"overall_score" validate:"omitempty,min=1,max=4"`
	OverallFeedback string                   `json:"overall_feedback"`
}

type criterionGradeResponse struct {
	Criterion   string  `json:"criterion" validate:"required"`
	Score       float64 `json:"score" validate:"required,min=1,max=4"`
	Explanation string  `json:"explanation"`
	Feedback    string  `json:"feedback"`
}

// comparisonResponse is the wire shape of a head-to-head verdict.
type comparisonResponse struct {
	WinnerName             string            `json:"winner_name" validate:"required"`
	WinnerReasoning        string            `json:"winner_reasoning" validate:"required"`
	ParticipantAStrengths  []string          `json:"participant_a_strengths"`
	ParticipantAWeaknesses []string          `json:"participant_a_weaknesses"`
	ParticipantBStrengths  []string          `json:"participant_b_strengths"`
	ParticipantBWeaknesses []string          `json:"participant_b_weaknesses"`
	KeyDifferentiators     []string          `json:"key_differentiators"`
	ImprovementSuggestions map[string]string `json:"improvement_suggestions"`
}

// parseGradingResponse extracts, decodes, and structurally validates an
// individual evaluation verdict.
func parseGradingResponse(response string) (*gradingResponse, error) {
	payload := extractJSON(response)
	if payload == "" {
		return nil, &MalformedResponseError{Operation: "grade", Response: response, Err: errNoJSON}
	}

	var parsed gradingResponse
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, &MalformedResponseError{Operation: "grade", Response: response, Err: err}
	}
	if err := validate.Struct(&parsed); err != nil {
		return nil, &MalformedResponseError{Operation: "grade", Response: response, Err: err}
	}

	return &parsed, nil
}

// parseComparisonResponse extracts, decodes, and structurally validates
// a head-to-head verdict.
func parseComparisonResponse(response string) (*comparisonResponse, error) {
	payload := extractJSON(response)
	if payload == "" {
		return nil, &MalformedResponseError{Operation: "compare", Response: response, Err: errNoJSON}
	}

	var parsed comparisonResponse
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, &MalformedResponseError{Operation: "compare", Response: response, Err: err}
	}
	if err := validate.Struct(&parsed); err != nil {
		return nil, &MalformedResponseError{Operation: "compare", Response: response, Err: err}
	}

	return &parsed, nil
}

var errNoJSON = jsonNotFoundError{}

type jsonNotFoundError struct{}

func (jsonNotFoundError) Error() string { return "no JSON object found in response" }

// extractJSON pulls the JSON payload out of a model response that may
// wrap it in prose or markdown fences. It prefers a ```json fenced
// block, then a generic fenced block, then the first brace-balanced
// object in the text.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	if strings.Contains(response, "```json") {
		start := strings.Index(response, "```json") + 7
		if end := strings.Index(response[start:], "```"); end != -1 {
			return strings.TrimSpace(response[start : start+end])
		}
	}

	if strings.Contains(response, "```") {
		start := strings.Index(response, "```") + 3
		// Skip any language identifier on the fence line.
		if nl := strings.Index(response[start:], "\n"); nl != -1 {
			start += nl + 1
		}
		if end := strings.Index(response[start:], "```"); end != -1 {
			candidate := strings.TrimSpace(response[start : start+end])
			if strings.HasPrefix(candidate, "{") {
				return candidate
			}
		}
	}

	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}

	// Find the matching closing brace, tracking strings and escapes so
	// braces inside string values are not counted.
	braceCount := 0
	inString := false
	escapeNext := false
	for i := start; i < len(response); i++ {
		char := response[i]

		if escapeNext {
			escapeNext = false
			continue
		}
		if char == '\\' {
			escapeNext = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case '{':
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				return response[start : i+1]
			}
		}
	}

	return ""
}

// resolveWinner attributes the model's winner name to one of the two
// participants. Exact match is tried first, then case-folded match, then
// normalized Levenshtein similarity. When nothing clears the threshold
// the verdict falls back to participant A with a logged warning, so one
// sloppy response never aborts a whole tournament.
func resolveWinner(logger *slog.Logger, winnerName string, a, b domain.Participant) string {
	if winnerName == a.Name {
		return a.ID
	}
	if winnerName == b.Name {
		return b.ID
	}

	folded := foldCaser.String(strings.TrimSpace(winnerName))
	if folded == foldCaser.String(a.Name) {
		return a.ID
	}
	if folded == foldCaser.String(b.Name) {
		return b.ID
	}

	simA := similarity(folded, foldCaser.String(a.Name))
	simB := similarity(folded, foldCaser.String(b.Name))
	if simA >= winnerSimilarityThreshold || simB >= winnerSimilarityThreshold {
		if simA >= simB {
			return a.ID
		}
		return b.ID
	}

	logger.Warn("winner name matches neither participant, falling back to participant A",
		"winner_name", winnerName,
		"participant_a", a.Name,
		"participant_b", b.Name,
	)
	return a.ID
}

// similarity is a normalized Levenshtein score in [0, 1], computed over
// runes so multi-byte names compare correctly.
func similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(s1, s2)

	maxLen := utf8.RuneCountInString(s1)
	if n := utf8.RuneCountInString(s2); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}

	sim := 1.0 - float64(distance)/float64(maxLen)
	if sim < 0 {
		sim = 0
	}
	return sim
}
