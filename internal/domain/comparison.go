package domain

// Comparison is the structured verdict of one pairwise transcript
// comparison, produced by the grading client and applied to a match by
// the engine.
type Comparison struct {
	// WinnerID is the participant id the verdict resolved to. It is
	// always one of the two compared participants; when the model names
	// neither, the grading client falls back to participant A and logs
	// a warning.
	WinnerID string `json:"winner_id"`

	// Rationale is the free-text reasoning behind the verdict.
	Rationale string `json:"rationale"`

	// Metadata carries the structured side-by-side analysis.
	Metadata ComparisonMetadata `json:"metadata"`
}

// ComparisonMetadata is the structured side-by-side detail returned by
// the comparison prompt.
type ComparisonMetadata struct {
	ParticipantAStrengths  []string `json:"participant_a_strengths,omitempty"`
	ParticipantAWeaknesses []string `json:"participant_a_weaknesses,omitempty"`
	ParticipantBStrengths  []string `json:"participant_b_strengths,omitempty"`
	ParticipantBWeaknesses []string `json:"participant_b_weaknesses,omitempty"`

	// KeyDifferentiators lists the factors that decided the verdict.
	KeyDifferentiators []string `json:"key_differentiators,omitempty"`

	// ImprovementSuggestions maps participant name to feedback.
	ImprovementSuggestions map[string]string `json:"improvement_suggestions,omitempty"`
}
