// Package domain contains the pure tournament entities and the standings
// aggregation logic. Types here have no dependencies on infrastructure;
// they are constructed by the arena engine and serialized as-is into
// tournament snapshots (string UUIDs, RFC 3339 timestamps).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TournamentFormat identifies how matches are scheduled for a tournament.
type TournamentFormat string

const (
	// FormatRoundRobin schedules one match per unordered participant pair.
	FormatRoundRobin TournamentFormat = "round_robin"

	// FormatSingleElimination schedules a knockout bracket where losers
	// are eliminated and rounds are generated as winners emerge.
	FormatSingleElimination TournamentFormat = "single_elimination"

	// FormatDoubleElimination is accepted but runs as single elimination.
	// A real losers bracket is not implemented; the engine logs the
	// degraded behavior when this format is selected.
	FormatDoubleElimination TournamentFormat = "double_elimination"
)

// Valid reports whether the format is one of the supported values.
func (f TournamentFormat) Valid() bool {
	switch f {
	case FormatRoundRobin, FormatSingleElimination, FormatDoubleElimination:
		return true
	}
	return false
}

// TournamentStatus tracks the tournament lifecycle.
// Created -> Scheduled -> Running -> Completed, with an escape to Failed
// when match generation fails validation.
type TournamentStatus string

const (
	TournamentCreated   TournamentStatus = "created"
	TournamentScheduled TournamentStatus = "scheduled"
	TournamentRunning   TournamentStatus = "running"
	TournamentCompleted TournamentStatus = "completed"
	TournamentFailed    TournamentStatus = "failed"
)

// MatchStatus tracks a match through its lifecycle.
// Pending -> InProgress -> Completed | Failed.
type MatchStatus string

const (
	MatchPending    MatchStatus = "pending"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
	MatchFailed     MatchStatus = "failed"
)

// Terminal reports whether the status is final. A match in a terminal
// state is immutable.
func (s MatchStatus) Terminal() bool {
	return s == MatchCompleted || s == MatchFailed
}

// Criterion names one dimension of the pitch grading rubric.
type Criterion string

// The fixed rubric criteria, each scored on the 1-4 scale.
const (
	CriterionICPAlignment           Criterion = "icp_alignment"
	CriterionPBOMessaging           Criterion = "pbo_messaging"
	CriterionProfilingExplanation   Criterion = "profiling_explanation"
	CriterionObservabilityContext   Criterion = "observability_context"
	CriterionTalkTrackAlignment     Criterion = "talk_track_alignment"
)

// Criteria returns the full rubric criterion set in canonical order.
func Criteria() []Criterion {
	return []Criterion{
		CriterionICPAlignment,
		CriterionPBOMessaging,
		CriterionProfilingExplanation,
		CriterionObservabilityContext,
		CriterionTalkTrackAlignment,
	}
}

// Score scale bounds for criterion and overall grades.
const (
	MinScore = 1.0
	MaxScore = 4.0
)

// Participant is a sales representative competing in a tournament.
// Participants are immutable once created.
type Participant struct {
	// ID is an opaque unique identifier (UUID string).
	ID string `json:"id"`

	// Name is the display name used in prompts and reports.
	Name string `json:"name"`

	// Email is optional contact metadata.
	Email string `json:"email,omitempty"`

	// Department is optional organizational metadata.
	Department string `json:"department,omitempty"`

	// ExperienceYears is the seniority attribute used as the bye
	// tie-break key in elimination brackets. Zero when unknown.
	ExperienceYears int `json:"experience_years,omitempty"`

	// CreatedAt records when the participant was registered.
	CreatedAt time.Time `json:"created_at"`
}

// NewParticipant creates a participant with a fresh UUID.
func NewParticipant(name string) Participant {
	return Participant{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// Transcript is a sales pitch transcript owned by exactly one participant.
// Immutable once created; one transcript per participant per tournament.
type Transcript struct {
	ID            string `json:"id"`
	ParticipantID string `json:"participant_id"`

	// Content is the raw pitch text.
	Content string `json:"content"`

	// WordCount is derived from Content at construction.
	WordCount int `json:"word_count"`

	// DurationMinutes is an optional estimate of speaking time.
	DurationMinutes float64 `json:"duration_minutes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewTranscript creates a transcript for a participant, deriving the
// word count from the content.
func NewTranscript(participantID, content string) Transcript {
	return Transcript{
		ID:            uuid.NewString(),
		ParticipantID: participantID,
		Content:       content,
		WordCount:     countWords(content),
		CreatedAt:     time.Now().UTC(),
	}
}

// CriterionGrade is the score and commentary for a single rubric criterion.
type CriterionGrade struct {
	Criterion   Criterion `json:"criterion"`
	Score       float64   `json:"score"`
	Explanation string    `json:"explanation"`
	Feedback    string    `json:"feedback,omitempty"`
}

// Grade is the structured evaluation of one transcript against the rubric.
type Grade struct {
	ID            string `json:"id"`
	TranscriptID  string `json:"transcript_id"`
	ParticipantID string `json:"participant_id"`

	CriterionGrades []CriterionGrade `json:"criterion_grades"`

	// OverallScore is the 1-4 aggregate. When the grader omits it,
	// it is the arithmetic mean of the criterion scores.
	OverallScore float64 `json:"overall_score"`

	OverallFeedback string `json:"overall_feedback"`

	// GraderModel records which LLM produced this grade.
	GraderModel string `json:"grader_model,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// FillOverallScore computes the overall score as the mean of the
// criterion scores when it was not supplied by the grader.
func (g *Grade) FillOverallScore() {
	if g.OverallScore != 0 || len(g.CriterionGrades) == 0 {
		return
	}
	var sum float64
	for _, cg := range g.CriterionGrades {
		sum += cg.Score
	}
	g.OverallScore = sum / float64(len(g.CriterionGrades))
}

// Match is one pairwise comparison between two participants' transcripts.
// The scheduler creates matches, the engine mutates them while running,
// and a match becomes immutable once its status is terminal.
type Match struct {
	ID           string `json:"id"`
	TournamentID string `json:"tournament_id"`

	Participant1ID string `json:"participant1_id"`
	Participant2ID string `json:"participant2_id"`
	Transcript1ID  string `json:"transcript1_id"`
	Transcript2ID  string `json:"transcript2_id"`

	// WinnerID, when set, is always one of the two participant ids.
	WinnerID string `json:"winner_id,omitempty"`

	// Per-side grade detail, attached when individual grading ran.
	Grade1 *Grade `json:"grade1,omitempty"`
	Grade2 *Grade `json:"grade2,omitempty"`

	// ComparisonFeedback is the free-text rationale for the verdict.
	ComparisonFeedback string `json:"comparison_feedback,omitempty"`

	Status MatchStatus `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// ErrorMessage carries the captured task error for Failed matches.
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewMatch creates a pending match between two participants.
func NewMatch(tournamentID string, p1, p2 Participant, t1, t2 Transcript) *Match {
	return &Match{
		ID:             uuid.NewString(),
		TournamentID:   tournamentID,
		Participant1ID: p1.ID,
		Participant2ID: p2.ID,
		Transcript1ID:  t1.ID,
		Transcript2ID:  t2.ID,
		Status:         MatchPending,
		CreatedAt:      time.Now().UTC(),
	}
}

// SetWinner records the verdict and moves the match to Completed.
// The winner must be one of the two match participants.
func (m *Match) SetWinner(winnerID, feedback string) error {
	if winnerID != m.Participant1ID && winnerID != m.Participant2ID {
		return ErrInvalidWinner
	}
	m.WinnerID = winnerID
	m.ComparisonFeedback = feedback
	m.Status = MatchCompleted
	now := time.Now().UTC()
	m.CompletedAt = &now
	return nil
}

// MarkFailed moves the match to the Failed terminal state with the
// captured task error. Failed matches count toward completion but
// contribute nothing to standings.
func (m *Match) MarkFailed(errMsg string) {
	m.Status = MatchFailed
	m.ErrorMessage = errMsg
	now := time.Now().UTC()
	m.CompletedAt = &now
}

// Validate checks the match invariants.
func (m *Match) Validate() error {
	v := NewValidationError("match")
	if m.Participant1ID == "" || m.Participant2ID == "" {
		v.AddError("both participant ids are required")
	}
	if m.Participant1ID == m.Participant2ID {
		v.AddError("a participant cannot play itself")
	}
	if m.WinnerID != "" && m.WinnerID != m.Participant1ID && m.WinnerID != m.Participant2ID {
		v.AddError("winner must be one of the match participants")
	}
	if v.HasErrors() {
		return v
	}
	return nil
}

// Standing is a participant's aggregated record within one tournament.
// Standings are always recomputed from scratch from the match set, never
// incrementally patched, so they cannot drift.
type Standing struct {
	ParticipantID string `json:"participant_id"`

	Wins   int `json:"wins"`
	Losses int `json:"losses"`

	// Draws is structurally impossible under a two-outcome comparison
	// but is kept for format extensibility.
	Draws        int `json:"draws"`
	TotalMatches int `json:"total_matches"`

	// AverageScore is the mean of the participant's graded overall
	// scores, 0 when no graded matches exist.
	AverageScore float64 `json:"average_score"`

	// WinPercentage is wins/total_matches*100, 0 when no matches.
	WinPercentage float64 `json:"win_percentage"`

	// Rank is 1-based and derived by sort; it is not authoritative
	// until the standings have been recomputed.
	Rank int `json:"rank"`
}

// Tournament is the aggregate root owned exclusively by the engine for
// the lifetime of a run. It is the serializable snapshot consumed by
// reporting and the HTTP front end.
type Tournament struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Format      TournamentFormat `json:"format"`
	Status      TournamentStatus `json:"status"`

	Participants []Participant `json:"participants"`

	// Matches holds every match, including all rounds for elimination
	// formats.
	Matches []*Match `json:"matches"`

	Standings []Standing `json:"standings"`

	// WinnerID, when set, appears in Participants.
	WinnerID string `json:"winner_id,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewTournament creates an empty tournament shell.
func NewTournament(name, description string, format TournamentFormat, participants []Participant) *Tournament {
	return &Tournament{
		ID:           uuid.NewString(),
		Name:         name,
		Description:  description,
		Format:       format,
		Status:       TournamentCreated,
		Participants: participants,
		CreatedAt:    time.Now().UTC(),
	}
}

// IsCompleted reports whether every match has reached a terminal status.
// An empty match list is vacuously completed.
func (t *Tournament) IsCompleted() bool {
	for _, m := range t.Matches {
		if !m.Status.Terminal() {
			return false
		}
	}
	return true
}

// CompletionPercentage is 100 * completed matches / total matches,
// 0 when the tournament has no matches. Failed matches are terminal and
// therefore excluded from the numerator but not the denominator.
func (t *Tournament) CompletionPercentage() float64 {
	if len(t.Matches) == 0 {
		return 0
	}
	completed := 0
	for _, m := range t.Matches {
		if m.Status == MatchCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(t.Matches)) * 100
}

// HasParticipant reports whether the id belongs to a tournament participant.
func (t *Tournament) HasParticipant(id string) bool {
	for _, p := range t.Participants {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Validate checks the tournament invariants.
func (t *Tournament) Validate() error {
	v := NewValidationError("tournament")
	if t.Name == "" {
		v.AddError("name is required")
	}
	if !t.Format.Valid() {
		v.AddError("unsupported tournament format: " + string(t.Format))
	}
	if t.WinnerID != "" && !t.HasParticipant(t.WinnerID) {
		v.AddError("winner must be a tournament participant")
	}
	for _, m := range t.Matches {
		if err := m.Validate(); err != nil {
			v.AddError(err.Error())
		}
	}
	if v.HasErrors() {
		return v
	}
	return nil
}

func countWords(s string) int {
	n := 0
	inWord := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
			inWord = false
		default:
			if !inWord {
				n++
			}
			inWord = true
		}
	}
	return n
}
