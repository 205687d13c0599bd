package arena

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/pitch-arena/internal/domain"
)

// stubGrader resolves comparisons deterministically without an LLM.
type stubGrader struct {
	mu    sync.Mutex
	calls int

	// pick returns the winner. Defaults to lexicographically-first name.
	pick func(a, b domain.Participant) domain.Participant

	// fail makes matches involving both named participants error.
	fail func(a, b domain.Participant) error
}

func newStubGrader() *stubGrader {
	return &stubGrader{
		pick: func(a, b domain.Participant) domain.Participant {
			if a.Name < b.Name {
				return a
			}
			return b
		},
	}
}

func (s *stubGrader) Grade(ctx context.Context, tr domain.Transcript, p domain.Participant) (*domain.Grade, error) {
	return &domain.Grade{ParticipantID: p.ID, TranscriptID: tr.ID, OverallScore: 3}, nil
}

func (s *stubGrader) Compare(
	ctx context.Context,
	ta domain.Transcript, pa domain.Participant,
	tb domain.Transcript, pb domain.Participant,
) (domain.Comparison, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if ctx.Err() != nil {
		return domain.Comparison{}, ctx.Err()
	}
	if s.fail != nil {
		if err := s.fail(pa, pb); err != nil {
			return domain.Comparison{}, err
		}
	}
	winner := s.pick(pa, pb)
	return domain.Comparison{WinnerID: winner.ID, Rationale: winner.Name + " was stronger"}, nil
}

func findStanding(t *testing.T, standings []domain.Standing, id string) domain.Standing {
	t.Helper()
	for _, s := range standings {
		if s.ParticipantID == id {
			return s
		}
	}
	t.Fatalf("no standing for participant %s", id)
	return domain.Standing{}
}

func TestEngine_RoundRobin_EndToEnd(t *testing.T) {
	participants, transcripts, _ := makeParticipants("A", "B", "C", "D")
	grader := newStubGrader()
	engine := NewEngine(grader, 3, testLogger(), nil)

	tour, err := engine.CreateTournament("arena", "test run", domain.FormatRoundRobin, participants, transcripts)
	require.NoError(t, err)
	assert.Equal(t, domain.TournamentScheduled, tour.Status)
	assert.Len(t, tour.Matches, 6)
	assert.Len(t, tour.Standings, 4, "standings are initialized for every participant")

	require.NoError(t, engine.RunTournament(context.Background(), tour, transcripts))

	assert.Equal(t, domain.TournamentCompleted, tour.Status)
	assert.True(t, tour.IsCompleted())
	assert.InDelta(t, 100.0, tour.CompletionPercentage(), 1e-9)
	require.NotNil(t, tour.StartedAt)
	require.NotNil(t, tour.CompletedAt)
	assert.Equal(t, 6, grader.calls)

	// Lexicographically-first wins every pair: A sweeps, D loses all.
	a := findStanding(t, tour.Standings, participants[0].ID)
	d := findStanding(t, tour.Standings, participants[3].ID)
	assert.Equal(t, 3, a.Wins)
	assert.Equal(t, 1, a.Rank)
	assert.Equal(t, 3, d.Losses)
	assert.Equal(t, 4, d.Rank)
	assert.Equal(t, participants[0].ID, tour.WinnerID)
}

func TestEngine_SingleElimination_FiveParticipants(t *testing.T) {
	participants, transcripts, _ := makeParticipants("Al", "Bree", "Cassidy", "Dee", "Evangeline")
	grader := newStubGrader()
	// Longer name wins.
	grader.pick = func(a, b domain.Participant) domain.Participant {
		if len(a.Name) >= len(b.Name) {
			return a
		}
		return b
	}
	engine := NewEngine(grader, 2, testLogger(), nil)

	tour, err := engine.CreateTournament("bracket", "", domain.FormatSingleElimination, participants, transcripts)
	require.NoError(t, err)
	require.Len(t, tour.Matches, 2, "one bye, two first-round matches")

	require.NoError(t, engine.RunTournament(context.Background(), tour, transcripts))

	// Two first-round matches plus one final.
	assert.Len(t, tour.Matches, 3)
	assert.Equal(t, domain.TournamentCompleted, tour.Status)
	assert.NotEmpty(t, tour.WinnerID)
	assert.True(t, tour.HasParticipant(tour.WinnerID))

	final := tour.Matches[2]
	assert.Equal(t, domain.MatchCompleted, final.Status)
	assert.Equal(t, tour.WinnerID, final.WinnerID, "champion is the final's winner")
}

func TestEngine_FailedMatchIsIsolated(t *testing.T) {
	participants, transcripts, _ := makeParticipants("A", "B", "C", "D")
	grader := newStubGrader()
	badA, badB := participants[1], participants[2]
	grader.fail = func(a, b domain.Participant) error {
		if (a.ID == badA.ID && b.ID == badB.ID) || (a.ID == badB.ID && b.ID == badA.ID) {
			return assert.AnError
		}
		return nil
	}
	engine := NewEngine(grader, 3, testLogger(), nil)

	tour, err := engine.CreateTournament("arena", "", domain.FormatRoundRobin, participants, transcripts)
	require.NoError(t, err)
	require.NoError(t, engine.RunTournament(context.Background(), tour, transcripts))

	assert.Equal(t, domain.TournamentCompleted, tour.Status, "partial failure still completes the tournament")
	assert.True(t, tour.IsCompleted())
	assert.Less(t, tour.CompletionPercentage(), 100.0)

	var failed, completed int
	for _, m := range tour.Matches {
		switch m.Status {
		case domain.MatchFailed:
			failed++
			assert.NotEmpty(t, m.ErrorMessage)
			assert.Empty(t, m.WinnerID)
		case domain.MatchCompleted:
			completed++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 5, completed)

	// The failed match contributes nothing to standings.
	var wins, losses int
	for _, s := range tour.Standings {
		wins += s.Wins
		losses += s.Losses
	}
	assert.Equal(t, 5, wins)
	assert.Equal(t, 5, losses)
}

func TestEngine_CreateTournament_Validation(t *testing.T) {
	participants, transcripts, _ := makeParticipants("A", "B")
	engine := NewEngine(newStubGrader(), 3, testLogger(), nil)

	_, err := engine.CreateTournament("x", "", domain.TournamentFormat("swiss"), participants, transcripts)
	require.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	_, err = engine.CreateTournament("x", "", domain.FormatRoundRobin, participants[:1], transcripts)
	require.ErrorIs(t, err, domain.ErrTooFewParticipants)

	_, err = engine.CreateTournament("x", "", domain.FormatRoundRobin, participants, nil)
	require.ErrorIs(t, err, domain.ErrMissingTranscript)
}

func TestEngine_RunRequiresScheduledState(t *testing.T) {
	participants, transcripts, _ := makeParticipants("A", "B")
	engine := NewEngine(newStubGrader(), 3, testLogger(), nil)

	tour, err := engine.CreateTournament("x", "", domain.FormatRoundRobin, participants, transcripts)
	require.NoError(t, err)
	require.NoError(t, engine.RunTournament(context.Background(), tour, transcripts))

	err = engine.RunTournament(context.Background(), tour, transcripts)
	require.Error(t, err, "a completed tournament cannot be rerun")
}

func TestEngine_CancellationStopsFurtherWaves(t *testing.T) {
	participants, transcripts, _ := makeParticipants("Al", "Bree", "Cass", "Dee")
	grader := newStubGrader()
	engine := NewEngine(grader, 2, testLogger(), nil)

	tour, err := engine.CreateTournament("bracket", "", domain.FormatSingleElimination, participants, transcripts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = engine.RunTournament(ctx, tour, transcripts)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.TournamentRunning, tour.Status, "a canceled run is not completed")
	assert.Nil(t, tour.CompletedAt)
	assert.Empty(t, tour.WinnerID)
}

func TestEngine_DoubleEliminationRunsAsSingle(t *testing.T) {
	participants, transcripts, _ := makeParticipants("A", "B", "C", "D")
	engine := NewEngine(newStubGrader(), 3, testLogger(), nil)

	tour, err := engine.CreateTournament("bracket", "", domain.FormatDoubleElimination, participants, transcripts)
	require.NoError(t, err)
	require.NoError(t, engine.RunTournament(context.Background(), tour, transcripts))

	assert.Equal(t, domain.TournamentCompleted, tour.Status)
	assert.Len(t, tour.Matches, 3, "two semifinals and a final")
	assert.NotEmpty(t, tour.WinnerID)
}
