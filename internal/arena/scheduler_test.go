package arena

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/pitch-arena/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makeParticipants(names ...string) ([]domain.Participant, []domain.Transcript, map[string]domain.Transcript) {
	var participants []domain.Participant
	var transcripts []domain.Transcript
	byParticipant := make(map[string]domain.Transcript)
	for _, name := range names {
		p := domain.NewParticipant(name)
		tr := domain.NewTranscript(p.ID, "pitch by "+name)
		participants = append(participants, p)
		transcripts = append(transcripts, tr)
		byParticipant[p.ID] = tr
	}
	return participants, transcripts, byParticipant
}

func TestScheduler_RoundRobin_PairCounts(t *testing.T) {
	s := NewScheduler(testLogger())

	for n := 2; n <= 6; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			names := make([]string, n)
			for i := range names {
				names[i] = fmt.Sprintf("P%02d", i)
			}
			participants, _, byParticipant := makeParticipants(names...)
			tour := domain.NewTournament("rr", "", domain.FormatRoundRobin, participants)

			matches, err := s.Schedule(tour, byParticipant)
			require.NoError(t, err)
			assert.Len(t, matches, n*(n-1)/2)

			// Every unordered pair appears exactly once.
			seen := map[string]int{}
			for _, m := range matches {
				a, b := m.Participant1ID, m.Participant2ID
				if a > b {
					a, b = b, a
				}
				seen[a+"|"+b]++
			}
			for pair, count := range seen {
				assert.Equal(t, 1, count, "pair %s scheduled more than once", pair)
			}
			assert.Len(t, seen, n*(n-1)/2)
		})
	}
}

func TestScheduler_MissingTranscriptIsFatal(t *testing.T) {
	s := NewScheduler(testLogger())
	participants, _, byParticipant := makeParticipants("Alpha", "Beta", "Gamma")
	delete(byParticipant, participants[1].ID)

	tour := domain.NewTournament("rr", "", domain.FormatRoundRobin, participants)
	matches, err := s.Schedule(tour, byParticipant)

	require.ErrorIs(t, err, domain.ErrMissingTranscript)
	assert.Nil(t, matches, "no matches may be created on a coverage gap")
	assert.Contains(t, err.Error(), "Beta")
}

func TestScheduler_SingleElimination_OddCountBye(t *testing.T) {
	s := NewScheduler(testLogger())
	participants, _, byParticipant := makeParticipants("Alpha", "Beta", "Gamma", "Delta", "Epsilon")
	// Gamma is the most senior and receives the bye.
	participants[2].ExperienceYears = 12
	participants[0].ExperienceYears = 3

	tour := domain.NewTournament("bracket", "", domain.FormatSingleElimination, participants)
	matches, err := s.Schedule(tour, byParticipant)
	require.NoError(t, err)

	require.Len(t, matches, 2, "five participants yield two first-round matches and one bye")
	for _, m := range matches {
		assert.NotEqual(t, participants[2].ID, m.Participant1ID)
		assert.NotEqual(t, participants[2].ID, m.Participant2ID)
	}
}

func TestScheduler_SingleElimination_ByeTieBreakIsInsertionOrder(t *testing.T) {
	s := NewScheduler(testLogger())
	participants, _, byParticipant := makeParticipants("Alpha", "Beta", "Gamma")
	// No experience attribute anywhere: the first-inserted participant
	// gets the bye because the sort is stable.
	tour := domain.NewTournament("bracket", "", domain.FormatSingleElimination, participants)

	matches, err := s.Schedule(tour, byParticipant)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.NotEqual(t, participants[0].ID, matches[0].Participant1ID)
	assert.NotEqual(t, participants[0].ID, matches[0].Participant2ID)
}

func TestScheduler_NextRound_PairsAndCarry(t *testing.T) {
	s := NewScheduler(testLogger())
	participants, _, byParticipant := makeParticipants("Alpha", "Beta", "Gamma", "Delta", "Epsilon")
	tour := domain.NewTournament("bracket", "", domain.FormatSingleElimination, participants)

	matches, carry := s.NextRound(tour, participants[:4], byParticipant)
	require.Len(t, matches, 2)
	assert.Nil(t, carry, "even winner count carries nobody")

	matches, carry = s.NextRound(tour, participants, byParticipant)
	require.Len(t, matches, 2)
	require.NotNil(t, carry, "odd winner count carries the trailing winner")
	assert.Equal(t, participants[4].ID, carry.ID)

	matches, carry = s.NextRound(tour, participants[:1], byParticipant)
	assert.Empty(t, matches)
	assert.Nil(t, carry, "a single winner ends the bracket")
}

func TestScheduler_UnsupportedFormat(t *testing.T) {
	s := NewScheduler(testLogger())
	participants, _, byParticipant := makeParticipants("Alpha", "Beta")
	tour := domain.NewTournament("x", "", domain.FormatRoundRobin, participants)
	tour.Format = domain.TournamentFormat("swiss")

	_, err := s.Schedule(tour, byParticipant)
	require.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestScheduler_DoubleEliminationFallsBack(t *testing.T) {
	s := NewScheduler(testLogger())
	participants, _, byParticipant := makeParticipants("Alpha", "Beta", "Gamma", "Delta")
	tour := domain.NewTournament("bracket", "", domain.FormatDoubleElimination, participants)

	matches, err := s.Schedule(tour, byParticipant)
	require.NoError(t, err)
	assert.Len(t, matches, 2, "double elimination schedules a single-elimination bracket")
}
