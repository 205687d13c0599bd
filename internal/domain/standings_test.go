package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildRoundRobin wires a completed round-robin between the participants
// where the winner of each pair is chosen by the pick function.
func buildRoundRobin(t *testing.T, participants []Participant, pick func(a, b Participant) string) []*Match {
	t.Helper()

	transcripts := make(map[string]Transcript, len(participants))
	for _, p := range participants {
		transcripts[p.ID] = NewTranscript(p.ID, "pitch by "+p.Name)
	}

	var matches []*Match
	for i := 0; i < len(participants); i++ {
		for j := i + 1; j < len(participants); j++ {
			a, b := participants[i], participants[j]
			m := NewMatch("tourney", a, b, transcripts[a.ID], transcripts[b.ID])
			require.NoError(t, m.SetWinner(pick(a, b), ""))
			matches = append(matches, m)
		}
	}
	return matches
}

func TestComputeStandings_WinsAndLossesBalance(t *testing.T) {
	participants := []Participant{
		NewParticipant("Alpha"),
		NewParticipant("Beta"),
		NewParticipant("Gamma"),
		NewParticipant("Delta"),
	}
	matches := buildRoundRobin(t, participants, func(a, b Participant) string {
		if a.Name < b.Name {
			return a.ID
		}
		return b.ID
	})

	standings := ComputeStandings(matches, participants)
	require.Len(t, standings, 4)

	var wins, losses, decided int
	for _, s := range standings {
		wins += s.Wins
		losses += s.Losses
	}
	for _, m := range matches {
		if m.WinnerID != "" {
			decided++
		}
	}
	assert.Equal(t, decided, wins, "sum of wins equals decided matches")
	assert.Equal(t, decided, losses, "sum of losses equals decided matches")

	// Lexicographically-first name wins every pair: Alpha sweeps.
	assert.Equal(t, participants[0].ID, standings[0].ParticipantID)
	assert.Equal(t, 3, standings[0].Wins)
	assert.Equal(t, 1, standings[0].Rank)
	assert.InDelta(t, 100.0, standings[0].WinPercentage, 1e-9)

	last := standings[len(standings)-1]
	assert.Equal(t, 3, last.Losses)
	assert.Equal(t, 4, last.Rank)
	assert.Zero(t, last.WinPercentage)
}

func TestComputeStandings_Idempotent(t *testing.T) {
	participants := []Participant{
		NewParticipant("Alpha"),
		NewParticipant("Beta"),
		NewParticipant("Gamma"),
	}
	matches := buildRoundRobin(t, participants, func(a, b Participant) string {
		if len(a.Name) >= len(b.Name) {
			return a.ID
		}
		return b.ID
	})

	first := ComputeStandings(matches, participants)
	second := ComputeStandings(matches, participants)
	assert.Equal(t, first, second, "recomputing from the same matches yields identical ranks")
}

func TestComputeStandings_FailedMatchesExcluded(t *testing.T) {
	p1 := NewParticipant("Alpha")
	p2 := NewParticipant("Beta")
	t1 := NewTranscript(p1.ID, "a")
	t2 := NewTranscript(p2.ID, "b")

	won := NewMatch("tourney", p1, p2, t1, t2)
	require.NoError(t, won.SetWinner(p1.ID, ""))

	failed := NewMatch("tourney", p1, p2, t1, t2)
	failed.MarkFailed("provider error")

	pending := NewMatch("tourney", p1, p2, t1, t2)

	standings := ComputeStandings([]*Match{won, failed, pending}, []Participant{p1, p2})
	require.Len(t, standings, 2)
	assert.Equal(t, 1, standings[0].Wins)
	assert.Equal(t, 1, standings[0].TotalMatches, "failed and pending matches contribute nothing")
	assert.Equal(t, 1, standings[1].TotalMatches)
}

func TestComputeStandings_AverageScoreTieBreak(t *testing.T) {
	p1 := NewParticipant("Alpha")
	p2 := NewParticipant("Beta")
	p3 := NewParticipant("Gamma")
	p4 := NewParticipant("Delta")
	tr := func(p Participant) Transcript { return NewTranscript(p.ID, "pitch") }

	grade := func(p Participant, score float64) *Grade {
		return &Grade{ParticipantID: p.ID, OverallScore: score}
	}

	// One win each for p1 and p2, but p2 carries a higher graded score.
	m1 := NewMatch("tourney", p1, p3, tr(p1), tr(p3))
	require.NoError(t, m1.SetWinner(p1.ID, ""))
	m1.Grade1 = grade(p1, 2.4)

	m2 := NewMatch("tourney", p2, p4, tr(p2), tr(p4))
	require.NoError(t, m2.SetWinner(p2.ID, ""))
	m2.Grade1 = grade(p2, 3.6)

	standings := ComputeStandings([]*Match{m1, m2}, []Participant{p1, p2, p3, p4})

	assert.Equal(t, p2.ID, standings[0].ParticipantID, "higher average score ranks first on equal wins")
	assert.Equal(t, p1.ID, standings[1].ParticipantID)
	assert.InDelta(t, 3.6, standings[0].AverageScore, 1e-9)
}

func TestComputeStandings_StableBeyondAllKeys(t *testing.T) {
	p1 := NewParticipant("Alpha")
	p2 := NewParticipant("Beta")

	// No completed matches: everything ties, input order decides.
	standings := ComputeStandings(nil, []Participant{p1, p2})
	require.Len(t, standings, 2)
	assert.Equal(t, p1.ID, standings[0].ParticipantID)
	assert.Equal(t, 1, standings[0].Rank)
	assert.Equal(t, p2.ID, standings[1].ParticipantID)
	assert.Equal(t, 2, standings[1].Rank)
	assert.Zero(t, standings[0].AverageScore)
}
