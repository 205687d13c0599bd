package arena

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/pitch-arena/internal/domain"
)

func newTestManager() *Manager {
	engine := NewEngine(newStubGrader(), 3, testLogger(), nil)
	return NewManager(engine, NewInMemoryStore(), testLogger())
}

func TestManager_CreateAndRun(t *testing.T) {
	m := newTestManager()
	participants, transcripts, _ := makeParticipants("A", "B", "C")

	tour, err := m.CreateAndRun(context.Background(), "arena", "weekly", domain.FormatRoundRobin, participants, transcripts)
	require.NoError(t, err)
	assert.Equal(t, domain.TournamentCompleted, tour.Status)

	stored, err := m.Get(context.Background(), tour.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, tour.ID, stored.ID)
	assert.Equal(t, domain.TournamentCompleted, stored.Status)

	standings, err := m.Standings(context.Background(), tour.ID)
	require.NoError(t, err)
	require.Len(t, standings, 3)
	assert.Equal(t, 1, standings[0].Rank)
}

func TestManager_CreateAndRun_ValidationErrorNotStored(t *testing.T) {
	m := newTestManager()
	participants, _, _ := makeParticipants("A", "B")

	_, err := m.CreateAndRun(context.Background(), "arena", "", domain.FormatRoundRobin, participants, nil)
	require.ErrorIs(t, err, domain.ErrMissingTranscript)

	list, err := m.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list, "a tournament that failed validation is never stored")
}

func TestManager_GetUnknownReturnsNil(t *testing.T) {
	m := newTestManager()

	tour, err := m.Get(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, tour)

	standings, err := m.Standings(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, standings)
}

func TestManager_ListPreservesInsertionOrder(t *testing.T) {
	m := newTestManager()

	var ids []string
	for _, name := range []string{"first", "second", "third"} {
		participants, transcripts, _ := makeParticipants("A", "B")
		tour, err := m.CreateAndRun(context.Background(), name, "", domain.FormatRoundRobin, participants, transcripts)
		require.NoError(t, err)
		ids = append(ids, tour.ID)
	}

	list, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, tour := range list {
		assert.Equal(t, ids[i], tour.ID)
	}
}
