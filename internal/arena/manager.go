package arena

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ahrav/pitch-arena/internal/domain"
	"github.com/ahrav/pitch-arena/internal/ports"
)

// Manager is the high-level entry point used by the CLI and HTTP front
// ends. It composes the engine with a tournament store; the engine
// itself stays free of process-wide state.
type Manager struct {
	engine *Engine
	store  ports.TournamentStore
	logger *slog.Logger
}

// NewManager creates a manager over the given engine and store.
func NewManager(engine *Engine, store ports.TournamentStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{engine: engine, store: store, logger: logger}
}

// CreateAndRun creates a tournament, runs it to completion, and stores
// the snapshot at both stages so observers can poll progress. The
// returned tournament reflects whatever completed before an error.
func (m *Manager) CreateAndRun(
	ctx context.Context,
	name, description string,
	format domain.TournamentFormat,
	participants []domain.Participant,
	transcripts []domain.Transcript,
) (*domain.Tournament, error) {
	t, err := m.engine.CreateTournament(name, description, format, participants, transcripts)
	if err != nil {
		return nil, err
	}

	if err := m.store.Put(ctx, t); err != nil {
		return nil, fmt.Errorf("store tournament: %w", err)
	}

	runErr := m.engine.RunTournament(ctx, t, transcripts)

	if err := m.store.Put(ctx, t); err != nil {
		return t, fmt.Errorf("store tournament result: %w", err)
	}
	if runErr != nil {
		return t, runErr
	}
	return t, nil
}

// Get returns the tournament snapshot for the id, or nil when unknown.
func (m *Manager) Get(ctx context.Context, id string) (*domain.Tournament, error) {
	return m.store.Get(ctx, id)
}

// List returns every stored tournament snapshot in insertion order.
func (m *Manager) List(ctx context.Context) ([]*domain.Tournament, error) {
	return m.store.List(ctx)
}

// Standings returns the current standings of a tournament, or nil when
// the tournament is unknown.
func (m *Manager) Standings(ctx context.Context, id string) ([]domain.Standing, error) {
	t, err := m.store.Get(ctx, id)
	if err != nil || t == nil {
		return nil, err
	}
	return t.Standings, nil
}
