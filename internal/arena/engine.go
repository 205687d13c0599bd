package arena

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahrav/pitch-arena/internal/domain"
	"github.com/ahrav/pitch-arena/internal/ports"
)

// Engine is the tournament orchestrator. It owns the Tournament
// aggregate for the lifetime of a run: a single control flow mutates
// matches and standings while outbound grading calls fan out through
// the bounded runner. Transcripts are passed explicitly into each run;
// the engine holds no per-tournament state between calls.
type Engine struct {
	grader        ports.Grader
	scheduler     *Scheduler
	logger        *slog.Logger
	metrics       ports.MetricsCollector
	maxConcurrent int
}

// NewEngine creates an orchestrator. maxConcurrent caps simultaneous
// grading calls; metrics may be nil.
func NewEngine(grader ports.Grader, maxConcurrent int, logger *slog.Logger, metrics ports.MetricsCollector) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Engine{
		grader:        grader,
		scheduler:     NewScheduler(logger),
		logger:        logger,
		metrics:       metrics,
		maxConcurrent: maxConcurrent,
	}
}

// runContext is the per-run lookup state, built from the transcripts the
// caller passes in. It never outlives one RunTournament call.
type runContext struct {
	participantsByID         map[string]domain.Participant
	transcriptsByID          map[string]domain.Transcript
	transcriptsByParticipant map[string]domain.Transcript
}

func newRunContext(participants []domain.Participant, transcripts []domain.Transcript) *runContext {
	rc := &runContext{
		participantsByID:         make(map[string]domain.Participant, len(participants)),
		transcriptsByID:          make(map[string]domain.Transcript, len(transcripts)),
		transcriptsByParticipant: make(map[string]domain.Transcript, len(transcripts)),
	}
	for _, p := range participants {
		rc.participantsByID[p.ID] = p
	}
	for _, tr := range transcripts {
		rc.transcriptsByID[tr.ID] = tr
		rc.transcriptsByParticipant[tr.ParticipantID] = tr
	}
	return rc
}

// CreateTournament validates transcript coverage, schedules the initial
// matches, and initializes zeroed standings. Validation failures abort
// before any match is created and mark the tournament Failed.
func (e *Engine) CreateTournament(
	name, description string,
	format domain.TournamentFormat,
	participants []domain.Participant,
	transcripts []domain.Transcript,
) (*domain.Tournament, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
	if len(participants) < 2 {
		return nil, domain.ErrTooFewParticipants
	}

	e.logger.Info("creating tournament",
		"name", name,
		"format", string(format),
		"participants", len(participants),
	)

	t := domain.NewTournament(name, description, format, participants)
	rc := newRunContext(participants, transcripts)

	matches, err := e.scheduler.Schedule(t, rc.transcriptsByParticipant)
	if err != nil {
		t.Status = domain.TournamentFailed
		return nil, err
	}

	t.Matches = matches
	t.Standings = domain.ComputeStandings(nil, participants)
	t.Status = domain.TournamentScheduled

	e.logger.Info("tournament created", "name", name, "matches", len(matches))
	return t, nil
}

// RunTournament drives every wave to completion and finalizes the
// tournament record. Round-robin submits all matches in one wave;
// elimination formats loop rounds, generating round k+1 only after
// round k's results are fully applied. Cancellation stops submission of
// further waves but keeps results already applied.
func (e *Engine) RunTournament(ctx context.Context, t *domain.Tournament, transcripts []domain.Transcript) error {
	if t.Status != domain.TournamentScheduled {
		return fmt.Errorf("tournament %q is %s, expected %s", t.Name, t.Status, domain.TournamentScheduled)
	}

	start := time.Now().UTC()
	t.StartedAt = &start
	t.Status = domain.TournamentRunning
	e.logger.Info("starting tournament", "name", t.Name, "format", string(t.Format))

	rc := newRunContext(t.Participants, transcripts)

	switch t.Format {
	case domain.FormatRoundRobin:
		e.runWave(ctx, t, t.Matches, rc)
	case domain.FormatSingleElimination, domain.FormatDoubleElimination:
		e.runBracket(ctx, t, rc)
	}

	t.Standings = domain.ComputeStandings(t.Matches, t.Participants)

	if ctx.Err() != nil {
		e.logger.Warn("tournament run canceled", "name", t.Name,
			"completion_percentage", t.CompletionPercentage())
		return ctx.Err()
	}

	if len(t.Standings) > 0 {
		t.WinnerID = t.Standings[0].ParticipantID
	}
	now := time.Now().UTC()
	t.CompletedAt = &now
	t.Status = domain.TournamentCompleted

	e.recordLatency("run_tournament", time.Since(start))
	e.logger.Info("tournament completed",
		"name", t.Name,
		"winner", rc.participantsByID[t.WinnerID].Name,
		"completion_percentage", t.CompletionPercentage(),
	)
	return nil
}

// runBracket loops elimination rounds until a single winner remains or
// no further matches can be generated.
func (e *Engine) runBracket(ctx context.Context, t *domain.Tournament, rc *runContext) {
	current := t.Matches
	round := 1
	var carry *domain.Participant

	for len(current) > 0 {
		if ctx.Err() != nil {
			return
		}
		e.logger.Info("processing elimination round", "round", round, "matches", len(current))
		e.runWave(ctx, t, current, rc)

		winners := roundWinners(current, rc)
		if carry != nil {
			winners = append(winners, *carry)
			carry = nil
		}
		if len(winners) <= 1 {
			return
		}

		var next []*domain.Match
		next, carry = e.scheduler.NextRound(t, winners, rc.transcriptsByParticipant)
		if len(next) == 0 {
			return
		}
		t.Matches = append(t.Matches, next...)
		current = next
		round++
	}
}

// runWave submits one batch of matches to the bounded runner and
// applies the outcomes in submission order. A failed task marks only
// its own match Failed.
func (e *Engine) runWave(ctx context.Context, t *domain.Tournament, matches []*domain.Match, rc *runContext) {
	tasks := make([]func(context.Context) (domain.Comparison, error), len(matches))
	for i, m := range matches {
		m.Status = domain.MatchInProgress
		tasks[i] = func(ctx context.Context) (domain.Comparison, error) {
			return e.grader.Compare(ctx,
				rc.transcriptsByID[m.Transcript1ID], rc.participantsByID[m.Participant1ID],
				rc.transcriptsByID[m.Transcript2ID], rc.participantsByID[m.Participant2ID],
			)
		}
	}

	outcomes := RunAll(ctx, e.maxConcurrent, tasks)

	for i, outcome := range outcomes {
		m := matches[i]
		if outcome.Err != nil {
			m.MarkFailed(outcome.Err.Error())
			e.recordMatch(t, "failed")
			e.logger.Error("match failed",
				"participant1", rc.participantsByID[m.Participant1ID].Name,
				"participant2", rc.participantsByID[m.Participant2ID].Name,
				"error", outcome.Err,
			)
			continue
		}
		if err := m.SetWinner(outcome.Value.WinnerID, outcome.Value.Rationale); err != nil {
			m.MarkFailed(err.Error())
			e.recordMatch(t, "failed")
			continue
		}
		e.recordMatch(t, "completed")
	}
}

// roundWinners collects the winners of a round in match order. Failed
// matches advance nobody.
func roundWinners(matches []*domain.Match, rc *runContext) []domain.Participant {
	var winners []domain.Participant
	for _, m := range matches {
		if m.Status == domain.MatchCompleted && m.WinnerID != "" {
			winners = append(winners, rc.participantsByID[m.WinnerID])
		}
	}
	return winners
}

func (e *Engine) recordMatch(t *domain.Tournament, status string) {
	if e.metrics == nil {
		return
	}
	e.metrics.RecordCounter("arena_matches_total", 1, map[string]string{
		"format": string(t.Format),
		"status": status,
	})
}

func (e *Engine) recordLatency(operation string, d time.Duration) {
	if e.metrics == nil {
		return
	}
	e.metrics.RecordLatency(operation, d, nil)
}
