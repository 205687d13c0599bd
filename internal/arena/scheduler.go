package arena

import (
	"log/slog"
	"sort"

	"github.com/ahrav/pitch-arena/internal/domain"
)

// Scheduler turns a participant set into matches for a tournament
// format. It validates transcript coverage before creating any match.
type Scheduler struct {
	logger *slog.Logger
}

// NewScheduler creates a scheduler logging bye selections and format
// fallbacks to the given logger.
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{logger: logger}
}

// Schedule produces the initial match set for the tournament.
// Round-robin yields one match per unordered pair, n(n-1)/2 in total.
// Elimination formats yield only the first round; later rounds are
// generated by NextRound as winners emerge. Every participant must have
// a transcript; a gap is fatal and no matches are created.
func (s *Scheduler) Schedule(t *domain.Tournament, transcripts map[string]domain.Transcript) ([]*domain.Match, error) {
	if err := checkTranscriptCoverage(t.Participants, transcripts); err != nil {
		return nil, err
	}

	switch t.Format {
	case domain.FormatRoundRobin:
		return s.scheduleRoundRobin(t, transcripts), nil
	case domain.FormatSingleElimination, domain.FormatDoubleElimination:
		if t.Format == domain.FormatDoubleElimination {
			s.logger.Warn("double elimination not fully implemented, falling back to single elimination",
				"tournament", t.Name)
		}
		return s.scheduleFirstBracketRound(t, transcripts), nil
	default:
		return nil, domain.ErrUnsupportedFormat
	}
}

// NextRound pairs the given round winners sequentially into the
// following round's matches. An odd winner count greater than one gives
// the trailing winner a bye: they are returned as the carryover and
// rejoin the winner pool of the round being generated. The bye is
// logged so no participant silently disappears from the bracket.
func (s *Scheduler) NextRound(t *domain.Tournament, winners []domain.Participant, transcripts map[string]domain.Transcript) ([]*domain.Match, *domain.Participant) {
	var matches []*domain.Match
	for i := 0; i+1 < len(winners); i += 2 {
		p1, p2 := winners[i], winners[i+1]
		matches = append(matches, domain.NewMatch(t.ID, p1, p2, transcripts[p1.ID], transcripts[p2.ID]))
	}

	var carry *domain.Participant
	if len(winners) > 1 && len(winners)%2 == 1 {
		bye := winners[len(winners)-1]
		carry = &bye
		s.logger.Info("participant receives a bye to the next round",
			"participant", bye.Name, "tournament", t.Name)
	}
	return matches, carry
}

func (s *Scheduler) scheduleRoundRobin(t *domain.Tournament, transcripts map[string]domain.Transcript) []*domain.Match {
	var matches []*domain.Match
	for i := 0; i < len(t.Participants); i++ {
		for j := i + 1; j < len(t.Participants); j++ {
			p1, p2 := t.Participants[i], t.Participants[j]
			matches = append(matches, domain.NewMatch(t.ID, p1, p2, transcripts[p1.ID], transcripts[p2.ID]))
		}
	}
	return matches
}

// scheduleFirstBracketRound pairs participants sequentially in their
// given order. With an odd count, the participant with the most
// experience years advances on a bye; insertion order breaks ties
// because the sort is stable.
func (s *Scheduler) scheduleFirstBracketRound(t *domain.Tournament, transcripts map[string]domain.Transcript) []*domain.Match {
	participants := make([]domain.Participant, len(t.Participants))
	copy(participants, t.Participants)

	if len(participants)%2 == 1 {
		sort.SliceStable(participants, func(i, j int) bool {
			return participants[i].ExperienceYears > participants[j].ExperienceYears
		})
		bye := participants[0]
		participants = participants[1:]
		s.logger.Info("participant receives a bye to the next round",
			"participant", bye.Name, "tournament", t.Name)
	}

	var matches []*domain.Match
	for i := 0; i+1 < len(participants); i += 2 {
		p1, p2 := participants[i], participants[i+1]
		matches = append(matches, domain.NewMatch(t.ID, p1, p2, transcripts[p1.ID], transcripts[p2.ID]))
	}
	return matches
}

func checkTranscriptCoverage(participants []domain.Participant, transcripts map[string]domain.Transcript) error {
	var missing []string
	for _, p := range participants {
		if _, ok := transcripts[p.ID]; !ok {
			missing = append(missing, p.Name)
		}
	}
	if len(missing) > 0 {
		return &domain.MissingTranscriptError{ParticipantNames: missing}
	}
	return nil
}
