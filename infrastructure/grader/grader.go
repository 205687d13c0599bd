package grader

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/pitch-arena/internal/domain"
	"github.com/ahrav/pitch-arena/internal/ports"
)

var _ ports.Grader = (*PitchGrader)(nil)

// gradingTemperature keeps verdicts consistent across repeated runs.
const gradingTemperature = 0.1

// PitchGrader grades and compares sales-pitch transcripts through a
// provider-agnostic LLM client. It is stateless and safe for concurrent
// use, which the match runner relies on.
type PitchGrader struct {
	client ports.LLMClient
	logger *slog.Logger
	tracer trace.Tracer
}

// NewPitchGrader creates a grader over the given completion client.
func NewPitchGrader(client ports.LLMClient, logger *slog.Logger) *PitchGrader {
	if logger == nil {
		logger = slog.Default()
	}
	return &PitchGrader{
		client: client,
		logger: logger,
		tracer: otel.Tracer("pitch-grader"),
	}
}

// Grade evaluates a single transcript against the rubric and returns a
// structured grade with per-criterion scores on the 1-4 scale.
func (g *PitchGrader) Grade(ctx context.Context, transcript domain.Transcript, participant domain.Participant) (*domain.Grade, error) {
	ctx, span := g.tracer.Start(ctx, "PitchGrader.Grade",
		trace.WithAttributes(
			attribute.String("participant.id", participant.ID),
			attribute.Int("transcript.word_count", transcript.WordCount),
		),
	)
	defer span.End()

	g.logger.Info("grading transcript", "participant", participant.Name)

	prompt, err := buildIndividualPrompt(transcript.Content)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	response, err := g.complete(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	parsed, err := parseGradingResponse(response)
	if err != nil {
		span.RecordError(err)
		g.logger.Error("failed to parse grading response", "participant", participant.Name, "error", err)
		return nil, err
	}

	grade := &domain.Grade{
		ID:              uuid.NewString(),
		TranscriptID:    transcript.ID,
		ParticipantID:   participant.ID,
		OverallScore:    parsed.OverallScore,
		OverallFeedback: parsed.OverallFeedback,
		GraderModel:     g.client.GetModel(),
		CreatedAt:       time.Now().UTC(),
	}
	for _, cg := range parsed.CriterionGrades {
		grade.CriterionGrades = append(grade.CriterionGrades, domain.CriterionGrade{
			Criterion:   domain.Criterion(cg.Criterion),
			Score:       cg.Score,
			Explanation: cg.Explanation,
			Feedback:    cg.Feedback,
		})
	}
	grade.FillOverallScore()

	span.SetAttributes(attribute.Float64("grade.overall_score", grade.OverallScore))
	g.logger.Info("graded transcript",
		"participant", participant.Name,
		"overall_score", grade.OverallScore,
	)

	return grade, nil
}

// Compare judges two transcripts head to head. The returned winner id is
// always one of the two participant ids; an unrecognized winner name
// falls back to participant A with a logged warning.
func (g *PitchGrader) Compare(
	ctx context.Context,
	transcriptA domain.Transcript, participantA domain.Participant,
	transcriptB domain.Transcript, participantB domain.Participant,
) (domain.Comparison, error) {
	ctx, span := g.tracer.Start(ctx, "PitchGrader.Compare",
		trace.WithAttributes(
			attribute.String("participant_a.id", participantA.ID),
			attribute.String("participant_b.id", participantB.ID),
		),
	)
	defer span.End()

	g.logger.Info("comparing transcripts",
		"participant_a", participantA.Name,
		"participant_b", participantB.Name,
	)

	prompt, err := buildComparativePrompt(
		participantA.Name, transcriptA.Content,
		participantB.Name, transcriptB.Content,
	)
	if err != nil {
		span.RecordError(err)
		return domain.Comparison{}, err
	}

	response, err := g.complete(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		return domain.Comparison{}, err
	}

	parsed, err := parseComparisonResponse(response)
	if err != nil {
		span.RecordError(err)
		g.logger.Error("failed to parse comparison response",
			"participant_a", participantA.Name,
			"participant_b", participantB.Name,
			"error", err,
		)
		return domain.Comparison{}, err
	}

	winnerID := resolveWinner(g.logger, parsed.WinnerName, participantA, participantB)
	span.SetAttributes(attribute.String("comparison.winner_id", winnerID))

	return domain.Comparison{
		WinnerID:  winnerID,
		Rationale: parsed.WinnerReasoning,
		Metadata: domain.ComparisonMetadata{
			ParticipantAStrengths:  parsed.ParticipantAStrengths,
			ParticipantAWeaknesses: parsed.ParticipantAWeaknesses,
			ParticipantBStrengths:  parsed.ParticipantBStrengths,
			ParticipantBWeaknesses: parsed.ParticipantBWeaknesses,
			KeyDifferentiators:     parsed.KeyDifferentiators,
			ImprovementSuggestions: parsed.ImprovementSuggestions,
		},
	}, nil
}

func (g *PitchGrader) complete(ctx context.Context, prompt string) (string, error) {
	return g.client.Complete(ctx, prompt, map[string]any{
		"system":      systemPrompt,
		"temperature": gradingTemperature,
		"max_tokens":  2000,
	})
}
