// Package webapi exposes the tournament manager over HTTP. Handlers are
// thin: they decode requests, call the manager, and shape flat response
// DTOs with participant names resolved.
package webapi

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/ahrav/pitch-arena/internal/arena"
	"github.com/ahrav/pitch-arena/internal/domain"
)

// Server wires the HTTP routes to the tournament manager.
type Server struct {
	manager *arena.Manager
	logger  *slog.Logger
}

// NewServer creates the HTTP front end over the given manager.
func NewServer(manager *arena.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{manager: manager, logger: logger}
}

// App builds the Fiber application with all routes registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Get("/health", s.health)
	app.Post("/api/tournaments", s.createTournament)
	app.Get("/api/tournaments", s.listTournaments)
	app.Get("/api/tournaments/:id", s.getTournament)
	app.Get("/api/tournaments/:id/standings", s.getStandings)

	return app
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// createTournamentRequest is the POST body. Each entry pairs a
// participant name with their transcript text.
type createTournamentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Format      string `json:"format"`
	Entries     []struct {
		ParticipantName string `json:"participant_name"`
		Transcript      string `json:"transcript"`
	} `json:"entries"`
}

func (s *Server) createTournament(c *fiber.Ctx) error {
	var req createTournamentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	format := domain.TournamentFormat(req.Format)
	if req.Format == "" {
		format = domain.FormatRoundRobin
	}
	if !format.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "unsupported tournament format: "+req.Format)
	}

	var participants []domain.Participant
	var transcripts []domain.Transcript
	for _, entry := range req.Entries {
		if entry.ParticipantName == "" || entry.Transcript == "" {
			return fiber.NewError(fiber.StatusBadRequest, "every entry needs a participant_name and a transcript")
		}
		p := domain.NewParticipant(entry.ParticipantName)
		participants = append(participants, p)
		transcripts = append(transcripts, domain.NewTranscript(p.ID, entry.Transcript))
	}

	t, err := s.manager.CreateAndRun(c.Context(), req.Name, req.Description, format, participants, transcripts)
	if err != nil {
		if errors.Is(err, domain.ErrMissingTranscript) || errors.Is(err, domain.ErrTooFewParticipants) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		s.logger.Error("tournament run failed", "name", req.Name, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "tournament run failed")
	}

	return c.Status(fiber.StatusCreated).JSON(tournamentResponse(t))
}

func (s *Server) listTournaments(c *fiber.Ctx) error {
	tournaments, err := s.manager.List(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "list tournaments")
	}

	out := make([]fiber.Map, 0, len(tournaments))
	for _, t := range tournaments {
		out = append(out, summaryResponse(t))
	}
	return c.JSON(out)
}

func (s *Server) getTournament(c *fiber.Ctx) error {
	t, err := s.manager.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "get tournament")
	}
	if t == nil {
		return fiber.NewError(fiber.StatusNotFound, "tournament not found")
	}
	return c.JSON(tournamentResponse(t))
}

func (s *Server) getStandings(c *fiber.Ctx) error {
	t, err := s.manager.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "get standings")
	}
	if t == nil {
		return fiber.NewError(fiber.StatusNotFound, "tournament not found")
	}

	names := participantNames(t)
	out := make([]fiber.Map, 0, len(t.Standings))
	for _, st := range t.Standings {
		out = append(out, fiber.Map{
			"rank":             st.Rank,
			"participant_id":   st.ParticipantID,
			"participant_name": names[st.ParticipantID],
			"wins":             st.Wins,
			"losses":           st.Losses,
			"total_matches":    st.TotalMatches,
			"average_score":    st.AverageScore,
			"win_percentage":   st.WinPercentage,
		})
	}
	return c.JSON(out)
}

func participantNames(t *domain.Tournament) map[string]string {
	names := make(map[string]string, len(t.Participants))
	for _, p := range t.Participants {
		names[p.ID] = p.Name
	}
	return names
}

func summaryResponse(t *domain.Tournament) fiber.Map {
	names := participantNames(t)
	return fiber.Map{
		"id":                    t.ID,
		"name":                  t.Name,
		"format":                string(t.Format),
		"status":                string(t.Status),
		"participant_count":     len(t.Participants),
		"match_count":           len(t.Matches),
		"completion_percentage": t.CompletionPercentage(),
		"winner_name":           names[t.WinnerID],
		"created_at":            t.CreatedAt,
	}
}

func tournamentResponse(t *domain.Tournament) fiber.Map {
	names := participantNames(t)

	matches := make([]fiber.Map, 0, len(t.Matches))
	for _, m := range t.Matches {
		matches = append(matches, fiber.Map{
			"id":                  m.ID,
			"participant1_name":   names[m.Participant1ID],
			"participant2_name":   names[m.Participant2ID],
			"winner_name":         names[m.WinnerID],
			"status":              string(m.Status),
			"comparison_feedback": m.ComparisonFeedback,
			"error_message":       m.ErrorMessage,
			"completed_at":        m.CompletedAt,
		})
	}

	resp := summaryResponse(t)
	resp["description"] = t.Description
	resp["matches"] = matches
	resp["started_at"] = t.StartedAt
	resp["completed_at"] = t.CompletedAt
	return resp
}
