package webapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/pitch-arena/infrastructure/grader"
	"github.com/ahrav/pitch-arena/internal/arena"
	"github.com/ahrav/pitch-arena/internal/testutils"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := grader.NewPitchGrader(testutils.NewMockLLMClient("mock-model"), logger)
	engine := arena.NewEngine(g, 3, logger, nil)
	manager := arena.NewManager(engine, arena.NewInMemoryStore(), logger)
	return NewServer(manager, logger).App()
}

func postTournament(t *testing.T, app *fiber.App, body map[string]any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/tournaments", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func validEntries() []map[string]string {
	return []map[string]string{
		{"participant_name": "Alice", "transcript": "Hi, I researched your stack and found three hot paths worth profiling."},
		{"participant_name": "Bob", "transcript": "Hello, quick pitch about continuous profiling for your platform team."},
		{"participant_name": "Cara", "transcript": "Good morning, I want to talk about cutting your compute bill with profiling."},
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeJSON(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestCreateTournament(t *testing.T) {
	app := newTestApp(t)

	resp := postTournament(t, app, map[string]any{
		"name":    "weekly arena",
		"format":  "round_robin",
		"entries": validEntries(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	decodeJSON(t, resp, &body)
	assert.Equal(t, "weekly arena", body["name"])
	assert.Equal(t, "completed", body["status"])
	assert.Equal(t, float64(3), body["participant_count"])
	assert.Equal(t, float64(3), body["match_count"], "round robin with 3 participants")
	// Lexicographic mock grader: Alice wins every match.
	assert.Equal(t, "Alice", body["winner_name"])

	matches, ok := body["matches"].([]any)
	require.True(t, ok)
	require.Len(t, matches, 3)
	first, ok := matches[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "completed", first["status"])
	assert.NotEmpty(t, first["winner_name"])
}

func TestCreateTournament_DefaultsToRoundRobin(t *testing.T) {
	app := newTestApp(t)

	resp := postTournament(t, app, map[string]any{
		"name":    "no format",
		"entries": validEntries(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	decodeJSON(t, resp, &body)
	assert.Equal(t, "round_robin", body["format"])
}

func TestCreateTournament_BadRequests(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"entries": validEntries()}},
		{"unknown format", map[string]any{"name": "x", "format": "swiss", "entries": validEntries()}},
		{"too few entries", map[string]any{"name": "x", "entries": validEntries()[:1]}},
		{"entry without transcript", map[string]any{"name": "x", "entries": []map[string]string{
			{"participant_name": "Alice", "transcript": "a pitch"},
			{"participant_name": "Bob"},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postTournament(t, app, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestListAndGetTournaments(t *testing.T) {
	app := newTestApp(t)

	resp := postTournament(t, app, map[string]any{
		"name":    "first",
		"format":  "single_elimination",
		"entries": validEntries(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]any
	decodeJSON(t, resp, &created)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	req := httptest.NewRequest(http.MethodGet, "/api/tournaments", nil)
	listResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list []map[string]any
	decodeJSON(t, listResp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0]["id"])

	req = httptest.NewRequest(http.MethodGet, "/api/tournaments/"+id, nil)
	getResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var got map[string]any
	decodeJSON(t, getResp, &got)
	assert.Equal(t, "first", got["name"])
	assert.Equal(t, "single_elimination", got["format"])
}

func TestGetTournament_NotFound(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tournaments/no-such-id", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/tournaments/no-such-id/standings", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetStandings(t *testing.T) {
	app := newTestApp(t)

	resp := postTournament(t, app, map[string]any{
		"name":    "standings",
		"entries": validEntries(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]any
	decodeJSON(t, resp, &created)
	id, _ := created["id"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/tournaments/"+id+"/standings", nil)
	standingsResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, standingsResp.StatusCode)

	var standings []map[string]any
	decodeJSON(t, standingsResp, &standings)
	require.Len(t, standings, 3)
	assert.Equal(t, float64(1), standings[0]["rank"])
	assert.Equal(t, "Alice", standings[0]["participant_name"])
	assert.Equal(t, float64(2), standings[0]["wins"])
	assert.Equal(t, float64(100), standings[0]["win_percentage"])
}
