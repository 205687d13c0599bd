package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahrav/pitch-arena/internal/arena"
	"github.com/ahrav/pitch-arena/internal/domain"
	"github.com/ahrav/pitch-arena/internal/transcripts"
)

func newRunCommand(configFlag *string) *cobra.Command {
	var transcriptsDir string
	var name string
	var description string
	var format string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a tournament over a directory of transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := arena.LoadConfig(*configFlag)
			if err != nil {
				return err
			}

			logger := slog.Default()
			manager, err := buildManager(cfg, logger)
			if err != nil {
				return err
			}

			loader, err := transcripts.NewLoader(transcriptsDir, logger)
			if err != nil {
				return err
			}
			participants, pitchTranscripts, err := loader.LoadAll()
			if err != nil {
				return err
			}

			tournamentFormat := domain.TournamentFormat(format)
			if !tournamentFormat.Valid() {
				return fmt.Errorf("unsupported tournament format: %q", format)
			}

			if name == "" {
				name = fmt.Sprintf("Sales Pitch Arena %s", time.Now().Format("2006-01-02"))
			}

			tournament, runErr := manager.CreateAndRun(
				cmd.Context(), name, description, tournamentFormat, participants, pitchTranscripts,
			)
			if tournament == nil {
				return runErr
			}

			printResults(cmd, tournament)

			snapshotPath, err := writeSnapshot(outputDir, tournament)
			if err != nil {
				return err
			}
			cmd.Printf("Snapshot written to %s\n", snapshotPath)

			return runErr
		},
	}

	cmd.Flags().StringVarP(&transcriptsDir, "transcripts", "t", "transcripts", "Directory of .txt pitch transcripts")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Tournament name (defaults to a dated name)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Tournament description")
	cmd.Flags().StringVarP(&format, "format", "f", string(domain.FormatRoundRobin), "Tournament format: round_robin, single_elimination, double_elimination")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "results", "Directory for tournament snapshot JSON")

	return cmd
}

func printResults(cmd *cobra.Command, t *domain.Tournament) {
	cmd.Printf("\n%s (%s) - %s, %.0f%% complete\n\n",
		t.Name, t.Format, t.Status, t.CompletionPercentage())
	cmd.Println(renderStandings(t))

	if t.WinnerID != "" {
		for _, p := range t.Participants {
			if p.ID == t.WinnerID {
				cmd.Printf("\nWinner: %s\n", p.Name)
				break
			}
		}
	}
}

// writeSnapshot persists the full tournament as indented JSON so runs
// can be diffed and reloaded by other tooling.
func writeSnapshot(dir string, t *domain.Tournament) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode tournament snapshot: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("tournament_%s.json", t.ID))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write tournament snapshot: %w", err)
	}
	return path, nil
}
