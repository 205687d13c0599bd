// Package transcripts loads pitch transcript files and turns them into
// participants and transcripts for the tournament engine. One .txt file
// is one participant; the display name comes from the file stem.
package transcripts

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ahrav/pitch-arena/internal/domain"
)

// speakingWordsPerMinute is the rate used to estimate pitch duration.
const speakingWordsPerMinute = 150.0

var titleCaser = cases.Title(language.English)

// Loader reads transcript files from a directory.
type Loader struct {
	dir    string
	logger *slog.Logger
}

// NewLoader creates a loader for the given directory. The directory must
// exist.
func NewLoader(dir string, logger *slog.Logger) (*Loader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("transcripts directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("transcripts path is not a directory: %s", dir)
	}
	return &Loader{dir: dir, logger: logger}, nil
}

// LoadAll loads every .txt file in the directory, sorted by filename.
// Unreadable or empty files are logged and skipped; they never abort
// the load. An error is returned only when no file loads at all.
func (l *Loader) LoadAll() ([]domain.Participant, []domain.Transcript, error) {
	paths, err := filepath.Glob(filepath.Join(l.dir, "*.txt"))
	if err != nil {
		return nil, nil, fmt.Errorf("list transcript files: %w", err)
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no transcript files found in %s", l.dir)
	}
	sort.Strings(paths)

	l.logger.Info("loading transcripts", "dir", l.dir, "files", len(paths))

	var participants []domain.Participant
	var transcripts []domain.Transcript
	for _, path := range paths {
		participant, transcript, err := l.loadFile(path)
		if err != nil {
			l.logger.Error("failed to load transcript", "file", path, "error", err)
			continue
		}
		participants = append(participants, participant)
		transcripts = append(transcripts, transcript)
	}

	if len(participants) == 0 {
		return nil, nil, fmt.Errorf("no transcript file in %s could be loaded", l.dir)
	}

	l.logger.Info("loaded transcripts", "participants", len(participants))
	return participants, transcripts, nil
}

func (l *Loader) loadFile(path string) (domain.Participant, domain.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Participant{}, domain.Transcript{}, fmt.Errorf("read file: %w", err)
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return domain.Participant{}, domain.Transcript{}, fmt.Errorf("empty transcript file")
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	participant := domain.NewParticipant(ParticipantName(stem))
	participant.Email = stem + "@salesteam.com"
	participant.Department = "Sales"

	transcript := domain.NewTranscript(participant.ID, content)
	transcript.DurationMinutes = float64(transcript.WordCount) / speakingWordsPerMinute

	return participant, transcript, nil
}

// ParticipantName derives a display name from a file stem:
// "maya_magnificent" becomes "Maya Magnificent".
func ParticipantName(stem string) string {
	parts := strings.Split(stem, "_")
	for i, part := range parts {
		parts[i] = titleCaser.String(part)
	}
	return strings.Join(parts, " ")
}
