package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for tournament validation and configuration failures.
var (
	// ErrMissingTranscript indicates a participant has no transcript.
	// This is fatal at tournament creation, before any match exists.
	ErrMissingTranscript = errors.New("participant has no transcript")

	// ErrInvalidWinner indicates a winner id that is not one of the
	// match participants.
	ErrInvalidWinner = errors.New("winner must be one of the match participants")

	// ErrUnsupportedFormat indicates an unknown tournament format.
	ErrUnsupportedFormat = errors.New("unsupported tournament format")

	// ErrTooFewParticipants indicates a tournament needs at least two
	// participants to schedule any match.
	ErrTooFewParticipants = errors.New("tournament requires at least two participants")
)

// MissingTranscriptError reports which participants lack transcripts.
// It unwraps to ErrMissingTranscript.
type MissingTranscriptError struct {
	// ParticipantNames lists the affected participants by display name.
	ParticipantNames []string
}

// Error implements the error interface.
func (e *MissingTranscriptError) Error() string {
	return fmt.Sprintf("missing transcripts for participants: %s",
		strings.Join(e.ParticipantNames, ", "))
}

// Unwrap supports errors.Is(err, ErrMissingTranscript).
func (e *MissingTranscriptError) Unwrap() error { return ErrMissingTranscript }

// ValidationError collects one or more invariant violations for an entity.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the individual violation messages.
	Errors []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError appends a violation message.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors reports whether any violation was recorded.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates an empty ValidationError for the entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{Entity: entity}
}
