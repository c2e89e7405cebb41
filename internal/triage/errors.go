package triage

import (
	"errors"
	"fmt"
)

var (
	ErrSessionEnded      = errors.New("session has ended")
	ErrEmptyAnswers      = errors.New("no answers submitted")
	ErrUnknownInstrument = errors.New("unknown screening instrument")
)

// InvalidStateError is returned when a transition is attempted on a terminal session
type InvalidStateError struct {
	SessionID string
	Status    SessionStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("session %s: invalid state %q", e.SessionID, e.Status)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrSessionEnded
}

// ScoringError is returned for an unknown instrument or an empty answer set
type ScoringError struct {
	Instrument string
	Err        error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("score %s: %v", e.Instrument, e.Err)
}

func (e *ScoringError) Unwrap() error {
	return e.Err
}
