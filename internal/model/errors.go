package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSelector    = errors.New("invalid selector")
	ErrUnknownExperiment  = errors.New("unknown experiment")
	ErrInvalidInput       = errors.New("invalid input")
	ErrExternalCapability = errors.New("external capability failure")
	ErrPersistence        = errors.New("persistence failure")
)

// Error wraps one of the error kinds above with a message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// Errorf creates a new error of the given kind.
func Errorf(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap marks err as an error of the given kind, keeping the original error in the chain.
func Wrap(kind error, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, kind) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), &wrapped{kind: kind, err: err})
}

type wrapped struct {
	kind error
	err  error
}

func (w *wrapped) Error() string {
	return fmt.Sprintf("%s: %s", w.kind.Error(), w.err.Error())
}

func (w *wrapped) Is(target error) bool { return target == w.kind }

func (w *wrapped) Unwrap() error { return w.err }

// Phase identifies the runner step an experiment failed in.
type Phase string

const (
	PhaseTrain    Phase = "train"
	PhaseEvaluate Phase = "evaluate"
	PhaseScore    Phase = "score"
	PhasePersist  Phase = "persist"
)

// PhaseError reports which experiment and which phase failed.
type PhaseError struct {
	Experiment string
	Phase      Phase
	Err        error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("experiment %s failed during %s: %s", e.Experiment, e.Phase, e.Err.Error())
}

func (e *PhaseError) Unwrap() error { return e.Err }
