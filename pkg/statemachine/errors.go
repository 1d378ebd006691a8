package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid transition: from, to and event must be non-empty")
	ErrInvalidEvent      = errors.New("invalid event: event must be non-empty")
)

// NoTransitionError reports that no transition is declared for State on Event.
type NoTransitionError struct {
	State string
	Event string
}

func (e *NoTransitionError) Error() string {
	return fmt.Sprintf("no transition available from state '%s' for event '%s'", e.State, e.Event)
}

// TransitionRejectedError reports that every candidate transition was vetoed by a guard.
type TransitionRejectedError struct {
	State string
	Event string
}

func (e *TransitionRejectedError) Error() string {
	return fmt.Sprintf("transition from state '%s' for event '%s' was rejected by guards", e.State, e.Event)
}

func IsNoTransition(err error) bool {
	var e *NoTransitionError
	return errors.As(err, &e)
}

func IsTransitionRejected(err error) bool {
	var e *TransitionRejectedError
	return errors.As(err, &e)
}
