// Package statemachine implements small finite state machines over
// string-backed state and event types.
//
// Machines are declared with functional options. Each transition may carry
// guards, which must all pass, and actions, which run in order before the
// state changes; a failing action aborts the transition. Observers are
// notified after every successful transition.
//
//	type phase string
//	type signal string
//
//	m := statemachine.MustNew[phase, signal]("closed",
//	    statemachine.WithTransition[phase, signal]("closed", "editing", "open"),
//	    statemachine.WithTransition[phase, signal]("editing", "sending", "submit"),
//	)
//	_ = m.Fire(ctx, "open")
//
// A rejected Fire returns *NoTransitionError or *TransitionRejectedError, so
// callers can tell "not defined" from "blocked by a guard". Machines are safe
// for concurrent use; guards, actions and observers must not call back into
// the machine that invokes them, except observers which run unlocked.
package statemachine
