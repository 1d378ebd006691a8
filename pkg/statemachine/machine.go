package statemachine

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Guard decides whether a transition may proceed.
type Guard[S, E ~string] func(ctx context.Context, from S, event E) bool

// Action runs a side effect before the state changes. An error aborts the transition.
type Action[S, E ~string] func(ctx context.Context, from, to S, event E) error

// Observer is notified after a transition has been applied.
type Observer[S, E ~string] func(ctx context.Context, from, to S, event E)

// Transition is a declared state change.
type Transition[S, E ~string] struct {
	From    S
	To      S
	Event   E
	Guards  []Guard[S, E]
	Actions []Action[S, E]
}

// Machine is an in-memory finite state machine.
// Transitions are indexed as [from][event] and tried in declaration order.
type Machine[S, E ~string] struct {
	initial   S
	current   S
	table     map[S]map[E][]Transition[S, E]
	observers []Observer[S, E]
	history   []S
	mu        sync.RWMutex
}

// Option configures a Machine during construction.
type Option[S, E ~string] func(*Machine[S, E]) error

// TransitionOption attaches guards and actions to one transition.
type TransitionOption[S, E ~string] func(*Transition[S, E])

// New creates a machine in the initial state.
func New[S, E ~string](initial S, opts ...Option[S, E]) (*Machine[S, E], error) {
	if initial == "" {
		return nil, fmt.Errorf("initial state cannot be empty")
	}

	m := &Machine[S, E]{
		initial: initial,
		current: initial,
		table:   make(map[S]map[E][]Transition[S, E]),
		history: []S{initial},
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew is New that panics on a configuration error.
func MustNew[S, E ~string](initial S, opts ...Option[S, E]) *Machine[S, E] {
	m, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

// WithTransition declares from --event--> to.
func WithTransition[S, E ~string](from, to S, event E, opts ...TransitionOption[S, E]) Option[S, E] {
	return func(m *Machine[S, E]) error {
		t := Transition[S, E]{From: from, To: to, Event: event}
		for _, opt := range opts {
			opt(&t)
		}
		return m.add(t)
	}
}

// WithObserver registers fn to run after each applied transition.
func WithObserver[S, E ~string](fn Observer[S, E]) Option[S, E] {
	return func(m *Machine[S, E]) error {
		if fn != nil {
			m.observers = append(m.observers, fn)
		}
		return nil
	}
}

// WithGuard adds a guard to a transition.
func WithGuard[S, E ~string](g Guard[S, E]) TransitionOption[S, E] {
	return func(t *Transition[S, E]) {
		if g != nil {
			t.Guards = append(t.Guards, g)
		}
	}
}

// WithAction adds an action to a transition.
func WithAction[S, E ~string](a Action[S, E]) TransitionOption[S, E] {
	return func(t *Transition[S, E]) {
		if a != nil {
			t.Actions = append(t.Actions, a)
		}
	}
}

func (m *Machine[S, E]) add(t Transition[S, E]) error {
	if t.From == "" || t.To == "" || t.Event == "" {
		return ErrInvalidTransition
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.table[t.From]; !ok {
		m.table[t.From] = make(map[E][]Transition[S, E])
	}
	m.table[t.From][t.Event] = append(m.table[t.From][t.Event], t)
	return nil
}

// Current returns the current state.
func (m *Machine[S, E]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Is reports whether the machine is in state s.
func (m *Machine[S, E]) Is(s S) bool {
	return m.Current() == s
}

// History returns every state visited since construction or the last Reset,
// starting with the initial state.
func (m *Machine[S, E]) History() []S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.history)
}

// Fire applies the first transition for event whose guards all pass.
func (m *Machine[S, E]) Fire(ctx context.Context, event E) error {
	if event == "" {
		return ErrInvalidEvent
	}

	m.mu.Lock()
	from := m.current
	t, err := m.pick(ctx, event)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	for _, action := range t.Actions {
		if err := action(ctx, from, t.To, event); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("action failed: %w", err)
		}
	}

	m.current = t.To
	m.history = append(m.history, t.To)
	observers := m.observers
	m.mu.Unlock()

	for _, fn := range observers {
		fn(ctx, from, t.To, event)
	}
	return nil
}

// CanFire reports whether Fire(event) would find a transition.
// Actions are not run, so Fire may still fail.
func (m *Machine[S, E]) CanFire(ctx context.Context, event E) bool {
	if event == "" {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, err := m.pick(ctx, event)
	return err == nil
}

// pick finds the transition to take. Caller holds mu.
func (m *Machine[S, E]) pick(ctx context.Context, event E) (*Transition[S, E], error) {
	candidates := m.table[m.current][event]
	if len(candidates) == 0 {
		return nil, &NoTransitionError{State: string(m.current), Event: string(event)}
	}

	for i := range candidates {
		if allPass(ctx, candidates[i].Guards, m.current, event) {
			return &candidates[i], nil
		}
	}
	return nil, &TransitionRejectedError{State: string(m.current), Event: string(event)}
}

func allPass[S, E ~string](ctx context.Context, guards []Guard[S, E], from S, event E) bool {
	for _, g := range guards {
		if !g(ctx, from, event) {
			return false
		}
	}
	return true
}

// Reset returns the machine to its initial state and clears the history.
func (m *Machine[S, E]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
	m.history = []S{m.initial}
}
