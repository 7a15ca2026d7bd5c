// Package workflow defines the lifecycle of the template modal as a set of
// allowed phase transitions.
package workflow

import (
	"fmt"
	"slices"
)

// Phase is a lifecycle phase of a modal instance
type Phase string

const (
	PhaseClosed  Phase = "closed"
	PhaseOpen    Phase = "open"
	PhaseLoading Phase = "loading"
	PhaseError   Phase = "error"
)

// Event names what drove a transition
type Event string

const (
	EventOpen     Event = "open"     // constructed with templates
	EventSelect   Event = "select"   // template with content chosen
	EventResolved Event = "resolved" // assets resolved and inserted
	EventFailed   Event = "failed"   // asset resolution failed
	EventElapsed  Event = "elapsed"  // close delay elapsed
	EventDismiss  Event = "dismiss"  // user closed the modal
)

// Transition is an allowed move between phases
type Transition struct {
	From   Phase
	To     Phase
	Events []Event
}

// TransitionError reports a transition the machine does not allow
type TransitionError struct {
	From   Phase
	To     Phase
	Event  Event
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s modal: %s -> %s: %s", e.Event, e.From, e.To, e.Reason)
}

// AllTransitions returns every allowed transition. Closed has no way out
// once an instance has been open.
func AllTransitions() []*Transition {
	return []*Transition{
		{From: PhaseClosed, To: PhaseOpen, Events: []Event{EventOpen}},
		{From: PhaseOpen, To: PhaseLoading, Events: []Event{EventSelect}},
		{From: PhaseOpen, To: PhaseClosed, Events: []Event{EventDismiss}},
		{From: PhaseLoading, To: PhaseLoading, Events: []Event{EventResolved}},
		{From: PhaseLoading, To: PhaseError, Events: []Event{EventFailed}},
		{From: PhaseLoading, To: PhaseClosed, Events: []Event{EventElapsed, EventDismiss}},
		{From: PhaseError, To: PhaseLoading, Events: []Event{EventSelect}},
		{From: PhaseError, To: PhaseClosed, Events: []Event{EventDismiss}},
	}
}

// StateMachine validates modal phase transitions
type StateMachine struct {
	transitions map[Phase]map[Phase]*Transition
}

// New creates a StateMachine with all modal transitions registered
func New() *StateMachine {
	sm := &StateMachine{transitions: make(map[Phase]map[Phase]*Transition)}
	for _, t := range AllTransitions() {
		sm.addTransition(t)
	}
	return sm
}

func (sm *StateMachine) addTransition(t *Transition) {
	if sm.transitions[t.From] == nil {
		sm.transitions[t.From] = make(map[Phase]*Transition)
	}
	sm.transitions[t.From][t.To] = t
}

// GetTransition returns the transition definition if it exists
func (sm *StateMachine) GetTransition(from, to Phase) *Transition {
	if toMap, ok := sm.transitions[from]; ok {
		return toMap[to]
	}
	return nil
}

// Validate checks that event may move the modal from one phase to another
func (sm *StateMachine) Validate(from, to Phase, event Event) error {
	t := sm.GetTransition(from, to)
	if t == nil {
		return &TransitionError{From: from, To: to, Event: event, Reason: "transition not allowed"}
	}
	for _, e := range t.Events {
		if e == event {
			return nil
		}
	}
	return &TransitionError{From: from, To: to, Event: event, Reason: "event does not drive this transition"}
}

// Accepts reports whether event can fire from phase toward any target
func (sm *StateMachine) Accepts(from Phase, event Event) bool {
	for _, t := range sm.transitions[from] {
		for _, e := range t.Events {
			if e == event {
				return true
			}
		}
	}
	return false
}

// GetAllowedTransitions returns all valid target phases from a given phase, sorted
func (sm *StateMachine) GetAllowedTransitions(from Phase) []Phase {
	var allowed []Phase
	for to := range sm.transitions[from] {
		allowed = append(allowed, to)
	}
	slices.Sort(allowed)
	return allowed
}

// IsTerminal reports whether p ends an instance's lifecycle. Closed is only
// left by the open event of a new instance.
func (sm *StateMachine) IsTerminal(p Phase) bool {
	return p == PhaseClosed
}
