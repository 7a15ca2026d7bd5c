package workflow

import (
	"errors"
	"testing"
)

func TestGetTransition(t *testing.T) {
	sm := New()

	tests := []struct {
		name     string
		from     Phase
		to       Phase
		expected bool
	}{
		{"closed → open", PhaseClosed, PhaseOpen, true},
		{"open → loading", PhaseOpen, PhaseLoading, true},
		{"open → closed", PhaseOpen, PhaseClosed, true},
		{"loading → error", PhaseLoading, PhaseError, true},
		{"loading → closed", PhaseLoading, PhaseClosed, true},
		{"error → loading", PhaseError, PhaseLoading, true},
		{"error → closed", PhaseError, PhaseClosed, true},

		{"closed → loading", PhaseClosed, PhaseLoading, false},
		{"closed → error", PhaseClosed, PhaseError, false},
		{"open → error", PhaseOpen, PhaseError, false},
		{"loading → open", PhaseLoading, PhaseOpen, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sm.GetTransition(tt.from, tt.to) != nil; got != tt.expected {
				t.Errorf("GetTransition(%s, %s) found = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	sm := New()

	if err := sm.Validate(PhaseOpen, PhaseLoading, EventSelect); err != nil {
		t.Errorf("Validate(open→loading, select) = %v", err)
	}
	if err := sm.Validate(PhaseLoading, PhaseClosed, EventElapsed); err != nil {
		t.Errorf("Validate(loading→closed, elapsed) = %v", err)
	}

	err := sm.Validate(PhaseOpen, PhaseClosed, EventElapsed)
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if te.Reason != "event does not drive this transition" {
		t.Errorf("Reason = %q", te.Reason)
	}

	err = sm.Validate(PhaseClosed, PhaseLoading, EventSelect)
	if !errors.As(err, &te) || te.Reason != "transition not allowed" {
		t.Errorf("expected not allowed, got %v", err)
	}
}

func TestAccepts(t *testing.T) {
	sm := New()

	tests := []struct {
		from  Phase
		event Event
		want  bool
	}{
		{PhaseOpen, EventSelect, true},
		{PhaseError, EventSelect, true},
		{PhaseLoading, EventSelect, false},
		{PhaseClosed, EventSelect, false},
		{PhaseClosed, EventDismiss, false},
		{PhaseLoading, EventDismiss, true},
	}
	for _, tt := range tests {
		if got := sm.Accepts(tt.from, tt.event); got != tt.want {
			t.Errorf("Accepts(%s, %s) = %v, want %v", tt.from, tt.event, got, tt.want)
		}
	}
}

func TestClosedIsTerminal(t *testing.T) {
	sm := New()
	allowed := sm.GetAllowedTransitions(PhaseClosed)
	if len(allowed) != 1 || allowed[0] != PhaseOpen {
		t.Errorf("GetAllowedTransitions(closed) = %v, want [open]", allowed)
	}
	if !sm.IsTerminal(PhaseClosed) || sm.IsTerminal(PhaseError) {
		t.Error("only closed should be terminal")
	}
}

func TestGetAllowedTransitionsSorted(t *testing.T) {
	sm := New()
	got := sm.GetAllowedTransitions(PhaseLoading)
	want := []Phase{PhaseClosed, PhaseError, PhaseLoading}
	if len(got) != len(want) {
		t.Fatalf("GetAllowedTransitions(loading) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("GetAllowedTransitions(loading) = %v, want %v", got, want)
			break
		}
	}
}
