package flow

import (
	"strings"

	"github.com/matzehuels/stageflow/pkg/errors"
)

// Phase classifies how an "Unknown" category at the resolution boundary was
// resolved into a concrete category.
type Phase string

const (
	// Phase1 was resolved from the entity's own history.
	Phase1 Phase = "phase1"
	// Phase2A was resolved from entity preferences plus population patterns.
	Phase2A Phase = "phase2a"
	// Phase2B was resolved from population patterns only.
	Phase2B Phase = "phase2b"
	// PhaseNone means no special resolution applied.
	PhaseNone Phase = "none"
)

// Phases lists all phases in priority order.
var Phases = []Phase{Phase1, Phase2A, Phase2B, PhaseNone}

var phasePriority = map[Phase]int{
	Phase1:    0,
	Phase2A:   1,
	Phase2B:   2,
	PhaseNone: 3,
}

// Priority returns the sort priority of p; lower sorts first.
// Unknown phases sort after PhaseNone.
func (p Phase) Priority() int {
	if prio, ok := phasePriority[p]; ok {
		return prio
	}
	return len(phasePriority)
}

// Valid reports whether p is one of the four known phases.
func (p Phase) Valid() bool {
	_, ok := phasePriority[p]
	return ok
}

// Resolved reports whether p denotes an actual resolution (anything but none).
func (p Phase) Resolved() bool { return p.Valid() && p != PhaseNone }

// ParsePhase parses a phase tag. Matching is case-insensitive and the empty
// string is read as PhaseNone.
func ParsePhase(s string) (Phase, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PhaseNone, nil
	}
	p := Phase(s)
	if !p.Valid() {
		return "", errors.New(errors.ErrCodeInvalidRecord, "unknown phase %q", s)
	}
	return p, nil
}
