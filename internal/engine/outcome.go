package engine

import (
	"fmt"
	"strings"

	"github.com/xzdarcy/rete/internal/registry"
)

// Outcome is the final status of a run.
type Outcome string

const (
	// OutcomeSuccess means every dispatched node ran and no abort occurred.
	OutcomeSuccess Outcome = "success"
	// OutcomeAborted means the run was aborted, by a caller or by a failing component.
	OutcomeAborted Outcome = "aborted"
	// OutcomeError means the run was rejected by validation, cycle detection
	// or the start node lookup.
	OutcomeError Outcome = "error"
)

// Report describes a finished run.
type Report struct {
	// RunID uniquely identifies the run in logs and traces.
	RunID string
	// Outcome is the final status.
	Outcome Outcome
	// Results holds the outputs of every node that settled during the run,
	// including the partial outputs of failed nodes.
	Results map[string]registry.Outputs
	// Failures holds the error of every node whose component failed or was
	// not invoked.
	Failures map[string]error
}

// Executed reports whether the node settled during the run.
func (r *Report) Executed(id string) bool {
	if r == nil {
		return false
	}
	_, ok := r.Results[id]
	return ok
}

// InputPolicy decides what happens to a node when one of its upstream values
// cannot be resolved because the run is aborting.
type InputPolicy int

const (
	// BestEffort invokes the component anyway, leaving the missing values nil.
	BestEffort InputPolicy = iota
	// Strict does not invoke the component; the node settles with empty
	// outputs and ErrMissingInput.
	Strict
)

func (p InputPolicy) String() string {
	switch p {
	case BestEffort:
		return "best-effort"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("InputPolicy(%d)", int(p))
	}
}

// ParseInputPolicy parses "best-effort" or "strict".
func ParseInputPolicy(s string) (InputPolicy, error) {
	switch strings.ToLower(s) {
	case "best-effort", "besteffort", "":
		return BestEffort, nil
	case "strict":
		return Strict, nil
	default:
		return BestEffort, fmt.Errorf("invalid input policy '%s': must be 'best-effort' or 'strict'", s)
	}
}
