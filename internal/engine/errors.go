package engine

import (
	"errors"
	"fmt"
)

// Messages carried by EventError payloads.
const (
	MsgNodeNotFound = "Node with such id not found"
	MsgRecursion    = "Recursion detected"
	MsgNotSuitable  = "Data is not suitable."
)

var (
	// ErrUnknownComponent is returned when a node references a component
	// name that is not registered.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrMissingInput marks a node that was not computed under the Strict
	// input policy because an upstream value could not be resolved.
	ErrMissingInput = errors.New("upstream input could not be resolved")
)

// PanicError wraps a value recovered from a panicking component.
type PanicError struct {
	NodeID string
	Value  any
	Stack  []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("component for node '%s' panicked: %v", e.NodeID, e.Value)
}
