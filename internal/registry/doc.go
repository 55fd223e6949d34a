// Package registry provides the central "glue" for the component system.
//
// The Registry stores the mapping between the component names referenced by
// graph nodes (e.g., "add") and the compiled Go implementations that compute
// them. It is populated once, when an engine is constructed, and is treated as
// read-only afterwards, so a single Registry can be shared by any number of
// engines, including engines obtained through Clone.
//
// Before a run, ValidateGraph checks that every node in a graph references a
// registered component, preventing a class of failures that would otherwise
// only surface at dispatch time.
package registry
