// Package graph defines the node graph that the engine executes.
//
// A Graph is a mapping from node id to Node. Nodes expose named input and
// output sockets; a Connection links one node's output socket to another
// node's input socket, and every connection is recorded on both ends.
//
// # Lifecycle
//
// 1. **Built** by a loader (HCL files, JSON exports) or programmatically via
// AddNode and Connect.
// 2. **Validated** by the engine before every run (schema check plus cycle
// detection, see DetectCycle).
// 3. **Copied** at the start of every run with Copy. The copy gets fresh node
// structs while the socket and connection structures stay shared, so the
// topology must be treated as read-only while a run is in flight.
//
// Execution state never lives on these types. Results of a run are kept by
// the engine and handed back in its report.
package graph
