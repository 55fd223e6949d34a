// Package engine is the "Execution Layer" of the application. It takes a
// graph.Graph, validates it, and runs every node's component exactly once per
// run.
//
// # How a run works
//
//  1. **Admission.** Only one run may be in flight per Engine. Run returns nil
//     when the engine is busy or still aborting.
//  2. **Validation.** The configured validate.Validator and cycle detection
//     must both pass before any node executes.
//  3. **Start traversal.** The start node is resolved (its upstream
//     dependencies are pulled on demand) and execution is pushed forward along
//     its output connections.
//  4. **Sweep.** Every node that has not been visited yet is resolved and
//     propagated forward, so disconnected islands run too.
//  5. **Finalization.** The engine returns to Idle and reports "success" or
//     "aborted".
//
// # Single flight
//
// Pull resolution and forward propagation can reach the same node from many
// goroutines at once. A per-run gate installs exactly one result slot per node;
// the goroutine that installs it runs the component and every other requester
// waits on the same slot.
//
// # Abort
//
// Cancellation is cooperative. Abort moves the run to Aborting; no new node is
// dispatched after that, while components already running finish and keep
// their outputs. Every Abort caller is released when the run has settled.
package engine
