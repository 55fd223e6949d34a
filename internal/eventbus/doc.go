// Package eventbus carries the named events the engine emits while running a
// graph. The engine only ever calls Emitter.Emit; delivery and subscription
// are the business of the concrete emitter.
//
// Two event names are produced:
//   - EventError ("error") with an ErrorPayload, for validation failures,
//     cycles and missing start nodes.
//   - EventWarn ("warn") with the raw failure value, for component failures.
package eventbus
