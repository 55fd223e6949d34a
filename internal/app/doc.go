// Package app contains the core application logic. It wires configuration,
// graph loading, the component registry, event delivery and the engine
// together, decoupled from any specific entrypoint like a CLI or server.
package app
