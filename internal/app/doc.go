// Package app contains the core application logic. It wires the harness
// configuration into the simulation, video, probe, and artifacts adapters,
// runs a single attempt through the orchestrator, and optionally serves a
// health check endpoint while the attempt is in flight. It is decoupled from
// any specific entrypoint like a CLI.
package app
