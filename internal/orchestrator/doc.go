// Package orchestrator runs one maze attempt end to end: it loads and checks
// the request, prepares the artifacts folder, builds the level and robot,
// drives the per-tick run loop, and always finishes by writing a result and
// tearing the runtime down.
//
// Every stage either continues or ends the run with a classified failure
// result. The only outcome without a result is a failure to create the
// artifacts folder, reported as ErrArtifactsUnavailable.
package orchestrator
