// Package artifacts owns the on-disk footprint of an attempt: the per-attempt
// folder layout, the copy of the run request, and the result record.
//
// Every attempt that gets a layout ends with a result.json in it. The layout is
// the one precondition for that guarantee, which is why CreateLayout errors are
// not part of the attempt failure taxonomy.
package artifacts
