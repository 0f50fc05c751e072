// Package request loads and validates the run request that describes one
// attempt: the level map, the brain endpoint, and the time limit.
//
// Loading covers the structural checks (a readable file, well-formed JSON, a
// map field). Validate covers the field-level business rules. Both report
// failures wrapping ErrInvalidRequest.
package request
