// Package attempt owns the lifecycle of a single timed attempt: the timer and
// status machine (Controller), the per-tick terminal condition judge
// (Evaluator), and the failure taxonomy every result is classified with.
//
// A Controller has exactly one owner for its whole life and is never shared
// across attempts or goroutines, so it carries no locks.
package attempt
