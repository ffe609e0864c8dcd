// Package batch runs one call per item with bounded concurrency.
//
// A failing item does not stop the others: every item gets a Result, and
// Run reports the failures together. Cancelling the context stops items that
// have not started yet. An optional progress callback is invoked after each
// item so that the CLI can report how far a bulk operation has got.
package batch
