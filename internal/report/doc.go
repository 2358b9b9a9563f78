// Package report accumulates the extensions seen during a run and renders the
// end-of-run summary.
//
// A Result is created by the orchestrator, handed by pointer to every mover,
// and read once after all passes finish. Recording is set-union only, so the
// rendered summary does not depend on the order in which workers finish.
package report
