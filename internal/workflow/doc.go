// Package workflow runs the sorter passes against a root in order: walk and
// move, reap empty directories, extract archives. Each pass is a barrier; the
// next starts only once every worker of the previous one has returned.
//
// A Runner holds an advisory lock per root so two processes never sort the
// same tree at once, and optionally journals the run.
package workflow
