// Package services defines shared utilities consumed by the sorter passes.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, pass names, and categories
//     for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent journal outcomes (failed vs unsupported vs misconfigured).
//
// Use these helpers when wiring new pass logic so operational behaviour (error
// handling, observability) stays uniform across the run.
package services
