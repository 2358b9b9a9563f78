// Package journal persists a record of each sorter run in SQLite.
//
// Every run gets a uuid row in runs; the walk pass appends one row per moved
// file and the extract pass one row per archive attempt. The journal answers
// "where did my file go" after the fact. It is not used to roll anything back,
// and write failures are reported by callers as warnings rather than failing
// the run.
package journal
