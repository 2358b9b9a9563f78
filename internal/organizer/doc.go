// Package organizer sorts the files under a root directory into category
// subdirectories.
//
// The Walker snapshots the tree, classifies each regular file and hands it to
// a bounded pool of workers that call Mover.Move. Moves into the same category
// are serialized by a per-category lock; names are normalized, and a taken
// name gets a single uuid suffix instead of replacing the existing file.
package organizer
