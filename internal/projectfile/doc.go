// Package projectfile reads and writes project documents through a blob store.
//
// Projects are stored as JSON under "<name>.json". Save stamps modifiedAt.
// Load validates layout invariants and repairs drifted clip durations and
// gaps by reflowing every track, logging a warning when it had to.
package projectfile
