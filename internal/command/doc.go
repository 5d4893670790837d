// Package command wraps every project mutation in a reversible command and
// serialises their execution.
//
// A concrete command implements Operation: a precondition check, the forward
// mutation, and its inverse. New wraps an Operation in the executed/undone
// state machine, converts errors and panics into failed Results, and supplies
// redo-by-replay unless the operation implements Redoer. Composite runs steps
// in order and compensates completed steps when a later one fails.
//
// Manager owns the undo/redo history. A single worker goroutine receives
// execute, undo, and redo requests over a channel, so no two commands ever
// touch the project at the same time. Commands reach the project only through
// Env and Store, and re-fetch clips from them instead of caching pointers
// across calls.
package command
