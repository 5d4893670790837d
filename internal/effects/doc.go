// Package effects locates and mutates effect records regardless of which of
// the two storage scopes they live in: the timeline-global array (current
// home of zoom and screen blocks) or the legacy per-recording arrays.
//
// It also owns the project-wide rule that at most one enabled background,
// cursor, and keystroke effect exists, and the coupling that keeps bound
// effects attached to their clip when a reflow moves that clip.
package effects
