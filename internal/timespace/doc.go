// Package timespace converts timestamps between the three time coordinate
// systems of an edit: source space (recording-relative), clip-relative space,
// and timeline space.
//
// Every function is pure and total. Out-of-range input is clamped to the
// clip's bounds instead of producing an error, so callers in layout code can
// use the results directly. Clips with time-remap periods are walked period
// by period; clips without them take a proportional fast path.
package timespace
