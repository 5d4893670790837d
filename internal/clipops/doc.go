// Package clipops performs structural mutation of tracks: add, remove,
// restore, split, trim, duplicate, update, and reflow.
//
// Array order inside a track is the layout source of truth. Every operation
// that can open a gap or create an overlap finishes with Reflow, which repairs
// drifted durations, chains clips end to start from zero, and shifts effects
// bound to any clip whose window moved. Operations validate their input before
// touching the project, so a returned error always means nothing changed.
package clipops
