// Package timeline defines the project data model shared by every editing
// component: recordings, tracks, clips, time-remap periods, effects, and the
// clipboard.
//
// Values here carry no behaviour beyond typed deep clones and invariant
// checks. Time math lives in timespace, structural track mutation in clipops,
// and effect placement in effects. JSON tags mirror the persisted project
// document exactly, so a load/save round trip preserves the shape read from
// disk.
//
// All timestamps are milliseconds stored as float64; all identifiers are
// opaque strings.
package timeline
