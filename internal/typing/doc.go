// Package typing finds stretches of continuous typing in a recording's
// keyboard stream and plans the time-remap periods that play them back
// faster.
//
// Planning works in source space over one clip. The clip's source range is
// partitioned into base-speed and typing segments; any segment that would
// last less than one output frame is folded into a neighbour so the result
// never contains a sub-frame slice.
package typing
