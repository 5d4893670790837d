package main

import (
	"strconv"

	"reelcut/internal/timeline"
)

// formatMillis renders a timeline position in seconds with millisecond
// precision.
func formatMillis(ms float64) string {
	if ms >= timeline.Unbounded {
		return "end"
	}
	return strconv.FormatFloat(ms/1000, 'f', 3, 64) + "s"
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'g', -1, 64) + "x"
}
