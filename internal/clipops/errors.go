package clipops

import "errors"

var (
	// ErrClipNotFound is returned when no track holds the requested clip id.
	ErrClipNotFound = errors.New("clip not found")
	// ErrTrackNotFound is returned when the requested track id is unknown.
	ErrTrackNotFound = errors.New("track not found")
	// ErrInvalidSplitPoint is returned for split points at or outside a
	// clip's bounds.
	ErrInvalidSplitPoint = errors.New("split point outside clip bounds")
	// ErrInvalidTrimPoint is returned for trim points not strictly inside a
	// clip's span.
	ErrInvalidTrimPoint = errors.New("trim point outside clip bounds")
	// ErrInvalidClip is returned when a clip would violate source or remap
	// invariants.
	ErrInvalidClip = errors.New("invalid clip")
	// ErrDuplicateClip is returned when adding a clip whose id already exists.
	ErrDuplicateClip = errors.New("duplicate clip id")
)
