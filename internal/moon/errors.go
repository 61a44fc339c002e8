package moon

import "errors"

// Sentinel errors callers branch on.
var (
	// ErrNoLocation means SetLocation has not succeeded yet.
	ErrNoLocation = errors.New("moon: location not configured")

	// ErrNotComputed means an accessor that requires an illumination
	// snapshot was called before the first refresh.
	ErrNotComputed = errors.New("moon: illumination not computed")

	// ErrUnknownPhase means a next-phase lookup used a key outside the
	// four principal phases.
	ErrUnknownPhase = errors.New("moon: unknown phase key")
)
