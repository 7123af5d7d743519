package memutils

import "github.com/pkg/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

var (
	// ErrOutOfMemory is the uniform signal for a growth request the heap could not satisfy. Every
	// error returned by a failed Grow matches it with errors.Is, whatever the underlying cause.
	ErrOutOfMemory error = errors.New("ran out of memory")
	// ErrNegativeIncrement indicates a Grow call asked the heap to shrink, which is never supported
	ErrNegativeIncrement error = errors.New("negative increment requested")
	// ErrCapacityExceeded indicates a Grow call would have moved the break past the heap's ceiling
	ErrCapacityExceeded error = errors.New("increment would exceed heap capacity")

	// ErrReservationFailed indicates the host environment could not supply the heap's backing region.
	// No heap exists when this is returned.
	ErrReservationFailed error = errors.New("could not reserve heap memory")
	// ErrInvalidCapacity indicates a heap was requested with a capacity that is not a positive number of bytes
	ErrInvalidCapacity error = errors.New("heap capacity must be positive")
	// ErrHeapNotLive is returned by operations against a heap that has already been deinitialized
	ErrHeapNotLive error = errors.New("heap is not live")
)
