package ports

import "errors"

var (
	// ErrEndOfStream signals the normal end of data. It is a terminal result,
	// not a failure, and is returned repeatably once observed.
	ErrEndOfStream = errors.New("end of stream")

	// ErrWouldBlock is returned by the codec queue operations when no buffer
	// became available within the timeout. Callers retry.
	ErrWouldBlock = errors.New("operation would block")

	// ErrFormatChanged is returned by DequeueOutputBuffer (and propagated by
	// the adapter's Read) when the output format changed. No unit is
	// delivered; the caller re-reads to continue.
	ErrFormatChanged = errors.New("output format changed")

	// ErrOutputBuffersChanged is returned by DequeueOutputBuffer when the
	// output buffer set was replaced. Informational only.
	ErrOutputBuffersChanged = errors.New("output buffers changed")

	// ErrInvalidState is returned when an operation is called outside its
	// valid lifecycle state. The call has no side effects.
	ErrInvalidState = errors.New("invalid state")

	// ErrUnavailable is returned by Format when no format can be reported in
	// the current lifecycle state.
	ErrUnavailable = errors.New("format unavailable")

	// ErrTimedOut is returned by Read when the retry budget was exhausted
	// without producing a unit.
	ErrTimedOut = errors.New("timed out")
)
