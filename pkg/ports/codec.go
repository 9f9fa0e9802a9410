package ports

import "time"

// BufferInfo describes one dequeued output buffer.
type BufferInfo struct {
	Index  int
	Offset int
	Size   int
	TimeUs int64
	Flags  BufferFlags
}

// AsyncCodec is the asynchronous buffer-queue codec device. Input and output
// run on independent timelines: encoded payloads are copied into indexed input
// buffers and queued, decoded payloads appear later on indexed output buffers.
//
// Dequeue calls return ErrWouldBlock on timeout. DequeueOutputBuffer may also
// return ErrFormatChanged or ErrOutputBuffersChanged instead of a buffer.
type AsyncCodec interface {
	// Configure binds the codec to an input format and an optional render
	// surface. Must be called before Start.
	Configure(format Format, surface Surface) error

	Start() error
	Stop() error

	// Flush discards all buffered input and output. Valid only while started.
	Flush() error

	// Release frees the codec device. No other method may be called after.
	Release()

	// DequeueInputBuffer returns the index of a free input buffer, waiting up
	// to timeout. Returns ErrWouldBlock if none became free.
	DequeueInputBuffer(timeout time.Duration) (int, error)

	// InputBuffer returns the writable backing slice of an input buffer.
	InputBuffer(index int) ([]byte, error)

	// QueueInputBuffer submits size payload bytes of input buffer index with
	// the given presentation timestamp and flags.
	QueueInputBuffer(index int, size int, timeUs int64, flags BufferFlags) error

	// DequeueOutputBuffer waits up to timeout for a decoded buffer.
	DequeueOutputBuffer(timeout time.Duration) (BufferInfo, error)

	// OutputBuffer returns the readable backing slice of an output buffer.
	OutputBuffer(index int) ([]byte, error)

	// ReleaseOutputBuffer returns an output buffer to the codec.
	ReleaseOutputBuffer(index int) error

	// RenderOutputBuffer pushes an output buffer to the bound surface and
	// returns it to the codec (the zero-copy path).
	RenderOutputBuffer(index int) error

	// OutputFormat returns the current decoded output format.
	OutputFormat() (Format, error)

	// Name returns the codec component name, used for logging.
	Name() string
}
