package ports

// SampleSource is the synchronous upstream producer of encoded access units.
type SampleSource interface {
	Start() error
	Stop() error

	// Read blocks until the next encoded sample is available and returns it.
	// A non-nil seek directive in opts repositions the source first. Returns
	// ErrEndOfStream when the stream is exhausted.
	Read(opts *ReadOptions) (*Sample, error)

	// Format returns the encoded stream format. Queried once at adapter
	// construction.
	Format() Format
}
