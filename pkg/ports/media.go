// Package ports defines the contracts between the decoding adapter and its
// collaborators: the asynchronous codec device, the upstream sample source,
// render surfaces and unit sinks.
package ports

// Well-known media types, matching MP4 sample entry naming.
const (
	MediaTypeH264 = "video/avc"
	MediaTypeHEVC = "video/hevc"
	MediaTypeAV1  = "video/av01"
)

// Well-known pixel formats for decoded payloads.
const (
	PixelFormatI420 = "i420"
	PixelFormatRGBA = "rgba"
)

// Format describes an encoded or decoded media stream.
type Format struct {
	// MediaType identifies the compression format (e.g. "video/avc").
	MediaType string
	// Codec is the name of the codec component bound to this format, if any.
	Codec string
	// Width and Height are the coded dimensions in pixels.
	Width  int
	Height int
	// FrameRate is the nominal frame rate in frames per second (0 if unknown).
	FrameRate float64
	// PixelFormat describes the layout of decoded payloads (e.g. "i420").
	PixelFormat string
}

// BufferFlags carries per-buffer metadata through the codec queues.
type BufferFlags uint32

const (
	// FlagEndOfStream marks the final buffer of a stream.
	FlagEndOfStream BufferFlags = 1 << iota
	// FlagSyncSample marks a buffer that can be decoded without prior state.
	FlagSyncSample
)

// Sample is one encoded access unit pulled from a SampleSource.
type Sample struct {
	Data   []byte
	TimeUs int64
	Flags  BufferFlags
}

// Unit is one decoded unit delivered by the adapter. On the zero-copy render
// path Data is nil and Rendered is true; otherwise Data holds a copy of the
// decoded payload.
type Unit struct {
	Data     []byte
	TimeUs   int64
	Rendered bool
}

// SeekMode selects which sample a seek resolves to.
type SeekMode int

const (
	// SeekPreviousSync seeks to the latest sync sample at or before the target.
	SeekPreviousSync SeekMode = iota
	// SeekNextSync seeks to the earliest sync sample at or after the target.
	SeekNextSync
	// SeekClosest seeks to the sample nearest the target regardless of sync.
	SeekClosest
)

// SeekRequest asks a SampleSource to reposition before serving the next sample.
type SeekRequest struct {
	TimeUs int64
	Mode   SeekMode
}

// ReadOptions carries per-read directives. A nil ReadOptions (or a nil Seek)
// means "continue sequentially".
type ReadOptions struct {
	Seek *SeekRequest
}
