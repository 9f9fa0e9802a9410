package mocks

import (
	"time"

	"github.com/user/framepull/pkg/ports"
)

// AsyncCodec is a mock implementation of ports.AsyncCodec.
type AsyncCodec struct {
	ConfigureFunc           func(format ports.Format, surface ports.Surface) error
	StartFunc               func() error
	StopFunc                func() error
	FlushFunc               func() error
	DequeueInputBufferFunc  func(timeout time.Duration) (int, error)
	InputBufferFunc         func(index int) ([]byte, error)
	QueueInputBufferFunc    func(index, size int, timeUs int64, flags ports.BufferFlags) error
	DequeueOutputBufferFunc func(timeout time.Duration) (ports.BufferInfo, error)
	OutputBufferFunc        func(index int) ([]byte, error)
	RenderOutputBufferFunc  func(index int) error
	OutputFormatFunc        func() (ports.Format, error)

	// Recorded calls for verification
	ConfigureCalled  bool
	StartCalled      bool
	StopCalled       bool
	FlushCalls       int
	ReleaseCalled    bool
	QueueInputCalls  []QueueInputCall
	ReleasedOutputs  []int
	RenderedOutputs  []int
}

// QueueInputCall records a call to QueueInputBuffer.
type QueueInputCall struct {
	Index  int
	Size   int
	TimeUs int64
	Flags  ports.BufferFlags
}

func (m *AsyncCodec) Configure(format ports.Format, surface ports.Surface) error {
	m.ConfigureCalled = true
	if m.ConfigureFunc != nil {
		return m.ConfigureFunc(format, surface)
	}
	return nil
}

func (m *AsyncCodec) Start() error {
	m.StartCalled = true
	if m.StartFunc != nil {
		return m.StartFunc()
	}
	return nil
}

func (m *AsyncCodec) Stop() error {
	m.StopCalled = true
	if m.StopFunc != nil {
		return m.StopFunc()
	}
	return nil
}

func (m *AsyncCodec) Flush() error {
	m.FlushCalls++
	if m.FlushFunc != nil {
		return m.FlushFunc()
	}
	return nil
}

func (m *AsyncCodec) Release() {
	m.ReleaseCalled = true
}

func (m *AsyncCodec) DequeueInputBuffer(timeout time.Duration) (int, error) {
	if m.DequeueInputBufferFunc != nil {
		return m.DequeueInputBufferFunc(timeout)
	}
	return 0, nil
}

func (m *AsyncCodec) InputBuffer(index int) ([]byte, error) {
	if m.InputBufferFunc != nil {
		return m.InputBufferFunc(index)
	}
	return make([]byte, 4096), nil
}

func (m *AsyncCodec) QueueInputBuffer(index, size int, timeUs int64, flags ports.BufferFlags) error {
	m.QueueInputCalls = append(m.QueueInputCalls, QueueInputCall{
		Index:  index,
		Size:   size,
		TimeUs: timeUs,
		Flags:  flags,
	})
	if m.QueueInputBufferFunc != nil {
		return m.QueueInputBufferFunc(index, size, timeUs, flags)
	}
	return nil
}

func (m *AsyncCodec) DequeueOutputBuffer(timeout time.Duration) (ports.BufferInfo, error) {
	if m.DequeueOutputBufferFunc != nil {
		return m.DequeueOutputBufferFunc(timeout)
	}
	return ports.BufferInfo{}, ports.ErrWouldBlock
}

func (m *AsyncCodec) OutputBuffer(index int) ([]byte, error) {
	if m.OutputBufferFunc != nil {
		return m.OutputBufferFunc(index)
	}
	return make([]byte, 4096), nil
}

func (m *AsyncCodec) ReleaseOutputBuffer(index int) error {
	m.ReleasedOutputs = append(m.ReleasedOutputs, index)
	return nil
}

func (m *AsyncCodec) RenderOutputBuffer(index int) error {
	m.RenderedOutputs = append(m.RenderedOutputs, index)
	if m.RenderOutputBufferFunc != nil {
		return m.RenderOutputBufferFunc(index)
	}
	return nil
}

func (m *AsyncCodec) OutputFormat() (ports.Format, error) {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return ports.Format{MediaType: ports.MediaTypeH264, PixelFormat: ports.PixelFormatI420}, nil
}

func (m *AsyncCodec) Name() string {
	return "mock-codec"
}

var _ ports.AsyncCodec = (*AsyncCodec)(nil)
