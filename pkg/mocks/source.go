package mocks

import "github.com/user/framepull/pkg/ports"

// SampleSource is a mock implementation of ports.SampleSource.
type SampleSource struct {
	StartFunc  func() error
	StopFunc   func() error
	ReadFunc   func(opts *ports.ReadOptions) (*ports.Sample, error)
	FormatFunc func() ports.Format

	// Recorded calls for verification
	StartCalled bool
	StopCalled  bool
	ReadCalls   []*ports.ReadOptions
}

func (m *SampleSource) Start() error {
	m.StartCalled = true
	if m.StartFunc != nil {
		return m.StartFunc()
	}
	return nil
}

func (m *SampleSource) Stop() error {
	m.StopCalled = true
	if m.StopFunc != nil {
		return m.StopFunc()
	}
	return nil
}

func (m *SampleSource) Read(opts *ports.ReadOptions) (*ports.Sample, error) {
	m.ReadCalls = append(m.ReadCalls, opts)
	if m.ReadFunc != nil {
		return m.ReadFunc(opts)
	}
	return nil, ports.ErrEndOfStream
}

func (m *SampleSource) Format() ports.Format {
	if m.FormatFunc != nil {
		return m.FormatFunc()
	}
	return ports.Format{MediaType: ports.MediaTypeH264}
}

var _ ports.SampleSource = (*SampleSource)(nil)

// QueueSource is a SampleSource backed by a fixed list of samples, returning
// ErrEndOfStream once exhausted.
type QueueSource struct {
	Samples []*ports.Sample
	Fmt     ports.Format

	pos int
}

func (q *QueueSource) Start() error { return nil }
func (q *QueueSource) Stop() error  { return nil }

func (q *QueueSource) Read(opts *ports.ReadOptions) (*ports.Sample, error) {
	if opts != nil && opts.Seek != nil {
		q.pos = 0
		for i, s := range q.Samples {
			if s.TimeUs <= opts.Seek.TimeUs {
				q.pos = i
			}
		}
	}
	if q.pos >= len(q.Samples) {
		return nil, ports.ErrEndOfStream
	}
	s := q.Samples[q.pos]
	q.pos++
	return s, nil
}

func (q *QueueSource) Format() ports.Format {
	return q.Fmt
}

var _ ports.SampleSource = (*QueueSource)(nil)
