package mocks

import "github.com/user/framepull/pkg/ports"

// Surface is a mock implementation of ports.Surface.
type Surface struct {
	RenderFunc func(data []byte, timeUs int64) error

	// Recorded calls for verification
	RenderCalls []RenderCall
}

// RenderCall records a call to Render.
type RenderCall struct {
	Bytes  int
	TimeUs int64
}

func (m *Surface) Render(data []byte, timeUs int64) error {
	m.RenderCalls = append(m.RenderCalls, RenderCall{Bytes: len(data), TimeUs: timeUs})
	if m.RenderFunc != nil {
		return m.RenderFunc(data, timeUs)
	}
	return nil
}

var _ ports.Surface = (*Surface)(nil)
