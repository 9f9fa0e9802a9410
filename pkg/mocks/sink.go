package mocks

import "github.com/user/framepull/pkg/ports"

// UnitSink is a mock implementation of ports.UnitSink.
type UnitSink struct {
	WriteUnitFunc func(unit *ports.Unit) error

	// Recorded calls for verification
	Units       []*ports.Unit
	CloseCalled bool
}

func (m *UnitSink) WriteUnit(unit *ports.Unit) error {
	m.Units = append(m.Units, unit)
	if m.WriteUnitFunc != nil {
		return m.WriteUnitFunc(unit)
	}
	return nil
}

func (m *UnitSink) Close() error {
	m.CloseCalled = true
	return nil
}

var _ ports.UnitSink = (*UnitSink)(nil)
