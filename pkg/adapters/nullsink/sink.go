// Package nullsink provides a sink that discards decoded units.
package nullsink

import "github.com/user/framepull/pkg/ports"

// Sink discards all units while counting them, for benchmarking pulls
// without I/O cost.
type Sink struct {
	units    int
	rendered int
	bytes    int64
}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// WriteUnit counts and discards the unit.
func (s *Sink) WriteUnit(unit *ports.Unit) error {
	s.units++
	if unit.Rendered {
		s.rendered++
	}
	s.bytes += int64(len(unit.Data))
	return nil
}

// Close does nothing.
func (s *Sink) Close() error {
	return nil
}

// Units returns the number of units seen.
func (s *Sink) Units() int {
	return s.units
}

// Rendered returns the number of zero-copy rendered units seen.
func (s *Sink) Rendered() int {
	return s.rendered
}

// Bytes returns the total payload bytes seen.
func (s *Sink) Bytes() int64 {
	return s.bytes
}

var _ ports.UnitSink = (*Sink)(nil)
