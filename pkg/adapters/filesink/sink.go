// Package filesink provides a sink that appends decoded payloads to a file.
package filesink

import (
	"bufio"
	"fmt"
	"os"

	"github.com/user/framepull/pkg/ports"
)

// Sink writes decoded payloads sequentially to a single raw output file.
// Rendered units carry no payload and are skipped.
type Sink struct {
	f *os.File
	w *bufio.Writer

	units int
	bytes int64
}

// New creates the output file, truncating any existing content.
func New(path string) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return &Sink{f: f, w: bufio.NewWriter(f)}, nil
}

// WriteUnit appends one decoded payload.
func (s *Sink) WriteUnit(unit *ports.Unit) error {
	if len(unit.Data) == 0 {
		return nil
	}
	n, err := s.w.Write(unit.Data)
	if err != nil {
		return fmt.Errorf("write unit: %w", err)
	}
	s.units++
	s.bytes += int64(n)
	return nil
}

// Close flushes and closes the output file.
func (s *Sink) Close() error {
	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return fmt.Errorf("flush output: %w", err)
	}
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

// Units returns the number of payload-carrying units written.
func (s *Sink) Units() int {
	return s.units
}

// Bytes returns the total payload bytes written.
func (s *Sink) Bytes() int64 {
	return s.bytes
}

var _ ports.UnitSink = (*Sink)(nil)
