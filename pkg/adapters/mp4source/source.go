// Package mp4source provides a SampleSource that serves encoded access units
// from a fragmented MP4 file.
package mp4source

import (
	"fmt"
	"os"
	"sync"

	"github.com/user/framepull/pkg/ports"
)

// Source implements ports.SampleSource over an MP4 video track. Samples are
// served in decode order; a seek directive repositions within the sample
// table.
type Source struct {
	format  ports.Format
	samples []sample

	mu      sync.Mutex
	started bool
	pos     int
}

type sample struct {
	data   []byte
	timeUs int64
	sync   bool
}

// Open parses the MP4 file at path and returns a source for its video track.
func Open(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return FromBytes(data)
}

// FromBytes parses MP4 data and returns a source for its video track.
func FromBytes(data []byte) (*Source, error) {
	format, samples, err := extractTrack(data)
	if err != nil {
		return nil, err
	}
	return newFromSamples(format, samples), nil
}

func newFromSamples(format ports.Format, samples []sample) *Source {
	return &Source{format: format, samples: samples}
}

// Start makes the source readable from its current position.
func (s *Source) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("source already started")
	}
	s.started = true
	return nil
}

// Stop makes the source unreadable until started again.
func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return fmt.Errorf("source not started")
	}
	s.started = false
	return nil
}

// Read returns the next encoded sample, honoring a seek directive first.
// Returns ErrEndOfStream once the sample table is exhausted.
func (s *Source) Read(opts *ports.ReadOptions) (*ports.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, fmt.Errorf("source not started")
	}
	if opts != nil && opts.Seek != nil {
		s.pos = s.indexForSeek(*opts.Seek)
	}
	if s.pos >= len(s.samples) {
		return nil, ports.ErrEndOfStream
	}

	sm := s.samples[s.pos]
	s.pos++

	var flags ports.BufferFlags
	if sm.sync {
		flags |= ports.FlagSyncSample
	}
	return &ports.Sample{Data: sm.data, TimeUs: sm.timeUs, Flags: flags}, nil
}

// Format returns the encoded track format.
func (s *Source) Format() ports.Format {
	return s.format
}

// Samples returns the number of samples in the track.
func (s *Source) Samples() int {
	return len(s.samples)
}

// indexForSeek resolves a seek request against the sample table. Called with
// s.mu held.
func (s *Source) indexForSeek(req ports.SeekRequest) int {
	if len(s.samples) == 0 {
		return 0
	}

	switch req.Mode {
	case ports.SeekNextSync:
		for i, sm := range s.samples {
			if sm.sync && sm.timeUs >= req.TimeUs {
				return i
			}
		}
		// No sync sample at or after the target; fall back to the last one.
		return s.lastSyncBefore(len(s.samples))

	case ports.SeekClosest:
		best := 0
		bestDist := int64(-1)
		for i, sm := range s.samples {
			dist := sm.timeUs - req.TimeUs
			if dist < 0 {
				dist = -dist
			}
			if bestDist < 0 || dist < bestDist {
				best, bestDist = i, dist
			}
		}
		return best

	default: // ports.SeekPreviousSync
		idx := 0
		for i, sm := range s.samples {
			if sm.timeUs > req.TimeUs {
				break
			}
			if sm.sync {
				idx = i
			}
		}
		return idx
	}
}

func (s *Source) lastSyncBefore(end int) int {
	idx := 0
	for i := 0; i < end; i++ {
		if s.samples[i].sync {
			idx = i
		}
	}
	return idx
}

var _ ports.SampleSource = (*Source)(nil)
