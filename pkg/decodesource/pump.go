package decodesource

import (
	"errors"
	"fmt"

	"github.com/user/framepull/pkg/ports"
)

// pump feeds encoded samples into the codec's input queue and drains one
// decoded unit from its output queue. Called with s.mu held; it may release
// and re-acquire the mutex around blocking calls but returns with it held.
// The lifecycle is re-validated after every re-acquisition so that a
// concurrent Stop interrupts the pump at the next boundary.
func (s *Source) pump(opts *ports.ReadOptions) (*ports.Unit, error) {
	// Flush the codec on seek, before any queue interaction.
	if opts != nil && opts.Seek != nil {
		s.queuedInputEOS = false
		s.gotOutputEOS = false
		if err := s.codec.Flush(); err != nil {
			s.state = lifecycleError
			return nil, fmt.Errorf("flush codec: %w", err)
		}
		s.stats.flushes.Inc()
	}

	if s.gotOutputEOS {
		return nil, ports.ErrEndOfStream
	}

	// The seek directive is honored on the first source pull only; further
	// pulls within this call continue sequentially.
	pending := opts

	// Once all available input buffers are filled, the codec should produce
	// at least one output buffer within the output timeout. Retry a bounded
	// number of times nonetheless.
	for retries := 0; retries < s.maxRetries; retries++ {
		unit, done, err := s.feed(&pending)
		if done {
			return unit, err
		}

		unit, retry, err := s.drain(retries)
		if retry {
			continue
		}
		return unit, err
	}

	return nil, ports.ErrTimedOut
}

// feed fills codec input buffers from the upstream source until the input
// queue is full or input EOS has been queued. done is true when the read call
// must finish immediately with the returned result.
func (s *Source) feed(pending **ports.ReadOptions) (unit *ports.Unit, done bool, err error) {
	for !s.queuedInputEOS {
		inIndex, err := s.codec.DequeueInputBuffer(s.inputTimeout)
		if errors.Is(err, ports.ErrWouldBlock) {
			// No free input buffers; move on to draining output.
			s.stats.inputTimeouts.Inc()
			return nil, false, nil
		}

		var inBuf []byte
		if err == nil {
			inBuf, err = s.codec.InputBuffer(inIndex)
		}
		if err != nil || inBuf == nil {
			s.log.Warn("Could not get input buffer #%d", inIndex)
			s.state = lifecycleError
			if err == nil {
				err = fmt.Errorf("nil input buffer #%d", inIndex)
			}
			return nil, true, fmt.Errorf("get input buffer: %w", err)
		}

		var sample *ports.Sample
		for {
			s.mu.Unlock()
			sample, err = s.source.Read(*pending)
			s.mu.Lock()
			*pending = nil

			if err != nil || s.state != lifecycleStarted {
				sample = nil

				// Queue EOS on the buffer we already hold.
				s.queuedInputEOS = true
				if qerr := s.codec.QueueInputBuffer(inIndex, 0, 0, ports.FlagEndOfStream); qerr != nil {
					s.log.Warn("Failed to queue input EOS: %s", qerr)
					s.state = lifecycleError
					return nil, true, fmt.Errorf("queue input EOS: %w", qerr)
				}

				// A source failure other than end-of-stream is fatal; a
				// concurrent stop reports end-of-stream instead.
				if err != nil && !errors.Is(err, ports.ErrEndOfStream) {
					s.state = lifecycleError
					return nil, true, fmt.Errorf("read source: %w", err)
				}
				if s.state != lifecycleStarted {
					return nil, true, ports.ErrEndOfStream
				}
				break
			}

			if sample == nil {
				// Should not happen.
				continue
			}
			if len(sample.Data) != 0 {
				break
			}
			// Empty sample: retry without consuming the input slot.
			sample = nil
		}

		if sample != nil {
			if len(sample.Data) > len(inBuf) {
				s.log.Warn("Received %d input bytes for buffer of size %d",
					len(sample.Data), len(inBuf))
			}
			n := copy(inBuf, sample.Data)
			if err := s.codec.QueueInputBuffer(inIndex, n, sample.TimeUs, sample.Flags); err != nil {
				s.log.Warn("Failed to queue input buffer #%d: %s", inIndex, err)
				s.state = lifecycleError
				return nil, true, fmt.Errorf("queue input buffer: %w", err)
			}
			s.stats.samplesQueued.Inc()
		}
	}
	return nil, false, nil
}

// drain requests one decoded buffer from the codec. retry is true when the
// caller should run another feed/drain iteration.
func (s *Source) drain(retries int) (unit *ports.Unit, retry bool, err error) {
	s.mu.Unlock()
	info, err := s.codec.DequeueOutputBuffer(s.outputTimeout)
	s.mu.Lock()

	// Abort on stop takes priority over delivering data.
	if s.state != lifecycleStarted {
		if err == nil {
			s.codec.ReleaseOutputBuffer(info.Index)
		}
		return nil, false, ports.ErrEndOfStream
	}

	switch {
	case errors.Is(err, ports.ErrWouldBlock):
		s.stats.outputTimeouts.Inc()
		s.log.Debug("No output buffer yet, retry count: %d", retries+1)
		return nil, true, nil

	case errors.Is(err, ports.ErrFormatChanged):
		format, ferr := s.codec.OutputFormat()
		if ferr != nil {
			s.state = lifecycleError
			return nil, false, fmt.Errorf("get output format: %w", ferr)
		}
		s.format = format
		return nil, false, ports.ErrFormatChanged

	case errors.Is(err, ports.ErrOutputBuffersChanged):
		s.log.Debug("Output buffers changed")
		return nil, true, nil

	case err != nil:
		s.state = lifecycleError
		return nil, false, fmt.Errorf("dequeue output buffer: %w", err)
	}

	outBuf, err := s.codec.OutputBuffer(info.Index)
	if err != nil {
		s.log.Warn("Could not get output buffer #%d", info.Index)
		s.state = lifecycleError
		return nil, false, fmt.Errorf("get output buffer: %w", err)
	}

	if info.Flags&ports.FlagEndOfStream != 0 {
		s.gotOutputEOS = true
		// An EOS marker with no trailing data is not delivered as a unit.
		if info.Size == 0 {
			s.codec.ReleaseOutputBuffer(info.Index)
			return nil, false, ports.ErrEndOfStream
		}
	}

	if s.usingSurface && info.Size > 0 {
		if rerr := s.codec.RenderOutputBuffer(info.Index); rerr != nil {
			s.state = lifecycleError
			return nil, false, fmt.Errorf("render output buffer: %w", rerr)
		}
		s.stats.unitsDecoded.Inc()
		return &ports.Unit{TimeUs: info.TimeUs, Rendered: true}, false, nil
	}

	data := make([]byte, info.Size)
	copy(data, outBuf[info.Offset:info.Offset+info.Size])
	s.codec.ReleaseOutputBuffer(info.Index)
	s.stats.unitsDecoded.Inc()
	return &ports.Unit{Data: data, TimeUs: info.TimeUs}, false, nil
}
