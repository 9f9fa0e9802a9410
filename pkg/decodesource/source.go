// Package decodesource turns an asynchronous buffer-queue codec into a
// synchronous pull source of decoded units. A Source wraps one codec device
// and one upstream sample source and exposes a blocking Read that yields one
// decoded unit per call, handling codec selection, start/stop concurrency,
// seek-triggered flushing and end-of-stream propagation.
package decodesource

import (
	"fmt"
	"sync"
	"time"

	"github.com/user/framepull/pkg/adapters/logger"
	"github.com/user/framepull/pkg/codecs"
	"github.com/user/framepull/pkg/ports"
)

// Default queue timeouts. Waiting for an input slot fails fast because a full
// input queue is the expected steady state once the pipeline is primed; the
// output wait is much longer because the codec may need to consume several
// samples before producing a unit. The two are retried independently, never
// summed into a single deadline.
const (
	DefaultInputTimeout  = 5 * time.Millisecond
	DefaultOutputTimeout = 500 * time.Millisecond

	// DefaultMaxRetries bounds the feed/drain iterations of one Read call.
	DefaultMaxRetries = 64
)

// lifecycle is the adapter state machine: INIT → STARTED → {STOPPING →
// STOPPED | ERROR}. ERROR is absorbing.
type lifecycle int

const (
	lifecycleInit lifecycle = iota
	lifecycleStarted
	lifecycleStopping
	lifecycleStopped
	lifecycleError
)

func (l lifecycle) String() string {
	switch l {
	case lifecycleInit:
		return "init"
	case lifecycleStarted:
		return "started"
	case lifecycleStopping:
		return "stopping"
	case lifecycleStopped:
		return "stopped"
	case lifecycleError:
		return "error"
	default:
		return "unknown"
	}
}

// Options configures adapter creation.
type Options struct {
	// PreferredCodec restricts codec selection to the named component.
	PreferredCodec string

	// Surface, when non-nil, is bound to the codec and enables the zero-copy
	// render path: delivered units carry no payload, only metadata.
	Surface ports.Surface

	// InputTimeout is the wait for a free input buffer (default 5ms).
	InputTimeout time.Duration

	// OutputTimeout is the wait for a decoded output buffer (default 500ms).
	OutputTimeout time.Duration

	// MaxRetries bounds the feed/drain iterations per Read (default 64).
	MaxRetries int

	// Logger receives adapter logs. Defaults to a no-op logger.
	Logger ports.Logger
}

// Source is a synchronous pull source of decoded units.
//
// Read calls must be serialized by the caller (single-consumer contract);
// Start, Stop and Format are safe to call concurrently with an in-flight Read.
type Source struct {
	codec        ports.AsyncCodec
	source       ports.SampleSource
	usingSurface bool
	log          ports.Logger

	inputTimeout  time.Duration
	outputTimeout time.Duration
	maxRetries    int

	stats counters

	// mu guards everything below. The pump releases it only around blocking
	// calls into the codec or the upstream source.
	mu       sync.Mutex
	readCond *sync.Cond
	state    lifecycle
	// reading is true while a Read call is executing the pump. Stop waits on
	// readCond for it to clear.
	reading        bool
	queuedInputEOS bool
	gotOutputEOS   bool
	format         ports.Format
}

// Create selects and configures a codec for the source's format and returns
// an adapter ready to Start. Candidates accepting the media type are tried in
// registry order; each failed attempt is fully released before the next. On
// exhaustion no adapter is returned.
func Create(source ports.SampleSource, opts Options) (*Source, error) {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoop()
	}
	log := opts.Logger.WithComponent("decodesource")

	format := source.Format()
	candidates := codecs.FindMatching(format.MediaType, codecs.Constraints{
		PreferredName: opts.PreferredCodec,
	})

	for _, cand := range candidates {
		log.Debug("Attempting to allocate codec '%s'", cand.Name)
		codec := cand.New()
		if codec == nil {
			continue
		}

		if err := codec.Configure(format, opts.Surface); err != nil {
			log.Debug("Failed to configure codec '%s': %s", cand.Name, err)
			codec.Release()
			continue
		}
		outputFormat, err := codec.OutputFormat()
		if err != nil {
			log.Debug("Failed to configure codec '%s': %s", cand.Name, err)
			codec.Release()
			continue
		}

		log.Info("Allocated codec '%s'", cand.Name)
		return newSource(codec, source, opts, outputFormat), nil
	}

	log.Error("No matching decoder for media type %s", format.MediaType)
	return nil, fmt.Errorf("no matching decoder for %q", format.MediaType)
}

func newSource(codec ports.AsyncCodec, source ports.SampleSource, opts Options, outputFormat ports.Format) *Source {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoop()
	}
	s := &Source{
		codec:         codec,
		source:        source,
		usingSurface:  opts.Surface != nil,
		log:           opts.Logger.WithComponent(codec.Name()),
		inputTimeout:  opts.InputTimeout,
		outputTimeout: opts.OutputTimeout,
		maxRetries:    opts.MaxRetries,
		state:         lifecycleInit,
		format:        outputFormat,
	}
	if s.inputTimeout <= 0 {
		s.inputTimeout = DefaultInputTimeout
	}
	if s.outputTimeout <= 0 {
		s.outputTimeout = DefaultOutputTimeout
	}
	if s.maxRetries <= 0 {
		s.maxRetries = DefaultMaxRetries
	}
	s.readCond = sync.NewCond(&s.mu)
	return s
}

// Start starts the codec device and then the upstream source. Valid only in
// the initial state; otherwise returns ErrInvalidState with no side effects.
func (s *Source) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != lifecycleInit {
		return ports.ErrInvalidState
	}

	err := s.codec.Start()
	if err == nil {
		err = s.source.Start()
	}
	if err != nil {
		s.state = lifecycleError
		return fmt.Errorf("start: %w", err)
	}

	s.state = lifecycleStarted
	s.queuedInputEOS = false
	s.gotOutputEOS = false
	return nil
}

// Stop transitions to stopping, waits for any in-flight Read to finish, then
// stops the codec and the upstream source. Valid only while started.
func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != lifecycleStarted {
		return ports.ErrInvalidState
	}

	// The stopping state is visible to the pump at its next lock
	// acquisition, so the wait below cannot hang on a blocked read.
	s.state = lifecycleStopping
	for s.reading {
		s.readCond.Wait()
	}

	err1 := s.codec.Stop()
	if err1 != nil {
		s.codec.Release()
	}
	err2 := s.source.Stop()

	if err1 == nil && err2 == nil {
		s.state = lifecycleStopped
	} else {
		s.state = lifecycleError
	}
	if err1 != nil {
		return fmt.Errorf("stop codec: %w", err1)
	}
	if err2 != nil {
		return fmt.Errorf("stop source: %w", err2)
	}
	return nil
}

// Format returns the current decoded output format. Available before Start
// and while started; otherwise returns ErrUnavailable.
func (s *Source) Format() (ports.Format, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == lifecycleStarted || s.state == lifecycleInit {
		return s.format, nil
	}
	return ports.Format{}, ports.ErrUnavailable
}

// Read blocks until one decoded unit is available and returns it. A seek
// directive in opts flushes the codec before any queue interaction. Distinct
// non-unit results: ErrEndOfStream (normal termination, repeatable),
// ErrFormatChanged (format updated, re-read to continue), ErrTimedOut (retry
// budget exhausted). Any other error is fatal and absorbs the adapter into
// the error state.
func (s *Source) Read(opts *ports.ReadOptions) (*ports.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != lifecycleStarted {
		return nil, ports.ErrEndOfStream
	}
	s.reading = true

	unit, err := s.pump(opts)

	s.reading = false
	if s.state != lifecycleStarted {
		s.readCond.Broadcast()
	}
	return unit, err
}

// Release frees the codec device. Call only after Stop, or when Start was
// never called.
func (s *Source) Release() {
	s.codec.Release()
}

// Stats returns a snapshot of the adapter's counters.
func (s *Source) Stats() Stats {
	return s.stats.snapshot()
}
