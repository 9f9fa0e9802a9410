package decodesource

import (
	"errors"
	"testing"
	"time"

	"github.com/user/framepull/pkg/codecs"
	"github.com/user/framepull/pkg/mocks"
	"github.com/user/framepull/pkg/ports"
)

func wouldBlockInput(timeout time.Duration) (int, error) {
	return -1, ports.ErrWouldBlock
}

// newStarted builds a source around the given mocks and starts it.
func newStarted(t *testing.T, codec ports.AsyncCodec, src ports.SampleSource, opts Options) *Source {
	t.Helper()
	s := newSource(codec, src, opts, ports.Format{MediaType: ports.MediaTypeH264})
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	return s
}

func TestCreate_SecondCandidateConfigures(t *testing.T) {
	// Unique media type keeps this test isolated in the global registry.
	mediaType := "video/test-create-second"

	first := &mocks.AsyncCodec{
		ConfigureFunc: func(format ports.Format, surface ports.Surface) error {
			return errors.New("profile not supported")
		},
	}
	second := &mocks.AsyncCodec{}

	codecs.Register(codecs.Candidate{
		Name:       "failing",
		MediaTypes: []string{mediaType},
		New:        func() ports.AsyncCodec { return first },
	})
	codecs.Register(codecs.Candidate{
		Name:       "working",
		MediaTypes: []string{mediaType},
		New:        func() ports.AsyncCodec { return second },
	})

	src := &mocks.SampleSource{
		FormatFunc: func() ports.Format { return ports.Format{MediaType: mediaType} },
	}

	s, err := Create(src, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.codec != second {
		t.Error("expected adapter to be bound to the second candidate")
	}
	if !first.ReleaseCalled {
		t.Error("expected failed candidate to be released")
	}
	if second.ReleaseCalled {
		t.Error("expected bound candidate to stay allocated")
	}
}

func TestCreate_ExhaustionReturnsNoAdapter(t *testing.T) {
	mediaType := "video/test-create-exhaustion"

	failing := &mocks.AsyncCodec{
		ConfigureFunc: func(format ports.Format, surface ports.Surface) error {
			return errors.New("no resources")
		},
	}
	codecs.Register(codecs.Candidate{
		Name:       "only",
		MediaTypes: []string{mediaType},
		New:        func() ports.AsyncCodec { return failing },
	})

	src := &mocks.SampleSource{
		FormatFunc: func() ports.Format { return ports.Format{MediaType: mediaType} },
	}

	s, err := Create(src, Options{})
	if err == nil {
		t.Fatal("expected error when all candidates fail")
	}
	if s != nil {
		t.Error("expected no adapter on exhaustion")
	}
	if !failing.ReleaseCalled {
		t.Error("expected failed candidate to be released")
	}
}

func TestCreate_PreferredCodecFilters(t *testing.T) {
	mediaType := "video/test-create-preferred"

	def := &mocks.AsyncCodec{}
	preferred := &mocks.AsyncCodec{}
	codecs.Register(codecs.Candidate{
		Name:       "default-dec",
		MediaTypes: []string{mediaType},
		New:        func() ports.AsyncCodec { return def },
	})
	codecs.Register(codecs.Candidate{
		Name:       "preferred-dec",
		MediaTypes: []string{mediaType},
		New:        func() ports.AsyncCodec { return preferred },
	})

	src := &mocks.SampleSource{
		FormatFunc: func() ports.Format { return ports.Format{MediaType: mediaType} },
	}

	s, err := Create(src, Options{PreferredCodec: "preferred-dec"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.codec != preferred {
		t.Error("expected adapter to be bound to the preferred candidate")
	}
	if def.ConfigureCalled {
		t.Error("expected non-preferred candidate to be skipped")
	}
}

func TestStart_Lifecycle(t *testing.T) {
	codec := &mocks.AsyncCodec{}
	src := &mocks.SampleSource{}
	s := newSource(codec, src, Options{}, ports.Format{})

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !codec.StartCalled || !src.StartCalled {
		t.Error("expected codec and source to be started")
	}

	if err := s.Start(); !errors.Is(err, ports.ErrInvalidState) {
		t.Errorf("second start: expected ErrInvalidState, got %v", err)
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !codec.StopCalled || !src.StopCalled {
		t.Error("expected codec and source to be stopped")
	}

	if err := s.Stop(); !errors.Is(err, ports.ErrInvalidState) {
		t.Errorf("second stop: expected ErrInvalidState, got %v", err)
	}

	if _, err := s.Read(nil); !errors.Is(err, ports.ErrEndOfStream) {
		t.Errorf("read after stop: expected ErrEndOfStream, got %v", err)
	}
}

func TestStop_FromInitIsInvalid(t *testing.T) {
	codec := &mocks.AsyncCodec{}
	s := newSource(codec, &mocks.SampleSource{}, Options{}, ports.Format{})

	if err := s.Stop(); !errors.Is(err, ports.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if codec.StopCalled {
		t.Error("expected codec to stay untouched")
	}
	if s.state != lifecycleInit {
		t.Errorf("expected state to stay init, got %s", s.state)
	}
}

func TestStart_CodecFailureIsFatal(t *testing.T) {
	codec := &mocks.AsyncCodec{
		StartFunc: func() error { return errors.New("device busy") },
	}
	s := newSource(codec, &mocks.SampleSource{}, Options{}, ports.Format{})

	if err := s.Start(); err == nil {
		t.Fatal("expected start to fail")
	}
	if s.state != lifecycleError {
		t.Errorf("expected error state, got %s", s.state)
	}
	if _, err := s.Format(); !errors.Is(err, ports.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if _, err := s.Read(nil); !errors.Is(err, ports.ErrEndOfStream) {
		t.Errorf("expected ErrEndOfStream, got %v", err)
	}
}

func TestFormat_Availability(t *testing.T) {
	want := ports.Format{MediaType: ports.MediaTypeH264, Width: 640, Height: 480}
	s := newSource(&mocks.AsyncCodec{}, &mocks.SampleSource{}, Options{}, want)

	got, err := s.Format()
	if err != nil {
		t.Fatalf("format in init: %v", err)
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.Format(); err != nil {
		t.Errorf("format while started: %v", err)
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if _, err := s.Format(); !errors.Is(err, ports.ErrUnavailable) {
		t.Errorf("format after stop: expected ErrUnavailable, got %v", err)
	}
}

func TestStop_WaitsForBlockedRead(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once bool

	codec := &mocks.AsyncCodec{
		DequeueInputBufferFunc: wouldBlockInput,
		DequeueOutputBufferFunc: func(timeout time.Duration) (ports.BufferInfo, error) {
			if !once {
				once = true
				close(entered)
			}
			<-release
			return ports.BufferInfo{Index: -1}, ports.ErrWouldBlock
		},
	}
	src := &mocks.SampleSource{}
	s := newStarted(t, codec, src, Options{})

	readDone := make(chan error, 1)
	go func() {
		_, err := s.Read(nil)
		readDone <- err
	}()
	<-entered

	stopDone := make(chan error, 1)
	go func() {
		stopDone <- s.Stop()
	}()

	// The stop must not return while the read is still blocked in the codec.
	select {
	case <-stopDone:
		t.Fatal("stop returned before the in-flight read finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)

	if err := <-readDone; !errors.Is(err, ports.ErrEndOfStream) {
		t.Errorf("interrupted read: expected ErrEndOfStream, got %v", err)
	}
	if err := <-stopDone; err != nil {
		t.Errorf("stop: %v", err)
	}
	if !codec.StopCalled || !src.StopCalled {
		t.Error("expected codec and source to be stopped")
	}
}

func TestStop_ReleasesBufferDeliveredDuringStop(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once bool

	codec := &mocks.AsyncCodec{
		DequeueInputBufferFunc: wouldBlockInput,
		DequeueOutputBufferFunc: func(timeout time.Duration) (ports.BufferInfo, error) {
			if !once {
				once = true
				close(entered)
			}
			<-release
			return ports.BufferInfo{Index: 3, Size: 16, TimeUs: 1000}, nil
		},
	}
	s := newStarted(t, codec, &mocks.SampleSource{}, Options{})

	readDone := make(chan error, 1)
	go func() {
		_, err := s.Read(nil)
		readDone <- err
	}()
	<-entered

	stopDone := make(chan error, 1)
	go func() {
		stopDone <- s.Stop()
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)

	if err := <-readDone; !errors.Is(err, ports.ErrEndOfStream) {
		t.Errorf("interrupted read: expected ErrEndOfStream, got %v", err)
	}
	if err := <-stopDone; err != nil {
		t.Errorf("stop: %v", err)
	}
	if len(codec.ReleasedOutputs) != 1 || codec.ReleasedOutputs[0] != 3 {
		t.Errorf("expected buffer 3 to be released, got %v", codec.ReleasedOutputs)
	}
}
