// Package queuecodec provides a pure-Go asynchronous codec device built on
// indexed buffer pools and channel-backed queues. Input buffers are consumed
// by a worker goroutine that runs a pluggable payload transform and publishes
// the results on the output queue. The default transform is a passthrough,
// which makes the codec usable as a pipeline fixture wherever a real decoder
// is unavailable.
package queuecodec

import (
	"fmt"
	"sync"
	"time"

	"github.com/user/framepull/pkg/ports"
)

// Transform converts one encoded payload into a decoded payload, returning
// the number of bytes written to out.
type Transform func(in, out []byte) (int, error)

// Passthrough copies the payload unchanged.
func Passthrough(in, out []byte) (int, error) {
	if len(in) > len(out) {
		return 0, fmt.Errorf("payload of %d bytes exceeds output buffer of %d", len(in), len(out))
	}
	return copy(out, in), nil
}

// Options configures the codec device.
type Options struct {
	Name          string // component name (default "passthrough")
	InputBuffers  int    // input pool size (default 4)
	OutputBuffers int    // output pool size (default 4)
	BufferSize    int    // per-buffer capacity in bytes (default 256 KiB)
	Transform     Transform
}

type inputItem struct {
	index  int
	size   int
	timeUs int64
	flags  ports.BufferFlags
	gen    uint64
}

// Codec implements ports.AsyncCodec.
type Codec struct {
	name      string
	transform Transform
	bufSize   int
	numInput  int
	numOutput int

	inputBufs  [][]byte
	outputBufs [][]byte

	freeInput  chan int
	pending    chan inputItem
	freeOutput chan int
	ready      chan ports.BufferInfo

	stop chan struct{}
	wg   sync.WaitGroup

	// pubMu serializes the worker's output publication against Flush, so
	// that a flush never races a buffer mid-publication.
	pubMu sync.Mutex

	mu           sync.Mutex
	configured   bool
	started      bool
	released     bool
	gen          uint64
	formatNotice bool
	surface      ports.Surface
	outputFormat ports.Format
	outputInfo   []ports.BufferInfo
}

// New allocates an unconfigured codec device.
func New(opts Options) *Codec {
	if opts.Name == "" {
		opts.Name = "passthrough"
	}
	if opts.InputBuffers <= 0 {
		opts.InputBuffers = 4
	}
	if opts.OutputBuffers <= 0 {
		opts.OutputBuffers = 4
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 256 * 1024
	}
	if opts.Transform == nil {
		opts.Transform = Passthrough
	}
	return &Codec{
		name:      opts.Name,
		transform: opts.Transform,
		bufSize:   opts.BufferSize,
		numInput:  opts.InputBuffers,
		numOutput: opts.OutputBuffers,
	}
}

// Configure binds the input format and optional surface and allocates the
// buffer pools.
func (c *Codec) Configure(format ports.Format, surface ports.Surface) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return fmt.Errorf("codec released")
	}
	if c.configured {
		return fmt.Errorf("codec already configured")
	}

	c.inputBufs = make([][]byte, c.numInput)
	for i := range c.inputBufs {
		c.inputBufs[i] = make([]byte, c.bufSize)
	}
	c.outputBufs = make([][]byte, c.numOutput)
	for i := range c.outputBufs {
		c.outputBufs[i] = make([]byte, c.bufSize)
	}
	c.outputInfo = make([]ports.BufferInfo, c.numOutput)

	c.surface = surface
	c.outputFormat = format
	c.outputFormat.Codec = c.name
	if c.outputFormat.PixelFormat == "" {
		c.outputFormat.PixelFormat = ports.PixelFormatI420
	}
	c.configured = true
	return nil
}

// Start resets the queues and launches the worker.
func (c *Codec) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.configured {
		return fmt.Errorf("codec not configured")
	}
	if c.started {
		return fmt.Errorf("codec already started")
	}

	c.freeInput = make(chan int, c.numInput)
	for i := 0; i < c.numInput; i++ {
		c.freeInput <- i
	}
	c.pending = make(chan inputItem, c.numInput)
	c.freeOutput = make(chan int, c.numOutput)
	for i := 0; i < c.numOutput; i++ {
		c.freeOutput <- i
	}
	c.ready = make(chan ports.BufferInfo, c.numOutput)

	c.stop = make(chan struct{})
	c.started = true
	c.formatNotice = true
	c.wg.Add(1)
	go c.worker()
	return nil
}

// Stop terminates the worker. The codec can be started again afterwards.
func (c *Codec) Stop() error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return fmt.Errorf("codec not started")
	}
	c.started = false
	close(c.stop)
	c.mu.Unlock()

	c.wg.Wait()
	return nil
}

// Flush discards all queued input and output. A buffer the worker holds at
// this instant is discarded as well, via the generation check.
func (c *Codec) Flush() error {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()

	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return fmt.Errorf("codec not started")
	}
	c.gen++
	c.mu.Unlock()

	for {
		select {
		case it := <-c.pending:
			c.freeInput <- it.index
			continue
		default:
		}
		break
	}
	for {
		select {
		case info := <-c.ready:
			c.freeOutput <- info.Index
			continue
		default:
		}
		break
	}
	return nil
}

// Release stops the worker if needed and marks the device unusable.
func (c *Codec) Release() {
	c.mu.Lock()
	running := c.started
	c.started = false
	c.released = true
	if running {
		close(c.stop)
	}
	c.mu.Unlock()

	if running {
		c.wg.Wait()
	}
}

func (c *Codec) DequeueInputBuffer(timeout time.Duration) (int, error) {
	if err := c.ensureStarted(); err != nil {
		return -1, err
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case index := <-c.freeInput:
		return index, nil
	case <-timer.C:
		return -1, ports.ErrWouldBlock
	}
}

func (c *Codec) InputBuffer(index int) ([]byte, error) {
	if index < 0 || index >= len(c.inputBufs) {
		return nil, fmt.Errorf("bad input buffer index %d", index)
	}
	return c.inputBufs[index], nil
}

func (c *Codec) QueueInputBuffer(index, size int, timeUs int64, flags ports.BufferFlags) error {
	if index < 0 || index >= len(c.inputBufs) {
		return fmt.Errorf("bad input buffer index %d", index)
	}
	if size < 0 || size > c.bufSize {
		return fmt.Errorf("bad input size %d", size)
	}
	if err := c.ensureStarted(); err != nil {
		return err
	}

	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	// Never blocks: at most numInput indices circulate.
	c.pending <- inputItem{index: index, size: size, timeUs: timeUs, flags: flags, gen: gen}
	return nil
}

func (c *Codec) DequeueOutputBuffer(timeout time.Duration) (ports.BufferInfo, error) {
	if err := c.ensureStarted(); err != nil {
		return ports.BufferInfo{}, err
	}

	c.mu.Lock()
	if c.formatNotice {
		c.formatNotice = false
		c.mu.Unlock()
		return ports.BufferInfo{Index: -1}, ports.ErrFormatChanged
	}
	c.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case info := <-c.ready:
		return info, nil
	case <-timer.C:
		return ports.BufferInfo{Index: -1}, ports.ErrWouldBlock
	}
}

func (c *Codec) OutputBuffer(index int) ([]byte, error) {
	if index < 0 || index >= len(c.outputBufs) {
		return nil, fmt.Errorf("bad output buffer index %d", index)
	}
	return c.outputBufs[index], nil
}

func (c *Codec) ReleaseOutputBuffer(index int) error {
	if index < 0 || index >= len(c.outputBufs) {
		return fmt.Errorf("bad output buffer index %d", index)
	}
	c.freeOutput <- index
	return nil
}

func (c *Codec) RenderOutputBuffer(index int) error {
	if index < 0 || index >= len(c.outputBufs) {
		return fmt.Errorf("bad output buffer index %d", index)
	}
	c.mu.Lock()
	surface := c.surface
	info := c.outputInfo[index]
	c.mu.Unlock()

	if surface == nil {
		return fmt.Errorf("no surface bound")
	}
	err := surface.Render(c.outputBufs[index][:info.Size], info.TimeUs)
	c.freeOutput <- index
	return err
}

func (c *Codec) OutputFormat() (ports.Format, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.configured {
		return ports.Format{}, fmt.Errorf("codec not configured")
	}
	return c.outputFormat, nil
}

func (c *Codec) Name() string {
	return c.name
}

func (c *Codec) ensureStarted() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return fmt.Errorf("codec not started")
	}
	return nil
}

// worker moves queued input through the transform into output buffers.
func (c *Codec) worker() {
	defer c.wg.Done()
	for {
		var it inputItem
		select {
		case <-c.stop:
			return
		case it = <-c.pending:
		}

		var outIndex int
		select {
		case <-c.stop:
			return
		case outIndex = <-c.freeOutput:
		}

		size := 0
		if it.size > 0 {
			n, err := c.transform(c.inputBufs[it.index][:it.size], c.outputBufs[outIndex])
			if err == nil {
				size = n
			}
		}
		info := ports.BufferInfo{
			Index:  outIndex,
			Size:   size,
			TimeUs: it.timeUs,
			Flags:  it.flags,
		}

		c.freeInput <- it.index

		// The ready send below cannot block: at most numOutput buffers
		// circulate, so publication under pubMu is safe.
		c.pubMu.Lock()
		c.mu.Lock()
		stale := it.gen != c.gen
		if !stale {
			c.outputInfo[outIndex] = info
		}
		c.mu.Unlock()

		if stale {
			c.freeOutput <- outIndex
		} else {
			c.ready <- info
		}
		c.pubMu.Unlock()
	}
}

var _ ports.AsyncCodec = (*Codec)(nil)
