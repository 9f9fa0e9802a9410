// Package ggsurface provides a render surface that composites decoded frames
// onto an image canvas using the gg library.
package ggsurface

import (
	"fmt"
	"image"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/framepull/pkg/adapters/rawvideo"
	"github.com/user/framepull/pkg/ports"
)

// Options configures the surface.
type Options struct {
	// CanvasWidth and CanvasHeight are the output canvas dimensions. Zero
	// means "same as the frame".
	CanvasWidth  int
	CanvasHeight int

	// FrameWidth and FrameHeight are the dimensions of incoming payloads.
	FrameWidth  int
	FrameHeight int

	// PixelFormat describes incoming payloads ("i420" or "rgba").
	PixelFormat string

	// Caption draws the presentation time onto each frame.
	Caption bool
}

// Surface implements ports.Surface. It keeps the most recently rendered
// canvas, which callers can grab for preview or thumbnail output.
type Surface struct {
	opts Options

	mu       sync.Mutex
	last     image.Image
	rendered int
}

// New creates a surface for frames of the given format.
func New(opts Options) (*Surface, error) {
	if opts.FrameWidth <= 0 || opts.FrameHeight <= 0 {
		return nil, fmt.Errorf("bad frame dimensions %dx%d", opts.FrameWidth, opts.FrameHeight)
	}
	if opts.PixelFormat == "" {
		opts.PixelFormat = ports.PixelFormatI420
	}
	if opts.CanvasWidth <= 0 {
		opts.CanvasWidth = opts.FrameWidth
	}
	if opts.CanvasHeight <= 0 {
		opts.CanvasHeight = opts.FrameHeight
	}
	return &Surface{opts: opts}, nil
}

// Render composites one decoded payload onto the canvas.
func (s *Surface) Render(data []byte, timeUs int64) error {
	frame, err := s.decode(data)
	if err != nil {
		return err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, s.opts.CanvasWidth, s.opts.CanvasHeight))
	draw.ApproxBiLinear.Scale(canvas, canvas.Bounds(), frame, frame.Bounds(), draw.Src, nil)

	dc := gg.NewContextForRGBA(canvas)
	if s.opts.Caption {
		caption := fmt.Sprintf("%.3fs", float64(timeUs)/1e6)
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(caption, float64(s.opts.CanvasWidth)-7, float64(s.opts.CanvasHeight)-9, 1, 1)
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(caption, float64(s.opts.CanvasWidth)-8, float64(s.opts.CanvasHeight)-10, 1, 1)
	}

	s.mu.Lock()
	s.last = dc.Image()
	s.rendered++
	s.mu.Unlock()
	return nil
}

// Last returns the most recently rendered canvas, or nil.
func (s *Surface) Last() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Rendered returns the number of frames rendered so far.
func (s *Surface) Rendered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rendered
}

func (s *Surface) decode(data []byte) (image.Image, error) {
	switch s.opts.PixelFormat {
	case ports.PixelFormatI420:
		return rawvideo.I420ToRGBA(data, s.opts.FrameWidth, s.opts.FrameHeight)
	case ports.PixelFormatRGBA:
		want := s.opts.FrameWidth * s.opts.FrameHeight * 4
		if len(data) < want {
			return nil, fmt.Errorf("payload of %d bytes too small for %dx%d rgba", len(data), s.opts.FrameWidth, s.opts.FrameHeight)
		}
		img := image.NewRGBA(image.Rect(0, 0, s.opts.FrameWidth, s.opts.FrameHeight))
		copy(img.Pix, data[:want])
		return img, nil
	default:
		return nil, fmt.Errorf("unsupported pixel format %q", s.opts.PixelFormat)
	}
}

var _ ports.Surface = (*Surface)(nil)
