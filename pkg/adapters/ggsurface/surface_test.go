package ggsurface

import (
	"testing"

	"github.com/user/framepull/pkg/adapters/rawvideo"
	"github.com/user/framepull/pkg/ports"
)

// grayFrame builds a uniform mid-gray I420 payload.
func grayFrame(width, height int) []byte {
	data := make([]byte, rawvideo.I420Size(width, height))
	for i := range data {
		data[i] = 128
	}
	return data
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Options{FrameWidth: 0, FrameHeight: 48}); err == nil {
		t.Error("expected zero frame width to be rejected")
	}
	if _, err := New(Options{FrameWidth: 64, FrameHeight: -1}); err == nil {
		t.Error("expected negative frame height to be rejected")
	}
}

func TestRender_CanvasDefaultsToFrameSize(t *testing.T) {
	s, err := New(Options{FrameWidth: 4, FrameHeight: 4})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Render(grayFrame(4, 4), 0); err != nil {
		t.Fatalf("render: %v", err)
	}

	last := s.Last()
	if last == nil {
		t.Fatal("expected a rendered canvas")
	}
	if last.Bounds().Dx() != 4 || last.Bounds().Dy() != 4 {
		t.Errorf("expected a 4x4 canvas, got %v", last.Bounds())
	}
	if s.Rendered() != 1 {
		t.Errorf("expected 1 rendered frame, got %d", s.Rendered())
	}
}

func TestRender_ScalesToCanvas(t *testing.T) {
	s, err := New(Options{
		FrameWidth:   4,
		FrameHeight:  4,
		CanvasWidth:  8,
		CanvasHeight: 6,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Render(grayFrame(4, 4), 33333); err != nil {
		t.Fatalf("render: %v", err)
	}

	last := s.Last()
	if last.Bounds().Dx() != 8 || last.Bounds().Dy() != 6 {
		t.Errorf("expected an 8x6 canvas, got %v", last.Bounds())
	}

	r, g, b, _ := last.At(4, 3).RGBA()
	if r>>8 != 130 || g>>8 != 130 || b>>8 != 130 {
		t.Errorf("expected a gray canvas center, got rgb(%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestRender_RGBAPayload(t *testing.T) {
	s, err := New(Options{FrameWidth: 2, FrameHeight: 2, PixelFormat: ports.PixelFormatRGBA})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	// Four solid red pixels.
	data := make([]byte, 2*2*4)
	for i := 0; i < len(data); i += 4 {
		data[i] = 255
		data[i+3] = 255
	}
	if err := s.Render(data, 0); err != nil {
		t.Fatalf("render: %v", err)
	}

	r, g, b, _ := s.Last().At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("expected red, got rgb(%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestRender_WithCaption(t *testing.T) {
	s, err := New(Options{FrameWidth: 64, FrameHeight: 48, Caption: true})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Render(grayFrame(64, 48), 1500000); err != nil {
		t.Fatalf("render: %v", err)
	}
	if s.Rendered() != 1 {
		t.Errorf("expected 1 rendered frame, got %d", s.Rendered())
	}
}

func TestRender_Errors(t *testing.T) {
	s, err := New(Options{FrameWidth: 4, FrameHeight: 4})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Render(make([]byte, 3), 0); err == nil {
		t.Error("expected a short payload to be rejected")
	}
	if s.Rendered() != 0 {
		t.Errorf("expected no rendered frames after a failure, got %d", s.Rendered())
	}

	bad, err := New(Options{FrameWidth: 4, FrameHeight: 4, PixelFormat: "nv12"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := bad.Render(grayFrame(4, 4), 0); err == nil {
		t.Error("expected an unsupported pixel format to be rejected")
	}
}
