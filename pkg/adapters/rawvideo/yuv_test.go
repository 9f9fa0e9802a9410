package rawvideo

import (
	"testing"
)

// i420Frame builds a payload with uniform Y, U and V planes.
func i420Frame(width, height int, y, u, v byte) []byte {
	ySize := width * height
	cSize := ((width + 1) / 2) * ((height + 1) / 2)
	data := make([]byte, ySize+2*cSize)
	for i := 0; i < ySize; i++ {
		data[i] = y
	}
	for i := 0; i < cSize; i++ {
		data[ySize+i] = u
		data[ySize+cSize+i] = v
	}
	return data
}

func TestI420Size(t *testing.T) {
	tests := []struct {
		width, height, want int
	}{
		{2, 2, 6},
		{4, 4, 24},
		{3, 3, 17},
		{1, 1, 3},
		{640, 480, 460800},
	}
	for _, tt := range tests {
		if got := I420Size(tt.width, tt.height); got != tt.want {
			t.Errorf("I420Size(%d, %d): expected %d, got %d", tt.width, tt.height, tt.want, got)
		}
	}
}

func TestI420ToRGBA_UniformColors(t *testing.T) {
	tests := []struct {
		name    string
		y, u, v byte
		r, g, b uint8
	}{
		{"video black", 16, 128, 128, 0, 0, 0},
		{"video white", 235, 128, 128, 255, 255, 255},
		{"mid gray", 128, 128, 128, 130, 130, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := I420ToRGBA(i420Frame(4, 4, tt.y, tt.u, tt.v), 4, 4)
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			for _, pt := range []struct{ x, y int }{{0, 0}, {3, 3}, {1, 2}} {
				idx := pt.y*img.Stride + pt.x*4
				r, g, b, a := img.Pix[idx], img.Pix[idx+1], img.Pix[idx+2], img.Pix[idx+3]
				if r != tt.r || g != tt.g || b != tt.b {
					t.Errorf("pixel (%d,%d): expected rgb(%d,%d,%d), got rgb(%d,%d,%d)",
						pt.x, pt.y, tt.r, tt.g, tt.b, r, g, b)
				}
				if a != 255 {
					t.Errorf("pixel (%d,%d): expected opaque alpha, got %d", pt.x, pt.y, a)
				}
			}
		})
	}
}

func TestI420ToRGBA_OddDimensions(t *testing.T) {
	img, err := I420ToRGBA(i420Frame(3, 3, 128, 128, 128), 3, 3)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 3 {
		t.Errorf("expected 3x3 image, got %v", img.Bounds())
	}
	idx := 2*img.Stride + 2*4
	if img.Pix[idx] != 130 {
		t.Errorf("expected gray corner pixel, got %d", img.Pix[idx])
	}
}

func TestI420ToRGBA_Errors(t *testing.T) {
	if _, err := I420ToRGBA(make([]byte, 5), 4, 4); err == nil {
		t.Error("expected a short payload to be rejected")
	}
	if _, err := I420ToRGBA(nil, 0, 4); err == nil {
		t.Error("expected zero width to be rejected")
	}
	if _, err := I420ToRGBA(nil, 4, -1); err == nil {
		t.Error("expected negative height to be rejected")
	}
}
