// Package rawvideo converts raw decoded payloads into images.
package rawvideo

import (
	"fmt"
	"image"
)

// I420Size returns the payload size in bytes of one I420 frame.
func I420Size(width, height int) int {
	return width*height + 2*((width+1)/2)*((height+1)/2)
}

// I420ToRGBA converts one tightly packed I420 payload into an RGBA image.
func I420ToRGBA(data []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("bad dimensions %dx%d", width, height)
	}
	if len(data) < I420Size(width, height) {
		return nil, fmt.Errorf("payload of %d bytes too small for %dx%d i420", len(data), width, height)
	}

	yStride := width
	cStride := (width + 1) / 2
	yPlane := data[:yStride*height]
	uPlane := data[yStride*height : yStride*height+cStride*((height+1)/2)]
	vPlane := data[yStride*height+cStride*((height+1)/2):]

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			yVal := int(yPlane[y*yStride+x])
			uVal := int(uPlane[(y/2)*cStride+(x/2)])
			vVal := int(vPlane[(y/2)*cStride+(x/2)])

			// YUV to RGB conversion
			c := yVal - 16
			d := uVal - 128
			e := vVal - 128

			r := clamp((298*c + 409*e + 128) >> 8)
			g := clamp((298*c - 100*d - 208*e + 128) >> 8)
			b := clamp((298*c + 516*d + 128) >> 8)

			idx := y*rgba.Stride + x*4
			rgba.Pix[idx] = uint8(r)
			rgba.Pix[idx+1] = uint8(g)
			rgba.Pix[idx+2] = uint8(b)
			rgba.Pix[idx+3] = 255
		}
	}

	return rgba, nil
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
