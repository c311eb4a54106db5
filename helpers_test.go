package glow

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// solidImage returns a w x h image filled with c.
func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// pngBytes encodes img as PNG.
func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// pixel returns the premultiplied pixel at (x, y) of a software surface.
func pixel(s Surface, x, y int) color.RGBA {
	return softSurface(s).img.RGBAAt(x, y)
}

// softRenderer returns a renderer on the software device.
func softRenderer(t *testing.T, cfg BloomConfig) *Renderer {
	t.Helper()
	r, err := NewRenderer(NewSoftwareDevice(), cfg)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

// testCamera is an orthographic camera at 20 px per world unit on an
// 80 x 60 surface: x in [-2, 2], y in [-1.5, 1.5].
func testCamera() *OrthographicCamera {
	return NewOrthographicCamera(-2, 2, -1.5, 1.5, 0.1, 100)
}

const (
	testW = 80
	testH = 60
)

// colorPic returns a picture plane showing a solid color at x.
func colorPic(c color.RGBA, x float32) *Object {
	o := NewPic(NewTextureFromImage(solidImage(4, 6, c)), PicOptions{})
	o.Position[0] = x
	return o
}

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
