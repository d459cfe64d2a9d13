package nativegl

import (
	"image"
	"image/color"
	"testing"
)

func TestPixelsPassThrough(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if got := pixels(img, false); got != img {
		t.Error("packed image was copied")
	}
}

func TestPixelsFlip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(0, 1, color.RGBA{B: 255, A: 255})

	got := pixels(img, true)
	if c := got.RGBAAt(0, 0); c.B != 255 {
		t.Errorf("top row after flip = %v, want blue", c)
	}
	if c := got.RGBAAt(0, 1); c.R != 255 {
		t.Errorf("bottom row after flip = %v, want red", c)
	}
}

func TestPixelsSubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(2, 2, color.RGBA{G: 255, A: 255})
	sub := img.SubImage(image.Rect(2, 2, 4, 4)).(*image.RGBA)

	got := pixels(sub, false)
	if got.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v, want 2x2 at the origin", got.Bounds())
	}
	if c := got.RGBAAt(0, 0); c.G != 255 {
		t.Errorf("origin = %v, want green", c)
	}
}

func TestPixelsNil(t *testing.T) {
	if got := pixels(nil, false); !got.Bounds().Empty() {
		t.Errorf("pixels(nil) = %v, want empty", got.Bounds())
	}
}
