package nativegl

import (
	"image"
)

// pixels returns img as tightly packed rows, flipped vertically when flipY
// is set. GL reads the first row as the bottom of the texture, so WebGL's
// UNPACK_FLIP_Y_WEBGL amounts to a flip on upload.
func pixels(img *image.RGBA, flipY bool) *image.RGBA {
	if img == nil {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if !flipY && img.Stride == 4*w && b.Min == (image.Point{}) {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		sy := y
		if flipY {
			sy = h - 1 - y
		}
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+sy):]
		copy(out.Pix[y*out.Stride:(y+1)*out.Stride], src[:4*w])
	}
	return out
}
