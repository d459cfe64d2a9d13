package softgl

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/recording"
)

// bound returns the 2D texture of the active unit.
func (d *Device) bound() *texture {
	return d.textures[d.st.units[d.st.activeUnit]]
}

func (d *Device) texImage(target gl.Enum, level int, img *image.NRGBA) error {
	if target != gl.TEXTURE_2D {
		return fmt.Errorf("%w: texture target %s", recording.ErrUnsupported, target)
	}
	t := d.bound()
	if t == nil || level != 0 {
		// Mipmap levels are not sampled.
		return nil
	}
	t.img = img
	return nil
}

// upload converts a decoded image to texel storage, honoring
// UNPACK_FLIP_Y_WEBGL.
func (d *Device) upload(src *image.RGBA) *image.NRGBA {
	if src == nil {
		return image.NewNRGBA(image.Rectangle{})
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	if d.st.flipY {
		h := dst.Rect.Dy()
		tmp := make([]byte, dst.Stride)
		for y := range h / 2 {
			top := dst.Pix[y*dst.Stride : (y+1)*dst.Stride]
			bot := dst.Pix[(h-1-y)*dst.Stride : (h-y)*dst.Stride]
			copy(tmp, top)
			copy(top, bot)
			copy(bot, tmp)
		}
	}
	return dst
}

// sample returns the nearest texel at (u, v). The first uploaded row is
// v = 0.
func (t *texture) sample(u, v float32) [4]float32 {
	if t == nil || t.img == nil || t.img.Rect.Empty() {
		return [4]float32{0, 0, 0, 1}
	}
	w, h := t.img.Rect.Dx(), t.img.Rect.Dy()
	x := wrap(u, w, t.wrapS)
	y := wrap(v, h, t.wrapT)
	o := t.img.PixOffset(x, y)
	p := t.img.Pix[o : o+4]
	return [4]float32{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255, float32(p[3]) / 255}
}

func wrap(c float32, size int, mode gl.Enum) int {
	f := float64(c)
	switch mode {
	case gl.CLAMP_TO_EDGE:
		f = math.Min(math.Max(f, 0), 1)
	case gl.MIRRORED_REPEAT:
		f = math.Mod(math.Abs(f), 2)
		if f > 1 {
			f = 2 - f
		}
	default:
		f -= math.Floor(f)
	}
	i := int(f * float64(size))
	return min(max(i, 0), size-1)
}
