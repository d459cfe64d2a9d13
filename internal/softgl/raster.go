package softgl

import (
	"image"
	"math"

	"golang.org/x/image/vector"

	"github.com/gogpu/glsurface/gl"
)

// minBandRows is the smallest row band worth handing to another goroutine.
const minBandRows = 16

// edge is twice the signed area of (a, b, p); positive when p lies left of
// a→b with y pointing up.
func edge(a, b [3]float32, px, py float32) float32 {
	return (b[0]-a[0])*(py-a[1]) - (b[1]-a[1])*(px-a[0])
}

func (d *Device) culled(area float32) bool {
	if !d.st.cull {
		return false
	}
	front := area > 0
	if d.st.frontFace == gl.CW {
		front = !front
	}
	switch d.st.cullFace {
	case gl.FRONT:
		return front
	case gl.FRONT_AND_BACK:
		return true
	}
	return !front
}

// triangle rasterizes one triangle. Without anti-aliasing a pixel is
// covered when its center is inside; with it, coverage comes from the
// analytic rasterizer of x/image/vector and attenuates the written color.
// Triangles with a vertex behind the eye are dropped.
func (d *Device) triangle(a, b, c *vertex, shade shadeFunc) {
	if a.w <= 0 || b.w <= 0 || c.w <= 0 {
		return
	}
	area := edge(a.win, b.win, c.win[0], c.win[1])
	if area == 0 || math.IsNaN(float64(area)) || d.culled(area) {
		return
	}

	minX := math.Floor(float64(min(a.win[0], b.win[0], c.win[0])))
	minY := math.Floor(float64(min(a.win[1], b.win[1], c.win[1])))
	maxX := math.Ceil(float64(max(a.win[0], b.win[0], c.win[0])))
	maxY := math.Ceil(float64(max(a.win[1], b.win[1], c.win[1])))
	box := d.clip()
	if minX >= float64(box.Max.X) || minY >= float64(box.Max.Y) || maxX <= float64(box.Min.X) || maxY <= float64(box.Min.Y) {
		return
	}
	r := image.Rect(int(math.Max(minX, float64(box.Min.X))), int(math.Max(minY, float64(box.Min.Y))),
		int(math.Min(maxX, float64(box.Max.X))), int(math.Min(maxY, float64(box.Max.Y))))
	if r.Empty() {
		return
	}

	var mask *image.Alpha
	if d.antialias {
		mask = coverage([3][3]float32{a.win, b.win, c.win}, r)
	}

	d.pool.Rows(r.Min.Y, r.Max.Y, minBandRows, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			py := float32(y) + 0.5
			for x := r.Min.X; x < r.Max.X; x++ {
				px := float32(x) + 0.5
				w0 := edge(b.win, c.win, px, py) / area
				w1 := edge(c.win, a.win, px, py) / area
				w2 := 1 - w0 - w1
				cov := float32(1)
				if mask != nil {
					cov = float32(mask.AlphaAt(x-r.Min.X, r.Max.Y-1-y).A) / 255
					if cov == 0 {
						continue
					}
					w0, w1, w2 = clampBary(w0, w1, w2)
				} else if w0 < 0 || w1 < 0 || w2 < 0 {
					continue
				}
				z := w0*a.win[2] + w1*b.win[2] + w2*c.win[2]
				var col [4]float32
				for k := range col {
					col[k] = w0*a.color[k] + w1*b.color[k] + w2*c.color[k]
				}
				uv := [2]float32{
					w0*a.uv[0] + w1*b.uv[0] + w2*c.uv[0],
					w0*a.uv[1] + w1*b.uv[1] + w2*c.uv[1],
				}
				d.plot(x, y, z, shade(col, uv), cov)
			}
		}
	})
}

// clampBary moves barycentrics of an edge pixel whose center lies outside
// the triangle back onto it.
func clampBary(w0, w1, w2 float32) (float32, float32, float32) {
	w0, w1, w2 = max(w0, 0), max(w1, 0), max(w2, 0)
	s := w0 + w1 + w2
	if s == 0 {
		return 1, 0, 0
	}
	return w0 / s, w1 / s, w2 / s
}

// coverage returns the per-pixel coverage of a triangle over r. The mask
// is indexed top row first.
func coverage(tri [3][3]float32, r image.Rectangle) *image.Alpha {
	w, h := r.Dx(), r.Dy()
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	poly := make([][2]float32, 0, 3)
	for _, v := range tri {
		poly = append(poly, [2]float32{v[0] - float32(r.Min.X), float32(r.Max.Y) - v[1]})
	}
	poly = clipPolygon(poly, float32(w), float32(h))
	if len(poly) < 3 {
		return mask
	}
	z := vector.NewRasterizer(w, h)
	z.MoveTo(poly[0][0], poly[0][1])
	for _, p := range poly[1:] {
		z.LineTo(p[0], p[1])
	}
	z.ClosePath()
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// clipPolygon clips a polygon to [0, w]×[0, h] (Sutherland–Hodgman).
func clipPolygon(poly [][2]float32, w, h float32) [][2]float32 {
	planes := []struct {
		inside func(p [2]float32) bool
		cross  func(a, b [2]float32) [2]float32
	}{
		{func(p [2]float32) bool { return p[0] >= 0 }, func(a, b [2]float32) [2]float32 { return atX(a, b, 0) }},
		{func(p [2]float32) bool { return p[0] <= w }, func(a, b [2]float32) [2]float32 { return atX(a, b, w) }},
		{func(p [2]float32) bool { return p[1] >= 0 }, func(a, b [2]float32) [2]float32 { return atY(a, b, 0) }},
		{func(p [2]float32) bool { return p[1] <= h }, func(a, b [2]float32) [2]float32 { return atY(a, b, h) }},
	}
	for _, pl := range planes {
		if len(poly) == 0 {
			break
		}
		in := poly
		poly = make([][2]float32, 0, len(in)+2)
		prev := in[len(in)-1]
		for _, cur := range in {
			switch {
			case pl.inside(cur):
				if !pl.inside(prev) {
					poly = append(poly, pl.cross(prev, cur))
				}
				poly = append(poly, cur)
			case pl.inside(prev):
				poly = append(poly, pl.cross(prev, cur))
			}
			prev = cur
		}
	}
	return poly
}

func atX(a, b [2]float32, x float32) [2]float32 {
	t := (x - a[0]) / (b[0] - a[0])
	return [2]float32{x, a[1] + t*(b[1]-a[1])}
}

func atY(a, b [2]float32, y float32) [2]float32 {
	t := (y - a[1]) / (b[1] - a[1])
	return [2]float32{a[0] + t*(b[0]-a[0]), y}
}

// line draws a one pixel wide line, excluding the last pixel.
func (d *Device) line(a, b *vertex, shade shadeFunc) {
	if a.w <= 0 || b.w <= 0 {
		return
	}
	dx, dy := b.win[0]-a.win[0], b.win[1]-a.win[1]
	steps := int(math.Ceil(math.Max(math.Abs(float64(dx)), math.Abs(float64(dy)))))
	if steps == 0 {
		d.point(a, shade)
		return
	}
	box := d.clip()
	for i := range steps {
		t := float32(i) / float32(steps)
		x := int(math.Floor(float64(a.win[0] + dx*t)))
		y := int(math.Floor(float64(a.win[1] + dy*t)))
		if !image.Pt(x, y).In(box) {
			continue
		}
		var col [4]float32
		for k := range col {
			col[k] = a.color[k] + (b.color[k]-a.color[k])*t
		}
		uv := [2]float32{a.uv[0] + (b.uv[0]-a.uv[0])*t, a.uv[1] + (b.uv[1]-a.uv[1])*t}
		z := a.win[2] + (b.win[2]-a.win[2])*t
		d.plot(x, y, z, shade(col, uv), 1)
	}
}

// point draws a one pixel point.
func (d *Device) point(v *vertex, shade shadeFunc) {
	if v.w <= 0 {
		return
	}
	x := int(math.Floor(float64(v.win[0])))
	y := int(math.Floor(float64(v.win[1])))
	if image.Pt(x, y).In(d.clip()) {
		d.plot(x, y, v.win[2], shade(v.color, v.uv), 1)
	}
}

// plot writes one fragment at window (x, y). Fragments outside the depth
// clip volume are discarded. Calls for distinct pixels may run
// concurrently.
func (d *Device) plot(x, y int, z float32, src [4]float32, cov float32) {
	if z < 0 || z > 1 {
		return
	}
	st := &d.st
	z = st.depthRange[0] + (st.depthRange[1]-st.depthRange[0])*z
	row := d.height - 1 - y
	if st.depthTest {
		i := row*d.width + x
		if !depthPass(st.depthFunc, z, d.depth[i]) {
			return
		}
		if st.depthMask {
			d.depth[i] = z
		}
	}
	for k := range src {
		src[k] = clamp01(src[k])
	}

	o := d.color.PixOffset(x, row)
	px := d.color.Pix[o : o+4 : o+4]
	var dst [4]float32
	for k := range dst {
		dst[k] = float32(px[k]) / 255
	}
	out := src
	if st.blend {
		out = d.blendPixel(src, dst)
	}
	for k := range out {
		if st.colorMask[k] {
			px[k] = toByte(dst[k] + (out[k]-dst[k])*cov)
		}
	}
}

func depthPass(fn gl.Enum, z, cur float32) bool {
	switch fn {
	case gl.NEVER:
		return false
	case gl.LESS:
		return z < cur
	case gl.EQUAL:
		return z == cur
	case gl.LEQUAL:
		return z <= cur
	case gl.GREATER:
		return z > cur
	case gl.NOTEQUAL:
		return z != cur
	case gl.GEQUAL:
		return z >= cur
	}
	return true
}

// blendPixel applies the blend function with FUNC_ADD.
func (d *Device) blendPixel(src, dst [4]float32) [4]float32 {
	f := d.st.blendFunc
	var out [4]float32
	for k := range out {
		sf, df := f[0], f[1]
		if k == 3 {
			sf, df = f[2], f[3]
		}
		out[k] = clamp01(src[k]*d.factor(sf, src, dst, k) + dst[k]*d.factor(df, src, dst, k))
	}
	return out
}

func (d *Device) factor(f gl.Enum, src, dst [4]float32, k int) float32 {
	bc := d.st.blendColor
	switch f {
	case gl.ZERO:
		return 0
	case gl.ONE:
		return 1
	case gl.SRC_COLOR:
		return src[k]
	case gl.ONE_MINUS_SRC_COLOR:
		return 1 - src[k]
	case gl.DST_COLOR:
		return dst[k]
	case gl.ONE_MINUS_DST_COLOR:
		return 1 - dst[k]
	case gl.SRC_ALPHA:
		return src[3]
	case gl.ONE_MINUS_SRC_ALPHA:
		return 1 - src[3]
	case gl.DST_ALPHA:
		return dst[3]
	case gl.ONE_MINUS_DST_ALPHA:
		return 1 - dst[3]
	case gl.CONSTANT_COLOR:
		return bc[k]
	case gl.ONE_MINUS_CONSTANT_COLOR:
		return 1 - bc[k]
	case gl.CONSTANT_ALPHA:
		return bc[3]
	case gl.ONE_MINUS_CONSTANT_ALPHA:
		return 1 - bc[3]
	case gl.SRC_ALPHA_SATURATE:
		if k == 3 {
			return 1
		}
		return min(src[3], 1-dst[3])
	}
	return 1
}
