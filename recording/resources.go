package recording

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/gogpu/glsurface/gl"
)

// ArrayBufferFromFloats externalizes data as a binary resource and returns
// an array buffer handle the browser preloads before painting.
func (r *Recorder) ArrayBufferFromFloats(data []float32) ArrayBuffer {
	r.buffer()
	res := r.resources.AddFloats(data)
	return ArrayBuffer{r.allocate(KindArrayBuffer, OpCreateArrayBuffer, ResourceArg(ResourceRef{Handle: res.Handle}))}
}

// ArrayBufferFromBytes externalizes a raw payload.
func (r *Recorder) ArrayBufferFromBytes(payload []byte) ArrayBuffer {
	r.buffer()
	res := r.resources.Add("r", payload, MimeOctetStream)
	return ArrayBuffer{r.allocate(KindArrayBuffer, OpCreateArrayBuffer, ResourceArg(ResourceRef{Handle: res.Handle}))}
}

// CreateAndLoadArrayBuffer returns an array buffer filled from url. The
// server backend fetches the URL itself; a failed fetch makes the commands
// that need the data skip.
func (r *Recorder) CreateAndLoadArrayBuffer(url string) ArrayBuffer {
	return ArrayBuffer{r.allocate(KindArrayBuffer, OpCreateArrayBuffer, ResourceArg(ResourceRef{URL: url}))}
}

// TexImage2DImage uploads img to the bound texture. The image is encoded as
// PNG and served as a binary resource.
func (r *Recorder) TexImage2DImage(target gl.Enum, level int, internalFormat, format, dataType gl.Enum, img image.Image) {
	r.buffer()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		r.fail(fmt.Errorf("recording: encode texture: %w", err))
	}
	res := r.resources.Add("img", buf.Bytes(), MimePNG)
	r.texImage(target, level, internalFormat, format, dataType, ResourceRef{Handle: res.Handle})
}

// TexImage2DURL uploads the image found at url to the bound texture.
func (r *Recorder) TexImage2DURL(target gl.Enum, level int, internalFormat, format, dataType gl.Enum, url string) {
	r.texImage(target, level, internalFormat, format, dataType, ResourceRef{URL: url})
}

func (r *Recorder) texImage(target gl.Enum, level int, internalFormat, format, dataType gl.Enum, ref ResourceRef) {
	r.record(OpTexImage2DImage, EnumArg(target), IntArg(level), EnumArg(internalFormat),
		EnumArg(format), EnumArg(dataType), ResourceArg(ref))
}
