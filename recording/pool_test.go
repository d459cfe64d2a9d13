package recording

import (
	"reflect"
	"testing"
)

func TestResourcePool(t *testing.T) {
	p := NewResourcePool()
	a := p.Add("", []byte{1, 2}, MimeOctetStream)
	b := p.Add("img", []byte{3}, MimePNG)
	if a.Handle != "r0" || b.Handle != "img1" {
		t.Errorf("handles = %q, %q, want r0, img1", a.Handle, b.Handle)
	}
	if got, ok := p.Get("img1"); !ok || got.MimeType != MimePNG {
		t.Errorf("Get(img1) = %v, %v", got, ok)
	}
	p.Remove("r0")
	p.Remove("missing")
	if _, ok := p.Get("r0"); ok {
		t.Error("r0 still present after Remove")
	}
	if !reflect.DeepEqual(p.Handles(), []string{"img1"}) {
		t.Errorf("Handles = %v", p.Handles())
	}

	p.Clear()
	if p.Len() != 0 {
		t.Errorf("Len after Clear = %d", p.Len())
	}
	if c := p.Add("r", nil, MimeOctetStream); c.Handle != "r2" {
		t.Errorf("handle after Clear = %q, want r2 (never reused)", c.Handle)
	}
}

func TestFloatEncoding(t *testing.T) {
	in := []float32{0, 1, -2.5, 3.25}
	enc := EncodeFloats(in)
	if len(enc) != 16 {
		t.Fatalf("len = %d, want 16", len(enc))
	}
	// 1.0f little-endian
	if !reflect.DeepEqual(enc[4:8], []byte{0x00, 0x00, 0x80, 0x3f}) {
		t.Errorf("encoding of 1.0 = % x", enc[4:8])
	}
	if got := DecodeFloats(append(enc, 0xff)); !reflect.DeepEqual(got, in) {
		t.Errorf("DecodeFloats = %v, want %v", got, in)
	}
}
