package script

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/recording"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{2, "2"},
		{0.1, "0.1"},
		{-0.5, "-0.5"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		if got := number(tt.in); got != tt.want {
			t.Errorf("number(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTypedInts(t *testing.T) {
	got, err := typedInts([]int32{0, 1, 2}, gl.UNSIGNED_SHORT)
	if err != nil {
		t.Fatalf("typedInts: %v", err)
	}
	if want := "new Uint16Array([0,1,2])"; got != want {
		t.Errorf("typedInts = %q, want %q", got, want)
	}
	if _, err := typedInts([]int32{1}, gl.FLOAT); !errors.Is(err, recording.ErrUnsupported) {
		t.Errorf("typedInts(FLOAT) error = %v, want ErrUnsupported", err)
	}
}

func TestQuoteEscapesMarkup(t *testing.T) {
	got := Quote(`</script>"`)
	if strings.Contains(got, "</script>") {
		t.Errorf("quote = %s, closes an enclosing script element", got)
	}
	if !strings.HasPrefix(got, `"`) || !strings.HasSuffix(got, `"`) {
		t.Errorf("quote = %s, want a string literal", got)
	}
}

func TestObjectReferences(t *testing.T) {
	w := NewWriter(recording.BackendConfig{})
	table := recording.NewObjectTable()

	if got := w.Object(recording.Object{}); got != "null" {
		t.Errorf("Object(null) = %q, want null", got)
	}
	table.Allocate(recording.KindBuffer)
	buf := table.Allocate(recording.KindBuffer)
	if got, want := w.Object(buf), "ctx.Buffer1"; got != want {
		t.Errorf("Object = %q, want %q", got, want)
	}
	ab := table.Allocate(recording.KindArrayBuffer)
	if got, want := w.Object(ab), "obj.res.BufferResource0"; got != want {
		t.Errorf("Object = %q, want %q", got, want)
	}
}

func TestClearMask(t *testing.T) {
	w := NewWriter(recording.BackendConfig{})
	tests := []struct {
		mask gl.Enum
		want string
	}{
		{gl.COLOR_BUFFER_BIT, "ctx.clear(ctx.COLOR_BUFFER_BIT);\n"},
		{gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT, "ctx.clear(ctx.DEPTH_BUFFER_BIT|ctx.COLOR_BUFFER_BIT);\n"},
		{0, "ctx.clear(0);\n"},
	}
	for _, tt := range tests {
		var sb strings.Builder
		c := recording.Command{Op: recording.OpClear, Args: []recording.Arg{recording.EnumArg(tt.mask)}}
		if err := w.Write(&sb, c); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if sb.String() != tt.want {
			t.Errorf("Clear(%s) = %q, want %q", tt.mask, sb.String(), tt.want)
		}
	}
}

func TestImagePreloadedOnce(t *testing.T) {
	w := NewWriter(recording.BackendConfig{})
	c := recording.Command{Op: recording.OpTexImage2DImage, Args: []recording.Arg{
		recording.EnumArg(gl.TEXTURE_2D), recording.IntArg(0), recording.EnumArg(gl.RGBA),
		recording.EnumArg(gl.RGBA), recording.EnumArg(gl.UNSIGNED_BYTE),
		recording.ResourceArg(recording.ResourceRef{URL: "tex.png"}),
	}}
	var sb strings.Builder
	for range 2 {
		if err := w.Write(&sb, c); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	p := w.Preloads()
	if len(p) != 1 {
		t.Fatalf("len(Preloads) = %d, want 1", len(p))
	}
	if p[0] != (Preload{Key: "Image0", URL: "tex.png", Kind: PreloadImage}) {
		t.Errorf("preload = %+v", p[0])
	}
	want := `if(obj.loaded(["Image0"])){ctx.texImage2D(ctx.TEXTURE_2D,0,ctx.RGBA,ctx.RGBA,ctx.UNSIGNED_BYTE,obj.res.Image0.data);}`
	if !strings.Contains(sb.String(), want) {
		t.Errorf("script = %q, want %q", sb.String(), want)
	}
	if len(w.Preloads()) != 0 {
		t.Error("Preloads not cleared")
	}
}

func TestForgetRequestsPreloadAgain(t *testing.T) {
	w := NewWriter(recording.BackendConfig{})
	c := recording.Command{Op: recording.OpTexImage2DImage, Args: []recording.Arg{
		recording.EnumArg(gl.TEXTURE_2D), recording.IntArg(0), recording.EnumArg(gl.RGBA),
		recording.EnumArg(gl.RGBA), recording.EnumArg(gl.UNSIGNED_BYTE),
		recording.ResourceArg(recording.ResourceRef{URL: "tex.png"}),
	}}
	var sb strings.Builder
	if err := w.Write(&sb, c); err != nil {
		t.Fatal(err)
	}
	w.Preloads()

	w.Forget()
	if err := w.Write(&sb, c); err != nil {
		t.Fatal(err)
	}
	p := w.Preloads()
	if len(p) != 1 || p[0].URL != "tex.png" {
		t.Fatalf("Preloads() after Forget = %+v, want one preload of tex.png", p)
	}
	if p[0].Key != "Image1" {
		t.Errorf("slot = %q, want Image1", p[0].Key)
	}
}

func TestUnsupportedOpcode(t *testing.T) {
	w := NewWriter(recording.BackendConfig{})
	var sb strings.Builder
	c := recording.Command{Op: recording.OpSetMouseHandler, Args: []recording.Arg{recording.StringArg("fly")}}
	if err := w.Write(&sb, c); !errors.Is(err, recording.ErrUnsupported) {
		t.Errorf("Write = %v, want ErrUnsupported", err)
	}
}
