package script

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/recording"
	"github.com/gogpu/glsurface/resident"
)

// Preload kinds understood by the runtime.
const (
	PreloadBuffer = "buffer"
	PreloadImage  = "image"
)

// Preload is a resource the browser fetches before running a submission.
// Key names the slot in obj.res that receives the data.
type Preload struct {
	Key  string
	URL  string
	Kind string
}

// Writer translates recorded commands into statements for the browser
// runtime. Statements run in a scope where obj is the surface runtime and
// ctx its WebGL context.
//
// A Writer keeps the image slots it has handed out to the current page
// and preloads each image URL once. Forget starts over for a page that
// holds none of them.
type Writer struct {
	cfg      recording.BackendConfig
	images   map[string]string
	next     int
	preloads []Preload
	checks   bool
}

// NewWriter returns a writer resolving resource URLs through cfg.
func NewWriter(cfg recording.BackendConfig) *Writer {
	return &Writer{cfg: cfg, images: make(map[string]string), checks: cfg.ErrorChecks}
}

// SetErrorChecks turns the getError check after each WebGL statement on or
// off for statements written from now on.
func (w *Writer) SetErrorChecks(on bool) {
	w.checks = on
}

// Forget drops the image slots handed out so far, so the next use of
// every image URL requests a fresh preload. Slot names keep counting up.
func (w *Writer) Forget() {
	clear(w.images)
}

// Preloads returns the resources requested since the last call and forgets
// them.
func (w *Writer) Preloads() []Preload {
	p := w.preloads
	w.preloads = nil
	return p
}

// Object returns the script reference of a handle: ctx.<Kind><id> for GL
// objects, obj.res.<Kind><id> for array buffers.
func (w *Writer) Object(o recording.Object) string {
	if o.IsNull() {
		return "null"
	}
	if o.Kind() == recording.KindArrayBuffer {
		return "obj.res." + o.String()
	}
	return "ctx." + o.String()
}

// Value returns the script expression of a client-resident value. Matrix
// expressions are composed from the glsurface.mat4 helpers so the browser
// evaluates them against the current client value.
func (w *Writer) Value(v resident.Value) (string, error) {
	m, ok := v.(*resident.Matrix4)
	if !ok {
		return "obj.values." + v.Name(), nil
	}
	if err := m.Err(); err != nil {
		return "", err
	}
	expr := "obj.values." + m.Name()
	for _, op := range m.Ops() {
		switch op.Kind {
		case resident.OpMultiply:
			expr = "glsurface.mat4.multiply(" + expr + "," + typedFloats(op.Operand[:]) + ")"
		case resident.OpTranspose:
			expr = "glsurface.mat4.transpose(" + expr + ")"
		case resident.OpInvert:
			expr = "glsurface.mat4.invert(" + expr + ")"
		}
	}
	return expr, nil
}

// Write appends the statement for c to b. Commands that read externalized
// data run only when all of it loaded.
func (w *Writer) Write(b *strings.Builder, c recording.Command) error {
	stmt, err := w.statement(c)
	if err != nil {
		return fmt.Errorf("script: %s: %w", c.Op, err)
	}
	if stmt == "" {
		return nil
	}
	if len(c.Requires) > 0 {
		keys := make([]string, len(c.Requires))
		for i, ab := range c.Requires {
			keys[i] = Quote(ab.String())
		}
		stmt = "if(obj.loaded([" + strings.Join(keys, ",") + "])){" + stmt + "}"
	}
	if w.checks && !c.Op.ClientOnly() {
		stmt += "obj.checkError(" + Quote(c.Op.String()) + ");"
	}
	b.WriteString(stmt)
	b.WriteByte('\n')
	return nil
}

func (w *Writer) statement(c recording.Command) (string, error) {
	switch c.Op {
	case recording.OpCreateArrayBuffer:
		w.preloads = append(w.preloads, Preload{
			Key:  c.Result.String(),
			URL:  w.cfg.URL(c.Args[0].Resource),
			Kind: PreloadBuffer,
		})
		return "", nil

	case recording.OpBufferDataResource:
		return "ctx.bufferData(" + w.enum(c.Args[0]) + "," + w.slice(c.Args[1]) + "," + w.enum(c.Args[2]) + ");", nil

	case recording.OpBufferSubDataResource:
		return "ctx.bufferSubData(" + w.enum(c.Args[0]) + "," + strconv.FormatInt(c.Args[1].Int, 10) + "," + w.slice(c.Args[2]) + ");", nil

	case recording.OpClear:
		bits := c.Args[0].Enum.Bits()
		if len(bits) == 0 {
			return "ctx.clear(0);", nil
		}
		parts := make([]string, len(bits))
		for i, bit := range bits {
			parts[i] = enumRef(bit)
		}
		return "ctx.clear(" + strings.Join(parts, "|") + ");", nil

	case recording.OpTexImage2DImage:
		key := w.image(w.cfg.URL(c.Args[5].Resource))
		args, err := w.args(c.Args[:5])
		if err != nil {
			return "", err
		}
		slot := "obj.res." + key
		return "if(obj.loaded([" + Quote(key) + "])){ctx.texImage2D(" + args + "," + slot + ".data);}", nil

	case recording.OpInitValue, recording.OpSetValue:
		fn := "obj.initValue"
		if c.Op == recording.OpSetValue {
			fn = "obj.setValue"
		}
		return fn + "(" + Quote(c.Args[0].Value.Name()) + "," + floatList(c.Args[1].Floats) + ");", nil

	case recording.OpInjectScript:
		return c.Args[0].Str, nil

	case recording.OpDebugger:
		return "debugger;", nil

	case recording.OpSetMouseHandler:
		return w.mouseHandler(c.Args)
	}

	method := c.Op.Method()
	if method == "" {
		return "", fmt.Errorf("%w: no script form", recording.ErrUnsupported)
	}
	args, err := w.args(c.Args)
	if err != nil {
		return "", err
	}
	call := "ctx." + method + "(" + args + ");"
	switch {
	case !c.Result.IsNull():
		return w.Object(c.Result) + "=" + call, nil
	case strings.HasPrefix(method, "delete") && len(c.Args) == 1:
		return call + w.Object(c.Args[0].Object) + "=null;", nil
	}
	return call, nil
}

func (w *Writer) mouseHandler(args []recording.Arg) (string, error) {
	switch args[0].Str {
	case recording.HandlerCustom:
		return "obj.setMouseHandler(" + args[1].Str + ");", nil
	case recording.HandlerLookAt:
		return "obj.setMouseHandler(new glsurface.LookAtHandler(obj," +
			Quote(args[1].Value.Name()) + "," +
			floatList(args[2].Floats) + "," +
			floatList(args[3].Floats) + "," +
			number(args[4].Float) + "," +
			number(args[5].Float) + "));", nil
	case recording.HandlerWalk:
		return "obj.setMouseHandler(new glsurface.WalkHandler(obj," +
			Quote(args[1].Value.Name()) + "," +
			number(args[2].Float) + "," +
			number(args[3].Float) + "));", nil
	}
	return "", fmt.Errorf("%w: mouse handler %q", recording.ErrUnsupported, args[0].Str)
}

// image returns the obj.res slot of an image URL, requesting a preload the
// first time the URL is seen.
func (w *Writer) image(url string) string {
	if key, ok := w.images[url]; ok {
		return key
	}
	key := "Image" + strconv.Itoa(w.next)
	w.next++
	w.images[url] = key
	w.preloads = append(w.preloads, Preload{Key: key, URL: url, Kind: PreloadImage})
	return key
}

// slice returns the byte range of an array buffer selected by a.
func (w *Writer) slice(a recording.Arg) string {
	data := w.Object(a.Object) + ".data"
	r := a.Resource
	switch {
	case r.Offset == 0 && r.Length == 0:
		return data
	case r.Length == 0:
		return data + ".slice(" + strconv.Itoa(r.Offset) + ")"
	}
	return data + ".slice(" + strconv.Itoa(r.Offset) + "," + strconv.Itoa(r.Offset+r.Length) + ")"
}

func (w *Writer) args(args []recording.Arg) (string, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		s, err := w.arg(a)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, ","), nil
}

func (w *Writer) arg(a recording.Arg) (string, error) {
	switch a.Kind {
	case recording.ArgEnum:
		return enumRef(a.Enum), nil
	case recording.ArgInt:
		return strconv.FormatInt(a.Int, 10), nil
	case recording.ArgFloat:
		return number(a.Float), nil
	case recording.ArgBool:
		return strconv.FormatBool(a.Bool), nil
	case recording.ArgString:
		return Quote(a.Str), nil
	case recording.ArgFloats:
		return typedFloats(a.Floats), nil
	case recording.ArgInts:
		return typedInts(a.Ints, a.ElemType)
	case recording.ArgObject:
		return w.Object(a.Object), nil
	case recording.ArgValue:
		return w.Value(a.Value)
	case recording.ArgResource:
		return Quote(w.cfg.URL(a.Resource)), nil
	}
	return "", errors.New("script: unknown argument kind")
}

func (w *Writer) enum(a recording.Arg) string { return enumRef(a.Enum) }

func enumRef(e gl.Enum) string {
	if name, ok := e.Name(); ok {
		return "ctx." + name
	}
	return strconv.FormatUint(uint64(e), 10)
}

// number formats f with float32 precision, the precision of WebGL.
func number(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 32)
}

func floatList(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(number(float64(f)))
	}
	b.WriteByte(']')
	return b.String()
}

func typedFloats(v []float32) string {
	return "new Float32Array(" + floatList(v) + ")"
}

var typedArrays = map[gl.Enum]string{
	gl.BYTE:           "Int8Array",
	gl.UNSIGNED_BYTE:  "Uint8Array",
	gl.SHORT:          "Int16Array",
	gl.UNSIGNED_SHORT: "Uint16Array",
	gl.INT:            "Int32Array",
	gl.UNSIGNED_INT:   "Uint32Array",
}

func typedInts(v []int32, elemType gl.Enum) (string, error) {
	array, ok := typedArrays[elemType]
	if !ok {
		return "", fmt.Errorf("%w: integer element type %s", recording.ErrUnsupported, elemType)
	}
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.FormatInt(int64(n), 10)
	}
	return "new " + array + "([" + strings.Join(parts, ",") + "])", nil
}

// Quote returns s as a script string literal. JSON escaping also covers
// the characters that would end an enclosing HTML script element.
func Quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
