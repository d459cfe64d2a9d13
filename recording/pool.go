package recording

import (
	"encoding/binary"
	"math"
	"slices"
	"strconv"
)

// Mime types of pooled payloads.
const (
	MimeOctetStream = "application/octet-stream"
	MimePNG         = "image/png"
)

// BinaryResource is a payload delivered to the browser out of band, by
// handle, instead of inline in script.
type BinaryResource struct {
	Handle   string
	MimeType string
	Payload  []byte
}

// ResourcePool owns the binary resources of one surface. Handles are never
// reused, so a purged handle stays unresolvable.
//
// ResourcePool is not safe for concurrent use. Hosts serving resources from
// other goroutines must synchronize with the surface owner.
type ResourcePool struct {
	next  int
	items map[string]*BinaryResource
	order []string
}

// NewResourcePool returns an empty pool.
func NewResourcePool() *ResourcePool {
	return &ResourcePool{items: make(map[string]*BinaryResource)}
}

// Add stores payload and returns the new resource. The payload is not
// copied.
func (p *ResourcePool) Add(prefix string, payload []byte, mime string) *BinaryResource {
	if prefix == "" {
		prefix = "r"
	}
	r := &BinaryResource{
		Handle:   prefix + strconv.Itoa(p.next),
		MimeType: mime,
		Payload:  payload,
	}
	p.next++
	p.items[r.Handle] = r
	p.order = append(p.order, r.Handle)
	return r
}

// AddFloats stores data as little-endian float32, the layout of a
// JavaScript Float32Array on every platform browsers run on.
func (p *ResourcePool) AddFloats(data []float32) *BinaryResource {
	return p.Add("r", EncodeFloats(data), MimeOctetStream)
}

// Get returns the resource with the given handle.
func (p *ResourcePool) Get(handle string) (*BinaryResource, bool) {
	r, ok := p.items[handle]
	return r, ok
}

// Remove drops one resource. Unknown handles are ignored.
func (p *ResourcePool) Remove(handle string) {
	if _, ok := p.items[handle]; !ok {
		return
	}
	delete(p.items, handle)
	p.order = slices.DeleteFunc(p.order, func(h string) bool { return h == handle })
}

// Handles returns the live handles in insertion order.
func (p *ResourcePool) Handles() []string {
	return slices.Clone(p.order)
}

// Len returns the number of live resources.
func (p *ResourcePool) Len() int { return len(p.items) }

// Clear purges every resource.
func (p *ResourcePool) Clear() {
	clear(p.items)
	p.order = p.order[:0]
}

// EncodeFloats returns the little-endian float32 encoding of data.
func EncodeFloats(data []float32) []byte {
	out := make([]byte, 4*len(data))
	for i, f := range data {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(f))
	}
	return out
}

// DecodeFloats is the inverse of EncodeFloats. Trailing bytes that do not
// form a whole float are ignored.
func DecodeFloats(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out
}
