package flatjson

import "unsafe"

// Default chunk size for arena growth. Allocations larger than this get a
// dedicated chunk.
const arenaChunkSize = 64 * 1024

// Arena is a bump allocator that owns every string synthesized during a parse:
// decoded string literals and pointer paths. Allocations are carved from large
// chunks with no individual free; dropping the arena releases everything at
// once. Entries produced by a parse alias arena memory (or the input buffer)
// and must not be used after the arena is discarded.
//
// An Arena must not be shared by concurrent parses.
type Arena struct {
	cur       []byte
	allocated int
}

// NewArena returns an empty arena. The first allocation triggers chunk growth.
func NewArena() *Arena {
	return &Arena{}
}

// Alloc returns a zeroed slice of n bytes backed by arena memory. The slice is
// valid for the lifetime of the arena; it is never reclaimed individually.
func (a *Arena) Alloc(n int) []byte {
	if n > cap(a.cur)-len(a.cur) {
		size := arenaChunkSize
		if n > size {
			size = n
		}
		// Previous chunks stay alive through the slices handed out of them.
		a.cur = make([]byte, 0, size)
	}
	buf := a.cur[len(a.cur) : len(a.cur)+n]
	a.cur = a.cur[:len(a.cur)+n]
	a.allocated += n
	return buf
}

// CopyBytes copies b into the arena and returns the arena-backed copy.
func (a *Arena) CopyBytes(b []byte) []byte {
	buf := a.Alloc(len(b))
	copy(buf, b)
	return buf
}

// Join builds the pointer "base/seg" in one arena allocation and returns it as
// a string view over arena memory. seg is copied, so it may alias a transient
// buffer.
func (a *Arena) Join(base string, seg []byte) string {
	buf := a.Alloc(len(base) + 1 + len(seg))
	n := copy(buf, base)
	buf[n] = '/'
	copy(buf[n+1:], seg)
	return bytesToString(buf)
}

// Concat concatenates parts into a single arena-backed string.
func (a *Arena) Concat(parts ...string) string {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	buf := a.Alloc(n)
	off := 0
	for _, p := range parts {
		off += copy(buf[off:], p)
	}
	return bytesToString(buf)
}

// Allocated reports the total number of bytes handed out so far.
func (a *Arena) Allocated() int {
	return a.allocated
}

// bytesToString reinterprets b as a string without copying. Safe here because
// arena memory is never mutated after being handed out.
func bytesToString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
