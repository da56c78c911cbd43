package flatjson

import "strings"

// ValueType tags the JSON kind of a flattened entry.
type ValueType uint8

const (
	// TypeNone is the uninitialized placeholder. It never appears in a
	// finished entry; seeing it in output is a bug.
	TypeNone ValueType = iota
	TypeObject
	TypeArray
	TypeNumber
	TypeString
	TypeBool
	TypeNull
)

// String returns the type name for diagnostics.
func (t ValueType) String() string {
	switch t {
	case TypeObject:
		return "object"
	case TypeArray:
		return "array"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeNull:
		return "null"
	default:
		return "none"
	}
}

// PointerKey identifies one location inside a JSON document.
//
// The identity of a key is its Pointer alone: Equal ignores every other field,
// and keys used in maps should be keyed by Pointer. Type, Depth, Index and
// Position are descriptive metadata carried alongside.
type PointerKey struct {
	// Pointer is a JSON Pointer ("/a/0/b" style, RFC 6901 escaping) locating
	// the value. It aliases arena or input memory.
	Pointer string
	// Type is the JSON kind of the value.
	Type ValueType
	// ArrayLen is the element count of the value. Meaningful only when Type
	// is TypeArray and the array was recursed into; zero otherwise.
	ArrayLen int
	// Depth is the nesting depth of the value. First-level members of the
	// parsed root are at the parse's start depth (1 for a whole-document
	// parse); each further nesting level increments.
	Depth uint8
	// Index is the position of this value's row within the nearest enclosing
	// array, 0 when not inside a tracked array context.
	Index int
	// Position is the byte offset of the value in the buffer that was parsed.
	Position int
}

// Equal reports whether two keys address the same location. Only the pointers
// are compared.
func (k PointerKey) Equal(other PointerKey) bool {
	return k.Pointer == other.Pointer
}

// Parent returns the pointer of the enclosing value. The parent of a
// first-level pointer (and of the root itself) is "/".
func (k PointerKey) Parent() string {
	i := strings.LastIndexByte(k.Pointer, '/')
	if i <= 0 {
		return "/"
	}
	return k.Pointer[:i]
}

// Entry is one flattened (pointer, raw value) pair.
//
// A nil Value means JSON null, or "no value captured" for container entries
// that were fully expanded without raw retention. Everything else is non-nil:
// numbers and booleans hold their raw source span, strings hold their decoded
// content, and containers deferred by the depth limit (or by ParseArray=false)
// hold their unparsed source text.
type Entry struct {
	Key   PointerKey
	Value []byte
}

// FlatJsonValue is an ordered sequence of flattened entries. Order is document
// traversal order (pre-order, depth-first, members in source order) and is
// significant; transformations must preserve it.
type FlatJsonValue []Entry

// FindNodeAt returns the entry whose pointer equals pointer, linearly.
func (f FlatJsonValue) FindNodeAt(pointer string) (Entry, bool) {
	for _, e := range f {
		if e.Key.Pointer == pointer {
			return e, true
		}
	}
	return Entry{}, false
}

// ParseResult wraps a flattened document with parse-session metadata.
type ParseResult struct {
	// JSON is the flattened document.
	JSON FlatJsonValue
	// MaxJSONDepth is the deepest nesting observed in the source, independent
	// of the depth limit that was applied.
	MaxJSONDepth int
	// ParsingMaxDepth is the depth limit that was in effect.
	ParsingMaxDepth uint8
	// StartedParsingAt is the pointer parsing was restricted to, if any.
	StartedParsingAt string
	// ParsingPrefix is the prefix prepended to every emitted pointer, if any.
	ParsingPrefix string
}

// CloneExceptJSON copies the session metadata with an empty entry list.
func (r *ParseResult) CloneExceptJSON() *ParseResult {
	return &ParseResult{
		MaxJSONDepth:     r.MaxJSONDepth,
		ParsingMaxDepth:  r.ParsingMaxDepth,
		StartedParsingAt: r.StartedParsingAt,
		ParsingPrefix:    r.ParsingPrefix,
	}
}

//------------------------------------------------------------------------------
// POINTER SEGMENT ESCAPING (RFC 6901)
//------------------------------------------------------------------------------

// EscapePointerSegment escapes a literal member name for use as one JSON
// Pointer segment: "~" becomes "~0" and "/" becomes "~1".
func EscapePointerSegment(seg string) string {
	if !strings.ContainsAny(seg, "~/") {
		return seg
	}
	var b strings.Builder
	b.Grow(len(seg) + 2)
	for i := 0; i < len(seg); i++ {
		switch seg[i] {
		case '~':
			b.WriteString("~0")
		case '/':
			b.WriteString("~1")
		default:
			b.WriteByte(seg[i])
		}
	}
	return b.String()
}

// UnescapePointerSegment reverses EscapePointerSegment ("~1" before "~0" order
// does not matter with a single pass).
func UnescapePointerSegment(seg string) string {
	if !strings.Contains(seg, "~") {
		return seg
	}
	var b strings.Builder
	b.Grow(len(seg))
	for i := 0; i < len(seg); i++ {
		if seg[i] == '~' && i+1 < len(seg) {
			switch seg[i+1] {
			case '0':
				b.WriteByte('~')
				i++
				continue
			case '1':
				b.WriteByte('/')
				i++
				continue
			}
		}
		b.WriteByte(seg[i])
	}
	return b.String()
}

// escapeSegmentBytes escapes a decoded key for pointer use, returning key
// unchanged when no escaping is needed.
func escapeSegmentBytes(key []byte) []byte {
	needs := false
	for _, c := range key {
		if c == '~' || c == '/' {
			needs = true
			break
		}
	}
	if !needs {
		return key
	}
	out := make([]byte, 0, len(key)+2)
	for _, c := range key {
		switch c {
		case '~':
			out = append(out, '~', '0')
		case '/':
			out = append(out, '~', '1')
		default:
			out = append(out, c)
		}
	}
	return out
}

// splitPointer splits a JSON Pointer into unescaped segments. The empty
// pointer addresses the root and yields no segments.
func splitPointer(pointer string) []string {
	if pointer == "" {
		return nil
	}
	segs := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for i, s := range segs {
		segs[i] = UnescapePointerSegment(s)
	}
	return segs
}
