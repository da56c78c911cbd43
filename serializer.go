package flatjson

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// SerializeOptions configures Serialize output.
type SerializeOptions struct {
	// TrimPrefix scopes serialization to entries under this pointer prefix
	// (for example one row of a flattened array); the prefix is stripped
	// before reconstruction. Entries outside the prefix are ignored.
	TrimPrefix string
	// Pretty indents the output; Indent defaults to two spaces.
	Pretty bool
	Indent string
}

// Serialize reconstructs nested JSON text from a flattened sequence, such
// that re-parsing the output with an unbounded depth and ParseArray=true
// yields an equivalent flat representation. Container entries whose children
// are present in the sequence are rebuilt from those children; containers
// captured raw (depth boundary, opaque arrays) are spliced back verbatim.
//
// Object keys consisting only of digits are reconstructed as array indexes
// and therefore do not round-trip.
func Serialize(flat FlatJsonValue, opts SerializeOptions) ([]byte, error) {
	type relEntry struct {
		ptr string
		e   Entry
	}
	list := make([]relEntry, 0, len(flat))
	for _, e := range flat {
		ptr, ok := trimPointerPrefix(e.Key.Pointer, opts.TrimPrefix)
		if !ok {
			continue
		}
		list = append(list, relEntry{ptr: ptr, e: e})
	}
	if len(list) == 0 {
		return nil, &ParseError{Message: "nothing to serialize"}
	}

	var out []byte
	if list[0].ptr == "" {
		// Root-level value: a scalar, or a container captured whole.
		root := list[0].e
		switch root.Key.Type {
		case TypeString:
			enc, err := json.Marshal(string(root.Value))
			if err != nil {
				return nil, err
			}
			out = enc
		case TypeNull:
			out = []byte("null")
		default:
			out = append([]byte(nil), root.Value...)
		}
		if len(list) > 1 {
			list = list[1:]
			out = nil // children rebuild the root container below
		} else {
			return format(out, opts), nil
		}
	}
	if out == nil {
		if seg, _, _ := strings.Cut(strings.TrimPrefix(list[0].ptr, "/"), "/"); isDigits(seg) {
			out = []byte("[]")
		} else {
			out = []byte("{}")
		}
	}

	var err error
	for i, re := range list {
		if re.ptr == "" {
			continue
		}
		hasChildren := i+1 < len(list) && strings.HasPrefix(list[i+1].ptr, re.ptr+"/")
		path := pointerToSetPath(re.ptr)
		switch re.e.Key.Type {
		case TypeObject, TypeArray:
			if hasChildren {
				continue // rebuilt from the children that follow
			}
			raw := re.e.Value
			if raw == nil {
				if re.e.Key.Type == TypeObject {
					raw = []byte("{}")
				} else {
					raw = []byte("[]")
				}
			}
			out, err = sjson.SetRawBytes(out, path, raw)
		case TypeNull:
			out, err = sjson.SetRawBytes(out, path, []byte("null"))
		case TypeNumber, TypeBool:
			out, err = sjson.SetRawBytes(out, path, re.e.Value)
		case TypeString:
			out, err = sjson.SetBytes(out, path, string(re.e.Value))
		default:
			return nil, &ParseError{Message: "uninitialized entry at " + re.e.Key.Pointer}
		}
		if err != nil {
			return nil, err
		}
	}
	return format(out, opts), nil
}

func format(out []byte, opts SerializeOptions) []byte {
	if !opts.Pretty {
		return pretty.Ugly(out)
	}
	indent := opts.Indent
	if indent == "" {
		indent = "  "
	}
	return pretty.PrettyOptions(out, &pretty.Options{Indent: indent, SortKeys: false})
}

// trimPointerPrefix strips prefix from pointer, reporting whether pointer is
// the prefix itself or inside it.
func trimPointerPrefix(pointer, prefix string) (string, bool) {
	if prefix == "" {
		return pointer, true
	}
	if pointer == prefix {
		return "", true
	}
	if strings.HasPrefix(pointer, prefix) && len(pointer) > len(prefix) && pointer[len(prefix)] == '/' {
		return pointer[len(prefix):], true
	}
	return "", false
}

// pointerToSetPath converts a JSON Pointer to the dot path syntax sjson
// expects, escaping characters that are special there.
func pointerToSetPath(pointer string) string {
	segs := splitPointer(pointer)
	var b strings.Builder
	for i, seg := range segs {
		if i > 0 {
			b.WriteByte('.')
		}
		for j := 0; j < len(seg); j++ {
			switch seg[j] {
			case '.', '\\', '*', '?', '|', '#', '@':
				b.WriteByte('\\')
			}
			b.WriteByte(seg[j])
		}
	}
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
