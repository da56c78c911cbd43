// Package flatjson parses JSON into a flat, ordered list of
// (pointer, raw value) pairs instead of a nested tree. Each pointer is a JSON
// Pointer (RFC 6901) locating the value in the original document, which lets
// large documents, especially arrays of similarly-shaped objects, be treated
// as tabular data: rows can be filtered by pointer, sliced by array index, and
// nested substructure can stay as opaque raw text until it is actually needed.
//
// Parsing is depth-bounded: objects sitting exactly at the configured depth
// limit are captured as raw source spans rather than descended into, and
// ChangeDepth later re-parses just those spans to materialize more depth
// without touching what was already flat.
//
// All strings produced by a parse alias either the input buffer or an Arena
// passed to the call; results must not outlive their arena.
package flatjson

import "math"

// ParseOptions configures a parse. The zero value is not useful; start from
// DefaultParseOptions and refine with the With setters.
type ParseOptions struct {
	// ParseArray recurses into arrays. When false, arrays are captured whole
	// as raw scalar-like entries.
	ParseArray bool
	// KeepObjectRawData retains the raw source span of fully expanded
	// objects, for round-trip fidelity. Objects deferred at the depth
	// boundary keep their raw text regardless, since ChangeDepth depends
	// on it.
	KeepObjectRawData bool
	// MaxDepth bounds recursion into objects. An object exactly at this
	// depth is captured as raw text; everything strictly shallower is fully
	// flattened. Zero is treated as 1.
	MaxDepth uint8
	// StartParseAt restricts parsing to the subtree at this JSON Pointer.
	// Everything outside it is skipped, not emitted.
	StartParseAt string
	// Prefix is prepended to every emitted pointer. ChangeDepth uses it to
	// keep re-parsed fragments addressed consistently with the outer
	// document.
	Prefix string
}

// DefaultParseOptions returns the standard configuration: arrays recursed,
// object raw data kept, depth bounded at 10.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		ParseArray:        true,
		KeepObjectRawData: true,
		MaxDepth:          10,
	}
}

// WithParseArray sets ParseArray.
func (o ParseOptions) WithParseArray(v bool) ParseOptions {
	o.ParseArray = v
	return o
}

// WithKeepObjectRawData sets KeepObjectRawData.
func (o ParseOptions) WithKeepObjectRawData(v bool) ParseOptions {
	o.KeepObjectRawData = v
	return o
}

// WithMaxDepth sets MaxDepth.
func (o ParseOptions) WithMaxDepth(d uint8) ParseOptions {
	o.MaxDepth = d
	return o
}

// WithStartParseAt sets StartParseAt.
func (o ParseOptions) WithStartParseAt(pointer string) ParseOptions {
	o.StartParseAt = pointer
	return o
}

// WithPrefix sets Prefix.
func (o ParseOptions) WithPrefix(prefix string) ParseOptions {
	o.Prefix = prefix
	return o
}

// Parse flattens data. Emitted strings alias data or arena memory; the result
// is only valid while both live. On error no result is produced.
func Parse(data []byte, opts ParseOptions, arena *Arena) (*ParseResult, error) {
	return parseAtDepth(data, opts, arena, 1)
}

// ParseString is Parse for string input.
func ParseString(json string, opts ParseOptions, arena *Arena) (*ParseResult, error) {
	return Parse([]byte(json), opts, arena)
}

func parseAtDepth(data []byte, opts ParseOptions, arena *Arena, startDepth uint8) (*ParseResult, error) {
	p := &parser{
		lex:   newLexer(data, arena),
		arena: arena,
		opts:  opts,
	}
	return p.parseDocument(startDepth)
}

// ChangeDepth widens a previous result to a strictly larger MaxDepth by
// re-parsing only the object entries that were captured raw at the old depth
// boundary. Each such entry is kept (its raw text preserved for later
// widening) and the newly produced sub-entries are spliced in right after it,
// so document order is preserved. If the requested depth does not increase,
// the previous result is returned unchanged.
func ChangeDepth(prev *ParseResult, opts ParseOptions, arena *Arena) (*ParseResult, error) {
	if opts.MaxDepth <= prev.ParsingMaxDepth {
		return prev, nil
	}
	delta := int(opts.MaxDepth - prev.ParsingMaxDepth)
	out := make(FlatJsonValue, 0, len(prev.JSON)+delta*(len(prev.JSON)/3))
	for _, e := range prev.JSON {
		out = append(out, e)
		if e.Key.Type != TypeObject || e.Key.Depth != prev.ParsingMaxDepth || e.Value == nil {
			continue
		}
		if e.Key.Depth == math.MaxUint8 {
			return nil, &ParseError{Message: "depth counter overflow", Offset: e.Key.Position}
		}
		subOpts := opts
		subOpts.Prefix = e.Key.Pointer
		subOpts.StartParseAt = ""
		sub, err := parseAtDepth(e.Value, subOpts, arena, e.Key.Depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, sub.JSON...)
	}
	return &ParseResult{
		JSON:             out,
		MaxJSONDepth:     prev.MaxJSONDepth,
		ParsingMaxDepth:  opts.MaxDepth,
		StartedParsingAt: prev.StartedParsingAt,
		ParsingPrefix:    prev.ParsingPrefix,
	}, nil
}
