package flatjson

import (
	"fmt"
	"math"
	"strconv"
)

// ParseError reports a structural fault: missing delimiter, unexpected token,
// unresolved start pointer, trailing content, or depth counter overflow.
// Offset is the byte position in the parsed buffer.
type ParseError struct {
	Message string
	Offset  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Message)
}

// parser is a path-carrying recursive descent consumer of the token stream.
// Instead of building a tree it appends one flattened entry per scalar and per
// container boundary it decides not to descend into.
type parser struct {
	lex      *lexer
	arena    *Arena
	opts     ParseOptions
	maxDepth uint8
	entries  FlatJsonValue
	deepest  int
	cur      token
}

// parseDocument flattens the buffer held by p.lex, assigning startDepth to the
// root value and to first-level members of a root container.
func (p *parser) parseDocument(startDepth uint8) (*ParseResult, error) {
	p.maxDepth = p.opts.MaxDepth
	if p.maxDepth == 0 {
		p.maxDepth = 1
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.opts.StartParseAt != "" {
		if err := p.seek(p.opts.StartParseAt); err != nil {
			return nil, err
		}
	}
	if err := p.parseValue(p.opts.Prefix, startDepth, 0, false, true); err != nil {
		return nil, err
	}
	if p.opts.StartParseAt == "" && p.cur.kind != tokenEOF {
		return nil, &ParseError{Message: "unexpected trailing content", Offset: p.cur.pos}
	}
	return &ParseResult{
		JSON:             p.entries,
		MaxJSONDepth:     p.deepest,
		ParsingMaxDepth:  p.maxDepth,
		StartedParsingAt: p.opts.StartParseAt,
		ParsingPrefix:    p.opts.Prefix,
	}, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) observe(depth int) {
	if depth > p.deepest {
		p.deepest = depth
	}
}

func (p *parser) emit(ptr string, t ValueType, depth uint8, idx, pos int, value []byte) {
	p.entries = append(p.entries, Entry{
		Key:   PointerKey{Pointer: ptr, Type: t, Depth: depth, Index: idx, Position: pos},
		Value: value,
	})
	p.observe(int(depth))
}

// parseValue flattens the value at the cursor. ptr is the value's pointer,
// depth its assigned depth, idx the row index inherited from the nearest
// enclosing array. root marks the parse's entry value, whose container (if it
// is one) is never captured and emits no entry of its own.
func (p *parser) parseValue(ptr string, depth uint8, idx int, parentIsArray, root bool) error {
	switch p.cur.kind {
	case tokenObjectOpen:
		return p.parseObject(ptr, depth, idx, parentIsArray, root)
	case tokenArrayOpen:
		return p.parseArray(ptr, depth, idx, root)
	case tokenString:
		p.emit(ptr, TypeString, depth, idx, p.cur.pos, p.cur.value)
		return p.advance()
	case tokenNumber:
		p.emit(ptr, TypeNumber, depth, idx, p.cur.pos, p.cur.value)
		return p.advance()
	case tokenBool:
		p.emit(ptr, TypeBool, depth, idx, p.cur.pos, p.cur.value)
		return p.advance()
	case tokenNull:
		p.emit(ptr, TypeNull, depth, idx, p.cur.pos, nil)
		return p.advance()
	case tokenEOF:
		return &ParseError{Message: "unexpected end of input", Offset: p.cur.pos}
	default:
		return &ParseError{Message: "unexpected token", Offset: p.cur.pos}
	}
}

func (p *parser) parseObject(ptr string, depth uint8, idx int, parentIsArray, root bool) error {
	openPos := p.cur.pos
	captured := !root && depth >= p.maxDepth
	selfIdx := -1
	if !root && (captured || parentIsArray || p.opts.KeepObjectRawData) {
		p.emit(ptr, TypeObject, depth, idx, openPos, nil)
		selfIdx = len(p.entries) - 1
	}
	if captured {
		// Depth boundary: keep the raw span for a later ChangeDepth instead
		// of descending. The skip scan still reports how deep the source
		// goes below this point.
		raw, deepest, err := p.lex.captureContainer(openPos)
		if err != nil {
			return err
		}
		p.entries[selfIdx].Value = raw
		p.observe(int(depth) + deepest)
		return p.advance()
	}
	childDepth := depth
	if !root {
		if depth == math.MaxUint8 {
			return &ParseError{Message: "depth counter overflow", Offset: openPos}
		}
		childDepth = depth + 1
	}
	p.observe(int(childDepth))
	if err := p.advance(); err != nil {
		return err
	}
	if p.cur.kind == tokenObjectClose {
		return p.finishObject(selfIdx, openPos)
	}
	for {
		if p.cur.kind != tokenString {
			return &ParseError{Message: "expected object key", Offset: p.cur.pos}
		}
		key := p.cur.value
		if err := p.advance(); err != nil {
			return err
		}
		if p.cur.kind != tokenColon {
			return &ParseError{Message: "expected ':'", Offset: p.cur.pos}
		}
		if err := p.advance(); err != nil {
			return err
		}
		childPtr := p.arena.Join(ptr, escapeSegmentBytes(key))
		if err := p.parseValue(childPtr, childDepth, idx, false, false); err != nil {
			return err
		}
		switch p.cur.kind {
		case tokenComma:
			if err := p.advance(); err != nil {
				return err
			}
		case tokenObjectClose:
			return p.finishObject(selfIdx, openPos)
		default:
			return &ParseError{Message: "expected ',' or '}'", Offset: p.cur.pos}
		}
	}
}

// finishObject consumes the closing brace and back-fills the object's raw span
// when raw retention is on.
func (p *parser) finishObject(selfIdx, openPos int) error {
	if selfIdx >= 0 && p.opts.KeepObjectRawData {
		p.entries[selfIdx].Value = p.lex.data[openPos : p.cur.pos+1]
	}
	return p.advance()
}

func (p *parser) parseArray(ptr string, depth uint8, idx int, root bool) error {
	openPos := p.cur.pos
	if !p.opts.ParseArray {
		// Opaque mode: the whole array is one raw scalar-like entry.
		raw, deepest, err := p.lex.captureContainer(openPos)
		if err != nil {
			return err
		}
		p.emit(ptr, TypeArray, depth, idx, openPos, raw)
		if root {
			p.observe(deepest)
		} else {
			p.observe(int(depth) + deepest)
		}
		return p.advance()
	}
	selfIdx := -1
	if !root {
		p.emit(ptr, TypeArray, depth, idx, openPos, nil)
		selfIdx = len(p.entries) - 1
	}
	childDepth := depth
	if !root {
		if depth == math.MaxUint8 {
			return &ParseError{Message: "depth counter overflow", Offset: openPos}
		}
		childDepth = depth + 1
	}
	p.observe(int(childDepth))
	if err := p.advance(); err != nil {
		return err
	}
	if p.cur.kind == tokenArrayClose {
		return p.advance()
	}
	count := 0
	var numBuf [20]byte
	for {
		seg := strconv.AppendInt(numBuf[:0], int64(count), 10)
		childPtr := p.arena.Join(ptr, seg)
		if err := p.parseValue(childPtr, childDepth, count, true, false); err != nil {
			return err
		}
		count++
		switch p.cur.kind {
		case tokenComma:
			if err := p.advance(); err != nil {
				return err
			}
		case tokenArrayClose:
			if selfIdx >= 0 {
				p.entries[selfIdx].Key.ArrayLen = count
			}
			return p.advance()
		default:
			return &ParseError{Message: "expected ',' or ']'", Offset: p.cur.pos}
		}
	}
}

//------------------------------------------------------------------------------
// START POINTER SEEKING
//------------------------------------------------------------------------------

// seek positions the cursor at the value addressed by pointer, skipping (not
// emitting) everything outside it.
func (p *parser) seek(pointer string) error {
	for _, seg := range splitPointer(pointer) {
		switch p.cur.kind {
		case tokenObjectOpen:
			if err := p.seekObjectMember(seg, pointer); err != nil {
				return err
			}
		case tokenArrayOpen:
			if err := p.seekArrayElement(seg, pointer); err != nil {
				return err
			}
		default:
			return p.startNotFound(pointer)
		}
	}
	return nil
}

func (p *parser) seekObjectMember(seg, pointer string) error {
	if err := p.advance(); err != nil {
		return err
	}
	for {
		if p.cur.kind == tokenObjectClose {
			return p.startNotFound(pointer)
		}
		if p.cur.kind != tokenString {
			return &ParseError{Message: "expected object key", Offset: p.cur.pos}
		}
		key := p.cur.value
		if err := p.advance(); err != nil {
			return err
		}
		if p.cur.kind != tokenColon {
			return &ParseError{Message: "expected ':'", Offset: p.cur.pos}
		}
		if err := p.advance(); err != nil {
			return err
		}
		if string(key) == seg {
			return nil // cursor sits at the member's value
		}
		if err := p.skipValue(); err != nil {
			return err
		}
		switch p.cur.kind {
		case tokenComma:
			if err := p.advance(); err != nil {
				return err
			}
		case tokenObjectClose:
			return p.startNotFound(pointer)
		default:
			return &ParseError{Message: "expected ',' or '}'", Offset: p.cur.pos}
		}
	}
}

func (p *parser) seekArrayElement(seg, pointer string) error {
	target, err := strconv.Atoi(seg)
	if err != nil || target < 0 {
		return p.startNotFound(pointer)
	}
	if err := p.advance(); err != nil {
		return err
	}
	for i := 0; ; i++ {
		if p.cur.kind == tokenArrayClose {
			return p.startNotFound(pointer)
		}
		if i == target {
			return nil
		}
		if err := p.skipValue(); err != nil {
			return err
		}
		switch p.cur.kind {
		case tokenComma:
			if err := p.advance(); err != nil {
				return err
			}
		case tokenArrayClose:
			return p.startNotFound(pointer)
		default:
			return &ParseError{Message: "expected ',' or ']'", Offset: p.cur.pos}
		}
	}
}

// skipValue consumes the value at the cursor without emitting anything.
func (p *parser) skipValue() error {
	switch p.cur.kind {
	case tokenObjectOpen, tokenArrayOpen:
		if _, _, err := p.lex.captureContainer(p.cur.pos); err != nil {
			return err
		}
		return p.advance()
	case tokenString, tokenNumber, tokenBool, tokenNull:
		return p.advance()
	default:
		return &ParseError{Message: "unexpected token", Offset: p.cur.pos}
	}
}

func (p *parser) startNotFound(pointer string) error {
	return &ParseError{Message: "start pointer not found: " + pointer, Offset: p.cur.pos}
}
