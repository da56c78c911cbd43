package flatjson

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// LexError reports a malformed token: unterminated literal, bad escape,
// invalid UTF-8 inside a string, or an unexpected byte. Offset is the byte
// position in the parsed buffer.
type LexError struct {
	Message string
	Offset  int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at offset %d: %s", e.Offset, e.Message)
}

type tokenKind uint8

const (
	tokenEOF tokenKind = iota
	tokenObjectOpen
	tokenObjectClose
	tokenArrayOpen
	tokenArrayClose
	tokenComma
	tokenColon
	tokenString
	tokenNumber
	tokenBool
	tokenNull
)

// token is one lexical unit. value holds decoded content for strings and the
// raw source span for numbers, booleans and null; structural tokens carry nil.
type token struct {
	kind  tokenKind
	value []byte
	pos   int
}

// lexer is a single left-to-right scanner over a JSON buffer. String content
// is returned as a zero-copy slice of the input when escape-free, otherwise as
// an arena-allocated decoded copy.
type lexer struct {
	data  []byte
	pos   int
	arena *Arena
}

func newLexer(data []byte, arena *Arena) *lexer {
	return &lexer{data: data, arena: arena}
}

// next returns the next token, skipping JSON whitespace.
func (l *lexer) next() (token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.data) {
		return token{kind: tokenEOF, pos: l.pos}, nil
	}
	start := l.pos
	switch c := l.data[l.pos]; c {
	case '{':
		l.pos++
		return token{kind: tokenObjectOpen, pos: start}, nil
	case '}':
		l.pos++
		return token{kind: tokenObjectClose, pos: start}, nil
	case '[':
		l.pos++
		return token{kind: tokenArrayOpen, pos: start}, nil
	case ']':
		l.pos++
		return token{kind: tokenArrayClose, pos: start}, nil
	case ',':
		l.pos++
		return token{kind: tokenComma, pos: start}, nil
	case ':':
		l.pos++
		return token{kind: tokenColon, pos: start}, nil
	case '"':
		return l.scanString()
	case 't':
		if l.matchLiteral("true") {
			return token{kind: tokenBool, value: l.data[start : start+4], pos: start}, nil
		}
		return token{}, &LexError{Message: "invalid literal", Offset: start}
	case 'f':
		if l.matchLiteral("false") {
			return token{kind: tokenBool, value: l.data[start : start+5], pos: start}, nil
		}
		return token{}, &LexError{Message: "invalid literal", Offset: start}
	case 'n':
		if l.matchLiteral("null") {
			return token{kind: tokenNull, value: l.data[start : start+4], pos: start}, nil
		}
		return token{}, &LexError{Message: "invalid literal", Offset: start}
	default:
		if c == '-' || (c >= '0' && c <= '9') {
			return l.scanNumber()
		}
		return token{}, &LexError{Message: fmt.Sprintf("unexpected character %q", c), Offset: start}
	}
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.data) {
		switch l.data[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
		default:
			return
		}
	}
}

// matchLiteral consumes the literal if it is present at the cursor.
func (l *lexer) matchLiteral(lit string) bool {
	if l.pos+len(lit) > len(l.data) {
		return false
	}
	if string(l.data[l.pos:l.pos+len(lit)]) != lit {
		return false
	}
	l.pos += len(lit)
	return true
}

// scanNumber consumes a number as a raw span. Only the character set is
// checked here; numbers are passed through un-interpreted.
func (l *lexer) scanNumber() (token, error) {
	start := l.pos
	i := l.pos
	if i < len(l.data) && l.data[i] == '-' {
		i++
	}
	digits := 0
	for i < len(l.data) {
		c := l.data[i]
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-' {
			if c >= '0' && c <= '9' {
				digits++
			}
			i++
			continue
		}
		break
	}
	if digits == 0 {
		return token{}, &LexError{Message: "invalid number", Offset: start}
	}
	l.pos = i
	return token{kind: tokenNumber, value: l.data[start:i], pos: start}, nil
}

// scanString consumes a string literal. The fast path returns the content
// between the quotes without copying; escapes force an arena-allocated decode.
func (l *lexer) scanString() (token, error) {
	start := l.pos // at the opening quote
	i := start + 1
	hasEscape := false
	for i < len(l.data) && l.data[i] != '"' {
		if l.data[i] == '\\' {
			hasEscape = true
			i += 2
			continue
		}
		i++
	}
	if i >= len(l.data) {
		return token{}, &LexError{Message: "unterminated string", Offset: start}
	}
	content := l.data[start+1 : i]
	l.pos = i + 1
	if !hasEscape {
		if !utf8.Valid(content) {
			return token{}, &LexError{Message: "invalid UTF-8 in string", Offset: start + 1}
		}
		return token{kind: tokenString, value: content, pos: start}, nil
	}
	decoded, err := l.decodeString(content, start+1)
	if err != nil {
		return token{}, err
	}
	return token{kind: tokenString, value: decoded, pos: start}, nil
}

// decodeString resolves escape sequences into an arena buffer. The decoded
// form is never longer than the raw form, so a single allocation suffices.
func (l *lexer) decodeString(content []byte, off int) ([]byte, error) {
	buf := l.arena.Alloc(len(content))
	n := 0
	for i := 0; i < len(content); i++ {
		c := content[i]
		if c != '\\' {
			buf[n] = c
			n++
			continue
		}
		i++
		if i >= len(content) {
			return nil, &LexError{Message: "unterminated escape", Offset: off + i}
		}
		switch content[i] {
		case '"':
			buf[n] = '"'
		case '\\':
			buf[n] = '\\'
		case '/':
			buf[n] = '/'
		case 'b':
			buf[n] = '\b'
		case 'f':
			buf[n] = '\f'
		case 'n':
			buf[n] = '\n'
		case 'r':
			buf[n] = '\r'
		case 't':
			buf[n] = '\t'
		case 'u':
			r, consumed, err := decodeUnicodeEscape(content[i-1:], off+i-1)
			if err != nil {
				return nil, err
			}
			n += utf8.EncodeRune(buf[n:], r)
			i += consumed - 2 // loop increment accounts for the rest
			continue
		default:
			return nil, &LexError{Message: fmt.Sprintf("invalid escape character %q", content[i]), Offset: off + i}
		}
		n++
	}
	out := buf[:n]
	if !utf8.Valid(out) {
		return nil, &LexError{Message: "invalid UTF-8 in string", Offset: off}
	}
	return out, nil
}

// decodeUnicodeEscape decodes a \uXXXX sequence (and a following low surrogate
// when present) starting at the backslash. It returns the rune and the number
// of bytes consumed from the backslash onward.
func decodeUnicodeEscape(s []byte, off int) (rune, int, error) {
	if len(s) < 6 {
		return 0, 0, &LexError{Message: "truncated unicode escape", Offset: off}
	}
	r1, err := parseHex4(s[2:6], off+2)
	if err != nil {
		return 0, 0, err
	}
	if utf16.IsSurrogate(r1) && len(s) >= 12 && s[6] == '\\' && s[7] == 'u' {
		r2, err := parseHex4(s[8:12], off+8)
		if err != nil {
			return 0, 0, err
		}
		if r := utf16.DecodeRune(r1, r2); r != utf8.RuneError {
			return r, 12, nil
		}
		// Unpaired surrogates each decode to the replacement rune.
		return utf8.RuneError, 6, nil
	}
	if utf16.IsSurrogate(r1) {
		return utf8.RuneError, 6, nil
	}
	return r1, 6, nil
}

func parseHex4(s []byte, off int) (rune, error) {
	var r rune
	for i := 0; i < 4; i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			r = r<<4 | rune(c-'0')
		case c >= 'a' && c <= 'f':
			r = r<<4 | rune(c-'a'+10)
		case c >= 'A' && c <= 'F':
			r = r<<4 | rune(c-'A'+10)
		default:
			return 0, &LexError{Message: "invalid unicode escape", Offset: off}
		}
	}
	return r, nil
}

// captureContainer consumes a container body raw, from just after its opening
// bracket to its matching close, without tokenizing. It returns the full raw
// span (brackets included) and the deepest bracket nesting inside, the
// container itself counting as 1. openPos is the offset of the opening
// bracket; the cursor must sit right after it.
func (l *lexer) captureContainer(openPos int) ([]byte, int, error) {
	depth := 1
	deepest := 1
	inString := false
	escaped := false
	for i := l.pos; i < len(l.data); i++ {
		c := l.data[i]
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
			if depth > deepest {
				deepest = depth
			}
		case '}', ']':
			depth--
			if depth == 0 {
				l.pos = i + 1
				return l.data[openPos : i+1], deepest, nil
			}
		}
	}
	return nil, 0, &LexError{Message: "unterminated container", Offset: openPos}
}
