package flatjson

import (
	"errors"
	"testing"
)

// lexAll drains the lexer for inspection.
func lexAll(t *testing.T, doc string) []token {
	t.Helper()
	l := newLexer([]byte(doc), NewArena())
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			t.Fatalf("lex %q failed: %v", doc, err)
		}
		if tok.kind == tokenEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

// TestLexerTokenStream tests the token sequence for a small document
func TestLexerTokenStream(t *testing.T) {
	toks := lexAll(t, `{"a": [1, true, null, -2.5e3]}`)
	want := []tokenKind{
		tokenObjectOpen, tokenString, tokenColon, tokenArrayOpen,
		tokenNumber, tokenComma, tokenBool, tokenComma, tokenNull,
		tokenComma, tokenNumber, tokenArrayClose, tokenObjectClose,
	}
	if len(toks) != len(want) {
		t.Fatalf("Expected %d tokens, got %d", len(want), len(toks))
	}
	for i, k := range want {
		if toks[i].kind != k {
			t.Errorf("token %d: expected kind %d, got %d", i, k, toks[i].kind)
		}
	}
	if string(toks[10].value) != "-2.5e3" {
		t.Errorf("Expected raw number -2.5e3, got %q", toks[10].value)
	}
	if toks[0].pos != 0 || toks[1].pos != 1 {
		t.Errorf("Unexpected token positions %d, %d", toks[0].pos, toks[1].pos)
	}
}

// TestLexerZeroCopyString tests that escape-free strings alias the input
func TestLexerZeroCopyString(t *testing.T) {
	data := []byte(`"hello"`)
	l := newLexer(data, NewArena())
	tok, err := l.next()
	if err != nil {
		t.Fatalf("lex failed: %v", err)
	}
	if string(tok.value) != "hello" {
		t.Fatalf("Expected hello, got %q", tok.value)
	}
	// Mutating the input must show through the token slice.
	data[1] = 'H'
	if string(tok.value) != "Hello" {
		t.Error("Expected the token to borrow from the input buffer")
	}
}

// TestLexerEscapeDecoding tests escape sequences including surrogate pairs
func TestLexerEscapeDecoding(t *testing.T) {
	cases := []struct {
		doc  string
		want string
	}{
		{`"a\nb"`, "a\nb"},
		{`"a\t\r\b\f\\\/\""`, "a\t\r\b\f\\/\""},
		{`"A"`, "A"},
		{`"é"`, "é"},
		{`"😀"`, "😀"},
		{`"\ud800"`, "�"},
	}
	for _, c := range cases {
		toks := lexAll(t, c.doc)
		if len(toks) != 1 || string(toks[0].value) != c.want {
			t.Errorf("lex %s: expected %q, got %q", c.doc, c.want, toks[0].value)
		}
	}
}

// TestLexerErrors tests lexical error classification and offsets
func TestLexerErrors(t *testing.T) {
	cases := []struct {
		doc    string
		offset int
	}{
		{`"abc`, 0},
		{`"a\qb"`, 3},
		{`truth`, 0},
		{`nul`, 0},
		{`@`, 0},
		{`"` + string([]byte{0xff}) + `"`, 1},
	}
	for _, c := range cases {
		l := newLexer([]byte(c.doc), NewArena())
		var err error
		for err == nil {
			var tok token
			tok, err = l.next()
			if err == nil && tok.kind == tokenEOF {
				t.Errorf("lex %q: expected an error", c.doc)
				break
			}
		}
		var lerr *LexError
		if err != nil {
			if !errors.As(err, &lerr) {
				t.Errorf("lex %q: expected LexError, got %v", c.doc, err)
			} else if lerr.Offset != c.offset {
				t.Errorf("lex %q: expected offset %d, got %d (%s)", c.doc, c.offset, lerr.Offset, lerr.Message)
			}
		}
	}
}

// TestCaptureContainer tests raw container capture and nesting depth
func TestCaptureContainer(t *testing.T) {
	data := []byte(`{"a":{"b":[1,{"c":"}"}]}}`)
	l := newLexer(data, NewArena())
	tok, err := l.next() // consume the opening brace
	if err != nil || tok.kind != tokenObjectOpen {
		t.Fatalf("Unexpected first token: %v %v", tok, err)
	}
	raw, deepest, err := l.captureContainer(tok.pos)
	if err != nil {
		t.Fatalf("captureContainer failed: %v", err)
	}
	if string(raw) != string(data) {
		t.Errorf("Expected the full span, got %q", raw)
	}
	if deepest != 4 {
		t.Errorf("Expected nesting 4, got %d", deepest)
	}

	l = newLexer([]byte(`[1,2`), NewArena())
	tok, _ = l.next()
	if _, _, err := l.captureContainer(tok.pos); err == nil {
		t.Error("Expected unterminated container error")
	}
}
