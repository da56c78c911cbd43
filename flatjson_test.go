package flatjson

import "testing"

// TestDefaultParseOptions tests the documented defaults
func TestDefaultParseOptions(t *testing.T) {
	opts := DefaultParseOptions()
	if !opts.ParseArray || !opts.KeepObjectRawData || opts.MaxDepth != 10 {
		t.Errorf("Unexpected defaults: %+v", opts)
	}
	if opts.StartParseAt != "" || opts.Prefix != "" {
		t.Errorf("Expected empty start pointer and prefix: %+v", opts)
	}
}

// TestParseOptionsSetters tests the fluent setters
func TestParseOptionsSetters(t *testing.T) {
	opts := DefaultParseOptions().
		WithParseArray(false).
		WithKeepObjectRawData(false).
		WithMaxDepth(3).
		WithStartParseAt("/a").
		WithPrefix("/a")
	if opts.ParseArray || opts.KeepObjectRawData || opts.MaxDepth != 3 {
		t.Errorf("Setters did not apply: %+v", opts)
	}
	if opts.StartParseAt != "/a" || opts.Prefix != "/a" {
		t.Errorf("Setters did not apply: %+v", opts)
	}
	// Value semantics: the original is untouched.
	if d := DefaultParseOptions(); d.MaxDepth != 10 {
		t.Errorf("Defaults mutated: %+v", d)
	}
}

// TestParseStringMatchesParse tests the string entry point
func TestParseStringMatchesParse(t *testing.T) {
	arena := NewArena()
	a, err := ParseString(`{"k":1}`, DefaultParseOptions(), arena)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	b, err := Parse([]byte(`{"k":1}`), DefaultParseOptions(), arena)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(a.JSON) != len(b.JSON) || a.JSON[0].Key.Pointer != b.JSON[0].Key.Pointer {
		t.Error("ParseString and Parse disagree")
	}
}

// TestMaxDepthZeroTreatedAsOne tests the zero-depth clamp
func TestMaxDepthZeroTreatedAsOne(t *testing.T) {
	res := mustParse(t, `{"a":{"b":1}}`, DefaultParseOptions().WithMaxDepth(0))
	if res.ParsingMaxDepth != 1 {
		t.Errorf("Expected ParsingMaxDepth 1, got %d", res.ParsingMaxDepth)
	}
	a, ok := res.JSON.FindNodeAt("/a")
	if !ok || string(a.Value) != `{"b":1}` {
		t.Errorf("Expected /a captured raw, got %q", a.Value)
	}
	if _, ok := res.JSON.FindNodeAt("/a/b"); ok {
		t.Error("Expected no /a/b at depth limit 1")
	}
}
