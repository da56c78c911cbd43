package flatjson

import (
	"bytes"
	"testing"
)

// TestArenaAlloc tests basic allocation and accounting
func TestArenaAlloc(t *testing.T) {
	a := NewArena()
	b1 := a.Alloc(8)
	if len(b1) != 8 {
		t.Fatalf("Expected 8 bytes, got %d", len(b1))
	}
	copy(b1, "12345678")
	b2 := a.Alloc(4)
	copy(b2, "abcd")
	if string(b1) != "12345678" {
		t.Error("Earlier allocation was clobbered by a later one")
	}
	if a.Allocated() != 12 {
		t.Errorf("Expected 12 bytes accounted, got %d", a.Allocated())
	}
}

// TestArenaLargeAlloc tests allocations beyond the chunk size
func TestArenaLargeAlloc(t *testing.T) {
	a := NewArena()
	small := a.Alloc(16)
	copy(small, "0123456789abcdef")
	big := a.Alloc(arenaChunkSize * 2)
	if len(big) != arenaChunkSize*2 {
		t.Fatalf("Expected %d bytes, got %d", arenaChunkSize*2, len(big))
	}
	big[0] = 'x'
	big[len(big)-1] = 'y'
	if string(small) != "0123456789abcdef" {
		t.Error("Chunk growth invalidated an earlier allocation")
	}
}

// TestArenaCopyBytes tests that copies are independent of their source
func TestArenaCopyBytes(t *testing.T) {
	a := NewArena()
	src := []byte("hello")
	cp := a.CopyBytes(src)
	src[0] = 'X'
	if !bytes.Equal(cp, []byte("hello")) {
		t.Errorf("Expected independent copy, got %q", cp)
	}
}

// TestArenaJoin tests pointer segment joining
func TestArenaJoin(t *testing.T) {
	a := NewArena()
	p := a.Join("/a", []byte("b"))
	if p != "/a/b" {
		t.Errorf("Expected /a/b, got %q", p)
	}
	p = a.Join("", []byte("root"))
	if p != "/root" {
		t.Errorf("Expected /root, got %q", p)
	}
}

// TestArenaConcat tests multi-part concatenation
func TestArenaConcat(t *testing.T) {
	a := NewArena()
	s := a.Concat("/a", "/", "3", "/name")
	if s != "/a/3/name" {
		t.Errorf("Expected /a/3/name, got %q", s)
	}
	if a.Concat() != "" {
		t.Error("Expected empty concat")
	}
}
