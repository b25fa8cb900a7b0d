package buffer

import (
	"regexp"
	"testing"
)

func TestFindNextWraps(t *testing.T) {
	b := NewBufferFromString("the quick brown fox jumps over the lazy dog")
	pos, ok := b.FindNext("the", 32)
	if !ok {
		t.Fatal("expected a match")
	}
	if pos != 0 {
		t.Errorf("expected wrapped match at 0, got %d", pos)
	}
}

func TestFindNextInRangeNoWrap(t *testing.T) {
	b := NewBufferFromString("foo bar foo bar foo")
	r := &Range{Start: 0, End: 10}
	if _, ok := b.FindNextInRange("foo", 10, r); ok {
		t.Error("expected no match within the bounded range")
	}
}

func TestFindAll(t *testing.T) {
	b := NewBufferFromString("aXaXaXa")
	matches := b.FindAll("a")
	if len(matches) != 4 {
		t.Fatalf("expected 4 matches, got %d", len(matches))
	}
}

func TestFindPatternSpanningChunkBoundary(t *testing.T) {
	pad := make([]byte, searchChunkSize-2)
	for i := range pad {
		pad[i] = 'x'
	}
	text := string(pad) + "NEEDLE"
	b := NewBufferFromString(text)
	pos, ok := b.FindNext("NEEDLE", 0)
	if !ok {
		t.Fatal("expected to find needle spanning the chunk boundary")
	}
	if pos != ByteOffset(len(pad)) {
		t.Errorf("expected match at %d, got %d", len(pad), pos)
	}
}

func TestReplaceAll(t *testing.T) {
	b := NewBufferFromString("cat cat cat")
	n, err := b.ReplaceAll("cat", "dog")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3 replacements, got %d", n)
	}
	if b.Text() != "dog dog dog" {
		t.Errorf("unexpected text %q", b.Text())
	}
}

func TestReplaceAllExpandingReplacement(t *testing.T) {
	b := NewBufferFromString("a a a")
	n, err := b.ReplaceAll("a", "aa")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3 replacements, got %d", n)
	}
	if b.Text() != "aa aa aa" {
		t.Errorf("unexpected text %q", b.Text())
	}
}

func TestFindNextRegex(t *testing.T) {
	b := NewBufferFromString("foo123bar456")
	re := regexp.MustCompile(`[0-9]+`)
	m, ok := b.FindNextRegex(re, 0)
	if !ok {
		t.Fatal("expected a match")
	}
	if b.TextRange(m.Start, m.End) != "123" {
		t.Errorf("unexpected match %q", b.TextRange(m.Start, m.End))
	}
}

func TestReplaceAllRegex(t *testing.T) {
	b := NewBufferFromString("a1 b22 c333")
	re := regexp.MustCompile(`[0-9]+`)
	n, err := b.ReplaceAllRegex(re, "#")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3 replacements, got %d", n)
	}
	if b.Text() != "a# b# c#" {
		t.Errorf("unexpected text %q", b.Text())
	}
}

func TestReplaceNext(t *testing.T) {
	b := NewBufferFromString("one two one two")
	pos, ok, err := b.ReplaceNext("one", "ONE", 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a replacement")
	}
	if pos != 8 {
		t.Errorf("expected replacement at offset 8, got %d", pos)
	}
	if b.Text() != "one two ONE two" {
		t.Errorf("unexpected text %q", b.Text())
	}
}
