package buffer

import (
	"bytes"
	"os"
	"testing"
)

func TestStripBOMUTF8(t *testing.T) {
	data := append(append([]byte{}, utf8BOM...), []byte("hello")...)
	out, had := stripBOM(data)
	if !had {
		t.Fatal("expected a BOM to be detected")
	}
	if string(out) != "hello" {
		t.Fatalf("expected %q, got %q", "hello", out)
	}
}

func TestStripBOMNone(t *testing.T) {
	out, had := stripBOM([]byte("hello"))
	if had {
		t.Fatal("expected no BOM")
	}
	if string(out) != "hello" {
		t.Fatalf("expected passthrough, got %q", out)
	}
}

func TestStripBOMUTF16LETranscodesToUTF8(t *testing.T) {
	// "hi" as UTF-16LE: 'h' 0x00 'i' 0x00
	body := []byte{'h', 0x00, 'i', 0x00}
	data := append(append([]byte{}, utf16LEBOM...), body...)

	out, had := stripBOM(data)
	if !had {
		t.Fatal("expected a BOM to be detected")
	}
	if !bytes.Equal(out, []byte("hi")) {
		t.Fatalf("expected transcoded %q, got %q", "hi", out)
	}
}

func TestStripBOMUTF16BETranscodesToUTF8(t *testing.T) {
	// "hi" as UTF-16BE: 0x00 'h' 0x00 'i'
	body := []byte{0x00, 'h', 0x00, 'i'}
	data := append(append([]byte{}, utf16BEBOM...), body...)

	out, had := stripBOM(data)
	if !had {
		t.Fatal("expected a BOM to be detected")
	}
	if !bytes.Equal(out, []byte("hi")) {
		t.Fatalf("expected transcoded %q, got %q", "hi", out)
	}
}

func TestOpenSmallFileStripsBOM(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bom.txt"
	data := append(append([]byte{}, utf8BOM...), []byte("line one\n")...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if !b.HadBOM() {
		t.Fatal("expected HadBOM to be true")
	}
	if got := b.Text(); got != "line one\n" {
		t.Fatalf("expected BOM stripped from buffer text, got %q", got)
	}
}
