package termio

import "testing"

func TestSizeNeverReturnsZero(t *testing.T) {
	width, height := Size()
	if width <= 0 || height <= 0 {
		t.Fatalf("expected a positive size, got %dx%d", width, height)
	}
}
