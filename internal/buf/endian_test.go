package buf

import "testing"

func TestWords(t *testing.T) {
	data := []byte{0xff, 0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}

	if got, ok := Word32(data, 1); !ok || got != 0x67452301 {
		t.Fatalf("Word32(data, 1) = 0x%x, %v; want 0x67452301, true", got, ok)
	}
	if got, ok := Word64(data, 1); !ok || got != 0xefcdab8967452301 {
		t.Fatalf("Word64(data, 1) = 0x%x, %v; want 0xefcdab8967452301, true", got, ok)
	}

	// Reads that would run off either end fail instead of returning garbage.
	if _, ok := Word32(data, 6); ok {
		t.Fatalf("Word32 past the end should fail")
	}
	if _, ok := Word64(data, 2); ok {
		t.Fatalf("Word64 past the end should fail")
	}
	if _, ok := Word32(data, -1); ok {
		t.Fatalf("Word32 at a negative offset should fail")
	}
}
