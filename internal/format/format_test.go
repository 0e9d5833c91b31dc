package format

import (
	"errors"
	"testing"
)

func TestSizeToAllocate(t *testing.T) {
	cases := []struct {
		user int
		want int
	}{
		{1, 16},
		{4, 16},
		{8, 16},
		{9, 24},
		{16, 24},
		{48, 56},
		{256, 264},
		{257, 272},
	}
	for _, tc := range cases {
		if got := SizeToAllocate(tc.user); got != tc.want {
			t.Fatalf("SizeToAllocate(%d) = %d, want %d", tc.user, got, tc.want)
		}
		if got := SizeToAllocate(tc.user); (got-TagOverhead)%PayloadAlign != 0 {
			t.Fatalf("SizeToAllocate(%d) = %d leaves an unaligned payload", tc.user, got)
		}
	}
}

func TestAlign8(t *testing.T) {
	for in, want := range map[int]int{0: 0, 1: 8, 8: 8, 9: 16, 16: 16} {
		if got := Align8(in); got != want {
			t.Fatalf("Align8(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestAlignDelta(t *testing.T) {
	// The first header must sit 4 bytes before an 8-byte boundary.
	for addr := uintptr(0x1000); addr < 0x1010; addr++ {
		d := AlignDelta(addr)
		if d < 0 || d >= PayloadAlign {
			t.Fatalf("AlignDelta(%#x) = %d out of range", addr, d)
		}
		if (addr+uintptr(d)+HeaderSize)%PayloadAlign != 0 {
			t.Fatalf("AlignDelta(%#x) = %d does not align the payload", addr, d)
		}
	}
}

func TestTrimUsable(t *testing.T) {
	// 256 bytes minus the 32-byte arena header minus 4 bytes of alignment.
	if got := TrimUsable(220); got != 216 {
		t.Fatalf("TrimUsable(220) = %d, want 216", got)
	}
	if got := TrimUsable(216); got != 216 {
		t.Fatalf("TrimUsable(216) = %d, want 216", got)
	}
}

func TestTagRoundTrip(t *testing.T) {
	b := make([]byte, 64)
	PutTags(b, 8, 32, true)

	hdr := ReadTag(b, 8)
	ftr := ReadTag(b, 8+32-FooterSize)
	if hdr != ftr {
		t.Fatalf("header %v != footer %v", hdr, ftr)
	}
	if hdr.Size != 32 || !hdr.InUse {
		t.Fatalf("unexpected tag %v", hdr)
	}
	if ReadU32(b, 8) != 33 {
		t.Fatalf("raw word = %d, want 33", ReadU32(b, 8))
	}

	PutTags(b, 8, 32, false)
	if got := ReadTag(b, 8); got.InUse || got.Size != 32 {
		t.Fatalf("unexpected tag after clear %v", got)
	}
	if got := DecodeTag(33).String(); got != "32(u)" {
		t.Fatalf("String() = %q", got)
	}
}

func TestArenaHeader(t *testing.T) {
	b := make([]byte, ArenaHeaderSize)
	want := ArenaHeader{Start: 36, Size: 216, Strategy: 2, Cursor: 52}
	PutArenaHeader(b, want)

	got, err := ParseArenaHeader(b)
	if err != nil {
		t.Fatalf("ParseArenaHeader: %v", err)
	}
	if got != want {
		t.Fatalf("header mismatch: got %+v want %+v", got, want)
	}
	if got.End() != 252 {
		t.Fatalf("End() = %d, want 252", got.End())
	}

	if _, err := ParseArenaHeader(b[:10]); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected truncation error, got %v", err)
	}
	copy(b[ArenaSignatureOffset:], "XXXX")
	if _, err := ParseArenaHeader(b); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected signature error, got %v", err)
	}
}
