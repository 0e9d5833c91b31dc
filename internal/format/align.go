package format

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + PayloadAlignMask) & ^PayloadAlignMask
}

// SizeToAllocate returns the total block size needed to hold a payload of
// userSize bytes: the payload rounded up to PayloadAlign plus both tags.
//
// Example:
//
//	SizeToAllocate(1)  = 16
//	SizeToAllocate(8)  = 16
//	SizeToAllocate(9)  = 24
//	SizeToAllocate(48) = 56
func SizeToAllocate(userSize int) int {
	if userSize%PayloadAlign == 0 {
		return userSize + TagOverhead
	}
	return (userSize/PayloadAlign + 2) * PayloadAlign
}

// AlignDelta returns how far addr must be advanced so that addr+HeaderSize
// is payload-aligned. The result is in [0, PayloadAlign).
func AlignDelta(addr uintptr) int {
	delta := PayloadAlign - HeaderSize - int(addr%PayloadAlign)
	if delta < 0 {
		delta += PayloadAlign
	}
	return delta
}

// TrimUsable shrinks size so that only whole aligned blocks fit: after
// removing one header/footer pair the remainder is a multiple of PayloadAlign.
func TrimUsable(size int) int {
	return size - (size-TagOverhead)%PayloadAlign
}
