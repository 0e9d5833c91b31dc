//go:build unix

// Package osmem obtains the single region of memory an arena manages.
package osmem

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Acquire maps n bytes of zeroed, process-private memory. The returned
// region is page-aligned. The cleanup function unmaps it; calling it twice
// is a no-op.
func Acquire(n int) ([]byte, func() error, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("osmem: invalid size %d", n)
	}
	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("osmem: mmap %d bytes: %w", n, err)
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		data = nil
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data, cleanup, nil
}
