//go:build !unix

// Package osmem obtains the single region of memory an arena manages.
package osmem

import "fmt"

// Acquire allocates n zeroed bytes from the Go heap when anonymous mappings
// are not available.
func Acquire(n int) ([]byte, func() error, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("osmem: invalid size %d", n)
	}
	return make([]byte, n), func() error { return nil }, nil
}
