//go:build plan9 || windows || js || wasip1

package reserve

import "os"

// Default returns the reserver used when a heap is created without one
func Default() Reserver {
	return SliceReserver{}
}

// PageSize returns the host's memory page size
func PageSize() int {
	return os.Getpagesize()
}
