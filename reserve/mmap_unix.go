//go:build !plan9 && !windows && !js && !wasip1

package reserve

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"
)

// MmapReserver reserves regions with private anonymous memory maps, keeping the simulated
// heap entirely outside the Go heap.
type MmapReserver struct{}

func (MmapReserver) Reserve(size int) ([]byte, error) {
	if size <= 0 {
		return nil, errors.Newf("cannot reserve a region of %d bytes", size)
	}

	region, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap of %d bytes failed", size)
	}
	return region, nil
}

func (MmapReserver) Release(region []byte) error {
	err := unix.Munmap(region)
	if err != nil {
		return errors.Wrap(err, "munmap failed")
	}
	return nil
}

// Default returns the reserver used when a heap is created without one
func Default() Reserver {
	return MmapReserver{}
}

// PageSize returns the host's memory page size
func PageSize() int {
	return unix.Getpagesize()
}
