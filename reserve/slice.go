package reserve

import (
	"github.com/cockroachdb/errors"
)

// SliceReserver reserves regions from the Go heap. The Go collector does not move heap
// objects, so the region keeps its address for as long as the returned slice is referenced.
type SliceReserver struct{}

func (SliceReserver) Reserve(size int) ([]byte, error) {
	if size <= 0 {
		return nil, errors.Newf("cannot reserve a region of %d bytes", size)
	}

	return make([]byte, size), nil
}

func (SliceReserver) Release(region []byte) error {
	if region == nil {
		return errors.New("attempted to release a nil region")
	}

	return nil
}
