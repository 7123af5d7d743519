// Package reserve obtains the backing region for a simulated heap from the host environment.
package reserve

//go:generate mockgen -destination=../mocks/reserver_mock.go -package=mocks github.com/vkngwrapper/memsim/reserve Reserver

// Reserver hands out and takes back contiguous regions of host memory. A region returned by
// Reserve must not move for as long as it is held, and must be passed unchanged to Release.
type Reserver interface {
	Reserve(size int) ([]byte, error)
	Release(region []byte) error
}
