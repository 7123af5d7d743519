package memlib

import (
	"strings"

	"github.com/vkngwrapper/memsim/reserve"
)

const (
	B  = 1
	KB = 1024 * B
	MB = 1024 * KB
)

// DefaultCapacity is the capacity used when CreateOptions.Capacity is left at zero
const DefaultCapacity int = 20 * MB

// HeapCreateFlags indicate specific heap behaviors to activate or deactivate
type HeapCreateFlags int32

const (
	// HeapCreateSynchronized guards every heap operation with a mutex. A simulated heap
	// is normally driven serially by a single allocator, the same way the program break
	// it models is a process-global, serializing resource, so this is off by default.
	HeapCreateSynchronized HeapCreateFlags = 1 << iota
	// HeapCreateAlignCapacity rounds the requested capacity up to a multiple of the host
	// page size before reserving it.
	HeapCreateAlignCapacity
)

var heapCreateFlagNames = []struct {
	flag HeapCreateFlags
	name string
}{
	{HeapCreateSynchronized, "HeapCreateSynchronized"},
	{HeapCreateAlignCapacity, "HeapCreateAlignCapacity"},
}

func (f HeapCreateFlags) String() string {
	if f == 0 {
		return "None"
	}

	var names []string
	for _, entry := range heapCreateFlagNames {
		if f&entry.flag != 0 {
			names = append(names, entry.name)
			f &^= entry.flag
		}
	}

	if f != 0 {
		names = append(names, "Unknown")
	}

	return strings.Join(names, "|")
}

// CreateOptions contains optional settings when initializing a heap. It is valid to leave
// every field blank.
type CreateOptions struct {
	// Capacity is the fixed maximum size of the heap in bytes. The heap's ceiling is placed
	// exactly this many bytes past its base and never moves. Zero means DefaultCapacity.
	Capacity int
	// Flags indicates specific heap behaviors to activate or deactivate
	Flags HeapCreateFlags
	// Reserver obtains the backing region from the host environment. When nil, anonymous
	// memory maps are used where the platform has them and the Go heap elsewhere.
	Reserver reserve.Reserver
}
