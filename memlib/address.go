package memlib

import (
	"fmt"
	"unsafe"
)

// Address is a location inside (or at the edge of) a simulated heap. It is an opaque,
// pointer-sized value: arithmetic on it never checks bounds, the same way arithmetic on a
// real program break does not.
type Address uintptr

// InvalidAddress is returned in place of a location when a heap cannot grow. It is the
// all-ones address, the same value sbrk reports as (void *)-1.
const InvalidAddress Address = ^Address(0)

// Add returns the address n bytes past a. n may be negative.
func (a Address) Add(n int) Address {
	return Address(uintptr(a) + uintptr(n))
}

// Sub returns the distance in bytes from other to a
func (a Address) Sub(other Address) int {
	return int(uintptr(a) - uintptr(other))
}

// Pointer converts the address to an unsafe.Pointer so the caller can read or write the
// heap memory behind it. Only addresses inside [LowAddress, HighAddress] of a live heap may
// be dereferenced.
func (a Address) Pointer() unsafe.Pointer {
	return unsafe.Pointer(uintptr(a))
}

func (a Address) String() string {
	if a == InvalidAddress {
		return "invalid"
	}
	return fmt.Sprintf("%#x", uintptr(a))
}
