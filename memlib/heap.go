// Package memlib simulates the growable region of address space a process obtains through
// program-break adjustment. A Heap reserves its full capacity once, up front, and exposes it
// a piece at a time through Grow, so that an allocator can be exercised against an sbrk-like
// contract without touching the host's real heap.
package memlib

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/memsim/internal/utils"
	"github.com/vkngwrapper/memsim/memutils"
	"github.com/vkngwrapper/memsim/reserve"
	"golang.org/x/exp/slog"
)

// Heap is a fixed-capacity, monotonically growing region of memory. The bytes in
// [LowAddress, HighAddress] are exposed to the caller; everything between the break and
// the ceiling is reserved but not yet handed out.
//
// A Heap is not safe for concurrent use unless it was created with HeapCreateSynchronized.
type Heap struct {
	logger   *slog.Logger
	mutex    utils.OptionalMutex
	reserver reserve.Reserver
	region   []byte
	live     bool

	base  Address
	brk   Address
	limit Address

	peakBytes       int
	failedGrowCount int
	resetCount      int
	growSizes       *swiss.Map[int, int]
}

var _ memutils.Validatable = &Heap{}

// Initialize reserves a heap of options.Capacity bytes and returns it with its break at its
// base. If the host cannot supply the reservation, the returned error matches
// memutils.ErrReservationFailed and no heap is returned.
//
// logger - Receives diagnostics from the heap. May be nil.
//
// options - Optional parameters: it is valid to leave all the fields blank
func Initialize(logger *slog.Logger, options CreateOptions) (*Heap, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard))
	}

	capacity := options.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if capacity < 0 {
		return nil, errors.Wrapf(memutils.ErrInvalidCapacity, "requested capacity %d", capacity)
	}

	if options.Flags&HeapCreateAlignCapacity != 0 {
		pageSize := reserve.PageSize()
		err := memutils.CheckPow2(pageSize, "page size")
		if err != nil {
			return nil, err
		}
		capacity = memutils.AlignUp(capacity, uint(pageSize))
	}

	reserver := options.Reserver
	if reserver == nil {
		reserver = reserve.Default()
	}

	region, err := reserver.Reserve(capacity)
	if err != nil {
		return nil, errors.Mark(
			errors.Wrapf(err, "could not reserve %d bytes of heap memory", capacity),
			memutils.ErrReservationFailed)
	}
	if len(region) != capacity {
		releaseErr := reserver.Release(region)
		err = errors.Wrapf(memutils.ErrReservationFailed, "asked for %d bytes but received %d", capacity, len(region))
		return nil, errors.CombineErrors(err, releaseErr)
	}

	base := Address(uintptr(unsafe.Pointer(&region[0])))
	heap := &Heap{
		logger:    logger,
		mutex:     utils.OptionalMutex{UseMutex: options.Flags&HeapCreateSynchronized != 0},
		reserver:  reserver,
		region:    region,
		live:      true,
		base:      base,
		brk:       base,
		limit:     base.Add(capacity),
		growSizes: swiss.NewMap[int, int](42),
	}

	logger.Info("initialized simulated heap",
		slog.String("Base", base.String()),
		slog.Int("Capacity", capacity),
		slog.String("Flags", options.Flags.String()))

	memutils.DebugValidate(heap)
	return heap, nil
}

// MustInitialize is Initialize for callers that have no way to continue without a heap. A
// failed reservation is logged and then panics.
func MustInitialize(logger *slog.Logger, options CreateOptions) *Heap {
	heap, err := Initialize(logger, options)
	if err != nil {
		if logger != nil {
			logger.Error("mem_init failed: could not create simulated heap", slog.Any("error", err))
		}
		panic(fmt.Sprintf("mem_init failed: %+v", err))
	}

	return heap
}

// WithHeap initializes a heap, passes it to fn, and deinitializes it when fn returns or
// panics. Errors from fn and from teardown are both reported.
func WithHeap(logger *slog.Logger, options CreateOptions, fn func(heap *Heap) error) (err error) {
	heap, err := Initialize(logger, options)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.CombineErrors(err, heap.Deinitialize())
	}()

	return fn(heap)
}

// Deinitialize returns the heap's reservation to the host. Addresses obtained from the heap
// must not be used afterward. Calling it a second time returns memutils.ErrHeapNotLive.
func (h *Heap) Deinitialize() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if !h.live {
		return errors.Wrap(memutils.ErrHeapNotLive, "heap was already deinitialized")
	}

	region := h.region
	h.region = nil
	h.live = false

	err := h.reserver.Release(region)
	if err != nil {
		return errors.Wrap(err, "could not release heap memory")
	}

	h.logger.Info("deinitialized simulated heap",
		slog.String("Base", h.base.String()),
		slog.Int("PeakBytes", h.peakBytes))
	return nil
}

// ResetBreak returns the break to the heap's base, logically emptying it. The reservation
// and its contents are left as they are.
func (h *Heap) ResetBreak() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.brk = h.base
	h.resetCount++

	h.logger.Debug("reset heap break", slog.String("Base", h.base.String()))
	if h.live {
		memutils.DebugValidate(h)
	}
}

// Grow advances the break by increment bytes and returns the old break, which is the first
// byte of a fresh, uninitialized region exactly increment bytes long.
//
// A negative increment, or one that would carry the break past the ceiling, leaves the heap
// untouched and returns InvalidAddress with an error matching memutils.ErrOutOfMemory. The
// error additionally matches memutils.ErrNegativeIncrement or memutils.ErrCapacityExceeded.
func (h *Heap) Grow(increment int) (Address, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.grow(increment)
}

// GrowPages grows the heap by pages host pages, with the same failure behavior as Grow
func (h *Heap) GrowPages(pages int) (Address, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if !h.live {
		return InvalidAddress, errors.Wrap(memutils.ErrHeapNotLive, "attempted to grow a deinitialized heap")
	}

	pageSize := reserve.PageSize()
	if pages < 0 {
		return h.growFailed(pages, errors.Wrapf(memutils.ErrNegativeIncrement, "%d pages", pages))
	}
	if pages > h.limit.Sub(h.brk)/pageSize {
		return h.growFailed(pages*pageSize, errors.Wrapf(memutils.ErrCapacityExceeded,
			"%d pages of %d bytes requested, %d bytes remain", pages, pageSize, h.limit.Sub(h.brk)))
	}

	return h.grow(pages * pageSize)
}

func (h *Heap) grow(increment int) (Address, error) {
	if !h.live {
		return InvalidAddress, errors.Wrap(memutils.ErrHeapNotLive, "attempted to grow a deinitialized heap")
	}

	if increment < 0 {
		return h.growFailed(increment, errors.Wrapf(memutils.ErrNegativeIncrement, "increment %d", increment))
	}

	remaining := h.limit.Sub(h.brk)
	if increment > remaining {
		return h.growFailed(increment, errors.Wrapf(memutils.ErrCapacityExceeded,
			"increment %d, %d bytes remain", increment, remaining))
	}

	oldBrk := h.brk
	h.brk = h.brk.Add(increment)

	size := h.brk.Sub(h.base)
	if size > h.peakBytes {
		h.peakBytes = size
	}
	count, _ := h.growSizes.Get(increment)
	h.growSizes.Put(increment, count+1)

	memutils.DebugValidate(h)
	return oldBrk, nil
}

func (h *Heap) growFailed(increment int, cause error) (Address, error) {
	h.failedGrowCount++
	h.logger.Debug("mem_sbrk failed. Ran out of memory...",
		slog.Int("Increment", increment),
		slog.Int("CurrentSize", h.brk.Sub(h.base)),
		slog.Any("error", cause))

	return InvalidAddress, errors.Mark(cause, memutils.ErrOutOfMemory)
}

// LowAddress returns the address of the heap's first byte
func (h *Heap) LowAddress() Address {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.base
}

// HighAddress returns the address of the last byte currently exposed by the heap, one
// before the break. On an empty heap this is the byte before LowAddress, which must not be
// dereferenced.
func (h *Heap) HighAddress() Address {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.brk.Add(-1)
}

// CurrentSize returns the number of bytes between the heap's base and its break
func (h *Heap) CurrentSize() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.brk.Sub(h.base)
}

// Capacity returns the heap's fixed ceiling relative to its base
func (h *Heap) Capacity() int {
	return h.limit.Sub(h.base)
}

// Remaining returns how many more bytes the heap can grow by
func (h *Heap) Remaining() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.limit.Sub(h.brk)
}

// Contains reports whether addr lies in the currently exposed part of the heap
func (h *Heap) Contains(addr Address) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return addr >= h.base && addr < h.brk
}

// Bytes returns the exposed part of the heap, [LowAddress, HighAddress], as a slice sharing
// the heap's memory. It returns nil once the heap has been deinitialized.
func (h *Heap) Bytes() []byte {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if !h.live {
		return nil
	}
	return h.region[:h.brk.Sub(h.base)]
}

// PageSize returns the host's memory page size
func (h *Heap) PageSize() int {
	return reserve.PageSize()
}

// Validate checks the heap's bookkeeping against its reservation
func (h *Heap) Validate() error {
	if !h.live {
		return errors.Wrap(memutils.ErrHeapNotLive, "cannot validate")
	}

	if h.brk < h.base {
		return errors.Newf("break %s is below base %s", h.brk, h.base)
	}

	if h.brk > h.limit {
		return errors.Newf("break %s is above ceiling %s", h.brk, h.limit)
	}

	if h.limit.Sub(h.base) != len(h.region) {
		return errors.Newf("heap spans %d bytes but its reservation is %d bytes", h.limit.Sub(h.base), len(h.region))
	}

	if Address(uintptr(unsafe.Pointer(&h.region[0]))) != h.base {
		return errors.Newf("reservation moved from %s", h.base)
	}

	return nil
}
