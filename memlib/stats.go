package memlib

import (
	"strconv"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/memsim/memutils"
	"golang.org/x/exp/slices"
)

// CalculateStatistics adds this heap's counters to stats. Call stats.Clear first to get
// the numbers for this heap alone.
func (h *Heap) CalculateStatistics(stats *memutils.DetailedStatistics) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	var heapStats memutils.DetailedStatistics
	heapStats.Clear()
	heapStats.HeapCount = 1
	heapStats.CapacityBytes = h.limit.Sub(h.base)
	heapStats.CurrentBytes = h.brk.Sub(h.base)
	heapStats.PeakBytes = h.peakBytes
	heapStats.FailedGrowCount = h.failedGrowCount
	heapStats.ResetCount = h.resetCount

	h.growSizes.Iter(func(size int, count int) (stop bool) {
		heapStats.AddGrows(size, count)
		return false
	})

	stats.AddDetailedStatistics(&heapStats)
}

// BuildStatsString returns a JSON document describing the heap's extent and growth
// history. When detailed is true, the document includes how many times the heap was grown
// by each distinct increment.
func (h *Heap) BuildStatsString(detailed bool) string {
	var stats memutils.DetailedStatistics
	stats.Clear()
	h.CalculateStatistics(&stats)

	writer := jwriter.NewWriter()
	objState := writer.Object()

	objState.Name("Base").String(h.LowAddress().String())
	objState.Name("Capacity").Int(stats.CapacityBytes)
	objState.Name("CurrentSize").Int(stats.CurrentBytes)
	objState.Name("Peak").Int(stats.PeakBytes)
	objState.Name("Grows").Int(stats.GrowCount)
	objState.Name("FailedGrows").Int(stats.FailedGrowCount)
	objState.Name("Resets").Int(stats.ResetCount)

	if detailed {
		h.printGrowSizes(&objState)
	}

	objState.End()
	return string(writer.Bytes())
}

func (h *Heap) printGrowSizes(json *jwriter.ObjectState) {
	h.mutex.Lock()
	sizes := make([]int, 0, h.growSizes.Count())
	counts := make(map[int]int, h.growSizes.Count())
	h.growSizes.Iter(func(size int, count int) (stop bool) {
		sizes = append(sizes, size)
		counts[size] = count
		return false
	})
	h.mutex.Unlock()

	slices.Sort(sizes)

	sizesObj := json.Name("GrowSizes").Object()
	defer sizesObj.End()

	for _, size := range sizes {
		sizesObj.Name(strconv.Itoa(size)).Int(counts[size])
	}
}
