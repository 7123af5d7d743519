package memutils

import "math"

// Statistics holds the basic counters gathered about one or more simulated heaps
type Statistics struct {
	HeapCount       int
	CapacityBytes   int
	CurrentBytes    int
	PeakBytes       int
	GrowCount       int
	FailedGrowCount int
	ResetCount      int
}

func (s *Statistics) Clear() {
	s.HeapCount = 0
	s.CapacityBytes = 0
	s.CurrentBytes = 0
	s.PeakBytes = 0
	s.GrowCount = 0
	s.FailedGrowCount = 0
	s.ResetCount = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.HeapCount += other.HeapCount
	s.CapacityBytes += other.CapacityBytes
	s.CurrentBytes += other.CurrentBytes
	s.PeakBytes += other.PeakBytes
	s.GrowCount += other.GrowCount
	s.FailedGrowCount += other.FailedGrowCount
	s.ResetCount += other.ResetCount
}

// DetailedStatistics extends Statistics with the extremes of successful growth requests
type DetailedStatistics struct {
	Statistics
	GrowBytes   int
	GrowSizeMin int
	GrowSizeMax int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.GrowBytes = 0
	s.GrowSizeMin = math.MaxInt
	s.GrowSizeMax = 0
}

// AddGrows records count successful growths of size bytes each
func (s *DetailedStatistics) AddGrows(size int, count int) {
	if count <= 0 {
		return
	}

	s.GrowCount += count
	s.GrowBytes += size * count

	if size < s.GrowSizeMin {
		s.GrowSizeMin = size
	}

	if size > s.GrowSizeMax {
		s.GrowSizeMax = size
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.GrowBytes += other.GrowBytes

	if other.GrowSizeMin < s.GrowSizeMin {
		s.GrowSizeMin = other.GrowSizeMin
	}

	if other.GrowSizeMax > s.GrowSizeMax {
		s.GrowSizeMax = other.GrowSizeMax
	}
}
