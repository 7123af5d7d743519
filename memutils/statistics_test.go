package memutils_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/memsim/memutils"
)

func TestDetailedStatisticsAddGrows(t *testing.T) {
	var stats memutils.DetailedStatistics
	stats.Clear()

	require.Equal(t, math.MaxInt, stats.GrowSizeMin)

	stats.AddGrows(100, 1)
	stats.AddGrows(24, 2)
	stats.AddGrows(500, 1)
	stats.AddGrows(9999, 0)

	require.Equal(t, 4, stats.GrowCount)
	require.Equal(t, 648, stats.GrowBytes)
	require.Equal(t, 24, stats.GrowSizeMin)
	require.Equal(t, 500, stats.GrowSizeMax)
}

func TestDetailedStatisticsCombine(t *testing.T) {
	var first, second memutils.DetailedStatistics
	first.Clear()
	second.Clear()

	first.HeapCount = 1
	first.CapacityBytes = 1024
	first.CurrentBytes = 100
	first.PeakBytes = 100
	first.AddGrows(100, 1)

	second.HeapCount = 1
	second.CapacityBytes = 2048
	second.CurrentBytes = 0
	second.PeakBytes = 700
	second.FailedGrowCount = 2
	second.ResetCount = 1
	second.AddGrows(700, 1)

	var total memutils.DetailedStatistics
	total.Clear()
	total.AddDetailedStatistics(&first)
	total.AddDetailedStatistics(&second)

	require.Equal(t, memutils.DetailedStatistics{
		Statistics: memutils.Statistics{
			HeapCount:       2,
			CapacityBytes:   3072,
			CurrentBytes:    100,
			PeakBytes:       800,
			GrowCount:       2,
			FailedGrowCount: 2,
			ResetCount:      1,
		},
		GrowBytes:   800,
		GrowSizeMin: 100,
		GrowSizeMax: 700,
	}, total)

	total.Clear()
	require.Equal(t, 0, total.HeapCount)
	require.Equal(t, math.MaxInt, total.GrowSizeMin)
}
