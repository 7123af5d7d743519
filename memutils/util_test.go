package memutils_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/memsim/memutils"
)

func TestCheckPow2(t *testing.T) {
	require.NoError(t, memutils.CheckPow2(4096, "pageSize"))
	require.NoError(t, memutils.CheckPow2(uint(1), "one"))

	err := memutils.CheckPow2(3000, "pageSize")
	require.Error(t, err)
	require.True(t, errors.Is(err, memutils.PowerOfTwoError))
	require.Contains(t, err.Error(), "pageSize is 3000")

	require.Error(t, memutils.CheckPow2(0, "zero"))
	require.Error(t, memutils.CheckPow2(-8, "negative"))
}

var alignTestCases = map[string]struct {
	Value     int
	Alignment uint
	Up        int
	Down      int
}{
	"Zero": {
		Value:     0,
		Alignment: 4096,
		Up:        0,
		Down:      0,
	},
	"Already Aligned": {
		Value:     8192,
		Alignment: 4096,
		Up:        8192,
		Down:      8192,
	},
	"One Past": {
		Value:     4097,
		Alignment: 4096,
		Up:        8192,
		Down:      4096,
	},
	"Small Alignment": {
		Value:     13,
		Alignment: 8,
		Up:        16,
		Down:      8,
	},
}

func TestAlign(t *testing.T) {
	for name, testCase := range alignTestCases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, testCase.Up, memutils.AlignUp(testCase.Value, testCase.Alignment))
			require.Equal(t, testCase.Down, memutils.AlignDown(testCase.Value, testCase.Alignment))
		})
	}
}
