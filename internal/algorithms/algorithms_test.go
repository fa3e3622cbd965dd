package algorithms

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	require := require.New(t)
	require.Equal([]string{"1", "2", "3"}, Map([]int{1, 2, 3}, strconv.Itoa))
	require.Empty(Map(nil, strconv.Itoa))
}

func TestFilter(t *testing.T) {
	require := require.New(t)
	even := func(i int) bool { return i%2 == 0 }
	require.Equal([]int{2, 4}, Filter([]int{1, 2, 3, 4}, even))
}

func TestUniq(t *testing.T) {
	require := require.New(t)
	require.Equal([]string{"a", "b", "c"}, Uniq([]string{"a", "b", "a", "c", "b", "a"}))
	require.Empty(Uniq[string](nil))
}
