package utils

import (
	"sort"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect[O any](group *ProcessGroup[int, O]) []O {
	var result []O
	for o := range group.Output {
		result = append(result, o)
	}
	return result
}

func TestParallelForReturnsAllOutputs(t *testing.T) {
	input := make([]int, 100)
	for i := range input {
		input[i] = i
	}

	group := ParallelFor(input, func(i int) (int, error) {
		return i * 2, nil
	}, ParallelOptions{Routines: 4})

	result := collect(group)
	require.NoError(t, group.Error())

	sort.Ints(result)
	require.Len(t, result, 100)
	for i, v := range result {
		assert.Equal(t, i*2, v)
	}
}

func TestParallelForStopsOnFirstError(t *testing.T) {
	input := make([]int, 1000)
	for i := range input {
		input[i] = i
	}

	var calls atomic.Int32
	group := ParallelFor(input, func(i int) (int, error) {
		calls.Add(1)
		if i == 3 {
			return 0, errors.New("boom")
		}
		return i, nil
	}, ParallelOptions{Routines: 2, InputFactor: 1, OutputFactor: 1})

	collect(group)

	require.EqualError(t, group.Error(), "boom")
	assert.Less(t, int(calls.Load()), 1000)
}

func TestParallelForEmpty(t *testing.T) {
	group := ParallelFor([]int{}, func(i int) (int, error) {
		return i, nil
	})

	assert.Empty(t, collect(group))
	assert.NoError(t, group.Error())
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, 1, Min(3, 1, 2))
	assert.Equal(t, 3, Max(3, 1, 2))
	assert.Equal(t, "a", Min("b", "a"))
	assert.Equal(t, 0.5, Max(0.5))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, "", Coalesce[string]())
}
