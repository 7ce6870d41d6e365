package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countTrue(vis []bool) int {
	n := 0
	for _, v := range vis {
		if v {
			n++
		}
	}
	return n
}

func TestSelector_InitialState(t *testing.T) {
	s := NewSelector(4)
	assert.Equal(t, 0, s.Selected())
	assert.Equal(t, []bool{true, true, false, false, false, false, false, false}, s.Visibility())
}

func TestSelector_ExactlyOnePairVisible(t *testing.T) {
	s := NewSelector(4)
	for i := range 4 {
		next, err := s.Select(i)
		require.NoError(t, err)

		vis := next.Visibility()
		require.Len(t, vis, 8)
		assert.Equal(t, 2, countTrue(vis))
		assert.True(t, vis[2*i])
		assert.True(t, vis[2*i+1])
	}
}

func TestSelector_SelectIsIdempotent(t *testing.T) {
	once, err := NewSelector(4).Select(2)
	require.NoError(t, err)
	twice, err := once.Select(2)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, once.Visibility(), twice.Visibility())
}

func TestSelector_OutOfRangeKeepsState(t *testing.T) {
	s, err := NewSelector(4).Select(1)
	require.NoError(t, err)

	for _, bad := range []int{-1, 4, 99} {
		next, err := s.Select(bad)
		assert.Error(t, err)
		assert.Equal(t, s, next)
	}
}

func TestSelector_DoesNotMutateReceiver(t *testing.T) {
	s := NewSelector(4)
	_, err := s.Select(3)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Selected())
}
