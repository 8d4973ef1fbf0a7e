package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/paiapp/backend-go/internal/errors"
)

func TestVectorIndexSearchOrdering(t *testing.T) {
	idx := NewVectorIndex()

	vectors := [][]float32{
		{0, 0},
		{1, 1},
		{2, 2},
		{0.5, 0.5},
	}

	// 距离升序：0(0) < 3(0.5) < 1(2) < 2(8)
	indices, err := idx.Search([]float32{0, 0}, vectors, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 1}, indices)
}

func TestVectorIndexSearchTieBreak(t *testing.T) {
	idx := NewVectorIndex()

	// 距离相等时下标小的在前
	vectors := [][]float32{
		{1, 0},
		{1, 0},
		{0, 0},
	}
	indices, err := idx.Search([]float32{1, 0}, vectors, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, indices)
}

func TestVectorIndexSearchKLargerThanSet(t *testing.T) {
	idx := NewVectorIndex()

	vectors := [][]float32{
		{1, 1},
		{0, 0},
	}

	// k超过向量数时返回全部
	indices, err := idx.Search([]float32{0, 0}, vectors, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, indices)
}

func TestVectorIndexSearchEmpty(t *testing.T) {
	idx := NewVectorIndex()

	indices, err := idx.Search([]float32{0, 0}, nil, 3)
	require.NoError(t, err)
	assert.Empty(t, indices)
}

func TestVectorIndexSearchDefaultK(t *testing.T) {
	idx := NewVectorIndex()

	vectors := [][]float32{
		{0, 0}, {1, 1}, {2, 2}, {3, 3},
	}
	indices, err := idx.Search([]float32{0, 0}, vectors, 0)
	require.NoError(t, err)
	assert.Len(t, indices, 3)
}

func TestVectorIndexSearchDimensionMismatch(t *testing.T) {
	idx := NewVectorIndex()

	vectors := [][]float32{
		{0, 0},
		{1, 1, 1},
	}
	_, err := idx.Search([]float32{0, 0}, vectors, 3)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDimensionMismatch))
}
