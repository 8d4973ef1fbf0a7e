package rag

import (
	"sort"

	apperrors "github.com/paiapp/backend-go/internal/errors"
)

// VectorIndex 内存中的精确最近邻检索
// 文档分块数量很小，全量暴力扫描即可，不需要近似索引结构
type VectorIndex struct{}

// NewVectorIndex 创建向量索引
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{}
}

// Search 返回与query平方欧氏距离最近的k个向量下标，距离最近的在前
// 距离相等时下标小的在前。向量不足k个时返回全部，空集合返回空结果
func (idx *VectorIndex) Search(query []float32, vectors [][]float32, k int) ([]int, error) {
	if len(vectors) == 0 {
		return []int{}, nil
	}
	if k <= 0 {
		k = 3
	}

	for i, vector := range vectors {
		if len(vector) != len(query) {
			return nil, apperrors.NewValidationError(
				apperrors.ErrCodeDimensionMismatch,
				"embedding dimension mismatch",
			).WithDetails(map[string]int{
				"query_dimensions":  len(query),
				"vector_dimensions": len(vector),
				"vector_index":      i,
			})
		}
	}

	type candidate struct {
		index    int
		distance float64
	}

	candidates := make([]candidate, len(vectors))
	for i, vector := range vectors {
		candidates[i] = candidate{index: i, distance: squaredL2(query, vector)}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].index < candidates[j].index
	})

	if k > len(candidates) {
		k = len(candidates)
	}

	indices := make([]int, k)
	for i := 0; i < k; i++ {
		indices[i] = candidates[i].index
	}
	return indices, nil
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
