// Package vector 提供嵌入向量的数值原语：点积、模长、归一化、余弦相似度，
// 以及有界的 all-pairs 相似度矩阵。用户-用户与内容-内容相似度都建立在这之上。
package vector

import (
	"fmt"
	"math"

	"github.com/rushteam/matchkit/core"
)

// 向量错误定义（使用统一的 DomainError）
var (
	// ErrDimensionMismatch 表示两个向量长度不同或为零
	ErrDimensionMismatch = core.NewDomainError(core.ModuleVector, core.ErrorCodeDimensionMismatch,
		"vector: dimension mismatch")

	// ErrZeroMagnitude 表示向量 L2 模长为零，余弦相似度无定义
	ErrZeroMagnitude = core.NewDomainError(core.ModuleVector, core.ErrorCodeZeroMagnitude,
		"vector: zero magnitude")
)

// Dot 计算点积。前置条件：len(a) == len(b)，由调用方保证。
func Dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm 计算 L2 模长。
func Norm(a []float64) float64 {
	var sum float64
	for _, v := range a {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Normalize 返回单位向量；零向量原样返回零向量。
func Normalize(a []float64) []float64 {
	n := Norm(a)
	out := make([]float64, len(a))
	if n == 0 {
		return out
	}
	for i, v := range a {
		out[i] = v / n
	}
	return out
}

// Cosine 计算余弦相似度 dot(a,b) / (‖a‖·‖b‖)，结果在 [-1, 1]
//（浮点舍入可能略微越界，调用方可用 Clamp 收敛）。
//
// 长度不同或为零返回 ErrDimensionMismatch；任一向量模长为零返回
// ErrZeroMagnitude。两者对该向量对都是致命错误：all-pairs 计算前应先用
// Degenerate 过滤退化向量，避免整个请求失败。
func Cosine(a, b []float64) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("cosine %d vs %d: %w", len(a), len(b), ErrDimensionMismatch)
	}
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0, ErrZeroMagnitude
	}
	return Dot(a, b) / (na * nb), nil
}

// Clamp 将 v 收敛到 [lo, hi]。
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Degenerate 判断向量是否退化（空或模长为零），此类向量必须在
// SimilarityMatrix 之前剔除。
func Degenerate(a []float64) bool {
	return len(a) == 0 || Norm(a) == 0
}

// SimilarityMatrix 计算候选向量集的 all-pairs 余弦相似度，O(n²·d)。
// n 的上界由调用方负责；输入中的退化向量或维度不一致会返回错误，
// 调用方应预先用 Degenerate 过滤。
//
// 返回 n×n 对称矩阵，对角线为 1。
func SimilarityMatrix(vecs [][]float64) ([][]float64, error) {
	n := len(vecs)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		out[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sim, err := Cosine(vecs[i], vecs[j])
			if err != nil {
				return nil, fmt.Errorf("pair (%d,%d): %w", i, j, err)
			}
			sim = Clamp(sim, -1, 1)
			out[i][j] = sim
			out[j][i] = sim
		}
	}
	return out, nil
}
