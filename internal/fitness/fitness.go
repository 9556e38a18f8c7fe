package fitness

import (
	"context"
	"errors"
)

var ErrInvalidGenes = errors.New("fitness: 基因组不合法")

// Function 适应度函数，返回成本，越小越好
type Function interface {
	Evaluate(ctx context.Context, genes []float64) (float64, error)
	// SubProblemsSolved 每个子问题是否已解决（0 或 1），没有子问题结构时只有一个元素
	SubProblemsSolved(genes []float64) []int
}
