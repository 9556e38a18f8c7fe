package ltga

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Individual: 一个候选解
// 每个基因对应一个活动，整数部分是分配的班次，小数部分是班次内的优先级
type Individual struct {
	Genes     []float64
	Fitness   float64 // 成本，越小越好
	Evaluated bool
}

func NewIndividual(genes []float64) *Individual {
	return &Individual{Genes: genes}
}

func (ind *Individual) SetFitness(fitness float64) {
	ind.Fitness = fitness
	ind.Evaluated = true
}

// Clone 深拷贝基因，新个体没有适应度
func (ind *Individual) Clone() *Individual {
	genes := make([]float64, len(ind.Genes))
	copy(genes, ind.Genes)
	return &Individual{Genes: genes}
}

// Key 基于基因内容的身份标识，适应度相同的个体不一定是同一个解
func (ind *Individual) Key() string {
	var b strings.Builder
	for i, g := range ind.Genes {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(g, 'g', -1, 64))
	}
	return b.String()
}

func (ind *Individual) String() string {
	return fmt.Sprintf("(%s) = %g", ind.Key(), ind.Fitness)
}

// ShiftOf 解码基因所在的班次
func ShiftOf(gene float64) int {
	return int(math.Floor(gene))
}

// Cluster: 一组基因下标，成员不重复，作为交叉掩码使用
type Cluster []int

// ApplyMask 克隆 recipient，并把 mask 中的基因位替换成 donor 的值
func ApplyMask(recipient, donor *Individual, mask Cluster) *Individual {
	child := recipient.Clone()
	for _, g := range mask {
		child.Genes[g] = donor.Genes[g]
	}
	return child
}

func maskValues(ind *Individual, mask Cluster) []float64 {
	values := make([]float64, len(mask))
	for i, g := range mask {
		values[i] = ind.Genes[g]
	}
	return values
}

func setMaskValues(ind *Individual, mask Cluster, values []float64) {
	for i, g := range mask {
		ind.Genes[g] = values[i]
	}
}

// Population: 一次运行中大小固定的种群
type Population []*Individual

// Validate 检查种群能否进入聚类和重组
func (pop Population) Validate() error {
	if len(pop) < 2 {
		return fmt.Errorf("%w: 至少需要 2 个个体，实际为 %d", ErrInvalidPopulation, len(pop))
	}
	if pop[0] == nil {
		return fmt.Errorf("%w: 第 0 个个体为空", ErrInvalidPopulation)
	}
	length := len(pop[0].Genes)
	if length < 2 {
		return fmt.Errorf("%w: 至少需要 2 个基因位，实际为 %d", ErrInvalidPopulation, length)
	}
	for i, ind := range pop {
		if ind == nil {
			return fmt.Errorf("%w: 第 %d 个个体为空", ErrInvalidPopulation, i)
		}
		if len(ind.Genes) != length {
			return fmt.Errorf("%w: 第 %d 个个体的基因长度为 %d，期望 %d", ErrInvalidPopulation, i, len(ind.Genes), length)
		}
		if !ind.Evaluated || math.IsNaN(ind.Fitness) {
			return fmt.Errorf("%w: 第 %d 个个体", ErrUnassignedFitness, i)
		}
	}
	return nil
}

// Distinct 返回种群中不同基因组的集合
func (pop Population) Distinct() map[string]struct{} {
	set := make(map[string]struct{}, len(pop))
	for _, ind := range pop {
		set[ind.Key()] = struct{}{}
	}
	return set
}

// Best 返回成本最低的个体，种群为空时返回 nil
func (pop Population) Best() *Individual {
	var best *Individual
	for _, ind := range pop {
		if best == nil || ind.Fitness < best.Fitness {
			best = ind
		}
	}
	return best
}

// Clone 只复制切片本身，个体在评估后不会再被修改，可以共享
func (pop Population) Clone() Population {
	out := make(Population, len(pop))
	copy(out, pop)
	return out
}

func betterOf(a, b *Individual) *Individual {
	if b.Fitness < a.Fitness {
		return b
	}
	return a
}
