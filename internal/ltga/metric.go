package ltga

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// ProblemData 依赖度量需要的问题数据，只读
type ProblemData interface {
	FeasibleShifts(activity int) []int
}

// NewDistanceFunc 基于当前种群的快照准备距离函数，种群在建树期间不能被修改
func NewDistanceFunc(kind Distance, pop Population, problem ProblemData, wDependency float64, workers int) (DistanceFunc, error) {
	if len(pop) == 0 {
		return nil, fmt.Errorf("%w: 种群为空", ErrInvalidPopulation)
	}

	switch kind {
	case DistanceClusterEntropy:
		return newEntropyMetric(pop).clusterDistance, nil
	case DistancePairwiseEntropy:
		return newEntropyMetric(pop).pairwiseDistance, nil
	case DistanceDependency:
		if problem == nil {
			return nil, errors.New("ltga: 依赖度量需要问题数据")
		}
		m, err := NewDependencyMetric(pop, problem, wDependency, workers)
		if err != nil {
			return nil, err
		}
		return m.ClusterDistance, nil
	}

	return nil, fmt.Errorf("%w: 未知的距离度量 %q", ErrInvalidParameters, kind)
}

// shiftMatrix 把种群解码成 [个体][基因] 的班次矩阵
func shiftMatrix(pop Population) [][]int {
	shifts := make([][]int, len(pop))
	for i, ind := range pop {
		row := make([]int, len(ind.Genes))
		for g, gene := range ind.Genes {
			row[g] = ShiftOf(gene)
		}
		shifts[i] = row
	}
	return shifts
}

// entropyMetric 基于熵的聚类距离，基因的取值是其解码后的班次
type entropyMetric struct {
	shifts   [][]int
	entropy  map[string]float64
	pairwise map[[2]int]float64
}

func newEntropyMetric(pop Population) *entropyMetric {
	return &entropyMetric{
		shifts:   shiftMatrix(pop),
		entropy:  make(map[string]float64),
		pairwise: make(map[[2]int]float64),
	}
}

func clusterKey(c Cluster) string {
	sorted := slices.Clone(c)
	slices.Sort(sorted)
	buf := make([]byte, 0, 4*len(sorted))
	for _, g := range sorted {
		buf = strconv.AppendInt(buf, int64(g), 10)
		buf = append(buf, ',')
	}
	return string(buf)
}

// clusterEntropy 种群在这组基因上的联合熵（以 2 为底）
func (m *entropyMetric) clusterEntropy(c Cluster) float64 {
	key := clusterKey(c)
	if v, exists := m.entropy[key]; exists {
		return v
	}

	occurrences := make(map[string]int)
	buf := make([]byte, 0, 4*len(c))
	for _, row := range m.shifts {
		buf = buf[:0]
		for _, g := range c {
			buf = strconv.AppendInt(buf, int64(row[g]), 10)
			buf = append(buf, ',')
		}
		occurrences[string(buf)]++
	}

	total := float64(len(m.shifts))
	p := make([]float64, 0, len(occurrences))
	for _, cnt := range occurrences {
		p = append(p, float64(cnt)/total)
	}
	h := stat.Entropy(p) / math.Ln2

	m.entropy[key] = h
	return h
}

// clusterDistance 2 - (H(c1) + H(c2)) / H(c1 ∪ c2)，取值范围 [0, 2]
func (m *entropyMetric) clusterDistance(c1, c2 Cluster) float64 {
	union := make(Cluster, 0, len(c1)+len(c2))
	union = append(union, c1...)
	union = append(union, c2...)

	joint := m.clusterEntropy(union)
	if joint == 0 {
		// 只会出现 0/0 的情况
		return 2
	}
	return 2 - (m.clusterEntropy(c1)+m.clusterEntropy(c2))/joint
}

// pairwiseDistance 用单基因之间距离的平均值近似簇距离
func (m *entropyMetric) pairwiseDistance(c1, c2 Cluster) float64 {
	sum := 0.0
	for _, a := range c1 {
		for _, b := range c2 {
			key := [2]int{min(a, b), max(a, b)}
			d, exists := m.pairwise[key]
			if !exists {
				d = m.clusterDistance(Cluster{a}, Cluster{b})
				m.pairwise[key] = d
			}
			sum += d
		}
	}
	return sum / float64(len(c1)*len(c2))
}
