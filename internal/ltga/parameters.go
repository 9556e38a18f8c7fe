package ltga

import (
	"fmt"
)

// Distance 聚类距离的度量方式
type Distance string

const (
	DistanceClusterEntropy  Distance = "cluster_entropy"
	DistancePairwiseEntropy Distance = "pairwise_entropy"
	DistanceDependency      Distance = "dependency"
)

func ParseDistance(s string) (Distance, error) {
	switch d := Distance(s); d {
	case DistanceClusterEntropy, DistancePairwiseEntropy, DistanceDependency:
		return d, nil
	}
	return "", fmt.Errorf("%w: 未知的距离度量 %q", ErrInvalidParameters, s)
}

// Linkage 熵距离越小越相关，依赖度量越大越相关
func (d Distance) Linkage() Linkage {
	if d == DistanceDependency {
		return MaxAffinity
	}
	return MinDistance
}

// Linkage 决定建树时哪一对簇被认为“最相关”
type Linkage int

const (
	MinDistance Linkage = iota
	MaxAffinity
)

func (l Linkage) better(a, b float64) bool {
	if l == MaxAffinity {
		return a > b
	}
	return a < b
}

// Ordering 掩码的使用顺序
type Ordering string

const (
	OrderingLeastLinkedFirst Ordering = "least_linked_first"
	OrderingSmallestFirst    Ordering = "smallest_first"
)

func ParseOrdering(s string) (Ordering, error) {
	switch o := Ordering(s); o {
	case OrderingLeastLinkedFirst, OrderingSmallestFirst:
		return o, nil
	}
	return "", fmt.Errorf("%w: 未知的掩码顺序 %q", ErrInvalidParameters, s)
}

func (o Ordering) Apply(subtrees []Cluster) []Cluster {
	if o == OrderingSmallestFirst {
		return SmallestFirst(subtrees)
	}
	return LeastLinkedFirst(subtrees)
}

// Crossover 重组方式
type Crossover string

const (
	CrossoverRecombination Crossover = "recombination"
	CrossoverTwoParent     Crossover = "two_parent"
	CrossoverGlobal        Crossover = "global"
)

func ParseCrossover(s string) (Crossover, error) {
	switch c := Crossover(s); c {
	case CrossoverRecombination, CrossoverTwoParent, CrossoverGlobal:
		return c, nil
	}
	return "", fmt.Errorf("%w: 未知的重组方式 %q", ErrInvalidParameters, s)
}

// Acceptance 候选个体替换父代的条件
type Acceptance string

const (
	AcceptNotWorse       Acceptance = "not_worse"
	AcceptStrictlyBetter Acceptance = "strictly_better"
)

func ParseAcceptance(s string) (Acceptance, error) {
	switch a := Acceptance(s); a {
	case AcceptNotWorse, AcceptStrictlyBetter:
		return a, nil
	}
	return "", fmt.Errorf("%w: 未知的接受策略 %q", ErrInvalidParameters, s)
}

// Accept 成本越小越好
func (a Acceptance) Accept(candidate, incumbent float64) bool {
	if a == AcceptStrictlyBetter {
		return candidate < incumbent
	}
	return candidate <= incumbent
}

// LTGA 参数
type Parameters struct {
	PopulationSize int        // 种群大小
	MaxGenerations int        // 最大迭代次数，0 表示直到收敛
	Distance       Distance   // 距离度量
	Ordering       Ordering   // 掩码顺序
	Crossover      Crossover  // 重组方式
	Acceptance     Acceptance // 接受策略
	WDependency    float64    // 依赖度量中统计量与区间/外部依赖之间的权重
	Workers        int        // 计算依赖矩阵的并发数，0 表示不限制
}

func (p *Parameters) Validate() error {
	if _, err := ParseDistance(string(p.Distance)); err != nil {
		return err
	}
	if _, err := ParseOrdering(string(p.Ordering)); err != nil {
		return err
	}
	if _, err := ParseCrossover(string(p.Crossover)); err != nil {
		return err
	}
	if _, err := ParseAcceptance(string(p.Acceptance)); err != nil {
		return err
	}
	if p.PopulationSize < 2 {
		return fmt.Errorf("%w: 种群大小至少为 2，实际为 %d", ErrInvalidParameters, p.PopulationSize)
	}
	if p.Crossover == CrossoverTwoParent && p.PopulationSize%2 != 0 {
		return fmt.Errorf("%w: 双亲交叉要求种群大小为偶数，实际为 %d", ErrInvalidParameters, p.PopulationSize)
	}
	if p.MaxGenerations < 0 {
		return fmt.Errorf("%w: 最大迭代次数不能为负数", ErrInvalidParameters)
	}
	if p.WDependency < 0 || p.WDependency > 1 {
		return fmt.Errorf("%w: w_dependency 必须在 [0, 1] 之间，实际为 %g", ErrInvalidParameters, p.WDependency)
	}
	if p.Workers < 0 {
		return fmt.Errorf("%w: 并发数不能为负数", ErrInvalidParameters)
	}
	return nil
}
