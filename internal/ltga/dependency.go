package ltga

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DependencyMetric 结合问题数据（可行班次）和种群统计，估计两个活动的排班决策之间的依赖程度
//
// 对活动 n, m：
//   - pi_nm = |F(n) ∩ F(m)| / (|F(n)| * |F(m)|)，两个活动被分到同一个班次的先验概率
//   - x_nm 为种群中 n, m 被分到同一个班次的个体数
//   - 度量 = stat * (w + (1 - w) * branch)，x_nm 超过期望时 branch 为区间依赖，否则为外部依赖
//
// 所有数值上的退化情况（除零、log 0 等）都返回 1，即“没有证据表明两者无关”。
type DependencyMetric struct {
	shifts   [][]int
	genes    [][]float64
	feasible [][]int
	w        float64

	measures *mat.SymDense
}

// NewDependencyMetric 对种群做快照并计算所有活动对的依赖度量，每一行并行计算
func NewDependencyMetric(pop Population, problem ProblemData, wDependency float64, workers int) (*DependencyMetric, error) {
	if len(pop) == 0 {
		return nil, fmt.Errorf("%w: 种群为空", ErrInvalidPopulation)
	}
	if problem == nil {
		return nil, errors.New("ltga: 依赖度量需要问题数据")
	}
	n := len(pop[0].Genes)
	if n < 2 {
		return nil, fmt.Errorf("%w: 至少需要 2 个基因位，实际为 %d", ErrInvalidPopulation, n)
	}

	d := &DependencyMetric{
		shifts:   shiftMatrix(pop),
		genes:    make([][]float64, len(pop)),
		feasible: make([][]int, n),
		w:        wDependency,
	}
	for i, ind := range pop {
		d.genes[i] = ind.Genes
	}
	for a := 0; a < n; a++ {
		d.feasible[a] = problem.FeasibleShifts(a)
	}

	rows := make([][]float64, n)
	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for a := 0; a < n; a++ {
		g.Go(func() error {
			row := make([]float64, n)
			for b := a + 1; b < n; b++ {
				row[b] = d.Measure(a, b)
			}
			rows[a] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.measures = mat.NewSymDense(n, nil)
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			d.measures.SetSym(a, b, rows[a][b])
		}
	}

	return d, nil
}

// ClusterDistance 两个簇之间所有活动对的依赖度量之和，越大越相关
func (d *DependencyMetric) ClusterDistance(c1, c2 Cluster) float64 {
	sum := 0.0
	for _, a := range c1 {
		for _, b := range c2 {
			sum += d.measures.At(a, b)
		}
	}
	return sum
}

// Measure 计算活动 n, m 之间的依赖度量
func (d *DependencyMetric) Measure(n, m int) float64 {
	pi, ok := d.Pi(n, m)
	if !ok {
		return 1
	}

	x := d.SameShiftCount(n, m)
	dependencyStat := DependencyStat(x, len(d.shifts), pi)

	var branch float64
	if float64(x) > float64(len(d.shifts))*pi {
		branch = d.IntervalDependency(n, m)
	} else {
		branch = d.ExternalDependency(n, m)
	}

	return dependencyStat * (d.w + (1-d.w)*branch)
}

// Pi 两个活动被分到同一个班次的概率，任意一方没有可行班次时 ok 为 false
func (d *DependencyMetric) Pi(n, m int) (pi float64, ok bool) {
	fn, fm := d.feasible[n], d.feasible[m]
	if len(fn) == 0 || len(fm) == 0 {
		return 0, false
	}

	inFn := make(map[int]struct{}, len(fn))
	for _, v := range fn {
		inFn[v] = struct{}{}
	}
	common := 0
	for _, v := range fm {
		if _, exists := inFn[v]; exists {
			common++
		}
	}

	return float64(common) / float64(len(fn)*len(fm)), true
}

// SameShiftCount 种群中活动 n, m 在同一个班次的个体数 x_nm
func (d *DependencyMetric) SameShiftCount(n, m int) int {
	cnt := 0
	for _, row := range d.shifts {
		if row[n] == row[m] {
			cnt++
		}
	}
	return cnt
}

// DependencyStat 双侧显著性统计量，X ~ Binomial(size, pi)：
//   - x > size*pi 时为 1 - (1 - P1) / (1 - P2)
//   - 否则为 1 - P1 / P2
//
// 其中 P1 = P(X <= x)，P2 = P(X <= size*pi)。结果在 [0, 1] 之内，退化时返回 1。
func DependencyStat(x, size int, pi float64) float64 {
	if size <= 0 || math.IsNaN(pi) || pi < 0 || pi > 1 {
		return 1
	}

	binomial := distuv.Binomial{N: float64(size), P: pi}
	expected := float64(size) * pi
	p1 := binomial.CDF(float64(x))
	p2 := binomial.CDF(math.Floor(expected))

	var score float64
	if float64(x) > expected {
		if 1-p2 <= 0 {
			return 1
		}
		score = 1 - (1-p1)/(1-p2)
	} else {
		if p2 <= 0 {
			return 1
		}
		score = 1 - p1/p2
	}

	switch {
	case math.IsNaN(score):
		return 1
	case score < 0:
		return 0
	case score > 1:
		return 1
	}
	return score
}

// IntervalDependency 在 n, m 同班次的个体中：
// 邻接信息 1 - mean((g_n - g_m)^2) 乘以相对顺序信息 1 - H(n 在 m 之前的比例)
func (d *DependencyMetric) IntervalDependency(n, m int) float64 {
	same, before := 0, 0
	squared := 0.0
	for r, row := range d.shifts {
		if row[n] != row[m] {
			continue
		}
		same++
		gn, gm := d.genes[r][n], d.genes[r][m]
		if gn < gm {
			before++
		}
		squared += (gn - gm) * (gn - gm)
	}
	if same == 0 {
		return 1
	}

	p := float64(before) / float64(same)
	orderingInfo := 1 - binaryEntropy(p)
	adjacencyInfo := 1 - squared/float64(same)

	return adjacencyInfo * orderingInfo
}

// ExternalDependency 近似的互信息：对所有可行班次组合 (v, w) 累加
// (q_vw / P) * log_minC(P * q_vw / (q_v * q_w))，minC 为两个可行班次集合中较小的大小
func (d *DependencyMetric) ExternalDependency(n, m int) float64 {
	fn, fm := d.feasible[n], d.feasible[m]
	minC := min(len(fn), len(fm))
	if minC < 2 {
		// 以 1 为底的对数没有意义
		return 1
	}

	qn := make(map[int]int)
	qm := make(map[int]int)
	joint := make(map[[2]int]int)
	for _, row := range d.shifts {
		qn[row[n]]++
		qm[row[m]]++
		joint[[2]int{row[n], row[m]}]++
	}

	size := float64(len(d.shifts))
	logBase := math.Log(float64(minC))
	score := 0.0
	for _, v := range fn {
		for _, w := range fm {
			q := joint[[2]int{v, w}]
			if q == 0 {
				// q log q 在 q -> 0 时的极限为 0
				continue
			}
			ratio := size * float64(q) / (float64(qn[v]) * float64(qm[w]))
			score += float64(q) / size * math.Log(ratio) / logBase
		}
	}

	return score
}

func binaryEntropy(p float64) float64 {
	return stat.Entropy([]float64{p, 1 - p}) / math.Ln2
}
