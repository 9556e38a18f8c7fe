package ltga

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"maps"
	"math"
	"math/rand"
)

// State 引擎在一代中所处的阶段
type State int

const (
	StateBuildingTree State = iota
	StateRecombining
	StateCheckingConvergence
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateBuildingTree:
		return "building_tree"
	case StateRecombining:
		return "recombining"
	case StateCheckingConvergence:
		return "checking_convergence"
	case StateTerminated:
		return "terminated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// GenerationStats 每一代结束时的统计
type GenerationStats struct {
	Generation  int
	Masks       int
	Evaluations int // 本代评估的候选个体数
	Distinct    int
	BestFitness float64
	Converged   bool
}

// Engine: LTGA 的代循环，以 ask/tell 的方式与适应度评估交互
//
//	for engine.Next() {
//		candidate := engine.Candidate()
//		if err := engine.Tell(evaluate(candidate.Genes)); err != nil { ... }
//	}
//	if err := engine.Err(); err != nil { ... }
//
// 同一时刻最多只有一个候选个体在等待评估，评估函数可以是有状态、不可重入的。
// 引擎不是并发安全的。
type Engine struct {
	params     Parameters
	problem    ProblemData
	rng        *rand.Rand
	population Population

	state         State
	generation    int
	evaluations   int
	stopRequested bool

	next    func() (*Individual, bool)
	stop    func()
	pending *Individual
	err     error

	// OnGeneration 在每一代结束时调用
	OnGeneration func(GenerationStats)
}

// NewEngine 初始种群中每个个体都必须已经评估过适应度
func NewEngine(initial Population, problem ProblemData, params Parameters, rng *rand.Rand) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	if len(initial) != params.PopulationSize {
		return nil, fmt.Errorf("%w: 初始种群大小为 %d，参数要求 %d", ErrInvalidPopulation, len(initial), params.PopulationSize)
	}
	if params.Distance == DistanceDependency && problem == nil {
		return nil, errors.New("ltga: 依赖度量需要问题数据")
	}
	if rng == nil {
		return nil, errors.New("ltga: 随机数生成器未初始化")
	}

	e := &Engine{
		params:     params,
		problem:    problem,
		rng:        rng,
		population: initial.Clone(),
		state:      StateBuildingTree,
	}
	e.next, e.stop = iter.Pull(e.generations)

	return e, nil
}

// generations 代循环：建树 -> 重组 -> 收敛检查
func (e *Engine) generations(yield func(*Individual) bool) {
	defer func() {
		e.state = StateTerminated
	}()

	before := e.population.Distinct()
	for {
		e.state = StateBuildingTree
		masks, err := e.buildMasks()
		if err != nil {
			e.err = err
			return
		}

		e.state = StateRecombining
		evaluations := e.evaluations
		for candidate := range e.crossover(masks) {
			if !yield(candidate) {
				return
			}
		}

		e.state = StateCheckingConvergence
		e.generation++
		current := e.population.Distinct()
		// 种群只剩一个基因组，或者一整代下来基因组集合没有任何变化
		converged := len(current) == 1 || maps.Equal(current, before)

		if e.OnGeneration != nil {
			e.OnGeneration(GenerationStats{
				Generation:  e.generation,
				Masks:       len(masks),
				Evaluations: e.evaluations - evaluations,
				Distinct:    len(current),
				BestFitness: e.population.Best().Fitness,
				Converged:   converged,
			})
		}

		if converged || e.stopRequested {
			return
		}
		if e.params.MaxGenerations > 0 && e.generation >= e.params.MaxGenerations {
			return
		}
		before = current
	}
}

func (e *Engine) buildMasks() ([]Cluster, error) {
	distance, err := NewDistanceFunc(e.params.Distance, e.population, e.problem, e.params.WDependency, e.params.Workers)
	if err != nil {
		return nil, err
	}
	subtrees, err := BuildTree(len(e.population[0].Genes), distance, e.params.Distance.Linkage(), e.rng)
	if err != nil {
		return nil, err
	}
	return e.params.Ordering.Apply(subtrees), nil
}

// Next 推进到下一个需要评估的候选个体，运行结束或出错时返回 false
func (e *Engine) Next() bool {
	if e.err != nil || e.state == StateTerminated {
		return false
	}
	if e.pending != nil && !e.pending.Evaluated {
		e.err = ErrFitnessPending
		return false
	}

	e.pending = nil
	candidate, ok := e.next()
	if !ok {
		e.stop()
		return false
	}
	e.pending = candidate
	return true
}

// Candidate 当前等待评估的候选个体，调用方不能修改它的基因
func (e *Engine) Candidate() *Individual {
	if e.pending == nil || e.pending.Evaluated {
		return nil
	}
	return e.pending
}

// Tell 回填当前候选个体的适应度
func (e *Engine) Tell(fitness float64) error {
	if e.pending == nil || e.pending.Evaluated {
		return ErrNoCandidate
	}
	if math.IsNaN(fitness) {
		return fmt.Errorf("%w: 适应度为 NaN", ErrUnassignedFitness)
	}
	e.pending.SetFitness(fitness)
	e.evaluations++
	return nil
}

// Stop 请求在当前这一代结束后停止，不会打断正在进行的重组
func (e *Engine) Stop() {
	e.stopRequested = true
}

// Close 释放迭代器，提前放弃运行时必须调用
func (e *Engine) Close() {
	e.stop()
	e.state = StateTerminated
}

func (e *Engine) Err() error {
	return e.err
}

func (e *Engine) State() State {
	return e.state
}

func (e *Engine) Generation() int {
	return e.generation
}

func (e *Engine) Evaluations() int {
	return e.evaluations
}

// Population 当前种群的副本
func (e *Engine) Population() Population {
	return e.population.Clone()
}

// EvaluateFunc 适应度评估
type EvaluateFunc func(ctx context.Context, genes []float64) (float64, error)

// Run 用 evaluate 驱动引擎直到终止，ctx 结束后会在当前这一代完成时停止。
// 评估出错时整个运行失败。
func (e *Engine) Run(ctx context.Context, evaluate EvaluateFunc) (Population, error) {
	defer e.Close()

	for e.Next() {
		if ctx.Err() != nil {
			e.Stop()
		}
		candidate := e.Candidate()
		fitness, err := evaluate(context.WithoutCancel(ctx), candidate.Genes)
		if err != nil {
			return nil, fmt.Errorf("评估候选个体失败: %w", err)
		}
		if err := e.Tell(fitness); err != nil {
			return nil, err
		}
	}
	if err := e.Err(); err != nil {
		return nil, err
	}

	return e.Population(), nil
}
