package ltga

import (
	"iter"
	"slices"
)

// 每种重组方式都是一个按顺序产出候选个体的迭代器。
// yield 返回之后候选个体的适应度已经由调用方回填，迭代器据此决定是否接受。

func (e *Engine) crossover(masks []Cluster) iter.Seq[*Individual] {
	switch e.params.Crossover {
	case CrossoverTwoParent:
		return e.twoParentCrossover(masks)
	case CrossoverGlobal:
		return e.globalCrossover(masks)
	default:
		return e.recombination(masks)
	}
}

// recombination 单亲重组：随机顺序遍历种群，对每个个体依次应用所有掩码，
// 每次从其余个体中随机选一个供体，候选个体不差于当前个体时替换它
func (e *Engine) recombination(masks []Cluster) iter.Seq[*Individual] {
	return func(yield func(*Individual) bool) {
		pop := e.population
		e.shuffle(pop)

		for i := range pop {
			for _, mask := range masks {
				donor := pop[e.pickDonor(i, len(pop))]
				candidate := ApplyMask(pop[i], donor, mask)
				if !yield(candidate) {
					return
				}
				// 被替换后的个体作为下一个掩码的基准
				if e.params.Acceptance.Accept(candidate.Fitness, pop[i].Fitness) {
					pop[i] = candidate
				}
			}
		}
	}
}

// twoParentCrossover 双亲交叉：相邻个体配对，每个掩码产生两个互补的子代，
// 子代中较好的一个优于父代中较好的一个时，两个子代替换两个父代。
// 整个过程做两轮，每对留下较好的个体，凑成新的种群。
func (e *Engine) twoParentCrossover(masks []Cluster) iter.Seq[*Individual] {
	return func(yield func(*Individual) bool) {
		pop := e.population
		offspring := make(Population, 0, len(pop))

		for range 2 {
			e.shuffle(pop)
			for i := 0; i+1 < len(pop); i += 2 {
				p1, p2 := pop[i], pop[i+1]
				for _, mask := range masks {
					c1 := ApplyMask(p1, p2, mask)
					c2 := ApplyMask(p2, p1, mask)
					if !yield(c1) || !yield(c2) {
						return
					}
					if e.params.Acceptance.Accept(betterOf(c1, c2).Fitness, betterOf(p1, p2).Fitness) {
						p1, p2 = c1, c2
					}
				}
				pop[i], pop[i+1] = p1, p2
				offspring = append(offspring, betterOf(p1, p2))
			}
		}

		copy(pop, offspring)
	}
}

// globalCrossover 全局交叉：对每个掩码，从整个种群中随机挑一个与当前个体不同的取值覆盖上去，
// 被接受则保留，否则保持原样
func (e *Engine) globalCrossover(masks []Cluster) iter.Seq[*Individual] {
	return func(yield func(*Individual) bool) {
		pop := e.population

		values := make([][][]float64, len(masks))
		for k, mask := range masks {
			values[k] = make([][]float64, len(pop))
			for i, ind := range pop {
				values[k][i] = maskValues(ind, mask)
			}
		}

		for i := range pop {
			for k, mask := range masks {
				current := maskValues(pop[i], mask)
				var options [][]float64
				for _, v := range values[k] {
					if !slices.Equal(v, current) {
						options = append(options, v)
					}
				}
				if len(options) == 0 {
					continue
				}

				candidate := pop[i].Clone()
				setMaskValues(candidate, mask, options[e.rng.Intn(len(options))])
				if !yield(candidate) {
					return
				}
				if e.params.Acceptance.Accept(candidate.Fitness, pop[i].Fitness) {
					pop[i] = candidate
				}
			}
		}
	}
}

// pickDonor 在 [0, size) 中随机选一个不等于 i 的下标
func (e *Engine) pickDonor(i, size int) int {
	j := e.rng.Intn(size - 1)
	if j >= i {
		j++
	}
	return j
}

func (e *Engine) shuffle(pop Population) {
	e.rng.Shuffle(len(pop), func(i, j int) {
		pop[i], pop[j] = pop[j], pop[i]
	})
}
