package fitness

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/domain"
)

// HHCRSP 家庭护理路线与排班问题的适应度函数。
// 基因的整数部分是班次，小数部分是该活动在班次内的优先级，优先级小的先访问。
type HHCRSP struct {
	problem *domain.Problem
}

func NewHHCRSP(problem *domain.Problem) *HHCRSP {
	return &HHCRSP{problem: problem}
}

type visit struct {
	activity int
	priority float64
}

// assign 把基因组解码成每个班次的访问顺序
func (f *HHCRSP) assign(genes []float64) (map[int][]visit, error) {
	p := f.problem
	if len(genes) != p.Activities {
		return nil, fmt.Errorf("%w: 基因数为 %d，活动数为 %d", ErrInvalidGenes, len(genes), p.Activities)
	}

	routes := make(map[int][]visit)
	for a, gene := range genes {
		if math.IsNaN(gene) || math.IsInf(gene, 0) {
			return nil, fmt.Errorf("%w: 活动 %d 的基因为 %v", ErrInvalidGenes, a, gene)
		}
		shift := int(math.Floor(gene))
		if shift < 0 || shift >= p.Shifts {
			return nil, fmt.Errorf("%w: 活动 %d 被安排到不存在的班次 %d", ErrInvalidGenes, a, shift)
		}
		if !p.Feasible[a][shift] {
			return nil, fmt.Errorf("%w: 活动 %d 不能安排在班次 %d", ErrInvalidGenes, a, shift)
		}
		routes[shift] = append(routes[shift], visit{activity: a, priority: gene - float64(shift)})
	}

	for _, visits := range routes {
		// 优先级相同时按活动编号
		slices.SortStableFunc(visits, func(x, y visit) int {
			return cmp.Compare(x.priority, y.priority)
		})
	}
	return routes, nil
}

// route 计算一个班次的路线
func (f *HHCRSP) route(shift int, visits []visit) domain.Route {
	p := f.problem
	first := visits[0].activity

	r := domain.Route{
		Shift:      shift,
		Activities: make([]int, 0, len(visits)),
		Arrivals:   make([]float64, 0, len(visits)),
		Start:      max(0, p.Start[first]-p.TravelTime(domain.Depot, domain.Node(first))),
	}

	t := r.Start
	prev := domain.Depot
	for _, v := range visits {
		a := v.activity
		leg := p.TravelTime(prev, domain.Node(a))
		r.Travel += leg

		arrival := t + leg
		if arrival < p.Start[a] {
			r.Waiting += p.Start[a] - arrival
			arrival = p.Start[a]
		}
		if arrival > p.End[a] {
			r.Late++
		}

		r.Activities = append(r.Activities, a)
		r.Arrivals = append(r.Arrivals, arrival)
		t = arrival + p.Duration[a]
		prev = domain.Node(a)
	}

	back := p.TravelTime(prev, domain.Depot)
	r.Travel += back
	r.End = t + back
	r.Overtime = max(0, r.End-(r.Start+p.ShiftDuration[shift]))

	return r
}

// Decode 把基因组解码成完整的排班
func (f *HHCRSP) Decode(genes []float64) (domain.Schedule, error) {
	routes, err := f.assign(genes)
	if err != nil {
		return domain.Schedule{}, err
	}

	shifts := make([]int, 0, len(routes))
	for s := range routes {
		shifts = append(shifts, s)
	}
	slices.Sort(shifts)

	schedule := domain.Schedule{
		Routes:   make([]domain.Route, 0, len(shifts)),
		Feasible: true,
	}
	for _, s := range shifts {
		r := f.route(s, routes[s])
		schedule.Routes = append(schedule.Routes, r)
		schedule.Travel += r.Travel
		schedule.Waiting += r.Waiting
		schedule.Overtime += r.Overtime
		if r.Overtime > 0 || r.Late > 0 {
			schedule.Feasible = false
		}
	}

	p := f.problem
	schedule.Cost = p.WX*schedule.Travel + p.WY*schedule.Overtime + p.WZ*schedule.Waiting
	return schedule, nil
}

// Evaluate 成本 = wx·行程 + wy·加班 + wz·等待
func (f *HHCRSP) Evaluate(_ context.Context, genes []float64) (float64, error) {
	schedule, err := f.Decode(genes)
	if err != nil {
		return 0, err
	}
	return schedule.Cost, nil
}

// SubProblemsSolved 排班没有加班并且所有活动都在时间窗内开始时为 [1]
func (f *HHCRSP) SubProblemsSolved(genes []float64) []int {
	schedule, err := f.Decode(genes)
	if err != nil || !schedule.Feasible {
		return []int{0}
	}
	return []int{1}
}
