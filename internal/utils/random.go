package utils

import (
	"math/rand"

	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/domain"
)

// GenerateOptions 随机生成 HHCRSP 实例的参数，时间都是整数
type GenerateOptions struct {
	Activities  int     `json:"activities" env:"ACTIVITIES" envDefault:"20" validate:"gte=2,lte=1000"`
	Shifts      int     `json:"shifts" env:"SHIFTS" envDefault:"4" validate:"gte=1,lte=100"`
	Threshold   float64 `json:"threshold" env:"THRESHOLD" envDefault:"0.5" validate:"gte=0,lt=1"` // 活动在某个班次可行的概率为 1 - threshold
	MaxD        int     `json:"maxD" env:"MAX_D" envDefault:"30" validate:"gte=0"`                // 行程时间上限
	MaxP        int     `json:"maxP" env:"MAX_P" envDefault:"60" validate:"gte=1"`                // 服务时长上限
	MaxStart    int     `json:"maxStart" env:"MAX_START" envDefault:"480" validate:"gte=0"`       // 时间窗开始的上限
	MaxWindow   int     `json:"maxWindow" env:"MAX_WINDOW_SIZE" envDefault:"120" validate:"gte=1"`
	MaxDuration int     `json:"maxDuration" env:"MAX_DURATION" envDefault:"480" validate:"gte=1"` // 班次工作时长上限
	WX          float64 `json:"wx" env:"W_X,required" validate:"gte=0"`
	WY          float64 `json:"wy" env:"W_Y,required" validate:"gte=0"`
	WZ          float64 `json:"wz" env:"W_Z,required" validate:"gte=0"`
}

// randInt 闭区间 [lo, hi] 上的均匀整数
func randInt(rng *rand.Rand, lo, hi int) float64 {
	return float64(lo + rng.Intn(hi-lo+1))
}

// GenerateRandomProblem 生成一个随机实例，每个活动至少有一个可行班次
func GenerateRandomProblem(rng *rand.Rand, opts GenerateOptions) *domain.Problem {
	n, v := opts.Activities, opts.Shifts
	p := &domain.Problem{
		Activities:    n,
		Shifts:        v,
		Feasible:      make([][]bool, n),
		Travel:        make([][]float64, n+1),
		Start:         make([]float64, n),
		End:           make([]float64, n),
		Duration:      make([]float64, n),
		ShiftDuration: make([]float64, v),
		WX:            opts.WX,
		WY:            opts.WY,
		WZ:            opts.WZ,
	}

	for i := range n {
		row := make([]bool, v)
		hasFeasible := false
		for s := range v {
			row[s] = rng.Float64() > opts.Threshold
			hasFeasible = hasFeasible || row[s]
		}
		if !hasFeasible {
			row[rng.Intn(v)] = true
		}
		p.Feasible[i] = row
	}

	// 对称的行程矩阵，对角线为 0
	for i := range n + 1 {
		p.Travel[i] = make([]float64, n+1)
	}
	for i := range n + 1 {
		for j := i + 1; j <= n; j++ {
			d := randInt(rng, 0, opts.MaxD)
			p.Travel[i][j] = d
			p.Travel[j][i] = d
		}
	}

	for i := range n {
		p.Start[i] = randInt(rng, 0, opts.MaxStart)
		p.End[i] = p.Start[i] + randInt(rng, 1, opts.MaxWindow)
		p.Duration[i] = randInt(rng, 1, opts.MaxP)
	}
	for s := range v {
		p.ShiftDuration[s] = randInt(rng, 1, opts.MaxDuration)
	}

	return p
}

// GenerateRandomGenes 每个活动随机选一个可行班次，再加上 [0, 1) 的优先级
func GenerateRandomGenes(rng *rand.Rand, problem *domain.Problem) []float64 {
	genes := make([]float64, problem.Activities)
	for i := range genes {
		shifts := problem.FeasibleShifts(i)
		shift := shifts[rng.Intn(len(shifts))]
		genes[i] = float64(shift) + rng.Float64()
	}
	return genes
}
