package domain

import "time"

type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusFinished RunStatus = "finished"
	RunStatusFailed   RunStatus = "failed"
)

// RunParameters 一次 LTGA 运行的参数，取值范围和 ltga.Parameters 一致
type RunParameters struct {
	PopulationSize int     `json:"populationSize" validate:"required,gte=2"`
	MaxGenerations int     `json:"maxGenerations" validate:"gte=0"`
	Distance       string  `json:"distance" validate:"required,oneof=cluster_entropy pairwise_entropy dependency"`
	Ordering       string  `json:"ordering" validate:"required,oneof=least_linked_first smallest_first"`
	Crossover      string  `json:"crossover" validate:"required,oneof=recombination two_parent global"`
	Acceptance     string  `json:"acceptance" validate:"required,oneof=not_worse strictly_better"`
	WDependency    float64 `json:"wDependency" validate:"gte=0,lte=1"`
	Workers        int     `json:"workers" validate:"gte=0"`
	Seed           int64   `json:"seed"`
}

// Route 一个班次的路线
type Route struct {
	Shift      int       `json:"shift"`
	Activities []int     `json:"activities"` // 按访问顺序
	Arrivals   []float64 `json:"arrivals"`   // 每个活动开始服务的时刻
	Start      float64   `json:"start"`      // 离开仓库的时刻
	End        float64   `json:"end"`        // 回到仓库的时刻
	Travel     float64   `json:"travel"`
	Waiting    float64   `json:"waiting"`
	Overtime   float64   `json:"overtime"`
	Late       int       `json:"late"` // 超出时间窗结束的活动数
}

// Schedule 解码后的排班
type Schedule struct {
	Routes   []Route `json:"routes"`
	Travel   float64 `json:"travel"`
	Waiting  float64 `json:"waiting"`
	Overtime float64 `json:"overtime"`
	Cost     float64 `json:"cost"`
	Feasible bool    `json:"feasible"` // 没有加班并且没有活动晚于时间窗
}

// GenerationSummary 每一代结束时的摘要
type GenerationSummary struct {
	Generation  int     `json:"generation"`
	Masks       int     `json:"masks"`
	Evaluations int     `json:"evaluations"`
	Distinct    int     `json:"distinct"`
	BestFitness float64 `json:"bestFitness"`
}

type RunResult struct {
	BestFitness float64             `json:"bestFitness"`
	BestGenes   []float64           `json:"bestGenes"`
	Generations int                 `json:"generations"`
	Evaluations int                 `json:"evaluations"`
	Converged   bool                `json:"converged"`
	Schedule    Schedule            `json:"schedule"`
	History     []GenerationSummary `json:"history"`
	Elapsed     time.Duration       `json:"elapsed"`
}

type Run struct {
	ID         string        `json:"id"`
	ProblemID  string        `json:"problemID"`
	Status     RunStatus     `json:"status"`
	Parameters RunParameters `json:"parameters"`
	Result     *RunResult    `json:"result"`
	Error      string        `json:"error"`
	CreatedAt  time.Time     `json:"createdAt"`
	StartedAt  *time.Time    `json:"startedAt"`
	FinishedAt *time.Time    `json:"finishedAt"`
	Version    int32         `json:"-"`
}

// RunSummary 同一组参数多次运行的汇总
type RunSummary struct {
	Runs            int     `json:"runs"`
	BestFitness     float64 `json:"bestFitness"`
	MeanFitness     float64 `json:"meanFitness"`
	StdFitness      float64 `json:"stdFitness"`
	MeanEvaluations float64 `json:"meanEvaluations"`
	MeanGenerations float64 `json:"meanGenerations"`
	FeasibleRuns    int     `json:"feasibleRuns"`
}
