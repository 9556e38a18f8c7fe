package scheduler

import (
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summarize 汇总多次运行的结果
func Summarize(results []*domain.RunResult) domain.RunSummary {
	summary := domain.RunSummary{Runs: len(results)}
	if len(results) == 0 {
		return summary
	}

	best := make([]float64, len(results))
	evaluations := make([]float64, len(results))
	generations := make([]float64, len(results))
	for i, r := range results {
		best[i] = r.BestFitness
		evaluations[i] = float64(r.Evaluations)
		generations[i] = float64(r.Generations)
		if r.Schedule.Feasible {
			summary.FeasibleRuns++
		}
	}

	summary.BestFitness = floats.Min(best)
	summary.MeanFitness, summary.StdFitness = stat.MeanStdDev(best, nil)
	summary.MeanEvaluations = stat.Mean(evaluations, nil)
	summary.MeanGenerations = stat.Mean(generations, nil)
	return summary
}
