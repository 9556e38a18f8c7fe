package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/domain"
)

func TestSummarize(t *testing.T) {
	results := []*domain.RunResult{
		{BestFitness: 10, Evaluations: 100, Generations: 2, Schedule: domain.Schedule{Feasible: true}},
		{BestFitness: 14, Evaluations: 200, Generations: 4},
		{BestFitness: 12, Evaluations: 300, Generations: 3, Schedule: domain.Schedule{Feasible: true}},
	}

	s := Summarize(results)
	assert.Equal(t, 3, s.Runs)
	assert.Equal(t, 10.0, s.BestFitness)
	assert.InDelta(t, 12, s.MeanFitness, 1e-12)
	assert.InDelta(t, 2, s.StdFitness, 1e-12)
	assert.InDelta(t, 200, s.MeanEvaluations, 1e-12)
	assert.InDelta(t, 3, s.MeanGenerations, 1e-12)
	assert.Equal(t, 2, s.FeasibleRuns)

	assert.Equal(t, domain.RunSummary{}, Summarize(nil))
}
