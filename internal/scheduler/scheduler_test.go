package scheduler

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/domain"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/fitness"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/ltga"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/utils"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func testProblem() *domain.Problem {
	return utils.GenerateRandomProblem(rand.New(rand.NewSource(2)), utils.GenerateOptions{
		Activities:  10,
		Shifts:      3,
		Threshold:   0.4,
		MaxD:        20,
		MaxP:        30,
		MaxStart:    200,
		MaxWindow:   60,
		MaxDuration: 300,
		WX:          1,
		WY:          5,
		WZ:          0.5,
	})
}

func testRunParameters() domain.RunParameters {
	return domain.RunParameters{
		PopulationSize: 12,
		MaxGenerations: 3,
		Distance:       "dependency",
		Ordering:       "least_linked_first",
		Crossover:      "recombination",
		Acceptance:     "not_worse",
		WDependency:    0.5,
		Seed:           17,
	}
}

func TestNewParameters(t *testing.T) {
	params, err := NewParameters(testRunParameters())
	require.NoError(t, err)
	assert.Equal(t, ltga.DistanceDependency, params.Distance)
	assert.Equal(t, ltga.OrderingLeastLinkedFirst, params.Ordering)
	assert.Equal(t, ltga.CrossoverRecombination, params.Crossover)
	assert.Equal(t, ltga.AcceptNotWorse, params.Acceptance)
	assert.Equal(t, int64(17), params.Seed)

	bad := testRunParameters()
	bad.Ordering = "random"
	_, err = NewParameters(bad)
	assert.ErrorIs(t, err, ltga.ErrInvalidParameters)

	bad = testRunParameters()
	bad.Crossover = "two_parent"
	bad.PopulationSize = 11
	_, err = NewParameters(bad)
	assert.ErrorIs(t, err, ltga.ErrInvalidParameters)
}

func TestScheduleVariants(t *testing.T) {
	problem := testProblem()
	hhcrsp := fitness.NewHHCRSP(problem)

	for _, distance := range []string{"cluster_entropy", "pairwise_entropy", "dependency"} {
		for _, crossover := range []string{"recombination", "two_parent", "global"} {
			t.Run(distance+"/"+crossover, func(t *testing.T) {
				rp := testRunParameters()
				rp.Distance = distance
				rp.Crossover = crossover
				params, err := NewParameters(rp)
				require.NoError(t, err)

				s, err := New(params, problem, nil, discard)
				require.NoError(t, err)

				result, err := s.Schedule(context.Background())
				require.NoError(t, err)

				cost, err := hhcrsp.Evaluate(context.Background(), result.BestGenes)
				require.NoError(t, err)
				assert.Equal(t, cost, result.BestFitness)
				assert.Equal(t, cost, result.Schedule.Cost)

				assert.GreaterOrEqual(t, result.Generations, 1)
				assert.LessOrEqual(t, result.Generations, 3)
				assert.Len(t, result.History, result.Generations)
				assert.Greater(t, result.Evaluations, rp.PopulationSize)
				for i := 1; i < len(result.History); i++ {
					assert.LessOrEqual(t, result.History[i].BestFitness, result.History[i-1].BestFitness)
				}
				require.NoError(t, utils.ValidateSchedule(&result.Schedule, problem))
			})
		}
	}
}

func TestScheduleDeterministic(t *testing.T) {
	problem := testProblem()
	params, err := NewParameters(testRunParameters())
	require.NoError(t, err)

	run := func() *domain.RunResult {
		s, err := New(params, problem, nil, discard)
		require.NoError(t, err)
		result, err := s.Schedule(context.Background())
		require.NoError(t, err)
		return result
	}

	a, b := run(), run()
	assert.Equal(t, a.BestGenes, b.BestGenes)
	assert.Equal(t, a.History, b.History)
	assert.Equal(t, a.Evaluations, b.Evaluations)
}

func TestScheduleWithCache(t *testing.T) {
	problem := testProblem()
	params, err := NewParameters(testRunParameters())
	require.NoError(t, err)

	plain, err := New(params, problem, nil, discard)
	require.NoError(t, err)
	want, err := plain.Schedule(context.Background())
	require.NoError(t, err)

	cached := fitness.Cached(fitness.NewHHCRSP(problem), fitness.NewMemoryCache())
	s, err := New(params, problem, cached, discard)
	require.NoError(t, err)
	got, err := s.Schedule(context.Background())
	require.NoError(t, err)

	assert.Equal(t, want.BestGenes, got.BestGenes)
	assert.Equal(t, want.BestFitness, got.BestFitness)
	assert.Equal(t, int64(got.Evaluations), cached.Hits()+cached.Misses())
}

func TestScheduleCancelledFinishesGeneration(t *testing.T) {
	problem := testProblem()
	rp := testRunParameters()
	rp.MaxGenerations = 0
	params, err := NewParameters(rp)
	require.NoError(t, err)

	s, err := New(params, problem, nil, discard)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Schedule(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generations)
	assert.NotEmpty(t, result.Schedule.Routes)
}

func TestNewRejectsInvalidProblem(t *testing.T) {
	params, err := NewParameters(testRunParameters())
	require.NoError(t, err)

	problem := testProblem()
	problem.Travel = problem.Travel[:3]
	_, err = New(params, problem, nil, discard)
	assert.Error(t, err)

	_, err = New(nil, testProblem(), nil, discard)
	assert.Error(t, err)
}
