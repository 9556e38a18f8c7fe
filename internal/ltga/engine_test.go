package ltga

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// squaredDistance 到目标基因组的平方距离，成本越小越好
func squaredDistance(target []float64) EvaluateFunc {
	return func(_ context.Context, genes []float64) (float64, error) {
		sum := 0.0
		for i, g := range genes {
			sum += (g - target[i]) * (g - target[i])
		}
		return sum, nil
	}
}

func evaluatedPopulation(t *testing.T, evaluate EvaluateFunc, rows ...[]float64) Population {
	t.Helper()
	pop := make(Population, len(rows))
	for i, genes := range rows {
		fitness, err := evaluate(context.Background(), genes)
		require.NoError(t, err)
		pop[i] = evaluated(fitness, genes...)
	}
	return pop
}

func toyParameters(size int) Parameters {
	return Parameters{
		PopulationSize: size,
		MaxGenerations: 1,
		Distance:       DistanceDependency,
		Ordering:       OrderingLeastLinkedFirst,
		Crossover:      CrossoverRecombination,
		Acceptance:     AcceptNotWorse,
		WDependency:    0.5,
	}
}

// 4 个活动，2 个班次，8 个个体两两之间只差一个基因
var (
	toyProblem = feasibleTable{{0, 1}, {0, 1}, {0, 1}, {0, 1}}
	toyTarget  = []float64{0.1, 0.2, 1.3, 1.4}
	toyRows    = [][]float64{
		{0.1, 0.2, 1.3, 1.9},
		{0.1, 0.2, 1.8, 1.4},
		{0.1, 0.7, 1.3, 1.4},
		{0.6, 0.2, 1.3, 1.4},
		{1.1, 0.2, 1.3, 1.4},
		{0.1, 1.2, 1.3, 1.4},
		{0.1, 0.2, 0.3, 1.4},
		{0.1, 0.2, 1.3, 0.4},
	}
)

func TestEngineToyRun(t *testing.T) {
	evaluate := squaredDistance(toyTarget)
	initial := evaluatedPopulation(t, evaluate, toyRows...)
	initialBest := initial.Best().Fitness

	engine, err := NewEngine(initial, toyProblem, toyParameters(8), rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	final, err := engine.Run(context.Background(), evaluate)
	require.NoError(t, err)

	assert.Len(t, final, 8)
	assert.LessOrEqual(t, final.Best().Fitness, initialBest)
	// 4 个基因共 6 个掩码，每个个体应用一遍
	assert.Equal(t, 48, engine.Evaluations())
	assert.Equal(t, 1, engine.Generation())
	assert.Equal(t, StateTerminated, engine.State())
	assert.NoError(t, final.Validate())
}

func TestEngineVariantsNeverWorsenBest(t *testing.T) {
	evaluate := squaredDistance(toyTarget)

	for _, distance := range []Distance{DistanceClusterEntropy, DistancePairwiseEntropy, DistanceDependency} {
		for _, crossover := range []Crossover{CrossoverRecombination, CrossoverTwoParent, CrossoverGlobal} {
			for _, ordering := range []Ordering{OrderingLeastLinkedFirst, OrderingSmallestFirst} {
				name := string(distance) + "/" + string(crossover) + "/" + string(ordering)
				t.Run(name, func(t *testing.T) {
					initial := evaluatedPopulation(t, evaluate, toyRows...)
					params := toyParameters(8)
					params.Distance = distance
					params.Crossover = crossover
					params.Ordering = ordering
					params.MaxGenerations = 5

					engine, err := NewEngine(initial, toyProblem, params, rand.New(rand.NewSource(11)))
					require.NoError(t, err)

					best := initial.Best().Fitness
					engine.OnGeneration = func(stats GenerationStats) {
						assert.LessOrEqual(t, stats.BestFitness, best)
						best = stats.BestFitness
					}

					final, err := engine.Run(context.Background(), evaluate)
					require.NoError(t, err)
					assert.Len(t, final, 8)
					assert.LessOrEqual(t, final.Best().Fitness, initial.Best().Fitness)
					assert.LessOrEqual(t, engine.Generation(), 5)
				})
			}
		}
	}
}

func TestEngineIdenticalPopulationConverges(t *testing.T) {
	evaluate := squaredDistance([]float64{0, 0, 0})
	rows := make([][]float64, 4)
	for i := range rows {
		rows[i] = []float64{0.5, 1.5, 0.25}
	}
	initial := evaluatedPopulation(t, evaluate, rows...)

	params := toyParameters(4)
	params.Distance = DistanceClusterEntropy
	params.MaxGenerations = 0

	engine, err := NewEngine(initial, nil, params, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	var stats []GenerationStats
	engine.OnGeneration = func(s GenerationStats) {
		assert.Equal(t, StateCheckingConvergence, engine.State())
		stats = append(stats, s)
	}

	_, err = engine.Run(context.Background(), evaluate)
	require.NoError(t, err)

	require.Len(t, stats, 1)
	assert.True(t, stats[0].Converged)
	assert.Equal(t, 1, stats[0].Distinct)
	assert.Equal(t, 4, stats[0].Masks)
	assert.Equal(t, 16, stats[0].Evaluations)
	assert.Equal(t, StateTerminated, engine.State())
}

func TestEngineAskTellProtocol(t *testing.T) {
	evaluate := squaredDistance(toyTarget)
	initial := evaluatedPopulation(t, evaluate, toyRows...)

	engine, err := NewEngine(initial, toyProblem, toyParameters(8), rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	defer engine.Close()

	assert.Nil(t, engine.Candidate())
	assert.ErrorIs(t, engine.Tell(1), ErrNoCandidate)

	require.True(t, engine.Next())
	candidate := engine.Candidate()
	require.NotNil(t, candidate)
	assert.Len(t, candidate.Genes, 4)
	assert.False(t, candidate.Evaluated)

	assert.ErrorIs(t, engine.Tell(math.NaN()), ErrUnassignedFitness)
	require.NoError(t, engine.Tell(2))
	assert.Nil(t, engine.Candidate())
	assert.ErrorIs(t, engine.Tell(3), ErrNoCandidate)
	assert.Equal(t, 1, engine.Evaluations())

	require.True(t, engine.Next())
	assert.False(t, engine.Next())
	assert.ErrorIs(t, engine.Err(), ErrFitnessPending)
}

func TestEngineStopAtGenerationBoundary(t *testing.T) {
	evaluate := squaredDistance(toyTarget)
	initial := evaluatedPopulation(t, evaluate, toyRows...)
	params := toyParameters(8)
	params.MaxGenerations = 0

	engine, err := NewEngine(initial, toyProblem, params, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	defer engine.Close()

	evaluations := 0
	for engine.Next() {
		if evaluations == 0 {
			engine.Stop()
		}
		fitness, err := evaluate(context.Background(), engine.Candidate().Genes)
		require.NoError(t, err)
		require.NoError(t, engine.Tell(fitness))
		evaluations++
	}
	require.NoError(t, engine.Err())

	// 当前这一代仍然完整地执行完
	assert.Equal(t, 48, evaluations)
	assert.Equal(t, 1, engine.Generation())
	assert.Equal(t, StateTerminated, engine.State())
}

func TestEngineRunCancelledContext(t *testing.T) {
	evaluate := squaredDistance(toyTarget)
	initial := evaluatedPopulation(t, evaluate, toyRows...)
	params := toyParameters(8)
	params.MaxGenerations = 0

	engine, err := NewEngine(initial, toyProblem, params, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	final, err := engine.Run(ctx, func(ctx context.Context, genes []float64) (float64, error) {
		require.NoError(t, ctx.Err())
		return evaluate(ctx, genes)
	})
	require.NoError(t, err)
	assert.Len(t, final, 8)
	assert.Equal(t, 1, engine.Generation())
}

func TestEngineRunEvaluationError(t *testing.T) {
	evaluate := squaredDistance(toyTarget)
	initial := evaluatedPopulation(t, evaluate, toyRows...)

	engine, err := NewEngine(initial, toyProblem, toyParameters(8), rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = engine.Run(context.Background(), func(context.Context, []float64) (float64, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateTerminated, engine.State())
}

func TestEngineDeterministicWithSeed(t *testing.T) {
	evaluate := squaredDistance(toyTarget)

	run := func() []string {
		initial := evaluatedPopulation(t, evaluate, toyRows...)
		params := toyParameters(8)
		params.MaxGenerations = 3
		params.Workers = 2
		engine, err := NewEngine(initial, toyProblem, params, rand.New(rand.NewSource(42)))
		require.NoError(t, err)
		final, err := engine.Run(context.Background(), evaluate)
		require.NoError(t, err)

		keys := make([]string, len(final))
		for i, ind := range final {
			keys[i] = ind.Key()
		}
		return keys
	}

	assert.Equal(t, run(), run())
}

func TestNewEngineRejectsInvalidInput(t *testing.T) {
	evaluate := squaredDistance(toyTarget)
	rng := rand.New(rand.NewSource(1))

	t.Run("size mismatch", func(t *testing.T) {
		initial := evaluatedPopulation(t, evaluate, toyRows[:6]...)
		_, err := NewEngine(initial, toyProblem, toyParameters(8), rng)
		assert.ErrorIs(t, err, ErrInvalidPopulation)
	})

	t.Run("unassigned fitness", func(t *testing.T) {
		initial := evaluatedPopulation(t, evaluate, toyRows...)
		initial[3] = NewIndividual(toyRows[3])
		_, err := NewEngine(initial, toyProblem, toyParameters(8), rng)
		assert.ErrorIs(t, err, ErrUnassignedFitness)
	})

	t.Run("invalid parameters", func(t *testing.T) {
		initial := evaluatedPopulation(t, evaluate, toyRows...)
		params := toyParameters(8)
		params.Acceptance = ""
		_, err := NewEngine(initial, toyProblem, params, rng)
		assert.ErrorIs(t, err, ErrInvalidParameters)
	})

	t.Run("dependency without problem", func(t *testing.T) {
		initial := evaluatedPopulation(t, evaluate, toyRows...)
		_, err := NewEngine(initial, nil, toyParameters(8), rng)
		assert.Error(t, err)
	})

	t.Run("nil rng", func(t *testing.T) {
		initial := evaluatedPopulation(t, evaluate, toyRows...)
		_, err := NewEngine(initial, toyProblem, toyParameters(8), nil)
		assert.Error(t, err)
	})
}
