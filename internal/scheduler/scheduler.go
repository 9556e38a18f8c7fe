package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/domain"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/fitness"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/ltga"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/utils"
)

type Scheduler struct {
	parameters *Parameters
	problem    *domain.Problem
	fitness    fitness.Function
	decoder    *fitness.HHCRSP // 只用来把最优个体解码成排班
	logger     *slog.Logger
	rng        *rand.Rand
}

// New fn 为 nil 时直接使用 HHCRSP 适应度函数
func New(parameters *Parameters, problem *domain.Problem, fn fitness.Function, logger *slog.Logger) (*Scheduler, error) {
	if parameters == nil {
		return nil, errors.New("运行参数为空")
	}
	if err := parameters.Validate(); err != nil {
		return nil, err
	}
	if err := utils.ValidateProblem(problem); err != nil {
		return nil, fmt.Errorf("问题实例不合法: %w", err)
	}

	decoder := fitness.NewHHCRSP(problem)
	if fn == nil {
		fn = decoder
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		parameters: parameters,
		problem:    problem,
		fitness:    fn,
		decoder:    decoder,
		logger:     logger,
		rng:        rand.New(rand.NewSource(parameters.Seed)),
	}, nil
}

// Schedule 运行 LTGA 直到收敛、达到最大迭代次数或 ctx 结束。
// ctx 结束后仍会完成当前这一代，并返回目前为止最好的结果。
func (s *Scheduler) Schedule(ctx context.Context) (*domain.RunResult, error) {
	start := time.Now()

	pop, err := s.initialPopulation(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("已生成初始种群", "size", len(pop), "best", pop.Best().Fitness)

	engine, err := ltga.NewEngine(pop, s.problem, s.parameters.Parameters, s.rng)
	if err != nil {
		return nil, err
	}

	history := make([]domain.GenerationSummary, 0)
	converged := false
	onGeneration := s.onGeneration(&history)
	engine.OnGeneration = func(stats ltga.GenerationStats) {
		converged = stats.Converged
		onGeneration(stats)
	}

	final, err := engine.Run(ctx, s.fitness.Evaluate)
	if err != nil {
		return nil, err
	}

	best := final.Best()
	schedule, err := s.decoder.Decode(best.Genes)
	if err != nil {
		return nil, err
	}
	// 还需要检查一下结果是否满足约束条件
	if err := utils.ValidateSchedule(&schedule, s.problem); err != nil {
		return nil, err
	}

	result := &domain.RunResult{
		BestFitness: best.Fitness,
		BestGenes:   best.Genes,
		Generations: engine.Generation(),
		Evaluations: len(pop) + engine.Evaluations(),
		Converged:   converged,
		Schedule:    schedule,
		History:     history,
		Elapsed:     time.Since(start),
	}
	s.logger.Info("运行结束",
		"generations", result.Generations,
		"evaluations", result.Evaluations,
		"best", result.BestFitness,
		"feasible", schedule.Feasible,
		"elapsed", result.Elapsed,
	)

	return result, nil
}
