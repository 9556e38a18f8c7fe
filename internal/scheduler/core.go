package scheduler

import (
	"context"
	"fmt"

	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/domain"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/ltga"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/utils"
)

// initialPopulation 随机生成初始种群，每个个体只评估一次
func (s *Scheduler) initialPopulation(ctx context.Context) (ltga.Population, error) {
	pop := make(ltga.Population, s.parameters.PopulationSize)
	for i := range pop {
		genes := utils.GenerateRandomGenes(s.rng, s.problem)
		fitness, err := s.fitness.Evaluate(ctx, genes)
		if err != nil {
			return nil, fmt.Errorf("评估初始个体 %d 失败: %w", i, err)
		}

		pop[i] = ltga.NewIndividual(genes)
		pop[i].SetFitness(fitness)
	}
	return pop, nil
}

// onGeneration 记录每一代的摘要
func (s *Scheduler) onGeneration(history *[]domain.GenerationSummary) func(ltga.GenerationStats) {
	return func(stats ltga.GenerationStats) {
		s.logger.Info("一代结束",
			"generation", stats.Generation,
			"masks", stats.Masks,
			"evaluations", stats.Evaluations,
			"distinct", stats.Distinct,
			"best", stats.BestFitness,
			"converged", stats.Converged,
		)
		*history = append(*history, domain.GenerationSummary{
			Generation:  stats.Generation,
			Masks:       stats.Masks,
			Evaluations: stats.Evaluations,
			Distinct:    stats.Distinct,
			BestFitness: stats.BestFitness,
		})
	}
}
