package scheduler

import (
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/domain"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/ltga"
)

// NewParameters 把外部传入的字符串参数解析成 ltga 的枚举，并校验取值
func NewParameters(p domain.RunParameters) (*Parameters, error) {
	distance, err := ltga.ParseDistance(p.Distance)
	if err != nil {
		return nil, err
	}
	ordering, err := ltga.ParseOrdering(p.Ordering)
	if err != nil {
		return nil, err
	}
	crossover, err := ltga.ParseCrossover(p.Crossover)
	if err != nil {
		return nil, err
	}
	acceptance, err := ltga.ParseAcceptance(p.Acceptance)
	if err != nil {
		return nil, err
	}

	params := &Parameters{
		Parameters: ltga.Parameters{
			PopulationSize: p.PopulationSize,
			MaxGenerations: p.MaxGenerations,
			Distance:       distance,
			Ordering:       ordering,
			Crossover:      crossover,
			Acceptance:     acceptance,
			WDependency:    p.WDependency,
			Workers:        p.Workers,
		},
		Seed: p.Seed,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return params, nil
}
