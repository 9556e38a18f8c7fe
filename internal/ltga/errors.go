package ltga

import "errors"

var (
	// ErrInvalidPopulation 种群结构不合法（个体数量、基因长度不一致等），整个运行直接失败
	ErrInvalidPopulation = errors.New("ltga: 种群不合法")
	// ErrUnassignedFitness 个体在参与比较或聚类之前没有适应度
	ErrUnassignedFitness = errors.New("ltga: 个体尚未评估适应度")
	// ErrInvalidParameters 算法参数不合法
	ErrInvalidParameters = errors.New("ltga: 参数不合法")
	// ErrFitnessPending 上一个候选个体还没有回填适应度就请求了下一个
	ErrFitnessPending = errors.New("ltga: 上一个候选个体尚未回填适应度")
	// ErrNoCandidate 当前没有等待评估的候选个体
	ErrNoCandidate = errors.New("ltga: 没有等待评估的候选个体")
)
