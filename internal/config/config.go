package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/domain"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/utils"
)

var ErrMissingConfiguration = errors.New("缺少配置项")

// MissingConfigurationError 必需的配置项没有设置
type MissingConfigurationError struct {
	Key string
}

func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("缺少配置项 %s", e.Key)
}

func (e *MissingConfigurationError) Is(target error) bool {
	return target == ErrMissingConfiguration
}

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Store struct {
		Dir string `env:"DIR" envDefault:"./data/problems"` // badger 数据目录
	} `envPrefix:"STORE_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		Queue          string `env:"QUEUE" envDefault:"ltga_run_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host            string `env:"HOST" envDefault:"localhost"`
		Port            int    `env:"PORT" envDefault:"6379"`
		Password        string `env:"PASSWORD,required"`
		ConnectTimeout  int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		CacheExpiration int    `env:"CACHE_EXPIRATION" envDefault:"3600"` // 适应度缓存的过期时间（秒）
	} `envPrefix:"REDIS_"`
	Worker struct {
		RunTimeout  int `env:"RUN_TIMEOUT" envDefault:"600"` // 单次运行的最长时间（秒），超时后在当前这一代结束时停止
		Concurrency int `env:"CONCURRENCY" envDefault:"1"`
	} `envPrefix:"WORKER_"`
}

// LTGA 一次实验运行的算法参数，除迭代次数和并发数外都必须显式给出
type LTGA struct {
	PopulationSize int     `env:"POPULATION_SIZE,required" validate:"gte=2"`
	MaxGenerations int     `env:"MAX_GENERATIONS" envDefault:"0" validate:"gte=0"`
	Distance       string  `env:"DISTANCE,required" validate:"oneof=cluster_entropy pairwise_entropy dependency"`
	Ordering       string  `env:"ORDERING,required" validate:"oneof=least_linked_first smallest_first"`
	Crossover      string  `env:"CROSSOVER,required" validate:"oneof=recombination two_parent global"`
	Acceptance     string  `env:"ACCEPTANCE,required" validate:"oneof=not_worse strictly_better"`
	WDependency    float64 `env:"W_DEPENDENCY,required" validate:"gte=0,lte=1"`
	Workers        int     `env:"WORKERS" envDefault:"0" validate:"gte=0"`
	Seed           int64   `env:"SEED,required"`
}

func (c *LTGA) RunParameters() domain.RunParameters {
	return domain.RunParameters{
		PopulationSize: c.PopulationSize,
		MaxGenerations: c.MaxGenerations,
		Distance:       c.Distance,
		Ordering:       c.Ordering,
		Crossover:      c.Crossover,
		Acceptance:     c.Acceptance,
		WDependency:    c.WDependency,
		Workers:        c.Workers,
		Seed:           c.Seed,
	}
}

// Problem 随机生成实例的参数
type Problem struct {
	utils.GenerateOptions
	Seed int64 `env:"SEED" envDefault:"1"`
}

// firstError 只返回第一个错误使得日志更清晰，缺少配置项时转换成 MissingConfigurationError
func firstError(err error) error {
	aggErr := env.AggregateError{}
	if ok := errors.As(err, &aggErr); ok && len(aggErr.Errors) > 0 {
		err = aggErr.Errors[0]
	}

	var notSet env.EnvVarIsNotSetError
	if errors.As(err, &notSet) {
		return &MissingConfigurationError{Key: notSet.Key}
	}
	var empty env.EmptyEnvVarError
	if errors.As(err, &empty) {
		return &MissingConfigurationError{Key: empty.Key}
	}
	return err
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, firstError(err)
	}

	return cfg, nil
}

// LoadLTGA 读取 LTGA_ 开头的环境变量并校验取值范围
func LoadLTGA() (*LTGA, error) {
	cfg := &LTGA{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "LTGA_"}); err != nil {
		return nil, firstError(err)
	}

	validate, trans, err := utils.NewValidator()
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, utils.TranslateError(err, trans)
	}

	return cfg, nil
}

// LoadProblem 读取 PROBLEM_ 开头的环境变量
func LoadProblem() (*Problem, error) {
	cfg := &Problem{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "PROBLEM_"}); err != nil {
		return nil, firstError(err)
	}

	validate, trans, err := utils.NewValidator()
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(cfg.GenerateOptions); err != nil {
		return nil, utils.TranslateError(err, trans)
	}

	return cfg, nil
}
