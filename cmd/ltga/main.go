package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/config"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/domain"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/fitness"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/repository"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/utils"
	"golang.org/x/sync/errgroup"
)

type output struct {
	Problem string              `json:"problem"`
	Summary domain.RunSummary   `json:"summary"`
	Runs    []*domain.RunResult `json:"runs"`
}

func main() {
	var problemPath string
	var saveProblemPath string
	var outputPath string
	var runs int
	var verbose bool

	flag.StringVar(&problemPath, "problem", "", "实例文件，为空时按 PROBLEM_ 开头的环境变量随机生成")
	flag.StringVar(&saveProblemPath, "save-problem", "", "把使用的实例保存到这个文件")
	flag.StringVar(&outputPath, "o", "", "把运行结果保存到这个文件")
	flag.IntVar(&runs, "runs", 1, "独立运行的次数，第 i 次运行的种子为 LTGA_SEED+i")
	flag.BoolVar(&verbose, "v", false, "输出每一代的日志")
	flag.Parse()

	/**********************************************
	 * 创建 logger
	 **********************************************/
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	/**********************************************
	 * 读取算法参数
	 **********************************************/
	ltgaCfg, err := config.LoadLTGA()
	if err != nil {
		logger.Error("无法读取 LTGA 参数", "error", err)
		os.Exit(1)
	}
	if runs <= 0 {
		logger.Error("运行次数必须为正数", "runs", runs)
		os.Exit(1)
	}

	/**********************************************
	 * 准备实例
	 **********************************************/
	problem, err := loadProblem(problemPath)
	if err != nil {
		logger.Error("无法准备实例", "error", err)
		os.Exit(1)
	}
	if saveProblemPath != "" {
		if err := repository.SaveProblemFile(saveProblemPath, problem); err != nil {
			logger.Error("无法保存实例", "path", saveProblemPath, "error", err)
			os.Exit(1)
		}
	}

	/**********************************************
	 * 运行
	 **********************************************/
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := make([]*domain.RunResult, runs)
	g := errgroup.Group{}
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range runs {
		g.Go(func() error {
			rp := ltgaCfg.RunParameters()
			rp.Seed += int64(i)
			params, err := scheduler.NewParameters(rp)
			if err != nil {
				return err
			}

			s, err := scheduler.New(params, problem, fitness.NewHHCRSP(problem), logger.With("run", i))
			if err != nil {
				return err
			}
			results[i], err = s.Schedule(ctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("运行失败", "error", err)
		os.Exit(1)
	}

	/**********************************************
	 * 输出结果
	 **********************************************/
	out := output{
		Problem: problem.ID,
		Summary: scheduler.Summarize(results),
		Runs:    results,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out.Summary); err != nil {
		logger.Error("无法输出结果", "error", err)
		os.Exit(1)
	}

	if outputPath != "" {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			logger.Error("无法序列化结果", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			logger.Error("无法保存结果", "path", outputPath, "error", err)
			os.Exit(1)
		}
	}
}

func loadProblem(path string) (*domain.Problem, error) {
	if path != "" {
		p, err := repository.LoadProblemFile(path)
		if err != nil {
			return nil, err
		}
		return p, utils.ValidateProblem(p)
	}

	cfg, err := config.LoadProblem()
	if err != nil {
		return nil, err
	}
	p := utils.GenerateRandomProblem(rand.New(rand.NewSource(cfg.Seed)), cfg.GenerateOptions)
	p.ID = "generated"
	return p, utils.ValidateProblem(p)
}
