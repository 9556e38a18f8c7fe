package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/config"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/repository"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/seed"
)

func main() {
	var op int
	var n int
	var storeDir string
	var importDir string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机实例, 2: 导入实例文件)")
	flag.IntVar(&n, "n", 5, "要插入的实例数量")
	flag.StringVar(&storeDir, "store", "./data/problems", "badger 数据目录，需要和 STORE_DIR 一致")
	flag.StringVar(&importDir, "dir", "./data/instances", "要导入的实例文件所在目录")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 打开问题存储
	store, err := repository.OpenProblemStore(storeDir)
	if err != nil {
		logger.Error("无法打开问题存储", "dir", storeDir, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的实例数量")
			return
		}

		// 读取生成参数
		cfg, err := config.LoadProblem()
		if err != nil {
			slog.Error("无法读取实例生成参数", slog.String("error", err.Error()))
			return
		}

		ids, err := seed.SeedRandomProblems(store, cfg.GenerateOptions, cfg.Seed, n)
		if err != nil {
			slog.Error("无法插入随机实例", slog.String("error", err.Error()))
		}
		slog.Info("插入随机实例成功", slog.Int("count", len(ids)), slog.Any("ids", ids))
	case 2:
		ids, err := seed.ImportProblemFiles(store, importDir)
		if err != nil {
			slog.Error("无法导入实例文件", slog.String("error", err.Error()))
		}
		slog.Info("导入实例文件成功", slog.Int("count", len(ids)), slog.Any("ids", ids))
	default:
		slog.Error("指定的操作非法")
	}
}
