package seed

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/repository"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/utils"
)

// SeedRandomProblems 生成 n 个随机实例，第 i 个实例使用种子 seed+i
func SeedRandomProblems(store *repository.ProblemStore, opts utils.GenerateOptions, seed int64, n int) ([]string, error) {
	ids := make([]string, 0, n)
	for i := range n {
		p := utils.GenerateRandomProblem(rand.New(rand.NewSource(seed+int64(i))), opts)
		if err := utils.ValidateProblem(p); err != nil {
			return ids, fmt.Errorf("第 %d 个实例不合法: %w", i, err)
		}
		if err := store.SaveProblem(p); err != nil {
			return ids, err
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// ImportProblemFiles 导入目录下所有的 .json 实例文件，不合法的文件会被跳过
func ImportProblemFiles(store *repository.ProblemStore, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		p, err := repository.LoadProblemFile(path)
		if err != nil {
			slog.Error("读取实例文件失败", "path", path, "error", err)
			continue
		}
		if err := utils.ValidateProblem(p); err != nil {
			slog.Error("实例不合法", "path", path, "error", err)
			continue
		}
		if p.ID == "" {
			// 没有 ID 时用文件名
			p.ID = strings.TrimSuffix(entry.Name(), ".json")
		}

		if err := store.SaveProblem(p); err != nil {
			return ids, err
		}
		ids = append(ids, p.ID)
	}

	slices.Sort(ids)
	return ids, nil
}
