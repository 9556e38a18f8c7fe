package repository

import (
	"encoding/json"
	"os"

	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/domain"
)

// SaveProblemFile 把实例保存为 JSON 文件，方便在多次实验之间复用
func SaveProblemFile(path string, p *domain.Problem) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func LoadProblemFile(path string) (*domain.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	p := &domain.Problem{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, err
	}
	return p, nil
}
