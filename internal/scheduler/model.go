package scheduler

import "github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/ltga"

// 一次运行的参数
type Parameters struct {
	ltga.Parameters
	Seed int64 // 初始种群和引擎共用的随机种子
}
