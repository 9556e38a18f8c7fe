package repository

import (
	"database/sql"

	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/config"
)

// Repository 运行记录保存在 PostgreSQL 中
type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}
