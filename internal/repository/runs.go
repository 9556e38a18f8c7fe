package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/domain"
)

func (r *Repository) CreateRun(run *domain.Run) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	parameters, err := json.Marshal(run.Parameters)
	if err != nil {
		return err
	}

	run.ID = uuid.NewString()
	run.Status = domain.RunStatusQueued

	query := `
		INSERT INTO runs (id, problem_id, status, parameters)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, version
	`

	return r.dbpool.QueryRowContext(ctx, query, run.ID, run.ProblemID, run.Status, parameters).Scan(&run.CreatedAt, &run.Version)
}

func (r *Repository) GetRun(id string) (*domain.Run, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			id,
			problem_id,
			status,
			parameters,
			result,
			error,
			created_at,
			started_at,
			finished_at,
			version
		FROM runs
		WHERE id = $1
	`

	var (
		run        domain.Run
		parameters []byte
		result     []byte
		startedAt  sql.NullTime
		finishedAt sql.NullTime
	)
	dst := []any{
		&run.ID,
		&run.ProblemID,
		&run.Status,
		&parameters,
		&result,
		&run.Error,
		&run.CreatedAt,
		&startedAt,
		&finishedAt,
		&run.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(parameters, &run.Parameters); err != nil {
		return nil, err
	}
	if result != nil {
		run.Result = &domain.RunResult{}
		if err := json.Unmarshal(result, run.Result); err != nil {
			return nil, err
		}
	}
	if startedAt.Valid {
		run.StartedAt = &startedAt.Time
	}
	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}

	return &run, nil
}

// StartRun 只有排队中的运行可以开始，返回 sql.ErrNoRows 说明已经被处理过
func (r *Repository) StartRun(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE runs
		SET status = $1, started_at = NOW(), version = version + 1
		WHERE id = $2 AND status = $3
		RETURNING version
	`

	var version int32
	return r.dbpool.QueryRowContext(ctx, query, domain.RunStatusRunning, id, domain.RunStatusQueued).Scan(&version)
}

func (r *Repository) FinishRun(id string, result *domain.RunResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	query := `
		UPDATE runs
		SET status = $1, result = $2, finished_at = NOW(), version = version + 1
		WHERE id = $3
	`

	_, err = r.dbpool.ExecContext(ctx, query, domain.RunStatusFinished, data, id)
	return err
}

func (r *Repository) FailRun(id string, reason string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE runs
		SET status = $1, error = $2, finished_at = NOW(), version = version + 1
		WHERE id = $3
	`

	_, err := r.dbpool.ExecContext(ctx, query, domain.RunStatusFailed, reason, id)
	return err
}
