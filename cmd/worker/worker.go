package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/config"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/domain"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/fitness"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/repository"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/scheduler"
)

type worker struct {
	cfg    *config.Config
	repo   *repository.Repository
	rdb    *redis.Client
	logger *slog.Logger
}

// handle 处理一条运行消息。消息格式错误时直接丢弃，运行失败时记录到数据库后确认消息。
func (w *worker) handle(ctx context.Context, msg amqp.Delivery) {
	runMessage := domain.RunMessage{}
	if err := json.Unmarshal(msg.Body, &runMessage); err != nil || runMessage.Problem == nil {
		w.logger.Error("运行消息反序列化失败", "error", err, "body", string(msg.Body))
		_ = msg.Nack(false, false)
		return
	}

	logger := w.logger.With("run", runMessage.RunID, "problem", runMessage.Problem.ID)
	logger.Info("收到运行任务")

	if err := w.repo.StartRun(runMessage.RunID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// 已经被其他 worker 处理过
			logger.Info("运行任务不是排队状态，跳过")
			_ = msg.Ack(false)
			return
		}
		logger.Error("无法更新运行状态", "error", err)
		_ = msg.Nack(false, true) // 将消息重新入队
		return
	}

	result, err := w.run(ctx, logger, runMessage)
	if err != nil {
		logger.Error("运行失败", "error", err)
		if err := w.repo.FailRun(runMessage.RunID, err.Error()); err != nil {
			logger.Error("无法记录运行失败", "error", err)
		}
		_ = msg.Ack(false)
		return
	}

	if err := w.repo.FinishRun(runMessage.RunID, result); err != nil {
		logger.Error("无法保存运行结果", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	// 确认消息
	_ = msg.Ack(false)
}

func (w *worker) run(ctx context.Context, logger *slog.Logger, msg domain.RunMessage) (*domain.RunResult, error) {
	params, err := scheduler.NewParameters(msg.Parameters)
	if err != nil {
		return nil, err
	}

	cache := fitness.NewRedisCache(w.rdb, msg.Problem.ID, time.Duration(w.cfg.Redis.CacheExpiration)*time.Second)
	fn := fitness.Cached(fitness.NewHHCRSP(msg.Problem), cache)

	s, err := scheduler.New(params, msg.Problem, fn, logger)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Duration(w.cfg.Worker.RunTimeout)*time.Second)
	defer cancel()

	result, err := s.Schedule(runCtx)
	if err != nil {
		return nil, err
	}
	logger.Info("适应度缓存", "hits", fn.Hits(), "misses", fn.Misses())

	return result, nil
}
