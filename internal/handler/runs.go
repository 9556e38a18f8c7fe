package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/domain"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/scheduler"
)

func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(ProblemCtx).(*domain.Problem)

	var req domain.RunParameters
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	// 检查参数之间的约束，例如双亲交叉要求种群大小为偶数
	if _, err := scheduler.NewParameters(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	run := &domain.Run{
		ProblemID:  p.ID,
		Parameters: req,
	}
	if err := h.repository.CreateRun(run); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 对消息进行序列化
	body, err := json.Marshal(domain.RunMessage{
		RunID:      run.ID,
		Problem:    p,
		Parameters: run.Parameters,
	})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 将运行任务发送到消息队列
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.runChannel.PublishWithContext(
		ctx,
		"",
		h.config.RabbitMQ.Queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "已提交运行任务", run)
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		h.errorResponse(w, r, "运行ID无效")
		return
	}

	run, err := h.repository.GetRun(id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "运行记录不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取运行记录成功", run)
}
