package handler

import (
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/domain"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/repository"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/utils"
)

func (h *Handler) CreateProblem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		utils.GenerateOptions
		Seed int64 `json:"seed"` // 为 0 时使用当前时间
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	p := utils.GenerateRandomProblem(rand.New(rand.NewSource(seed)), req.GenerateOptions)
	if err := utils.ValidateProblem(p); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.problems.SaveProblem(p); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建问题实例成功", p)
}

func (h *Handler) ListProblems(w http.ResponseWriter, r *http.Request) {
	ids, err := h.problems.ListProblemIDs()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取问题实例列表成功", ids)
}

func (h *Handler) GetProblem(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(ProblemCtx).(*domain.Problem)

	h.successResponse(w, r, "获取问题实例成功", p)
}

func (h *Handler) DeleteProblem(w http.ResponseWriter, r *http.Request) {
	p := r.Context().Value(ProblemCtx).(*domain.Problem)

	if err := h.problems.DeleteProblem(p.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrProblemNotFound):
			h.errorResponse(w, r, "问题实例不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除问题实例成功", nil)
}
