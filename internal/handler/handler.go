package handler

import (
	"github.com/go-chi/chi/v5"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/config"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/repository"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/utils"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository *repository.Repository
	problems   *repository.ProblemStore
	translator ut.Translator
	runChannel *amqp.Channel

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, problems *repository.ProblemStore, runCh *amqp.Channel) (*Handler, error) {
	validate, trans, err := utils.NewValidator()
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		problems:   problems,
		translator: trans,
		runChannel: runCh,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/problems", func(r chi.Router) {
		r.Post("/", h.CreateProblem)
		r.Get("/", h.ListProblems)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.problem)
			r.Get("/", h.GetProblem)
			r.Delete("/", h.DeleteProblem)
			r.Post("/runs", h.CreateRun)
		})
	})

	h.Mux.Get("/runs/{id}", h.GetRun)
}
