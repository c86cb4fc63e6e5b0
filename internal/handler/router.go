package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	workflowHandler "github.com/whuang/agentlab/internal/handler/workflow"
	middlewarePkg "github.com/whuang/agentlab/internal/middleware"
	workflowService "github.com/whuang/agentlab/internal/service/workflow"
)

// NewRouter wires HTTP routes to the workflow engine. A nil engine keeps
// the server bootable without provider credentials; workflow routes then
// answer 503.
func NewRouter(engine *workflowService.Engine) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	h := workflowHandler.New(engine)

	r.Route("/api", func(api chi.Router) {
		h.RegisterRoutes(api)
	})

	return r
}
