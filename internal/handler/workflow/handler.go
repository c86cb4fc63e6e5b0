package workflow

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/whuang/agentlab/internal/analysis/scoring"
	"github.com/whuang/agentlab/internal/model/idea"
	"github.com/whuang/agentlab/internal/model/validation"
	workflowModel "github.com/whuang/agentlab/internal/model/workflow"
	workflowService "github.com/whuang/agentlab/internal/service/workflow"
	"github.com/whuang/agentlab/pkg/utils"
)

// Handler exposes the workflow engine over HTTP.
type Handler struct {
	engine   *workflowService.Engine
	upgrader websocket.Upgrader
}

// New creates the workflow handler. A nil engine means the AI provider is
// not configured; workflow routes answer 503 in that case.
func New(engine *workflowService.Engine) *Handler {
	return &Handler{
		engine: engine,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers workflow routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/workflows", h.handleRunWorkflow)
	r.Post("/workflows/stream", h.handleStreamWorkflow)
	r.Get("/workflows/ws", h.handleWorkflowSocket)
	r.Post("/generate-ideas", h.handleGenerateIdeas)
	r.Post("/validate-idea", h.handleValidateIdea)
	r.Post("/create-prd", h.handleCreatePRD)
	r.Get("/sessions/{sessionID}", h.handleGetSession)
	r.Get("/status", h.handleStatus)
}

// runRequest is the wire format shared by every workflow-starting route.
// Idea and Validation carry externally supplied artifacts for
// validation_only / prd_creation runs without a prior session chain.
type runRequest struct {
	WorkflowType string              `json:"workflowType"`
	Prompt       string              `json:"prompt"`
	NumIdeas     int                 `json:"numIdeas"`
	IdeaCategory string              `json:"ideaCategory"`
	Idea         *idea.Idea          `json:"idea,omitempty"`
	Validation   *validationArtifact `json:"validation,omitempty"`
}

// validationArtifact is a caller-supplied validation result. When only
// sub-scores are given, the overall score and recommendations are
// recomputed by the scoring engine.
type validationArtifact struct {
	Scores          map[scoring.Dimension]float64 `json:"scores"`
	Overall         float64                       `json:"overallScore"`
	Recommendations []string                      `json:"recommendations"`
}

func (req *runRequest) toInput() workflowService.Input {
	in := workflowService.Input{
		Prompt:   req.Prompt,
		NumIdeas: req.NumIdeas,
		Category: idea.Category(req.IdeaCategory),
		Idea:     req.Idea,
	}

	if req.Validation != nil {
		result := scoring.Result{
			Scores:          req.Validation.Scores,
			Overall:         req.Validation.Overall,
			Recommendations: req.Validation.Recommendations,
		}
		if result.Overall == 0 && len(result.Scores) > 0 {
			result = scoring.Score(result.Scores)
		}

		entry := validation.IdeaValidation{Result: result}
		if req.Idea != nil {
			entry.Idea = *req.Idea
		}
		in.Validation = &validation.Report{
			Validated:   []validation.IdeaValidation{entry},
			ValidatedAt: time.Now().UTC(),
		}
	}

	return in
}

func (h *Handler) handleRunWorkflow(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRunRequest(w, r)
	if !ok {
		return
	}

	result, ok := h.run(w, r, workflowModel.Type(req.WorkflowType), req.toInput())
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGenerateIdeas(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRunRequest(w, r)
	if !ok {
		return
	}

	result, ok := h.run(w, r, workflowModel.IdeaGeneration, req.toInput())
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessionId": result.SessionID,
		"ideas":     result.Results.Ideas,
		"steps":     result.Steps,
	})
}

func (h *Handler) handleValidateIdea(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRunRequest(w, r)
	if !ok {
		return
	}
	if req.Idea == nil {
		utils.RespondError(w, http.StatusBadRequest, "idea is required")
		return
	}

	result, ok := h.run(w, r, workflowModel.ValidationOnly, req.toInput())
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessionId":  result.SessionID,
		"validation": result.Results.Validation,
		"steps":      result.Steps,
	})
}

func (h *Handler) handleCreatePRD(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRunRequest(w, r)
	if !ok {
		return
	}
	if req.Idea == nil {
		utils.RespondError(w, http.StatusBadRequest, "idea is required")
		return
	}
	if req.Validation == nil {
		utils.RespondError(w, http.StatusBadRequest, "validation is required")
		return
	}

	result, ok := h.run(w, r, workflowModel.PRDCreation, req.toInput())
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessionId": result.SessionID,
		"document":  result.Results.Document,
		"steps":     result.Steps,
	})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "workflow engine unavailable")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.engine.Store().Get(sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"status":    "running",
		"aiEnabled": h.engine != nil,
	}
	if h.engine != nil {
		payload["sessions"] = h.engine.Store().Count()
		payload["steps"] = h.engine.MetricsSnapshot()
	}
	utils.RespondJSON(w, http.StatusOK, payload)
}

// handleStreamWorkflow runs a workflow while streaming step lifecycle
// events over SSE, ending with the aggregated result.
func (h *Handler) handleStreamWorkflow(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRunRequest(w, r)
	if !ok {
		return
	}
	if h.engine == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "workflow engine unavailable")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	result, err := h.engine.RunObserved(r.Context(), workflowModel.Type(req.WorkflowType), req.toInput(),
		func(event workflowService.StepEvent) {
			utils.SendSSEEvent(w, flusher, "step", event)
		})
	if err != nil {
		utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": err.Error()})
		return
	}

	utils.SendSSEEvent(w, flusher, "result", result)
}

// handleWorkflowSocket runs a workflow over a websocket: the client sends
// one run request, the server pushes step events and the final result.
func (h *Handler) handleWorkflowSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[workflow] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if h.engine == nil {
		_ = conn.WriteJSON(map[string]string{"event": "error", "error": "workflow engine unavailable"})
		return
	}

	var req runRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(map[string]string{"event": "error", "error": "invalid run request"})
		return
	}

	result, err := h.engine.RunObserved(r.Context(), workflowModel.Type(req.WorkflowType), req.toInput(),
		func(event workflowService.StepEvent) {
			if err := conn.WriteJSON(map[string]any{"event": "step", "data": event}); err != nil {
				log.Printf("[workflow] websocket write failed: %v", err)
			}
		})
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"event": "error", "error": err.Error()})
		return
	}

	_ = conn.WriteJSON(map[string]any{"event": "result", "data": result})
}

func (h *Handler) decodeRunRequest(w http.ResponseWriter, r *http.Request) (*runRequest, bool) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return &req, true
}

// run executes the workflow and maps engine errors onto HTTP statuses.
func (h *Handler) run(w http.ResponseWriter, r *http.Request, workflowType workflowModel.Type, in workflowService.Input) (*workflowService.RunResult, bool) {
	if h.engine == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "workflow engine unavailable")
		return nil, false
	}

	result, err := h.engine.Run(r.Context(), workflowType, in)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, workflowService.ErrUnknownWorkflow) {
			status = http.StatusBadRequest
		}
		utils.RespondError(w, status, err.Error())
		return nil, false
	}
	return result, true
}
