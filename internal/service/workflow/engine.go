package workflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/whuang/agentlab/internal/model/workflow"
)

// StepSummary is one entry of the aggregated run result. Steps that never
// started because an earlier step failed appear with StepSkipped.
type StepSummary struct {
	Step     workflow.StepKind   `json:"step"`
	Status   workflow.StepStatus `json:"status"`
	Fallback bool                `json:"fallback,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// RunResult aggregates one workflow run: per-step outcomes in template
// order plus every result actually produced.
type RunResult struct {
	SessionID    string           `json:"sessionId"`
	WorkflowType workflow.Type    `json:"workflowType"`
	Completed    bool             `json:"completed"`
	Steps        []StepSummary    `json:"steps"`
	Results      workflow.Results `json:"results"`
}

// StepEvent notifies an observer of a step lifecycle transition.
type StepEvent struct {
	SessionID string              `json:"sessionId"`
	Step      workflow.StepKind   `json:"step"`
	Status    workflow.StepStatus `json:"status"`
	Fallback  bool                `json:"fallback,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// Observer receives step events as a run progresses. Callbacks fire on
// the run's goroutine; keep them fast.
type Observer func(StepEvent)

// Engine drives workflow templates step by step. It owns all session
// mutation: executors only see derived inputs and return results.
type Engine struct {
	store     *Store
	executors map[workflow.StepKind]Executor
	metrics   *metrics
}

// NewEngine wires the engine with its session store and step executors.
func NewEngine(store *Store, executors ...Executor) *Engine {
	byKind := make(map[workflow.StepKind]Executor, len(executors))
	for _, exec := range executors {
		byKind[exec.Kind()] = exec
	}
	return &Engine{store: store, executors: byKind, metrics: newMetrics()}
}

// Store exposes the session store for read access by handlers.
func (e *Engine) Store() *Store {
	return e.store
}

// MetricsSnapshot reports accumulated per-step execution stats.
func (e *Engine) MetricsSnapshot() map[workflow.StepKind]StepStats {
	return e.metrics.snapshot()
}

// Run executes the named workflow template. An unknown workflow type
// fails before any session is created. Step failures do not surface as a
// Go error: they are normalized into the aggregated result.
func (e *Engine) Run(ctx context.Context, workflowType workflow.Type, in Input) (*RunResult, error) {
	return e.RunObserved(ctx, workflowType, in, nil)
}

// RunObserved is Run with a step lifecycle observer attached.
func (e *Engine) RunObserved(ctx context.Context, workflowType workflow.Type, in Input, obs Observer) (*RunResult, error) {
	template, ok := workflow.LookupTemplate(workflowType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWorkflow, workflowType)
	}

	session := e.store.Create(workflowType)
	log.Printf("[engine] session=%s workflow=%s starting (%d steps)", session.ID, workflowType, len(template.Steps))

	result := &RunResult{
		SessionID:    session.ID,
		WorkflowType: workflowType,
		Steps:        make([]StepSummary, 0, len(template.Steps)),
	}

	failed := false
	for _, step := range template.Steps {
		if failed {
			result.Steps = append(result.Steps, StepSummary{Step: step, Status: workflow.StepSkipped})
			continue
		}

		summary := e.runStep(ctx, &session, step, in, obs)
		result.Steps = append(result.Steps, summary)
		if summary.Status == workflow.StepFailed {
			failed = true
		}
	}

	result.Completed = !failed
	result.Results = session.Results

	if failed {
		log.Printf("[engine] session=%s workflow=%s halted after failure", session.ID, workflowType)
	} else {
		log.Printf("[engine] session=%s workflow=%s completed", session.ID, workflowType)
	}
	return result, nil
}

// runStep appends a running history record, executes the step and
// finalizes the record as completed or failed. Any executor error is
// absorbed here; nothing propagates past the engine boundary.
func (e *Engine) runStep(ctx context.Context, session *workflow.Session, step workflow.StepKind, in Input, obs Observer) StepSummary {
	record := workflow.StepRecord{
		Step:      step,
		Status:    workflow.StepRunning,
		StartedAt: time.Now().UTC(),
	}
	session.History = append(session.History, record)
	session.CurrentStage = string(step)
	e.persist(*session)
	emit(obs, StepEvent{SessionID: session.ID, Step: step, Status: workflow.StepRunning})

	out, err := e.executeStep(ctx, session, step, in)
	elapsed := time.Since(record.StartedAt)
	e.metrics.record(step, elapsed, err != nil)

	last := &session.History[len(session.History)-1]
	last.FinishedAt = time.Now().UTC()

	if err != nil {
		last.Status = workflow.StepFailed
		last.Error = err.Error()
		e.persist(*session)
		log.Printf("[engine] session=%s step=%s failed: %v", session.ID, step, err)
		emit(obs, StepEvent{SessionID: session.ID, Step: step, Status: workflow.StepFailed, Error: err.Error()})
		return StepSummary{Step: step, Status: workflow.StepFailed, Error: err.Error()}
	}

	last.Status = workflow.StepCompleted
	last.Fallback = out.Fallback
	storeResult(session, step, out)
	e.persist(*session)
	emit(obs, StepEvent{SessionID: session.ID, Step: step, Status: workflow.StepCompleted, Fallback: out.Fallback})
	return StepSummary{Step: step, Status: workflow.StepCompleted, Fallback: out.Fallback}
}

// executeStep derives the step's input from the caller input and earlier
// session results, then invokes the matching executor.
func (e *Engine) executeStep(ctx context.Context, session *workflow.Session, step workflow.StepKind, in Input) (*StepResult, error) {
	exec, ok := e.executors[step]
	if !ok {
		return nil, fmt.Errorf("no executor registered for step %q", step)
	}

	stepIn := in
	switch step {
	case workflow.StepValidateIdeas:
		if len(session.Results.Ideas) > 0 {
			stepIn.Ideas = session.Results.Ideas
		}
	case workflow.StepCreatePRD:
		if session.Results.Validation != nil {
			stepIn.Validation = session.Results.Validation
		}
	}

	return exec.Execute(ctx, stepIn)
}

func storeResult(session *workflow.Session, step workflow.StepKind, out *StepResult) {
	switch step {
	case workflow.StepGenerateIdeas:
		session.Results.Ideas = out.Ideas
	case workflow.StepValidateIdeas:
		session.Results.Validation = out.Validation
	case workflow.StepCreatePRD:
		session.Results.Document = out.Document
	}
}

func (e *Engine) persist(session workflow.Session) {
	if err := e.store.Save(session); err != nil {
		log.Printf("[engine] failed to persist session %s: %v", session.ID, err)
	}
}

func emit(obs Observer, event StepEvent) {
	if obs != nil {
		obs(event)
	}
}
