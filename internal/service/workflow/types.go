package workflow

import (
	"context"
	"errors"

	"github.com/whuang/agentlab/internal/model/idea"
	"github.com/whuang/agentlab/internal/model/prd"
	"github.com/whuang/agentlab/internal/model/validation"
	"github.com/whuang/agentlab/internal/model/workflow"
)

var (
	ErrUnknownWorkflow    = errors.New("unknown workflow type")
	ErrSessionNotFound    = errors.New("session not found")
	ErrPromptRequired     = errors.New("prompt is required")
	ErrNoIdeasToValidate  = errors.New("no ideas available for validation")
	ErrNoValidationForPRD = errors.New("no validation available for document synthesis")
)

// TextGenerator is the seam to the external AI provider. The ai.Service
// implements it; tests substitute a stub.
type TextGenerator interface {
	Generate(ctx context.Context, system, query string) (string, error)
}

// Input carries the caller's request plus any artifacts derived from the
// session or supplied directly when the prior step never ran.
type Input struct {
	Prompt   string
	NumIdeas int
	Category idea.Category

	// Ideas is populated by the engine from session results between steps.
	Ideas []idea.Idea
	// Idea is an externally supplied artifact for validation_only or
	// prd_creation runs.
	Idea *idea.Idea
	// Validation is the prior validation report, session-derived or
	// externally supplied.
	Validation *validation.Report
}

// StepResult is one executor's structured output. Fallback marks
// best-effort substitution after a soft parse failure; it is not an error.
type StepResult struct {
	Ideas      []idea.Idea
	Validation *validation.Report
	Document   *prd.Document

	Fallback       bool
	FallbackReason string
}

// Executor performs one pipeline stage.
type Executor interface {
	Kind() workflow.StepKind
	Execute(ctx context.Context, in Input) (*StepResult, error)
}
