package workflow

import (
	"time"

	"github.com/whuang/agentlab/internal/model/idea"
	"github.com/whuang/agentlab/internal/model/prd"
	"github.com/whuang/agentlab/internal/model/validation"
)

// StepStatus is the lifecycle state of one step record.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
	// StepSkipped only appears in aggregated run summaries for steps that
	// never started because an earlier step failed. It is never written
	// into session history.
	StepSkipped StepStatus = "skipped"
)

// StageNotStarted is the CurrentStage sentinel before the first step runs.
const StageNotStarted = "not_started"

// StepRecord is one append-only history entry. It is created when a step
// begins and transitions to completed or failed exactly once.
type StepRecord struct {
	Step       StepKind   `json:"step"`
	Status     StepStatus `json:"status"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt time.Time  `json:"finishedAt,omitempty"`
	Fallback   bool       `json:"fallback,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Results maps step kinds to their structured outputs. Each field is
// written at most once per run.
type Results struct {
	Ideas      []idea.Idea        `json:"ideas,omitempty"`
	Validation *validation.Report `json:"validation,omitempty"`
	Document   *prd.Document      `json:"document,omitempty"`
}

// Session is the mutable state of one workflow run. The engine owns all
// mutation; history only grows and never exceeds the template step count.
type Session struct {
	ID           string       `json:"id"`
	WorkflowType Type         `json:"workflowType"`
	CreatedAt    time.Time    `json:"createdAt"`
	CurrentStage string       `json:"currentStage"`
	History      []StepRecord `json:"history"`
	Results      Results      `json:"results"`
}
