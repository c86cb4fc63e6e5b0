package workflow

import (
	"testing"

	"github.com/whuang/agentlab/internal/model/workflow"
)

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore()

	session := store.Create(workflow.FullPipeline)
	if session.ID == "" {
		t.Fatal("expected generated session ID")
	}
	if session.CurrentStage != workflow.StageNotStarted {
		t.Fatalf("CurrentStage = %s, want %s", session.CurrentStage, workflow.StageNotStarted)
	}

	got, err := store.Get(session.ID)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if got.ID != session.ID {
		t.Fatalf("unexpected session ID: got %s want %s", got.ID, session.ID)
	}
	if got.WorkflowType != workflow.FullPipeline {
		t.Fatalf("unexpected workflow type: %s", got.WorkflowType)
	}
}

func TestStoreGetNotFound(t *testing.T) {
	store := NewStore()

	if _, err := store.Get("missing"); err == nil {
		t.Fatal("expected error for missing session")
	}
}

func TestStoreSaveUnknownSession(t *testing.T) {
	store := NewStore()

	err := store.Save(workflow.Session{ID: "never-created"})
	if err == nil {
		t.Fatal("expected error saving unknown session")
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	store := NewStore()

	session := store.Create(workflow.IdeaGeneration)
	session.History = append(session.History, workflow.StepRecord{
		Step:   workflow.StepGenerateIdeas,
		Status: workflow.StepRunning,
	})
	if err := store.Save(session); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	first, _ := store.Get(session.ID)
	first.History[0].Status = workflow.StepFailed

	second, _ := store.Get(session.ID)
	if second.History[0].Status != workflow.StepRunning {
		t.Fatal("mutating a returned session leaked into the store")
	}
}

func TestStoreCount(t *testing.T) {
	store := NewStore()
	store.Create(workflow.FullPipeline)
	store.Create(workflow.ValidationOnly)

	if store.Count() != 2 {
		t.Fatalf("Count = %d, want 2", store.Count())
	}
}
