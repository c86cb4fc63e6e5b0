package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/whuang/agentlab/internal/analysis/scoring"
	"github.com/whuang/agentlab/internal/model/idea"
)

func sampleIdea() idea.Idea {
	return idea.Idea{
		ID:       "idea-1",
		Category: idea.Creative,
		Creative: &idea.CreativeIdea{Title: "AI Study Assistant", Concept: "Personalized study plans"},
	}
}

func TestValidateAggregatesDimensionScores(t *testing.T) {
	exec := NewValidateExecutor(&scriptedGenerator{}, testAgentConfig())

	out, err := exec.Execute(context.Background(), Input{Idea: ptr(sampleIdea())})
	if err != nil {
		t.Fatalf("Execute err: %v", err)
	}
	if out.Fallback {
		t.Fatal("expected clean parse, got fallback")
	}
	if len(out.Validation.Validated) != 1 {
		t.Fatalf("expected 1 validated idea, got %d", len(out.Validation.Validated))
	}

	validated := out.Validation.Validated[0]
	if len(validated.Analyses) != 4 {
		t.Fatalf("expected 4 dimension analyses, got %d", len(validated.Analyses))
	}
	// 8*.3 + 7*.25 + 6*.25 + 9*.2
	if validated.Result.Overall != 7.45 {
		t.Fatalf("overall = %v, want 7.45", validated.Result.Overall)
	}
}

func TestValidateFallsBackOnUnparseableDimension(t *testing.T) {
	gen := &fixedGenerator{response: "I think this idea is quite good overall."}
	exec := NewValidateExecutor(gen, testAgentConfig())

	out, err := exec.Execute(context.Background(), Input{Idea: ptr(sampleIdea())})
	if err != nil {
		t.Fatalf("Execute err: %v", err)
	}
	if !out.Fallback {
		t.Fatal("expected fallback marker")
	}

	validated := out.Validation.Validated[0]
	wantDefaults := map[scoring.Dimension]float64{
		scoring.Market:      5,
		scoring.Competitive: 6,
		scoring.Technical:   7,
		scoring.Financial:   6,
	}
	for _, analysis := range validated.Analyses {
		if !analysis.Fallback {
			t.Fatalf("expected fallback on %s analysis", analysis.Dimension)
		}
		if analysis.Score != wantDefaults[analysis.Dimension] {
			t.Fatalf("%s score = %v, want %v", analysis.Dimension, analysis.Score, wantDefaults[analysis.Dimension])
		}
	}
	// 5*.3 + 6*.25 + 7*.25 + 6*.2
	if validated.Result.Overall != 5.95 {
		t.Fatalf("overall = %v, want 5.95", validated.Result.Overall)
	}
}

func TestValidateCapsIdeasAtMaxValidations(t *testing.T) {
	exec := NewValidateExecutor(&scriptedGenerator{}, testAgentConfig())

	ideas := []idea.Idea{sampleIdea(), sampleIdea(), sampleIdea(), sampleIdea(), sampleIdea()}
	out, err := exec.Execute(context.Background(), Input{Ideas: ideas})
	if err != nil {
		t.Fatalf("Execute err: %v", err)
	}
	if len(out.Validation.Validated) != 3 {
		t.Fatalf("expected cap at 3 validations, got %d", len(out.Validation.Validated))
	}
}

func TestValidateRequiresIdeas(t *testing.T) {
	exec := NewValidateExecutor(&scriptedGenerator{}, testAgentConfig())

	if _, err := exec.Execute(context.Background(), Input{}); !errors.Is(err, ErrNoIdeasToValidate) {
		t.Fatalf("expected ErrNoIdeasToValidate, got %v", err)
	}
}

func TestValidateProviderFailureFailsStep(t *testing.T) {
	gen := &fixedGenerator{err: errors.New("timeout")}
	exec := NewValidateExecutor(gen, testAgentConfig())

	if _, err := exec.Execute(context.Background(), Input{Idea: ptr(sampleIdea())}); err == nil {
		t.Fatal("expected provider failure to fail the step")
	}
}

func ptr(v idea.Idea) *idea.Idea {
	return &v
}
