package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/whuang/agentlab/internal/analysis/scoring"
	"github.com/whuang/agentlab/internal/model/validation"
)

func validatedInput(ideas ...validation.IdeaValidation) Input {
	return Input{Validation: &validation.Report{Validated: ideas}}
}

func TestSynthesizeParsesProviderSections(t *testing.T) {
	exec := NewSynthesizeExecutor(&scriptedGenerator{})

	target := sampleIdea()
	in := validatedInput(validation.IdeaValidation{
		Idea: target,
		Result: scoring.Score(map[scoring.Dimension]float64{
			scoring.Market: 8, scoring.Competitive: 7, scoring.Technical: 6, scoring.Financial: 9,
		}),
	})

	out, err := exec.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute err: %v", err)
	}
	if out.Fallback {
		t.Fatal("expected clean parse, got fallback")
	}

	doc := out.Document
	if doc.ProductName != target.Title() {
		t.Fatalf("product name = %q, want %q", doc.ProductName, target.Title())
	}
	if doc.ExecutiveSummary.Vision != "Light up studying anywhere" {
		t.Fatalf("vision = %q", doc.ExecutiveSummary.Vision)
	}
	if len(doc.FunctionalRequirements.Core) != 1 || doc.FunctionalRequirements.Core[0].Name != "Focus tracking" {
		t.Fatalf("unexpected core features: %+v", doc.FunctionalRequirements.Core)
	}
	// 8*.3 + 7*.25 + 6*.25 + 9*.2 = 7.45 >= 7
	if !doc.Overview.LaunchReady {
		t.Fatal("expected launch-ready overview at overall 7.45")
	}
	if len(doc.Timeline.Phases) != 4 {
		t.Fatalf("expected 4 timeline phases, got %d", len(doc.Timeline.Phases))
	}
}

func TestSynthesizeFallbackSectionsOnParseFailure(t *testing.T) {
	gen := &fixedGenerator{response: "A great product, trust me."}
	exec := NewSynthesizeExecutor(gen)

	in := validatedInput(validation.IdeaValidation{
		Idea: sampleIdea(),
		Result: scoring.Score(map[scoring.Dimension]float64{
			scoring.Market: 5, scoring.Competitive: 5, scoring.Technical: 5, scoring.Financial: 5,
		}),
	})

	out, err := exec.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute err: %v", err)
	}
	if !out.Fallback {
		t.Fatal("expected fallback marker")
	}

	doc := out.Document
	if !doc.ExecutiveSummary.Fallback || !doc.FunctionalRequirements.Fallback {
		t.Fatal("expected fallback markers on provider-backed sections")
	}
	if len(doc.FunctionalRequirements.Core) == 0 {
		t.Fatal("fallback requirements must still carry core features")
	}
	if doc.Overview.LaunchReady {
		t.Fatal("overall 5.0 must not be launch-ready")
	}
}

func TestSynthesizePicksBestValidatedIdea(t *testing.T) {
	exec := NewSynthesizeExecutor(&scriptedGenerator{})

	weak := sampleIdea()
	weak.Creative.Title = "Weak Idea"
	strong := sampleIdea()
	strong.Creative.Title = "Strong Idea"

	in := validatedInput(
		validation.IdeaValidation{
			Idea: weak,
			Result: scoring.Score(map[scoring.Dimension]float64{
				scoring.Market: 4, scoring.Competitive: 4, scoring.Technical: 4, scoring.Financial: 4,
			}),
		},
		validation.IdeaValidation{
			Idea: strong,
			Result: scoring.Score(map[scoring.Dimension]float64{
				scoring.Market: 9, scoring.Competitive: 8, scoring.Technical: 8, scoring.Financial: 9,
			}),
		},
	)

	out, err := exec.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute err: %v", err)
	}
	if out.Document.ProductName != "Strong Idea" {
		t.Fatalf("product name = %q, want Strong Idea", out.Document.ProductName)
	}
}

func TestSynthesizeRequiresValidation(t *testing.T) {
	exec := NewSynthesizeExecutor(&scriptedGenerator{})

	if _, err := exec.Execute(context.Background(), Input{}); !errors.Is(err, ErrNoValidationForPRD) {
		t.Fatalf("expected ErrNoValidationForPRD, got %v", err)
	}
	if _, err := exec.Execute(context.Background(), validatedInput()); !errors.Is(err, ErrNoValidationForPRD) {
		t.Fatalf("expected ErrNoValidationForPRD for empty report, got %v", err)
	}
}

func TestSynthesizeProviderFailureFailsStep(t *testing.T) {
	gen := &fixedGenerator{err: errors.New("rate limited")}
	exec := NewSynthesizeExecutor(gen)

	in := validatedInput(validation.IdeaValidation{
		Idea: sampleIdea(),
		Result: scoring.Score(map[scoring.Dimension]float64{
			scoring.Market: 7, scoring.Competitive: 7, scoring.Technical: 7, scoring.Financial: 7,
		}),
	})

	if _, err := exec.Execute(context.Background(), in); err == nil {
		t.Fatal("expected provider failure to fail the step")
	}
}
