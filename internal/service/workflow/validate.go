package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/whuang/agentlab/internal/analysis/scoring"
	"github.com/whuang/agentlab/internal/config"
	"github.com/whuang/agentlab/internal/model/idea"
	"github.com/whuang/agentlab/internal/model/validation"
	"github.com/whuang/agentlab/internal/model/workflow"
)

// Per-dimension system prompts and analysis templates, one provider call
// per dimension per idea.
var dimensionSystems = map[scoring.Dimension]string{
	scoring.Market:      "You are a market research expert. Respond with valid JSON.",
	scoring.Competitive: "You are a competitive intelligence analyst. Respond with valid JSON.",
	scoring.Technical:   "You are a technical feasibility expert. Respond with valid JSON.",
	scoring.Financial:   "You are a financial analyst. Respond with valid JSON.",
}

var dimensionPrompts = map[scoring.Dimension]string{
	scoring.Market: `Analyze the market viability for this idea:

Idea: %s
Description: %s

Cover market size, market trends, customer pain points addressed, market
readiness and entry barriers. Rate the market viability from 1-10.
Format as JSON with "score" (number), "analysis" (string) and
"key_insights" (array of strings) fields.`,

	scoring.Competitive: `Analyze the competitive landscape for:

Idea: %s
Description: %s

Cover direct and indirect competitors, competitive advantages, market
saturation and differentiation opportunities. Rate the competitive
position from 1-10 (10 = strong position).
Format as JSON with "score" (number), "analysis" (string) and
"key_insights" (array of strings) fields.`,

	scoring.Technical: `Assess the feasibility of implementing:

Idea: %s
Description: %s

Cover technical complexity, resource requirements, development timeline,
scalability challenges and risk factors. Rate overall feasibility from 1-10.
Format as JSON with "score" (number), "analysis" (string) and
"key_insights" (array of strings) fields.`,

	scoring.Financial: `Evaluate the financial aspects of:

Idea: %s
Description: %s

Cover revenue potential, startup investment, operating costs, break-even
timeline and funding requirements. Rate financial attractiveness from 1-10.
Format as JSON with "score" (number), "analysis" (string) and
"key_insights" (array of strings) fields.`,
}

// Heuristic defaults substituted when a dimension response does not parse.
// Parse trouble is a soft failure: the step continues with these scores.
var fallbackScores = map[scoring.Dimension]float64{
	scoring.Market:      5,
	scoring.Competitive: 6,
	scoring.Technical:   7,
	scoring.Financial:   6,
}

// ValidateExecutor runs the multi-dimensional validation stage.
type ValidateExecutor struct {
	gen            TextGenerator
	maxValidations int
}

// NewValidateExecutor builds the validation executor.
func NewValidateExecutor(gen TextGenerator, cfg config.AgentConfig) *ValidateExecutor {
	return &ValidateExecutor{gen: gen, maxValidations: cfg.MaxValidations}
}

func (e *ValidateExecutor) Kind() workflow.StepKind {
	return workflow.StepValidateIdeas
}

// Execute analyzes up to maxValidations ideas across the four scoring
// dimensions and aggregates each through the scoring engine. Provider
// call failures fail the step; unparseable responses fall back to
// heuristic scores and keep going.
func (e *ValidateExecutor) Execute(ctx context.Context, in Input) (*StepResult, error) {
	ideas := in.Ideas
	if len(ideas) == 0 && in.Idea != nil {
		ideas = []idea.Idea{*in.Idea}
	}
	if len(ideas) == 0 {
		return nil, ErrNoIdeasToValidate
	}

	if len(ideas) > e.maxValidations {
		ideas = ideas[:e.maxValidations]
	}

	report := &validation.Report{ValidatedAt: time.Now().UTC()}
	for _, candidate := range ideas {
		validated, err := e.validateOne(ctx, candidate)
		if err != nil {
			return nil, err
		}
		report.Validated = append(report.Validated, *validated)
	}

	result := &StepResult{Validation: report}
	if report.HasFallback() {
		result.Fallback = true
		result.FallbackReason = "one or more dimension analyses used heuristic default scores"
	}
	return result, nil
}

func (e *ValidateExecutor) validateOne(ctx context.Context, candidate idea.Idea) (*validation.IdeaValidation, error) {
	scores := make(map[scoring.Dimension]float64, len(scoring.Dimensions))
	analyses := make([]validation.DimensionAnalysis, 0, len(scoring.Dimensions))
	usedFallback := false

	for _, dim := range scoring.Dimensions {
		query := fmt.Sprintf(dimensionPrompts[dim], candidate.Title(), candidate.Description())
		text, err := e.gen.Generate(ctx, dimensionSystems[dim], query)
		if err != nil {
			return nil, fmt.Errorf("%s analysis call failed: %w", dim, err)
		}

		analysis := parseDimension(dim, text)
		if analysis.Fallback {
			usedFallback = true
			log.Printf("[validate] %s analysis response not valid JSON, using default score %.0f", dim, analysis.Score)
		}
		scores[dim] = analysis.Score
		analyses = append(analyses, analysis)
	}

	return &validation.IdeaValidation{
		Idea:     candidate,
		Analyses: analyses,
		Result:   scoring.Score(scores),
		Fallback: usedFallback,
	}, nil
}

type dimensionPayload struct {
	Score       float64  `json:"score"`
	Analysis    string   `json:"analysis"`
	KeyInsights []string `json:"key_insights"`
}

func parseDimension(dim scoring.Dimension, text string) validation.DimensionAnalysis {
	if payload := extractJSON(text); payload != "" {
		var p dimensionPayload
		if err := json.Unmarshal([]byte(payload), &p); err == nil && p.Score != 0 {
			return validation.DimensionAnalysis{
				Dimension: dim,
				Score:     p.Score,
				Analysis:  p.Analysis,
				Insights:  p.KeyInsights,
			}
		}
	}

	return validation.DimensionAnalysis{
		Dimension: dim,
		Score:     fallbackScores[dim],
		Analysis:  text,
		Fallback:  true,
	}
}
