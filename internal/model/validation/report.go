package validation

import (
	"time"

	"github.com/whuang/agentlab/internal/analysis/scoring"
	"github.com/whuang/agentlab/internal/model/idea"
)

// DimensionAnalysis holds one axis of provider-backed analysis for an idea.
// Fallback marks scores substituted because the provider text did not parse.
type DimensionAnalysis struct {
	Dimension scoring.Dimension `json:"dimension"`
	Score     float64           `json:"score"`
	Analysis  string            `json:"analysis,omitempty"`
	Insights  []string          `json:"insights,omitempty"`
	Fallback  bool              `json:"fallback,omitempty"`
}

// IdeaValidation binds one idea to its dimension analyses and scoring result.
type IdeaValidation struct {
	Idea     idea.Idea           `json:"idea"`
	Analyses []DimensionAnalysis `json:"analyses"`
	Result   scoring.Result      `json:"result"`
	Fallback bool                `json:"fallback,omitempty"`
}

// Report is the validation step's structured output, immutable once built.
type Report struct {
	Validated   []IdeaValidation `json:"validated"`
	ValidatedAt time.Time        `json:"validatedAt"`
}

// Best returns the validation with the highest overall score, or nil when
// the report is empty.
func (r *Report) Best() *IdeaValidation {
	if r == nil || len(r.Validated) == 0 {
		return nil
	}
	best := &r.Validated[0]
	for i := 1; i < len(r.Validated); i++ {
		if r.Validated[i].Result.Overall > best.Result.Overall {
			best = &r.Validated[i]
		}
	}
	return best
}

// HasFallback reports whether any validated idea carries fallback scores.
func (r *Report) HasFallback() bool {
	if r == nil {
		return false
	}
	for _, v := range r.Validated {
		if v.Fallback {
			return true
		}
	}
	return false
}
