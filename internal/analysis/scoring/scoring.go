package scoring

import "math"

// Dimension identifies one axis of idea validation.
type Dimension string

const (
	Market      Dimension = "market"
	Competitive Dimension = "competitive"
	Technical   Dimension = "technical"
	Financial   Dimension = "financial"
)

// Dimensions lists every validation axis in report order.
var Dimensions = []Dimension{Market, Competitive, Technical, Financial}

// weights must sum to exactly 1.0. Market carries the largest share.
var weights = map[Dimension]float64{
	Market:      0.30,
	Competitive: 0.25,
	Technical:   0.25,
	Financial:   0.20,
}

// Threshold at which a dimension earns a targeted remediation note.
const lowScoreThreshold = 6

// Weights returns a copy of the dimension weight table.
func Weights() map[Dimension]float64 {
	copied := make(map[Dimension]float64, len(weights))
	for dim, w := range weights {
		copied[dim] = w
	}
	return copied
}

// Result is the immutable outcome of scoring one idea.
type Result struct {
	Scores          map[Dimension]float64 `json:"scores"`
	Overall         float64               `json:"overallScore"`
	Recommendations []string              `json:"recommendations"`
}

// Score derives the weighted overall score and recommendation list from
// per-dimension sub-scores. Missing dimensions contribute 0. Inputs are
// not clamped: values outside 0-10 propagate arithmetically into the
// overall score.
func Score(scores map[Dimension]float64) Result {
	weighted := 0.0
	kept := make(map[Dimension]float64, len(Dimensions))
	for _, dim := range Dimensions {
		value := scores[dim]
		kept[dim] = value
		weighted += value * weights[dim]
	}

	overall := round2(weighted)

	return Result{
		Scores:          kept,
		Overall:         overall,
		Recommendations: recommendations(overall, kept),
	}
}

// recommendations buckets the overall score and appends targeted notes
// for weak individual dimensions. Competitive position has no targeted
// note: a weak score there already drags the overall bucket down and
// there is no single remediation to name.
func recommendations(overall float64, scores map[Dimension]float64) []string {
	recs := make([]string, 0, 4)

	switch {
	case overall >= 8:
		recs = append(recs, "Strong idea with high potential - recommend proceeding to development")
	case overall >= 6:
		recs = append(recs, "Promising idea with some challenges - address key concerns before proceeding")
	default:
		recs = append(recs, "Significant challenges identified - consider pivoting or major modifications")
	}

	if scores[Market] < lowScoreThreshold {
		recs = append(recs, "Conduct additional market research to validate demand")
	}
	if scores[Technical] < lowScoreThreshold {
		recs = append(recs, "Assess technical risks and consider alternative implementation approaches")
	}
	if scores[Financial] < lowScoreThreshold {
		recs = append(recs, "Review business model and explore additional revenue streams")
	}

	return recs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
