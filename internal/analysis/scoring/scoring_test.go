package scoring

import (
	"math"
	"strings"
	"testing"
)

func TestWeightsSumToOne(t *testing.T) {
	total := 0.0
	for _, w := range Weights() {
		total += w
	}
	if total != 1.0 {
		t.Fatalf("weights sum to %v, want 1.0", total)
	}
}

func TestScoreWeightedDistribution(t *testing.T) {
	result := Score(map[Dimension]float64{
		Market:      8,
		Competitive: 6,
		Technical:   7,
		Financial:   9,
	})
	if result.Overall != 7.45 {
		t.Fatalf("overall = %v, want 7.45", result.Overall)
	}
}

func TestScoreAllZeros(t *testing.T) {
	result := Score(map[Dimension]float64{
		Market:      0,
		Competitive: 0,
		Technical:   0,
		Financial:   0,
	})
	if result.Overall != 0.0 {
		t.Fatalf("overall = %v, want 0.0", result.Overall)
	}
}

func TestScoreAllTens(t *testing.T) {
	result := Score(map[Dimension]float64{
		Market:      10,
		Competitive: 10,
		Technical:   10,
		Financial:   10,
	})
	if result.Overall != 10.0 {
		t.Fatalf("overall = %v, want 10.0", result.Overall)
	}
}

func TestScoreDoesNotClampAboveTen(t *testing.T) {
	result := Score(map[Dimension]float64{
		Market:      15,
		Competitive: 8,
		Technical:   7,
		Financial:   6,
	})
	if result.Overall != 9.45 {
		t.Fatalf("overall = %v, want 9.45", result.Overall)
	}
}

func TestScoreDoesNotClampNegative(t *testing.T) {
	result := Score(map[Dimension]float64{
		Market:      -2,
		Competitive: 5,
		Technical:   8,
		Financial:   6,
	})
	if result.Overall != 3.85 {
		t.Fatalf("overall = %v, want 3.85", result.Overall)
	}
}

func TestScoreMissingDimensionsDefaultToZero(t *testing.T) {
	result := Score(map[Dimension]float64{
		Market:      8,
		Competitive: 6,
	})
	if result.Overall != 3.9 {
		t.Fatalf("overall = %v, want 3.9", result.Overall)
	}
}

func TestScoreEmptyInput(t *testing.T) {
	result := Score(nil)
	if result.Overall != 0.0 {
		t.Fatalf("overall = %v, want 0.0", result.Overall)
	}
	if len(result.Recommendations) == 0 {
		t.Fatal("expected at least the bucket recommendation")
	}
}

func TestScoreRoundsToTwoDecimals(t *testing.T) {
	result := Score(map[Dimension]float64{
		Market:      7.333,
		Competitive: 8.666,
		Technical:   6.111,
		Financial:   9.999,
	})
	scaled := result.Overall * 100
	if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
		t.Fatalf("overall %v not rounded to two decimals", result.Overall)
	}
}

func TestRecommendationStrongBucket(t *testing.T) {
	recs := recommendations(8.2, map[Dimension]float64{Market: 9, Competitive: 8, Technical: 8, Financial: 8})
	if !containsSubstring(recs, "Strong idea") {
		t.Fatalf("expected strong-bucket message, got %v", recs)
	}
}

func TestRecommendationPromisingBucket(t *testing.T) {
	recs := recommendations(7.0, map[Dimension]float64{Market: 7, Competitive: 7, Technical: 7, Financial: 7})
	if !containsSubstring(recs, "Promising idea") {
		t.Fatalf("expected promising-bucket message, got %v", recs)
	}
}

func TestRecommendationChallengesBucket(t *testing.T) {
	recs := recommendations(4.0, map[Dimension]float64{Market: 6, Competitive: 6, Technical: 6, Financial: 6})
	if !containsSubstring(recs, "Significant challenges") {
		t.Fatalf("expected challenges-bucket message, got %v", recs)
	}
}

func TestRecommendationLowMarket(t *testing.T) {
	recs := recommendations(7.0, map[Dimension]float64{Market: 4, Competitive: 8, Technical: 8, Financial: 8})
	if !containsSubstring(recs, "market research") {
		t.Fatalf("expected market remediation note, got %v", recs)
	}
}

func TestRecommendationLowTechnical(t *testing.T) {
	recs := recommendations(7.0, map[Dimension]float64{Market: 8, Competitive: 8, Technical: 4, Financial: 8})
	if !containsSubstring(recs, "technical risks") {
		t.Fatalf("expected technical remediation note, got %v", recs)
	}
}

func TestRecommendationLowFinancial(t *testing.T) {
	recs := recommendations(7.0, map[Dimension]float64{Market: 8, Competitive: 8, Technical: 8, Financial: 4})
	if !containsSubstring(recs, "business model") {
		t.Fatalf("expected financial remediation note, got %v", recs)
	}
}

func TestRecommendationLowCompetitiveHasNoTargetedNote(t *testing.T) {
	recs := recommendations(7.0, map[Dimension]float64{Market: 8, Competitive: 2, Technical: 8, Financial: 8})
	if len(recs) != 1 {
		t.Fatalf("expected only the bucket message for low competitive score, got %v", recs)
	}
}

func containsSubstring(recs []string, fragment string) bool {
	for _, rec := range recs {
		if strings.Contains(strings.ToLower(rec), strings.ToLower(fragment)) {
			return true
		}
	}
	return false
}
