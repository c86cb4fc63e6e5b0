package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/whuang/agentlab/internal/analysis/scoring"
	"github.com/whuang/agentlab/internal/model/idea"
	"github.com/whuang/agentlab/internal/model/prd"
	"github.com/whuang/agentlab/internal/model/workflow"
)

const synthesizeSystem = "You are a senior product manager writing a requirements document. Respond with valid JSON."

// SynthesizeExecutor runs the requirements-document stage. The executive
// summary and functional requirements come from the provider; the
// remaining sections are assembled deterministically from the idea and
// its validation.
type SynthesizeExecutor struct {
	gen TextGenerator
}

// NewSynthesizeExecutor builds the document-synthesis executor.
func NewSynthesizeExecutor(gen TextGenerator) *SynthesizeExecutor {
	return &SynthesizeExecutor{gen: gen}
}

func (e *SynthesizeExecutor) Kind() workflow.StepKind {
	return workflow.StepCreatePRD
}

// Execute synthesizes the document for the best-scoring validated idea.
func (e *SynthesizeExecutor) Execute(ctx context.Context, in Input) (*StepResult, error) {
	if in.Validation == nil {
		return nil, ErrNoValidationForPRD
	}
	best := in.Validation.Best()
	if best == nil {
		return nil, ErrNoValidationForPRD
	}

	target := best.Idea
	if target.Title() == "" && in.Idea != nil {
		target = *in.Idea
	}

	summary, summaryFallback, err := e.executiveSummary(ctx, target, best.Result)
	if err != nil {
		return nil, err
	}

	requirements, reqFallback, err := e.functionalRequirements(ctx, target)
	if err != nil {
		return nil, err
	}

	name := target.Title()
	if name == "" {
		name = "New Product"
	}

	doc := &prd.Document{
		ID:          uuid.NewString(),
		ProductName: name,
		Version:     "1.0",
		CreatedAt:   time.Now().UTC(),

		ExecutiveSummary:       summary,
		Overview:               buildOverview(target, best.Result),
		FunctionalRequirements: requirements,
		TechnicalRequirements:  buildTechSpec(target),
		Timeline:               buildTimeline(),
		SuccessMetrics:         buildMetrics(),
		RiskAssessment:         buildRisks(),

		Fallback: summaryFallback || reqFallback,
	}

	result := &StepResult{Document: doc}
	if doc.Fallback {
		result.Fallback = true
		result.FallbackReason = "one or more document sections used default content after a parse failure"
	}
	return result, nil
}

type summaryPayload struct {
	Vision            string   `json:"vision"`
	Mission           string   `json:"mission"`
	Opportunity       string   `json:"opportunity"`
	ValuePropositions []string `json:"value_propositions"`
	SuccessPotential  string   `json:"success_potential"`
}

func (e *SynthesizeExecutor) executiveSummary(ctx context.Context, target idea.Idea, result scoring.Result) (prd.Summary, bool, error) {
	query := fmt.Sprintf(`Create an executive summary for this product:

Product: %s
Description: %s
Validation Score: %.2f
Recommendations: %s

Cover the product vision and mission, the market opportunity, the key
value propositions and the success potential.
Format as JSON with "vision", "mission", "opportunity",
"value_propositions" (array of strings) and "success_potential" fields.`,
		target.Title(), target.Description(), result.Overall, strings.Join(result.Recommendations, "; "))

	text, err := e.gen.Generate(ctx, synthesizeSystem, query)
	if err != nil {
		return prd.Summary{}, false, fmt.Errorf("executive summary call failed: %w", err)
	}

	if payload := extractJSON(text); payload != "" {
		var p summaryPayload
		if err := json.Unmarshal([]byte(payload), &p); err == nil && p.Vision != "" {
			return prd.Summary{
				Vision:            p.Vision,
				Mission:           p.Mission,
				Opportunity:       p.Opportunity,
				ValuePropositions: p.ValuePropositions,
				SuccessPotential:  p.SuccessPotential,
			}, false, nil
		}
	}

	log.Printf("[synthesize] executive summary response not valid JSON, using default section")
	return prd.Summary{
		Vision:            fmt.Sprintf("Deliver %s to the users who need it most", target.Title()),
		Mission:           "Deliver exceptional value to target users",
		Opportunity:       "Significant market opportunity identified",
		ValuePropositions: []string{"Innovative solution", "Strong market fit", "Scalable approach"},
		SuccessPotential:  "High potential based on validation analysis",
		Fallback:          true,
	}, true, nil
}

type featurePayload struct {
	Name        string `json:"name"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

type requirementsPayload struct {
	CoreFeatures     []featurePayload `json:"core_features"`
	EnhancedFeatures []featurePayload `json:"enhanced_features"`
	FutureFeatures   []featurePayload `json:"future_features"`
}

func (e *SynthesizeExecutor) functionalRequirements(ctx context.Context, target idea.Idea) (prd.Requirements, bool, error) {
	query := fmt.Sprintf(`Define functional requirements for:

Product: %s
Description: %s

Group the features as must-have, should-have and could-have.
Format as JSON with "core_features", "enhanced_features" and
"future_features" arrays; each entry has "name", "priority" and
"description" fields.`, target.Title(), target.Description())

	text, err := e.gen.Generate(ctx, synthesizeSystem, query)
	if err != nil {
		return prd.Requirements{}, false, fmt.Errorf("functional requirements call failed: %w", err)
	}

	if payload := extractJSON(text); payload != "" {
		var p requirementsPayload
		if err := json.Unmarshal([]byte(payload), &p); err == nil && len(p.CoreFeatures) > 0 {
			return prd.Requirements{
				Core:     toFeatures(p.CoreFeatures),
				Enhanced: toFeatures(p.EnhancedFeatures),
				Future:   toFeatures(p.FutureFeatures),
			}, false, nil
		}
	}

	log.Printf("[synthesize] functional requirements response not valid JSON, using default section")
	return prd.Requirements{
		Core: []prd.Feature{
			{Name: "Primary functionality", Priority: "Must-have", Description: "Core product capability"},
			{Name: "User interface", Priority: "Must-have", Description: "Intuitive user experience"},
			{Name: "Data management", Priority: "Must-have", Description: "Secure data handling"},
		},
		Enhanced: []prd.Feature{
			{Name: "Advanced analytics", Priority: "Should-have", Description: "Enhanced reporting"},
			{Name: "Integration capabilities", Priority: "Should-have", Description: "Third-party connections"},
		},
		Future: []prd.Feature{
			{Name: "AI enhancements", Priority: "Could-have", Description: "Machine learning features"},
		},
		Fallback: true,
	}, true, nil
}

func toFeatures(payloads []featurePayload) []prd.Feature {
	features := make([]prd.Feature, 0, len(payloads))
	for _, p := range payloads {
		features = append(features, prd.Feature{Name: p.Name, Priority: p.Priority, Description: p.Description})
	}
	return features
}

func buildOverview(target idea.Idea, result scoring.Result) prd.Overview {
	overview := prd.Overview{
		ProductName:      target.Title(),
		Description:      target.Description(),
		SolutionApproach: "User-centric approach to the identified problem",
		KeyDifferentiators: []string{
			"Innovation-focused approach",
			"User-centric design",
			"Scalable architecture",
		},
		LaunchReady: result.Overall >= 7,
	}

	switch {
	case target.Creative != nil:
		overview.TargetUsers = target.Creative.TargetMarket
		if target.Creative.UniqueValueProposition != "" {
			overview.SolutionApproach = target.Creative.UniqueValueProposition
		}
	case target.Business != nil:
		overview.TargetUsers = target.Business.MarketSize
		if target.Business.CompetitiveAdvantage != "" {
			overview.SolutionApproach = target.Business.CompetitiveAdvantage
		}
	case target.Product != nil:
		overview.TargetUsers = target.Product.TargetUsers
		if target.Product.ProblemSolved != "" {
			overview.SolutionApproach = target.Product.ProblemSolved
		}
	}

	return overview
}

func buildTechSpec(target idea.Idea) prd.TechSpec {
	spec := prd.TechSpec{
		SystemType: "Web-based application",
		Deployment: "Cloud-native",
		PerformanceTargets: []string{
			"< 200ms response time for API calls",
			"1000+ concurrent users",
		},
		SecurityRequirements: []string{
			"Authentication and authorization",
			"Data encryption in transit and at rest",
			"Regular security audits",
		},
	}
	if target.Product != nil && len(target.Product.TechnologyStack) > 0 {
		spec.BackendStack = target.Product.TechnologyStack
	}
	return spec
}

func buildTimeline() prd.Timeline {
	return prd.Timeline{
		Phases: []prd.Phase{
			{Name: "Discovery & Planning", Duration: "4 weeks", Deliverables: []string{"Requirements finalization", "Technical architecture", "Design system"}},
			{Name: "MVP Development", Duration: "12 weeks", Deliverables: []string{"Core features", "Basic UI", "Testing framework"}},
			{Name: "Beta Testing", Duration: "4 weeks", Deliverables: []string{"User feedback", "Performance optimization", "Bug fixes"}},
			{Name: "Launch Preparation", Duration: "4 weeks", Deliverables: []string{"Marketing materials", "Support documentation", "Launch strategy"}},
		},
		Milestones: []string{"Requirements sign-off", "MVP completion", "Beta user onboarding", "Public launch"},
		Estimated:  "6 months to launch",
	}
}

func buildMetrics() prd.Metrics {
	return prd.Metrics{
		UserTargets: []string{
			"1,000+ daily active users",
			"80% 30-day retention",
		},
		BusinessTargets: []string{
			"$50K MRR by month 12",
			"> 10% trial to paid conversion",
		},
		ProductTargets: []string{
			"> 60% core feature adoption",
			"> 4.5/5 user satisfaction",
		},
	}
}

func buildRisks() prd.Risks {
	return prd.Risks{
		Identified: []prd.Risk{
			{Risk: "Market competition", Probability: "Medium", Impact: "High", Mitigation: "Focus on unique value proposition and rapid iteration"},
			{Risk: "Technical complexity", Probability: "Medium", Impact: "Medium", Mitigation: "Phased development approach and technical prototyping"},
			{Risk: "User adoption", Probability: "Medium", Impact: "High", Mitigation: "Extensive user research and beta testing program"},
		},
		Contingencies: []string{
			"Pivot strategy for market changes",
			"Alternative technical approaches",
			"Timeline adjustment procedures",
		},
	}
}
