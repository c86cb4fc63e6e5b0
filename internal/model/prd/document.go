package prd

import "time"

// Document is the requirements-document synthesis output. Sections built
// from provider text carry per-section fallback markers when the response
// could not be parsed into the expected structure.
type Document struct {
	ID          string    `json:"id"`
	ProductName string    `json:"productName"`
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`

	ExecutiveSummary       Summary      `json:"executiveSummary"`
	Overview               Overview     `json:"overview"`
	FunctionalRequirements Requirements `json:"functionalRequirements"`
	TechnicalRequirements  TechSpec     `json:"technicalRequirements"`
	Timeline               Timeline     `json:"timeline"`
	SuccessMetrics         Metrics      `json:"successMetrics"`
	RiskAssessment         Risks        `json:"riskAssessment"`

	Fallback bool `json:"fallback,omitempty"`
}

// Summary is the executive summary section.
type Summary struct {
	Vision            string   `json:"vision"`
	Mission           string   `json:"mission"`
	Opportunity       string   `json:"opportunity"`
	ValuePropositions []string `json:"valuePropositions"`
	SuccessPotential  string   `json:"successPotential"`
	Fallback          bool     `json:"fallback,omitempty"`
}

// Overview describes the product at a glance.
type Overview struct {
	ProductName        string   `json:"productName"`
	Description        string   `json:"description"`
	TargetUsers        string   `json:"targetUsers"`
	SolutionApproach   string   `json:"solutionApproach"`
	KeyDifferentiators []string `json:"keyDifferentiators"`
	LaunchReady        bool     `json:"launchReady"`
}

// Feature is a single prioritized requirement.
type Feature struct {
	Name        string `json:"name"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// Requirements groups features by priority horizon.
type Requirements struct {
	Core     []Feature `json:"coreFeatures"`
	Enhanced []Feature `json:"enhancedFeatures"`
	Future   []Feature `json:"futureFeatures"`
	Fallback bool      `json:"fallback,omitempty"`
}

// TechSpec captures architecture and stack requirements.
type TechSpec struct {
	SystemType           string   `json:"systemType"`
	Deployment           string   `json:"deployment"`
	BackendStack         []string `json:"backendStack"`
	PerformanceTargets   []string `json:"performanceTargets"`
	SecurityRequirements []string `json:"securityRequirements"`
}

// Phase is one timeline segment with its deliverables.
type Phase struct {
	Name         string   `json:"name"`
	Duration     string   `json:"duration"`
	Deliverables []string `json:"deliverables"`
}

// Timeline lays out project phases and milestones.
type Timeline struct {
	Phases     []Phase  `json:"phases"`
	Milestones []string `json:"milestones"`
	Estimated  string   `json:"estimatedTimeline"`
}

// Metrics lists success targets by area.
type Metrics struct {
	UserTargets     []string `json:"userTargets"`
	BusinessTargets []string `json:"businessTargets"`
	ProductTargets  []string `json:"productTargets"`
}

// Risk is one identified risk with its mitigation.
type Risk struct {
	Risk        string `json:"risk"`
	Probability string `json:"probability"`
	Impact      string `json:"impact"`
	Mitigation  string `json:"mitigation"`
}

// Risks is the risk assessment section.
type Risks struct {
	Identified    []Risk   `json:"identified"`
	Contingencies []string `json:"contingencies"`
}
