package workflow

// Type names a workflow template.
type Type string

const (
	FullPipeline   Type = "full_pipeline"
	IdeaGeneration Type = "idea_generation"
	ValidationOnly Type = "validation_only"
	PRDCreation    Type = "prd_creation"
)

// StepKind identifies one pipeline stage.
type StepKind string

const (
	StepGenerateIdeas StepKind = "generate_ideas"
	StepValidateIdeas StepKind = "validate_ideas"
	StepCreatePRD     StepKind = "create_prd"
)

// Template is a named, ordered list of step kinds. Templates are static
// and loaded once at process start.
type Template struct {
	Type  Type
	Steps []StepKind
}

var templates = map[Type]Template{
	FullPipeline: {
		Type:  FullPipeline,
		Steps: []StepKind{StepGenerateIdeas, StepValidateIdeas, StepCreatePRD},
	},
	IdeaGeneration: {
		Type:  IdeaGeneration,
		Steps: []StepKind{StepGenerateIdeas},
	},
	ValidationOnly: {
		Type:  ValidationOnly,
		Steps: []StepKind{StepValidateIdeas},
	},
	PRDCreation: {
		Type:  PRDCreation,
		Steps: []StepKind{StepCreatePRD},
	},
}

// LookupTemplate resolves a workflow type to its template.
func LookupTemplate(t Type) (Template, bool) {
	tpl, ok := templates[t]
	if !ok {
		return Template{}, false
	}
	// Copy the step slice so callers cannot mutate the registry.
	steps := make([]StepKind, len(tpl.Steps))
	copy(steps, tpl.Steps)
	return Template{Type: tpl.Type, Steps: steps}, true
}
