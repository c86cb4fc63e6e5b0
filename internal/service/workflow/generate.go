package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/whuang/agentlab/internal/config"
	"github.com/whuang/agentlab/internal/model/idea"
	"github.com/whuang/agentlab/internal/model/workflow"
)

const generateSystem = "You are an expert idea generation coach. Always respond with valid JSON when the prompt asks for it."

// Category prompt templates. Field names differ per category and the
// parser branches accordingly.
var generatePrompts = map[idea.Category]string{
	idea.Creative: `Generate %d innovative and creative ideas based on the following prompt:

%s

For each idea, provide:
1. title: a catchy, memorable name
2. concept: a clear 2-3 sentence description
3. target_market: who would use this
4. unique_value_proposition: what makes it special
5. innovation_level: rate 1-10 (10 being most innovative)
6. implementation_difficulty: rate 1-10 (10 being most difficult)

Format your response as a JSON array of idea objects using exactly those keys.`,

	idea.Business: `Create %d viable business ideas for:

%s

Each idea should include:
1. business_name: a professional, marketable name
2. description: a clear business model description
3. revenue_model: how it makes money
4. market_size: estimated target market
5. competitive_advantage: key differentiators
6. startup_costs: rough estimate (Low/Medium/High)
7. scalability: growth potential (1-10)

Return a JSON array of business idea objects using exactly those keys.`,

	idea.Product: `As a product innovation specialist, develop %d product ideas for:

%s

For each product idea:
1. product_name: a market-ready name
2. description: core functionality and features
3. target_users: primary user personas
4. problem_solved: what pain point it addresses
5. key_features: top 3-5 features as a JSON array of strings
6. technology_stack: required technologies as a JSON array of strings
7. development_timeline: estimated timeframe
8. market_readiness: how ready the market is (1-10)

Provide the response as a JSON array using exactly those keys.`,
}

// GenerateExecutor runs the idea-generation stage.
type GenerateExecutor struct {
	gen             TextGenerator
	defaultNumIdeas int
}

// NewGenerateExecutor builds the idea-generation executor.
func NewGenerateExecutor(gen TextGenerator, cfg config.AgentConfig) *GenerateExecutor {
	return &GenerateExecutor{gen: gen, defaultNumIdeas: cfg.NumIdeas}
}

func (e *GenerateExecutor) Kind() workflow.StepKind {
	return workflow.StepGenerateIdeas
}

// Execute builds a category-specific prompt, invokes the provider and
// parses the response into tagged idea records. A response that does not
// decode as JSON degrades to key-value extraction with Unparsed markers
// instead of failing the step.
func (e *GenerateExecutor) Execute(ctx context.Context, in Input) (*StepResult, error) {
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, ErrPromptRequired
	}

	category := in.Category
	if !category.Valid() {
		category = idea.Creative
	}

	count := in.NumIdeas
	if count <= 0 {
		count = e.defaultNumIdeas
	}

	query := fmt.Sprintf(generatePrompts[category], count, in.Prompt)
	text, err := e.gen.Generate(ctx, generateSystem, query)
	if err != nil {
		return nil, fmt.Errorf("idea generation call failed: %w", err)
	}

	ideas, parsed := parseIdeas(text, category, count)
	if !parsed {
		log.Printf("[generate] provider response not valid JSON, using key-value fallback (category=%s)", category)
	}

	result := &StepResult{Ideas: ideas}
	if !parsed {
		result.Fallback = true
		result.FallbackReason = "provider response was not parseable JSON; ideas recovered from text"
	}
	return result, nil
}

// parseIdeas decodes the provider text into exactly count idea records.
// The second return value is false when the JSON path failed and the
// records were recovered from plain text.
func parseIdeas(text string, category idea.Category, count int) ([]idea.Idea, bool) {
	now := time.Now().UTC()

	if payload := extractJSON(text); payload != "" {
		if ideas, ok := decodeIdeaArray(payload, category, now); ok && len(ideas) > 0 {
			if len(ideas) > count {
				ideas = ideas[:count]
			}
			return ideas, true
		}
	}

	var ideas []idea.Idea
	for _, block := range extractKeyValueBlocks(text) {
		ideas = append(ideas, ideaFromKeyValues(block, category, now))
	}
	return capAndPad(ideas, category, count, now), false
}

func decodeIdeaArray(payload string, category idea.Category, now time.Time) ([]idea.Idea, bool) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		// Some providers return a single object for count=1.
		var single json.RawMessage
		if err := json.Unmarshal([]byte(payload), &single); err != nil {
			return nil, false
		}
		raw = []json.RawMessage{single}
	}

	ideas := make([]idea.Idea, 0, len(raw))
	for _, item := range raw {
		record, ok := decodeIdea(item, category, now)
		if !ok {
			continue
		}
		ideas = append(ideas, record)
	}
	return ideas, len(ideas) > 0
}

// Payload structs mirror the snake_case keys the prompts request. Numeric
// ratings use float64 so "7" and "7.0" both decode, then round to int.
type creativePayload struct {
	Title                    string  `json:"title"`
	Concept                  string  `json:"concept"`
	TargetMarket             string  `json:"target_market"`
	UniqueValueProposition   string  `json:"unique_value_proposition"`
	InnovationLevel          float64 `json:"innovation_level"`
	ImplementationDifficulty float64 `json:"implementation_difficulty"`
}

type businessPayload struct {
	BusinessName         string  `json:"business_name"`
	Description          string  `json:"description"`
	RevenueModel         string  `json:"revenue_model"`
	MarketSize           string  `json:"market_size"`
	CompetitiveAdvantage string  `json:"competitive_advantage"`
	StartupCosts         string  `json:"startup_costs"`
	Scalability          float64 `json:"scalability"`
}

type productPayload struct {
	ProductName         string   `json:"product_name"`
	Description         string   `json:"description"`
	TargetUsers         string   `json:"target_users"`
	ProblemSolved       string   `json:"problem_solved"`
	KeyFeatures         []string `json:"key_features"`
	TechnologyStack     []string `json:"technology_stack"`
	DevelopmentTimeline string   `json:"development_timeline"`
	MarketReadiness     float64  `json:"market_readiness"`
}

func decodeIdea(item json.RawMessage, category idea.Category, now time.Time) (idea.Idea, bool) {
	record := idea.Idea{
		ID:          uuid.NewString(),
		Category:    category,
		GeneratedAt: now,
	}

	switch category {
	case idea.Creative:
		var p creativePayload
		if err := json.Unmarshal(item, &p); err != nil || p.Title == "" {
			return idea.Idea{}, false
		}
		record.Creative = &idea.CreativeIdea{
			Title:                    p.Title,
			Concept:                  p.Concept,
			TargetMarket:             p.TargetMarket,
			UniqueValueProposition:   p.UniqueValueProposition,
			InnovationLevel:          roundRating(p.InnovationLevel),
			ImplementationDifficulty: roundRating(p.ImplementationDifficulty),
		}
	case idea.Business:
		var p businessPayload
		if err := json.Unmarshal(item, &p); err != nil || p.BusinessName == "" {
			return idea.Idea{}, false
		}
		record.Business = &idea.BusinessIdea{
			BusinessName:         p.BusinessName,
			Description:          p.Description,
			RevenueModel:         p.RevenueModel,
			MarketSize:           p.MarketSize,
			CompetitiveAdvantage: p.CompetitiveAdvantage,
			StartupCosts:         p.StartupCosts,
			Scalability:          roundRating(p.Scalability),
		}
	case idea.Product:
		var p productPayload
		if err := json.Unmarshal(item, &p); err != nil || p.ProductName == "" {
			return idea.Idea{}, false
		}
		record.Product = &idea.ProductIdea{
			ProductName:         p.ProductName,
			Description:         p.Description,
			TargetUsers:         p.TargetUsers,
			ProblemSolved:       p.ProblemSolved,
			KeyFeatures:         p.KeyFeatures,
			TechnologyStack:     p.TechnologyStack,
			DevelopmentTimeline: p.DevelopmentTimeline,
			MarketReadiness:     roundRating(p.MarketReadiness),
		}
	default:
		return idea.Idea{}, false
	}

	return record, true
}

// ideaFromKeyValues maps loosely extracted pairs onto the category's
// field set, marking the record as unparsed.
func ideaFromKeyValues(block map[string]string, category idea.Category, now time.Time) idea.Idea {
	record := idea.Idea{
		ID:          uuid.NewString(),
		Category:    category,
		GeneratedAt: now,
		Unparsed:    true,
	}

	name := firstNonEmpty(block["title"], block["business_name"], block["product_name"], block["name"])
	description := firstNonEmpty(block["concept"], block["description"])

	switch category {
	case idea.Business:
		record.Business = &idea.BusinessIdea{
			BusinessName:         name,
			Description:          description,
			RevenueModel:         block["revenue_model"],
			MarketSize:           block["market_size"],
			CompetitiveAdvantage: block["competitive_advantage"],
			StartupCosts:         block["startup_costs"],
			Scalability:          ratingFromString(block["scalability"]),
		}
	case idea.Product:
		record.Product = &idea.ProductIdea{
			ProductName:         name,
			Description:         description,
			TargetUsers:         block["target_users"],
			ProblemSolved:       block["problem_solved"],
			DevelopmentTimeline: block["development_timeline"],
			MarketReadiness:     ratingFromString(block["market_readiness"]),
		}
	default:
		record.Creative = &idea.CreativeIdea{
			Title:                    name,
			Concept:                  description,
			TargetMarket:             block["target_market"],
			UniqueValueProposition:   block["unique_value_proposition"],
			InnovationLevel:          ratingFromString(block["innovation_level"]),
			ImplementationDifficulty: ratingFromString(block["implementation_difficulty"]),
		}
	}

	return record
}

// capAndPad trims to count and pads with placeholder records so the
// text-fallback path still returns the number of ideas asked for.
func capAndPad(ideas []idea.Idea, category idea.Category, count int, now time.Time) []idea.Idea {
	if len(ideas) > count {
		ideas = ideas[:count]
	}
	for len(ideas) < count {
		ideas = append(ideas, placeholderIdea(category, len(ideas)+1, now))
	}
	return ideas
}

func placeholderIdea(category idea.Category, n int, now time.Time) idea.Idea {
	record := idea.Idea{
		ID:          uuid.NewString(),
		Category:    category,
		GeneratedAt: now,
		Unparsed:    true,
	}
	name := fmt.Sprintf("Generated Idea %d", n)
	description := "Creative solution generated from input prompt"

	switch category {
	case idea.Business:
		record.Business = &idea.BusinessIdea{BusinessName: name, Description: description}
	case idea.Product:
		record.Product = &idea.ProductIdea{ProductName: name, Description: description}
	default:
		record.Creative = &idea.CreativeIdea{Title: name, Concept: description, InnovationLevel: 5}
	}
	return record
}

func roundRating(v float64) int {
	return int(math.Round(v))
}

func ratingFromString(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// Tolerate trailing qualifiers like "8/10" or "7 (high)".
	for i, r := range s {
		if r < '0' || r > '9' {
			s = s[:i]
			break
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
