package idea

import "time"

// Category selects which prompt template and field set an idea carries.
type Category string

const (
	Creative Category = "creative"
	Business Category = "business"
	Product  Category = "product"
)

// Valid reports whether the category is one of the supported kinds.
func (c Category) Valid() bool {
	switch c {
	case Creative, Business, Product:
		return true
	}
	return false
}

// Idea is a tagged union: exactly one of the category payloads is set,
// matching Category. Unparsed marks best-effort records recovered from
// provider text that did not decode as JSON.
type Idea struct {
	ID          string    `json:"id"`
	Category    Category  `json:"category"`
	GeneratedAt time.Time `json:"generatedAt"`
	Unparsed    bool      `json:"unparsed,omitempty"`

	Creative *CreativeIdea `json:"creative,omitempty"`
	Business *BusinessIdea `json:"business,omitempty"`
	Product  *ProductIdea  `json:"product,omitempty"`
}

// CreativeIdea carries the creative-category field set.
type CreativeIdea struct {
	Title                    string `json:"title"`
	Concept                  string `json:"concept"`
	TargetMarket             string `json:"targetMarket,omitempty"`
	UniqueValueProposition   string `json:"uniqueValueProposition,omitempty"`
	InnovationLevel          int    `json:"innovationLevel,omitempty"`
	ImplementationDifficulty int    `json:"implementationDifficulty,omitempty"`
}

// BusinessIdea carries the business-category field set.
type BusinessIdea struct {
	BusinessName         string `json:"businessName"`
	Description          string `json:"description"`
	RevenueModel         string `json:"revenueModel,omitempty"`
	MarketSize           string `json:"marketSize,omitempty"`
	CompetitiveAdvantage string `json:"competitiveAdvantage,omitempty"`
	StartupCosts         string `json:"startupCosts,omitempty"`
	Scalability          int    `json:"scalability,omitempty"`
}

// ProductIdea carries the product-category field set.
type ProductIdea struct {
	ProductName         string   `json:"productName"`
	Description         string   `json:"description"`
	TargetUsers         string   `json:"targetUsers,omitempty"`
	ProblemSolved       string   `json:"problemSolved,omitempty"`
	KeyFeatures         []string `json:"keyFeatures,omitempty"`
	TechnologyStack     []string `json:"technologyStack,omitempty"`
	DevelopmentTimeline string   `json:"developmentTimeline,omitempty"`
	MarketReadiness     int      `json:"marketReadiness,omitempty"`
}

// Title returns the idea's display name regardless of category.
func (i Idea) Title() string {
	switch {
	case i.Creative != nil:
		return i.Creative.Title
	case i.Business != nil:
		return i.Business.BusinessName
	case i.Product != nil:
		return i.Product.ProductName
	}
	return ""
}

// Description returns the idea's core description regardless of category.
func (i Idea) Description() string {
	switch {
	case i.Creative != nil:
		return i.Creative.Concept
	case i.Business != nil:
		return i.Business.Description
	case i.Product != nil:
		return i.Product.Description
	}
	return ""
}
