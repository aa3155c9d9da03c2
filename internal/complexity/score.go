package complexity

import "github.com/Simplici0/webquote/internal/answers"

// Score tiers.
const (
	TierStarter      = "starter"
	TierProfessional = "professional"
	TierGrowth       = "growth"
	TierEnterprise   = "enterprise"
)

// Category is one capped component of the complexity score.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Score int    `json:"score"`
	Max   int    `json:"max"`
}

// Score is the numeric complexity assessment of an answer record.
type Score struct {
	Total         int        `json:"total"`
	Max           int        `json:"max"`
	Tier          string     `json:"tier"`
	BufferPercent float64    `json:"buffer_percent"`
	Categories    []Category `json:"categories"`
}

// TierIndex returns the position of the score tier, starter first.
func (s Score) TierIndex() int {
	for i, t := range tiers {
		if t.id == s.Tier {
			return i
		}
	}
	return 0
}

type scoreTier struct {
	id     string
	upTo   int
	buffer float64
}

// The last tier has no upper bound.
var tiers = []scoreTier{
	{TierStarter, 5, 20},
	{TierProfessional, 10, 25},
	{TierGrowth, 15, 30},
	{TierEnterprise, -1, 40},
}

type category struct {
	id    string
	label string
	max   int
	score func(answers.Record) int
}

var categories = []category{
	{"pages", "Page volume", 4, pageScore},
	{"cms", "CMS depth", 3, cmsScore},
	{"integrations", "Integrations", 4, integrationScore},
	{"commerce", "Commerce depth", 4, commerceScore},
	{"custom_code", "Custom code", 3, customCodeScore},
	{"design", "Design & motion", 3, designScore},
	{"compliance", "Compliance & QA", 3, complianceScore},
}

// Evaluate scores r across the seven categories and maps the total to a tier.
func Evaluate(r answers.Record) Score {
	s := Score{Categories: make([]Category, 0, len(categories))}
	for _, c := range categories {
		v := c.score(r)
		if v > c.max {
			v = c.max
		}
		if v < 0 {
			v = 0
		}
		s.Categories = append(s.Categories, Category{ID: c.id, Label: c.label, Score: v, Max: c.max})
		s.Total += v
		s.Max += c.max
	}

	s.Tier, s.BufferPercent = tierFor(s.Total)
	return s
}

func tierFor(total int) (string, float64) {
	for _, t := range tiers {
		if t.upTo < 0 || total <= t.upTo {
			return t.id, t.buffer
		}
	}
	last := tiers[len(tiers)-1]
	return last.id, last.buffer
}

func pageScore(r answers.Record) int {
	pages := r.Number(KeyPageCount, defaultPageCount)
	switch {
	case pages <= 5:
		return 0
	case pages <= 10:
		return 1
	case pages <= 20:
		return 2
	case pages <= 40:
		return 3
	default:
		return 4
	}
}

func cmsScore(r answers.Record) int {
	switch r.String(KeyCMS, "none") {
	case "basic":
		return 1
	case "structured":
		return 2
	case "headless":
		return 3
	default:
		return 0
	}
}

func integrationScore(r answers.Record) int {
	return len(r.Strings(KeyIntegrations))
}

func commerceScore(r answers.Record) int {
	switch r.String(KeyCommerce, "none") {
	case "simple":
		return 1
	case "catalog":
		return 2
	case "advanced":
		return 3
	case "marketplace":
		return 4
	default:
		return 0
	}
}

func customCodeScore(r answers.Record) int {
	n := 0
	for _, f := range []string{"accounts", "dashboard", "realtime", "custom_api", "calculator"} {
		if r.Contains(KeyFeatures, f) {
			n++
		}
	}
	if r.Bool(KeyCustomCode, false) {
		n++
	}
	return n
}

func designScore(r answers.Record) int {
	n := 0
	switch r.String(KeyDesignDepth, "template") {
	case "refined":
		n = 1
	case "bespoke":
		n = 2
	}
	if r.String(KeyMotionStrategy, "none") == "rich" {
		n++
	}
	return n
}

func complianceScore(r answers.Record) int {
	n := len(r.Strings(KeyCompliance))
	switch r.String(KeyQALevel, "standard") {
	case "extended":
		n++
	case "comprehensive":
		n += 2
	}
	return n
}
