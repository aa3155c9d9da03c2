// Package ratetable holds the static lookup data the estimator prices against:
// base hours per project type and tier, multiplier levels and their factors,
// maintenance factors and phase weights.
//
// Tables are unexported and only reachable through accessors that return
// copies or scalars, so callers cannot mutate them at runtime.
package ratetable

// Version identifies the table revision recorded on every result.
const Version = "2024.2"

// Hourly-rate bounds applied when mapping answers to a calculation input.
const (
	MinHourlyRate = 15.0
	MaxHourlyRate = 500.0
)

// Factor names one axis of the complexity multiplier set.
type Factor string

const (
	FactorDesign        Factor = "design"
	FactorFunctionality Factor = "functionality"
	FactorContent       Factor = "content"
	FactorTechnical     Factor = "technical"
	FactorTimeline      Factor = "timeline"
)

// Project types.
const (
	LandingPage   = "landing_page"
	MarketingSite = "marketing_site"
	Ecommerce     = "ecommerce"
	WebApp        = "web_app"
)

// Maintenance levels.
const (
	MaintenanceNone     = "none"
	MaintenanceBasic    = "basic"
	MaintenanceStandard = "standard"
	MaintenancePremium  = "premium"
)

type level struct {
	id     string
	factor float64
}

type tier struct {
	id    string
	hours float64
}

// Phase is one slice of the delivery plan and its share of total hours.
type Phase struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

var factorOrder = []Factor{
	FactorDesign,
	FactorFunctionality,
	FactorContent,
	FactorTechnical,
	FactorTimeline,
}

// Levels are ordered from least to most effort.
var levels = map[Factor][]level{
	FactorDesign: {
		{"minimal", 1.00},
		{"standard", 1.15},
		{"custom", 1.35},
		{"immersive", 1.60},
	},
	FactorFunctionality: {
		{"basic", 1.00},
		{"interactive", 1.20},
		{"advanced", 1.45},
		{"platform", 1.75},
	},
	FactorContent: {
		{"light", 1.00},
		{"moderate", 1.10},
		{"heavy", 1.25},
	},
	FactorTechnical: {
		{"basic", 1.00},
		{"integrations", 1.15},
		{"complex", 1.35},
		{"regulated", 1.55},
	},
	FactorTimeline: {
		{"flexible", 1.00},
		{"standard", 1.10},
		{"accelerated", 1.25},
		{"rush", 1.40},
	},
}

var projectTypes = []string{LandingPage, MarketingSite, Ecommerce, WebApp}

var baseHours = map[string][]tier{
	LandingPage: {
		{"simple", 24},
		{"moderate", 40},
		{"complex", 64},
	},
	MarketingSite: {
		{"starter", 80},
		{"standard", 140},
		{"premium", 220},
	},
	Ecommerce: {
		{"starter", 160},
		{"growth", 280},
		{"enterprise", 460},
	},
	WebApp: {
		{"mvp", 240},
		{"standard", 420},
		{"complex", 700},
	},
}

var maintenanceLevels = []level{
	{MaintenanceNone, 0},
	{MaintenanceBasic, 0.08},
	{MaintenanceStandard, 0.15},
	{MaintenancePremium, 0.25},
}

var phases = []Phase{
	{ID: "discovery", Label: "Discovery & Strategy", Weight: 0.10, Description: "Workshops, requirements and sitemap"},
	{ID: "design", Label: "UX & Visual Design", Weight: 0.20, Description: "Wireframes, visual design and prototypes"},
	{ID: "development", Label: "Development", Weight: 0.45, Description: "Front-end, back-end and CMS build"},
	{ID: "qa", Label: "QA & Testing", Weight: 0.15, Description: "Cross-browser, accessibility and regression testing"},
	{ID: "launch", Label: "Launch & Handoff", Weight: 0.10, Description: "Deployment, training and documentation"},
}

// Factors returns the multiplier axes in their canonical order.
func Factors() []Factor {
	out := make([]Factor, len(factorOrder))
	copy(out, factorOrder)
	return out
}

// Levels returns the ordered level ids for a factor, lowest effort first.
func Levels(f Factor) []string {
	lv := levels[f]
	out := make([]string, len(lv))
	for i, l := range lv {
		out[i] = l.id
	}
	return out
}

// Rank returns the position of lvl inside the factor's enumeration, or -1.
func Rank(f Factor, lvl string) int {
	for i, l := range levels[f] {
		if l.id == lvl {
			return i
		}
	}
	return -1
}

// Multiplier returns the numeric factor applied for a level.
func Multiplier(f Factor, lvl string) (float64, bool) {
	for _, l := range levels[f] {
		if l.id == lvl {
			return l.factor, true
		}
	}
	return 0, false
}

// DefaultLevel is the lowest-effort level of a factor.
func DefaultLevel(f Factor) string {
	lv := levels[f]
	if len(lv) == 0 {
		return ""
	}
	return lv[0].id
}

// ProjectTypes lists the supported project types.
func ProjectTypes() []string {
	out := make([]string, len(projectTypes))
	copy(out, projectTypes)
	return out
}

// ValidProjectType reports whether pt has a tier table.
func ValidProjectType(pt string) bool {
	_, ok := baseHours[pt]
	return ok
}

// Tiers returns the tier ids of a project type, smallest first.
func Tiers(pt string) []string {
	ts := baseHours[pt]
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.id
	}
	return out
}

// BaseHours looks up the base effort of a (project type, tier) pair.
func BaseHours(pt, tierID string) (float64, bool) {
	for _, t := range baseHours[pt] {
		if t.id == tierID {
			return t.hours, true
		}
	}
	return 0, false
}

// MaintenanceLevels lists maintenance levels, lowest first.
func MaintenanceLevels() []string {
	out := make([]string, len(maintenanceLevels))
	for i, l := range maintenanceLevels {
		out[i] = l.id
	}
	return out
}

// MaintenanceFactor returns the share of adjusted hours reserved for maintenance.
func MaintenanceFactor(lvl string) (float64, bool) {
	for _, l := range maintenanceLevels {
		if l.id == lvl {
			return l.factor, true
		}
	}
	return 0, false
}

// Phases returns the delivery phases in order. Weights sum to 1.0.
func Phases() []Phase {
	out := make([]Phase, len(phases))
	copy(out, phases)
	return out
}

// LevelFactor is an exported view of one enumeration entry.
type LevelFactor struct {
	Level  string  `json:"level"`
	Factor float64 `json:"factor"`
}

// TierHours is an exported view of one tier.
type TierHours struct {
	Tier  string  `json:"tier"`
	Hours float64 `json:"hours"`
}

// Table is a serializable copy of every table, used by the rates endpoint.
type Table struct {
	Version      string                   `json:"version"`
	ProjectTypes map[string][]TierHours   `json:"project_types"`
	Multipliers  map[Factor][]LevelFactor `json:"multipliers"`
	Maintenance  []LevelFactor            `json:"maintenance"`
	Phases       []Phase                  `json:"phases"`
}

// Snapshot copies the tables into a Table.
func Snapshot() Table {
	t := Table{
		Version:      Version,
		ProjectTypes: make(map[string][]TierHours, len(baseHours)),
		Multipliers:  make(map[Factor][]LevelFactor, len(levels)),
		Phases:       Phases(),
	}
	for pt, tiers := range baseHours {
		for _, tr := range tiers {
			t.ProjectTypes[pt] = append(t.ProjectTypes[pt], TierHours{Tier: tr.id, Hours: tr.hours})
		}
	}
	for f, lv := range levels {
		for _, l := range lv {
			t.Multipliers[f] = append(t.Multipliers[f], LevelFactor{Level: l.id, Factor: l.factor})
		}
	}
	for _, l := range maintenanceLevels {
		t.Maintenance = append(t.Maintenance, LevelFactor{Level: l.id, Factor: l.factor})
	}
	return t
}
