package pricing

import (
	"errors"
	"fmt"

	"github.com/Simplici0/webquote/internal/ratetable"
)

// ErrUnknownTier is returned when a (project type, tier) pair has no base hours.
var ErrUnknownTier = errors.New("unknown tier")

// MultiplierSet classifies effort along the five complexity axes.
type MultiplierSet struct {
	Design        string `json:"design"`
	Functionality string `json:"functionality"`
	Content       string `json:"content"`
	Technical     string `json:"technical"`
	Timeline      string `json:"timeline"`
}

// Get returns the level held for factor f.
func (m MultiplierSet) Get(f ratetable.Factor) string {
	switch f {
	case ratetable.FactorDesign:
		return m.Design
	case ratetable.FactorFunctionality:
		return m.Functionality
	case ratetable.FactorContent:
		return m.Content
	case ratetable.FactorTechnical:
		return m.Technical
	case ratetable.FactorTimeline:
		return m.Timeline
	}
	return ""
}

// With returns a copy of m with factor f set to lvl.
func (m MultiplierSet) With(f ratetable.Factor, lvl string) MultiplierSet {
	switch f {
	case ratetable.FactorDesign:
		m.Design = lvl
	case ratetable.FactorFunctionality:
		m.Functionality = lvl
	case ratetable.FactorContent:
		m.Content = lvl
	case ratetable.FactorTechnical:
		m.Technical = lvl
	case ratetable.FactorTimeline:
		m.Timeline = lvl
	}
	return m
}

// Lowest is the set with every factor at its least-effort level.
func Lowest() MultiplierSet {
	var m MultiplierSet
	for _, f := range ratetable.Factors() {
		m = m.With(f, ratetable.DefaultLevel(f))
	}
	return m
}

// Input holds the validated parameters of one calculation.
type Input struct {
	ProjectType string        `json:"project_type"`
	Tier        string        `json:"tier"`
	HourlyRate  float64       `json:"hourly_rate"`
	Multipliers MultiplierSet `json:"multipliers"`
	Maintenance string        `json:"maintenance"`
	Assumptions string        `json:"assumptions,omitempty"`
}

// Factors records the numeric factors a calculation actually applied.
type Factors struct {
	Design        float64 `json:"design"`
	Functionality float64 `json:"functionality"`
	Content       float64 `json:"content"`
	Technical     float64 `json:"technical"`
	Timeline      float64 `json:"timeline"`
	Complexity    float64 `json:"complexity"`
	Maintenance   float64 `json:"maintenance"`
}

// Calculate prices an input against the rate tables. Only an unknown tier is
// an error; unknown multiplier or maintenance levels fall back to the lowest
// level of their enumeration.
func Calculate(in Input) (*Result, error) {
	base, ok := ratetable.BaseHours(in.ProjectType, in.Tier)
	if !ok {
		return nil, fmt.Errorf("%w: %q for project type %q", ErrUnknownTier, in.Tier, in.ProjectType)
	}

	set, factors := resolveFactors(in.Multipliers)

	maintenance := in.Maintenance
	maintenanceFactor, ok := ratetable.MaintenanceFactor(maintenance)
	if !ok {
		maintenance = ratetable.MaintenanceNone
		maintenanceFactor = 0
	}
	factors.Maintenance = maintenanceFactor

	adjustedHours := Round2(base * factors.Complexity * factors.Timeline)
	maintenanceHours := Round2(adjustedHours * maintenanceFactor)
	totalHours := Round2(adjustedHours + maintenanceHours)
	totalCost := Round2(totalHours * in.HourlyRate)

	effectiveRate := in.HourlyRate
	if totalHours > 0 {
		effectiveRate = Round2(totalCost / totalHours)
	}

	return &Result{
		RateTableVersion:    ratetable.Version,
		ProjectType:         in.ProjectType,
		Tier:                in.Tier,
		Maintenance:         maintenance,
		BaseHours:           base,
		AdjustedHours:       adjustedHours,
		MaintenanceHours:    maintenanceHours,
		MaintenanceCost:     Round2(maintenanceHours * in.HourlyRate),
		TotalHours:          totalHours,
		TotalCost:           totalCost,
		EffectiveHourlyRate: effectiveRate,
		Factors:             factors,
		Multipliers:         set,
		LineItems:           phaseItems(totalHours, in.HourlyRate),
	}, nil
}

func resolveFactors(m MultiplierSet) (MultiplierSet, Factors) {
	var f Factors
	resolved := m
	values := make(map[ratetable.Factor]float64, 5)
	for _, factor := range ratetable.Factors() {
		lvl := m.Get(factor)
		v, ok := ratetable.Multiplier(factor, lvl)
		if !ok {
			lvl = ratetable.DefaultLevel(factor)
			v, _ = ratetable.Multiplier(factor, lvl)
		}
		resolved = resolved.With(factor, lvl)
		values[factor] = v
	}

	f.Design = values[ratetable.FactorDesign]
	f.Functionality = values[ratetable.FactorFunctionality]
	f.Content = values[ratetable.FactorContent]
	f.Technical = values[ratetable.FactorTechnical]
	f.Timeline = values[ratetable.FactorTimeline]
	f.Complexity = f.Design * f.Functionality * f.Content * f.Technical
	return resolved, f
}

// phaseItems splits total hours across phases. Each item is rounded on its
// own, so item costs may not add up to the total cost to the cent.
func phaseItems(totalHours, hourlyRate float64) []LineItem {
	phases := ratetable.Phases()
	items := make([]LineItem, 0, len(phases))
	for _, p := range phases {
		hours := Round2(totalHours * p.Weight)
		items = append(items, LineItem{
			ID:          p.ID,
			Label:       p.Label,
			Hours:       hours,
			Cost:        Round2(hours * hourlyRate),
			Description: p.Description,
		})
	}
	return items
}
