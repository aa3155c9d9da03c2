package blend

import (
	"math"

	"github.com/Simplici0/webquote/internal/insight"
	"github.com/Simplici0/webquote/internal/pricing"
)

// Bounds of the global adjustment.
const (
	MinGlobalMultiplier = 0.9
	MaxGlobalMultiplier = 1.2
	MinAppliedFactor    = 0.8
	MaxAppliedFactor    = 1.25
	noopTolerance       = 0.01
)

// GlobalMultiplier maps the insight score and confidence to an overall
// adjustment in [MinGlobalMultiplier, MaxGlobalMultiplier]. Scores above 60
// push the estimate up, lower scores pull it down, and confidence scales the
// effect.
func GlobalMultiplier(in insight.Insight) float64 {
	score := clamp(in.ComplexityScore, 0, 100)
	conf := clamp(in.Confidence, 0, 1)

	bias := score/100 - 0.6
	m := 1 + bias*0.4*(0.5+conf/2)
	return clamp(m, MinGlobalMultiplier, MaxGlobalMultiplier)
}

// ApplyMultiplier scales the hours of r by m and reprices them at
// hourlyRate. Multipliers within 0.01 of 1 return r itself. The factor is
// clamped to [MinAppliedFactor, MaxAppliedFactor]; costs are always
// recomputed from the scaled hours.
func ApplyMultiplier(r *pricing.Result, hourlyRate, m float64) *pricing.Result {
	if math.Abs(m-1) < noopTolerance {
		return r
	}
	f := clamp(m, MinAppliedFactor, MaxAppliedFactor)

	c := r.Clone()
	c.AdjustedHours = pricing.Round2(r.AdjustedHours * f)
	c.MaintenanceHours = pricing.Round2(r.MaintenanceHours * f)
	c.TotalHours = pricing.Round2(r.TotalHours * f)
	c.MaintenanceCost = pricing.Round2(c.MaintenanceHours * hourlyRate)
	c.TotalCost = pricing.Round2(c.TotalHours * hourlyRate)
	if c.TotalHours > 0 {
		c.EffectiveHourlyRate = pricing.Round2(c.TotalCost / c.TotalHours)
	}

	for i, item := range c.LineItems {
		item.Hours = pricing.Round2(item.Hours * f)
		item.Cost = pricing.Round2(item.Hours * hourlyRate)
		c.LineItems[i] = item
	}
	if c.Buffer != nil {
		c.Buffer.Hours = pricing.Round2(c.Buffer.Hours * f)
		c.Buffer.Cost = pricing.Round2(c.Buffer.Hours * hourlyRate)
	}
	return c
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
