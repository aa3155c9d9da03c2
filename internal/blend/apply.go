package blend

import (
	"math"

	"github.com/Simplici0/webquote/internal/insight"
	"github.com/Simplici0/webquote/internal/pricing"
)

// Apply recalculates in with the multiplier set merged from ins, applies the
// global multiplier and records how the insight changed the estimate. base is
// the deterministic result for in; it is kept as the audit snapshot and never
// modified.
func Apply(in pricing.Input, base *pricing.Result, ins insight.Insight) (*pricing.Result, error) {
	ins = insight.Normalize(ins)

	original := base.Multipliers
	blended, overrides := Merge(original, ins)

	blendedIn := in
	blendedIn.Multipliers = blended
	recalculated, err := pricing.Calculate(blendedIn)
	if err != nil {
		return nil, err
	}

	m := GlobalMultiplier(ins)
	adjusted := ApplyMultiplier(recalculated, in.HourlyRate, m)

	out := adjusted.Clone()
	out.Currency = base.Currency
	out.AI = &pricing.AIAdjustment{
		Applied:             blended != original || math.Abs(m-1) >= noopTolerance,
		Multiplier:          m,
		ComplexityScore:     ins.ComplexityScore,
		Confidence:          ins.Confidence,
		Overrides:           overrides,
		OriginalMultipliers: original,
		ProposedMultipliers: ins.Multipliers,
		Highlights:          ins.Highlights,
		Risks:               ins.Risks,
		Rationale:           ins.Rationale,
		Model:               ins.Model,
	}
	totals := base.Totals()
	out.Deterministic = &totals
	return out, nil
}
