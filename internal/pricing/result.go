package pricing

import (
	"slices"

	"github.com/shopspring/decimal"
)

// LineItem is one priced slice of work: a delivery phase or an addon.
type LineItem struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Hours       float64 `json:"hours"`
	Cost        float64 `json:"cost"`
	Description string  `json:"description"`
}

// Buffer is the contingency reserved on top of the estimate.
type Buffer struct {
	Percent float64 `json:"percent"`
	Hours   float64 `json:"hours"`
	Cost    float64 `json:"cost"`
}

// RetainerPackage is a priced monthly maintenance offering.
type RetainerPackage struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MonthlyHours float64  `json:"monthly_hours"`
	MonthlyFee   float64  `json:"monthly_fee"`
	Recommended  bool     `json:"recommended"`
	Notes        []string `json:"notes,omitempty"`
}

// Milestone is one payment of a payment plan.
type Milestone struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
	Amount  float64 `json:"amount"`
}

// PaymentPlan splits the total cost into milestones.
type PaymentPlan struct {
	Template   string      `json:"template"`
	Total      float64     `json:"total"`
	Milestones []Milestone `json:"milestones"`
}

// AIAdjustment describes how an external complexity insight changed a result.
type AIAdjustment struct {
	Applied             bool          `json:"applied"`
	Multiplier          float64       `json:"multiplier"`
	ComplexityScore     float64       `json:"complexity_score"`
	Confidence          float64       `json:"confidence"`
	Overrides           []string      `json:"overrides,omitempty"`
	OriginalMultipliers MultiplierSet `json:"original_multipliers"`
	ProposedMultipliers MultiplierSet `json:"proposed_multipliers"`
	Highlights          []string      `json:"highlights,omitempty"`
	Risks               []string      `json:"risks,omitempty"`
	Rationale           string        `json:"rationale,omitempty"`
	Model               string        `json:"model,omitempty"`
}

// DeterministicTotals keeps the pre-blend totals for audit.
type DeterministicTotals struct {
	TotalHours       float64 `json:"total_hours"`
	TotalCost        float64 `json:"total_cost"`
	MaintenanceHours float64 `json:"maintenance_hours"`
	MaintenanceCost  float64 `json:"maintenance_cost"`
}

// Result is the priced outcome of one calculation. Results are never
// modified after creation; transformations return a new Result.
type Result struct {
	RateTableVersion    string               `json:"rate_table_version"`
	Currency            string               `json:"currency,omitempty"`
	ProjectType         string               `json:"project_type"`
	Tier                string               `json:"tier"`
	Maintenance         string               `json:"maintenance"`
	BaseHours           float64              `json:"base_hours"`
	AdjustedHours       float64              `json:"adjusted_hours"`
	MaintenanceHours    float64              `json:"maintenance_hours"`
	MaintenanceCost     float64              `json:"maintenance_cost"`
	TotalHours          float64              `json:"total_hours"`
	TotalCost           float64              `json:"total_cost"`
	EffectiveHourlyRate float64              `json:"effective_hourly_rate"`
	Factors             Factors              `json:"factors"`
	Multipliers         MultiplierSet        `json:"multipliers"`
	LineItems           []LineItem           `json:"line_items"`
	Buffer              *Buffer              `json:"buffer,omitempty"`
	Addons              []LineItem           `json:"addons,omitempty"`
	Retainers           []RetainerPackage    `json:"retainers,omitempty"`
	PaymentPlan         *PaymentPlan         `json:"payment_plan,omitempty"`
	AI                  *AIAdjustment        `json:"ai,omitempty"`
	Deterministic       *DeterministicTotals `json:"deterministic,omitempty"`
}

// Clone returns a deep copy of r.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	c := *r
	c.LineItems = slices.Clone(r.LineItems)
	c.Addons = slices.Clone(r.Addons)
	if r.Retainers != nil {
		c.Retainers = make([]RetainerPackage, len(r.Retainers))
		for i, p := range r.Retainers {
			p.Notes = slices.Clone(p.Notes)
			c.Retainers[i] = p
		}
	}
	if r.Buffer != nil {
		b := *r.Buffer
		c.Buffer = &b
	}
	if r.PaymentPlan != nil {
		p := *r.PaymentPlan
		p.Milestones = slices.Clone(r.PaymentPlan.Milestones)
		c.PaymentPlan = &p
	}
	if r.AI != nil {
		a := *r.AI
		a.Overrides = slices.Clone(r.AI.Overrides)
		a.Highlights = slices.Clone(r.AI.Highlights)
		a.Risks = slices.Clone(r.AI.Risks)
		c.AI = &a
	}
	if r.Deterministic != nil {
		d := *r.Deterministic
		c.Deterministic = &d
	}
	return &c
}

// Totals snapshots the headline totals of r.
func (r *Result) Totals() DeterministicTotals {
	return DeterministicTotals{
		TotalHours:       r.TotalHours,
		TotalCost:        r.TotalCost,
		MaintenanceHours: r.MaintenanceHours,
		MaintenanceCost:  r.MaintenanceCost,
	}
}

// WithBuffer returns a copy of r carrying a contingency buffer of percent of
// total hours, priced at hourlyRate.
func WithBuffer(r *Result, percent, hourlyRate float64) *Result {
	c := r.Clone()
	hours := Round2(r.TotalHours * percent / 100)
	c.Buffer = &Buffer{
		Percent: percent,
		Hours:   hours,
		Cost:    Round2(hours * hourlyRate),
	}
	return c
}

// WithDerived returns a copy of r carrying addons, retainer packages and a
// payment plan.
func WithDerived(r *Result, addons []LineItem, retainers []RetainerPackage, plan *PaymentPlan) *Result {
	c := r.Clone()
	c.Addons = slices.Clone(addons)
	c.Retainers = nil
	if retainers != nil {
		c.Retainers = make([]RetainerPackage, len(retainers))
		for i, p := range retainers {
			p.Notes = slices.Clone(p.Notes)
			c.Retainers[i] = p
		}
	}
	c.PaymentPlan = nil
	if plan != nil {
		p := *plan
		p.Milestones = slices.Clone(plan.Milestones)
		c.PaymentPlan = &p
	}
	return c
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return RoundTo(v, 2)
}

// RoundTo rounds half away from zero to places decimal places. A negative
// places leaves v untouched.
func RoundTo(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	return decimal.NewFromFloat(v).Round(int32(places)).InexactFloat64()
}
