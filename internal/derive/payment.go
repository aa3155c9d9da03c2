package derive

import "github.com/Simplici0/webquote/internal/pricing"

type milestoneTemplate struct {
	id         string
	upTo       float64
	milestones []pricing.Milestone
}

// Templates are checked in order; the last one has no upper bound.
var paymentTemplates = []milestoneTemplate{
	{
		id:   "50/50",
		upTo: 6000,
		milestones: []pricing.Milestone{
			{ID: "kickoff", Label: "Kickoff", Percent: 50},
			{ID: "launch", Label: "Launch", Percent: 50},
		},
	},
	{
		id:   "33/33/34",
		upTo: 18000,
		milestones: []pricing.Milestone{
			{ID: "kickoff", Label: "Kickoff", Percent: 33},
			{ID: "design", Label: "Design approval", Percent: 33},
			{ID: "launch", Label: "Launch", Percent: 34},
		},
	},
	{
		id:   "25/25/25/25",
		upTo: -1,
		milestones: []pricing.Milestone{
			{ID: "kickoff", Label: "Kickoff", Percent: 25},
			{ID: "design", Label: "Design approval", Percent: 25},
			{ID: "development", Label: "Development complete", Percent: 25},
			{ID: "launch", Label: "Launch", Percent: 25},
		},
	},
}

// PaymentPlan picks the milestone template for totalCost and prices each
// milestone as its percentage of the total.
func PaymentPlan(totalCost float64) pricing.PaymentPlan {
	tpl := paymentTemplates[len(paymentTemplates)-1]
	for _, t := range paymentTemplates {
		if t.upTo < 0 || totalCost <= t.upTo {
			tpl = t
			break
		}
	}

	plan := pricing.PaymentPlan{
		Template:   tpl.id,
		Total:      totalCost,
		Milestones: make([]pricing.Milestone, len(tpl.milestones)),
	}
	for i, m := range tpl.milestones {
		m.Amount = pricing.Round2(m.Percent / 100 * totalCost)
		plan.Milestones[i] = m
	}
	return plan
}
