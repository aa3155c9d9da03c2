package estimate

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteText writes a plain-text summary of e suitable for pasting into an
// email or chat.
func WriteText(w io.Writer, e *Estimate) error {
	r := e.Result
	var b strings.Builder

	title := e.Title
	if title == "" {
		title = "Web project estimate"
	}
	fmt.Fprintf(&b, "%s\n", title)
	if e.ID != "" {
		fmt.Fprintf(&b, "Reference: %s\n", e.ID)
	}
	if !e.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Date: %s\n", e.CreatedAt.Format("2006-01-02 15:04"))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Project: %s (%s)\n", r.ProjectType, r.Tier)
	// Explicit calculations carry no answers to score.
	if e.Mapping.Score.Max > 0 {
		fmt.Fprintf(&b, "Complexity: %s, score %d/%d\n", e.Mapping.Score.Tier, e.Mapping.Score.Total, e.Mapping.Score.Max)
	}
	fmt.Fprintf(&b, "Hours: %.2f\n", r.TotalHours)
	fmt.Fprintf(&b, "Total: %.2f %s\n", r.TotalCost, r.Currency)
	fmt.Fprintf(&b, "Effective rate: %.2f %s/h\n", r.EffectiveHourlyRate, r.Currency)
	if r.MaintenanceHours > 0 {
		fmt.Fprintf(&b, "Maintenance: %.2f h, %.2f %s\n", r.MaintenanceHours, r.MaintenanceCost, r.Currency)
	}
	if r.Buffer != nil {
		fmt.Fprintf(&b, "Contingency (%.0f%%): %.2f h, %.2f %s\n", r.Buffer.Percent, r.Buffer.Hours, r.Buffer.Cost, r.Currency)
	}

	b.WriteString("\nPhases:\n")
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, item := range r.LineItems {
		fmt.Fprintf(tw, "  %s\t%.2f h\t%.2f %s\n", item.Label, item.Hours, item.Cost, r.Currency)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Addons) > 0 {
		b.WriteString("\nAddons:\n")
		for _, a := range r.Addons {
			fmt.Fprintf(&b, "  %s: %.2f h, %.2f %s\n", a.Label, a.Hours, a.Cost, r.Currency)
		}
	}

	if r.PaymentPlan != nil {
		fmt.Fprintf(&b, "\nPayment plan (%s):\n", r.PaymentPlan.Template)
		for _, m := range r.PaymentPlan.Milestones {
			fmt.Fprintf(&b, "  %s: %.0f%%, %.2f %s\n", m.Label, m.Percent, m.Amount, r.Currency)
		}
	}

	if len(r.Retainers) > 0 {
		b.WriteString("\nMaintenance retainers:\n")
		for _, p := range r.Retainers {
			mark := ""
			if p.Recommended {
				mark = " (recommended)"
			}
			fmt.Fprintf(&b, "  %s%s: %.2f h/month, %.2f %s/month\n", p.Name, mark, p.MonthlyHours, p.MonthlyFee, r.Currency)
		}
	}

	if r.AI != nil && r.AI.Applied {
		fmt.Fprintf(&b, "\nAI adjustment: x%.4f (confidence %.2f)\n", r.AI.Multiplier, r.AI.Confidence)
		for _, h := range r.AI.Highlights {
			fmt.Fprintf(&b, "  + %s\n", h)
		}
		for _, risk := range r.AI.Risks {
			fmt.Fprintf(&b, "  ! %s\n", risk)
		}
		if r.Deterministic != nil {
			fmt.Fprintf(&b, "Deterministic total: %.2f %s\n", r.Deterministic.TotalCost, r.Currency)
		}
	}

	b.WriteString("\nAssumptions:\n")
	if a := strings.TrimSpace(e.Mapping.Input.Assumptions); a != "" {
		fmt.Fprintf(&b, "  %s\n", a)
	} else {
		b.WriteString("  None recorded.\n")
	}
	if e.Notes != "" {
		fmt.Fprintf(&b, "\nNotes:\n  %s\n", e.Notes)
	}
	for _, warn := range e.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", warn)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
