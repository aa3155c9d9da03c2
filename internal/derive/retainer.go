package derive

import (
	"fmt"

	"github.com/Simplici0/webquote/internal/answers"
	"github.com/Simplici0/webquote/internal/pricing"
	"github.com/Simplici0/webquote/internal/ratetable"
)

// Hosting owners.
const (
	OwnerClient   = "client"
	OwnerProvider = "provider"
)

const providerHostingHours = 3

// RetainerInput holds the parameters of the monthly retainer offer.
type RetainerInput struct {
	HourlyRate  float64
	Level       string
	Scope       string
	Cadence     string
	Owner       string
	SLA         string
	TargetHours float64
}

var levelDefaultHours = map[string]float64{
	ratetable.MaintenanceNone:     4,
	ratetable.MaintenanceBasic:    6,
	ratetable.MaintenanceStandard: 10,
	ratetable.MaintenancePremium:  20,
}

var cadenceMultipliers = map[string]float64{
	"quarterly": 0.5,
	"monthly":   1.0,
	"biweekly":  1.5,
	"weekly":    2.2,
}

var scopeMultipliers = map[string]float64{
	"essentials":    1.0,
	"standard":      1.3,
	"comprehensive": 1.7,
}

type sla struct {
	multiplier    float64
	responseHours int
}

var slas = map[string]sla{
	"standard": {1.0, 48},
	"priority": {1.2, 24},
	"critical": {1.5, 4},
}

var tierValues = map[string]float64{
	ratetable.MaintenanceNone:     1.0,
	ratetable.MaintenanceBasic:    1.0,
	ratetable.MaintenanceStandard: 1.05,
	ratetable.MaintenancePremium:  1.10,
}

type retainerPackage struct {
	id          string
	name        string
	factor      float64
	floor       float64
	delta       float64
	upsell      string
	recommended []string
}

var retainerPackages = []retainerPackage{
	{
		id: "starter", name: "Starter", factor: 0.75, floor: 4, delta: -0.05,
		upsell:      "Step up to Professional for proactive monthly improvements.",
		recommended: []string{ratetable.MaintenanceNone, ratetable.MaintenanceBasic},
	},
	{
		id: "professional", name: "Professional", factor: 1.0, floor: 8, delta: 0,
		upsell:      "Growth adds a dedicated optimisation and experimentation budget.",
		recommended: []string{ratetable.MaintenanceStandard},
	},
	{
		id: "growth", name: "Growth", factor: 1.6, floor: 16, delta: 0.05,
		recommended: []string{ratetable.MaintenancePremium},
	},
}

// RetainerInputFromAnswers resolves the retainer parameters from r, falling
// back to essentials scope, monthly cadence, client hosting and standard SLA.
func RetainerInputFromAnswers(r answers.Record, hourlyRate float64, level string) RetainerInput {
	return RetainerInput{
		HourlyRate:  hourlyRate,
		Level:       level,
		Scope:       r.OneOf(KeyMaintenanceScope, "essentials", "essentials", "standard", "comprehensive"),
		Cadence:     r.OneOf(KeyMaintenanceCadence, "monthly", "quarterly", "monthly", "biweekly", "weekly"),
		Owner:       r.OneOf(KeyHostingOwner, OwnerClient, OwnerClient, OwnerProvider),
		SLA:         r.OneOf(KeySupportSLA, "standard", "standard", "priority", "critical"),
		TargetHours: r.Number(KeyMaintenanceHours, 0),
	}
}

// BaseMonthlyHours is the unscaled monthly effort the packages are sized from.
func BaseMonthlyHours(in RetainerInput) float64 {
	hours := in.TargetHours
	if hours <= 0 {
		hours = lookup(levelDefaultHours, in.Level, ratetable.MaintenanceNone)
	}
	hours *= lookup(cadenceMultipliers, in.Cadence, "monthly")
	hours *= lookup(scopeMultipliers, in.Scope, "essentials")
	hours *= slaFor(in.SLA).multiplier
	if in.Owner == OwnerProvider {
		hours += providerHostingHours
	}
	return hours
}

// Retainers prices the Starter, Professional and Growth packages.
func Retainers(in RetainerInput) []pricing.RetainerPackage {
	base := BaseMonthlyHours(in)
	tierValue := lookup(tierValues, in.Level, ratetable.MaintenanceNone)
	s := slaFor(in.SLA)

	out := make([]pricing.RetainerPackage, 0, len(retainerPackages))
	for _, p := range retainerPackages {
		hours := pricing.Round2(base * p.factor)
		if hours < p.floor {
			hours = p.floor
		}

		notes := []string{hostingNote(in.Owner), fmt.Sprintf("Responses within %d business hours.", s.responseHours)}
		if p.upsell != "" {
			notes = append(notes, p.upsell)
		}

		out = append(out, pricing.RetainerPackage{
			ID:           p.id,
			Name:         p.name,
			MonthlyHours: hours,
			MonthlyFee:   pricing.Round2(hours * in.HourlyRate * (tierValue + p.delta)),
			Recommended:  p.recommendedFor(in.Level),
			Notes:        notes,
		})
	}
	return out
}

func (p retainerPackage) recommendedFor(level string) bool {
	if _, ok := tierValues[level]; !ok {
		level = ratetable.MaintenanceNone
	}
	for _, l := range p.recommended {
		if l == level {
			return true
		}
	}
	return false
}

func hostingNote(owner string) string {
	if owner == OwnerProvider {
		return "Hosting, backups and uptime monitoring are managed by us."
	}
	return "Hosting stays on your infrastructure; we coordinate with your provider."
}

func slaFor(id string) sla {
	if s, ok := slas[id]; ok {
		return s
	}
	return slas["standard"]
}

func lookup(m map[string]float64, key, def string) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return m[def]
}
