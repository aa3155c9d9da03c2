// Package intake maps a questionnaire answer record onto a calculation
// input, resolving every missing answer to a default in one place.
package intake

import (
	"math"

	"github.com/Simplici0/webquote/internal/answers"
	"github.com/Simplici0/webquote/internal/complexity"
	"github.com/Simplici0/webquote/internal/currency"
	"github.com/Simplici0/webquote/internal/derive"
	"github.com/Simplici0/webquote/internal/pricing"
	"github.com/Simplici0/webquote/internal/ratetable"
	"github.com/Simplici0/webquote/internal/teamrates"
)

// Answer keys read by Map.
const (
	KeyProjectType   = "project_type"
	KeyTier          = "tier"
	KeyHourlyRate    = "hourly_rate"
	KeyMarginPercent = "margin_percent"
	KeyCurrency      = "currency"
	KeyAssumptions   = "assumptions"
)

// Entry flows.
const (
	FlowLanding = "landing"
	FlowStore   = "store"
	FlowApp     = "app"
	FlowSite    = "site"
)

// Hints carry how the questionnaire was entered.
type Hints struct {
	EntryFlow string `json:"entry_flow,omitempty"`
	Persona   string `json:"persona,omitempty"`
}

// RoleShare is one role's part of the team allocation.
type RoleShare struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	HourlyCost float64 `json:"hourly_cost"`
	Share      float64 `json:"share"`
}

// AgencySummary explains an agency rate.
type AgencySummary struct {
	TeamSize        int         `json:"team_size"`
	Roles           []RoleShare `json:"roles"`
	BlendedCostRate float64     `json:"blended_cost_rate"`
	BillableRate    float64     `json:"billable_rate"`
	Margin          float64     `json:"margin"`
}

// Mapping is the outcome of Map.
type Mapping struct {
	Input        pricing.Input    `json:"input"`
	Currency     string           `json:"currency"`
	Margin       float64          `json:"margin"`
	InternalRate *float64         `json:"internal_rate,omitempty"`
	Agency       *AgencySummary   `json:"agency,omitempty"`
	Score        complexity.Score `json:"score"`
}

var flowProjectTypes = map[string]string{
	FlowLanding: ratetable.LandingPage,
	FlowStore:   ratetable.Ecommerce,
	FlowApp:     ratetable.WebApp,
}

// Map derives the calculation input and commercial context from r.
func Map(r answers.Record, h Hints, team teamrates.Config) Mapping {
	set, score := complexity.Classify(r)

	pt := projectType(r, h)
	margin := resolveMargin(r, h, team)
	blended := team.BlendedRate()

	m := Mapping{
		Input: pricing.Input{
			ProjectType: pt,
			Tier:        tier(r, pt, score),
			HourlyRate:  hourlyRate(r, h, team, blended, margin),
			Multipliers: set,
			Maintenance: r.OneOf(derive.KeyMaintenanceLevel, ratetable.MaintenanceNone, ratetable.MaintenanceLevels()...),
			Assumptions: r.String(KeyAssumptions, ""),
		},
		Currency: resolveCurrency(r, team),
		Margin:   margin,
		Score:    score,
	}

	if blended > 0 {
		rate := pricing.Round2(blended)
		m.InternalRate = &rate
		if h.Persona == teamrates.Agency {
			m.Agency = agencySummary(team, blended, m.Input.HourlyRate, margin)
		}
	}
	return m
}

func projectType(r answers.Record, h Hints) string {
	if pt := r.String(KeyProjectType, ""); ratetable.ValidProjectType(pt) {
		return pt
	}
	if pt, ok := flowProjectTypes[h.EntryFlow]; ok {
		return pt
	}
	return ratetable.MarketingSite
}

// tier keeps a valid answered tier, else sizes from the complexity score:
// starter takes the smallest tier, professional the middle one, and growth
// or enterprise the largest.
func tier(r answers.Record, pt string, score complexity.Score) string {
	if t := r.String(KeyTier, ""); t != "" {
		if _, ok := ratetable.BaseHours(pt, t); ok {
			return t
		}
	}

	tiers := ratetable.Tiers(pt)
	if len(tiers) == 0 {
		return ""
	}
	idx := score.TierIndex()
	if idx >= len(tiers) {
		idx = len(tiers) - 1
	}
	return tiers[idx]
}

func resolveMargin(r answers.Record, h Hints, team teamrates.Config) float64 {
	if r.Has(KeyMarginPercent) {
		return math.Max(0, math.Min(100, r.Number(KeyMarginPercent, 0))) / 100
	}
	if p, ok := team.Persona(h.Persona); ok && p.Margin != nil {
		return *p.Margin
	}
	return team.DefaultMargin
}

func hourlyRate(r answers.Record, h Hints, team teamrates.Config, blended, margin float64) float64 {
	rate := r.Number(KeyHourlyRate, 0)
	if rate <= 0 {
		if p, ok := team.Persona(h.Persona); ok && p.HourlyRate > 0 {
			rate = p.HourlyRate
		} else {
			rate = blended * (1 + margin)
		}
	}
	rate = math.Max(ratetable.MinHourlyRate, math.Min(ratetable.MaxHourlyRate, rate))
	return pricing.Round2(rate)
}

func resolveCurrency(r answers.Record, team teamrates.Config) string {
	if c := r.String(KeyCurrency, ""); currency.Supported(c) {
		return currency.Normalize(c)
	}
	if currency.Supported(team.Currency) {
		return currency.Normalize(team.Currency)
	}
	return currency.USD
}

func agencySummary(team teamrates.Config, blended, billable, margin float64) *AgencySummary {
	var total float64
	for _, r := range team.Roles {
		if r.Allocation > 0 {
			total += r.Allocation
		}
	}

	s := &AgencySummary{
		BlendedCostRate: pricing.Round2(blended),
		BillableRate:    billable,
		Margin:          margin,
	}
	for _, r := range team.Roles {
		if r.Allocation <= 0 {
			continue
		}
		s.TeamSize++
		s.Roles = append(s.Roles, RoleShare{
			ID:         r.ID,
			Name:       r.Name,
			HourlyCost: r.HourlyCost,
			Share:      pricing.Round2(r.Allocation / total),
		})
	}
	return s
}
