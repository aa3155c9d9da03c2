package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/webquote/internal/answers"
	"github.com/Simplici0/webquote/internal/complexity"
	"github.com/Simplici0/webquote/internal/pricing"
	"github.com/Simplici0/webquote/internal/ratetable"
	"github.com/Simplici0/webquote/internal/teamrates"
)

func TestMapEmptyAnswersUsesDefaults(t *testing.T) {
	m := Map(answers.Record{}, Hints{}, teamrates.Default())

	assert.Equal(t, pricing.Input{
		ProjectType: ratetable.MarketingSite,
		Tier:        "starter",
		HourlyRate:  83.03,
		Multipliers: pricing.Lowest(),
		Maintenance: ratetable.MaintenanceNone,
	}, m.Input)
	assert.Equal(t, "USD", m.Currency)
	assert.Equal(t, 0.35, m.Margin)
	require.NotNil(t, m.InternalRate)
	assert.Equal(t, 61.5, *m.InternalRate)
	assert.Nil(t, m.Agency)
	assert.Equal(t, complexity.TierStarter, m.Score.Tier)
}

func TestMapExplicitAnswersWin(t *testing.T) {
	r := answers.Record{
		KeyProjectType:      "landing_page",
		KeyTier:             "complex",
		KeyHourlyRate:       1000,
		KeyMarginPercent:    "20",
		KeyCurrency:         "eur",
		"maintenance_level": "premium",
		KeyAssumptions:      "Client supplies copy",
	}
	m := Map(r, Hints{EntryFlow: FlowApp, Persona: teamrates.Freelancer}, teamrates.Default())

	assert.Equal(t, ratetable.LandingPage, m.Input.ProjectType)
	assert.Equal(t, "complex", m.Input.Tier)
	assert.Equal(t, ratetable.MaxHourlyRate, m.Input.HourlyRate)
	assert.Equal(t, ratetable.MaintenancePremium, m.Input.Maintenance)
	assert.Equal(t, "Client supplies copy", m.Input.Assumptions)
	assert.Equal(t, "EUR", m.Currency)
	assert.InDelta(t, 0.2, m.Margin, 1e-12)
}

func TestMapEntryFlowPicksProjectType(t *testing.T) {
	cases := map[string]string{
		FlowLanding: ratetable.LandingPage,
		FlowStore:   ratetable.Ecommerce,
		FlowApp:     ratetable.WebApp,
		FlowSite:    ratetable.MarketingSite,
		"":          ratetable.MarketingSite,
	}
	for flow, want := range cases {
		m := Map(answers.Record{KeyProjectType: "kiosk"}, Hints{EntryFlow: flow}, teamrates.Default())
		assert.Equal(t, want, m.Input.ProjectType, "flow=%q", flow)
	}
}

func TestMapTierFollowsComplexityScore(t *testing.T) {
	heavy := answers.Record{
		"page_count":   60,
		"cms":          "headless",
		"integrations": []string{"crm", "erp", "sso", "analytics"},
		"commerce":     "marketplace",
		"features":     []string{"accounts", "dashboard", "realtime"},
		"compliance":   []string{"pci"},
		KeyTier:        "mvp",
	}
	m := Map(heavy, Hints{EntryFlow: FlowStore}, teamrates.Default())
	assert.Equal(t, complexity.TierEnterprise, m.Score.Tier)
	assert.Equal(t, "enterprise", m.Input.Tier, "tier not valid for ecommerce is ignored")

	moderate := answers.Record{"page_count": 8, "cms": "structured", "integrations": []string{"crm", "analytics"}, "commerce": "simple"}
	m = Map(moderate, Hints{EntryFlow: FlowApp}, teamrates.Default())
	assert.Equal(t, complexity.TierProfessional, m.Score.Tier)
	assert.Equal(t, "standard", m.Input.Tier)
}

func TestMapPersonaRates(t *testing.T) {
	team := teamrates.Default()

	free := Map(answers.Record{}, Hints{Persona: teamrates.Freelancer}, team)
	assert.Equal(t, 85.0, free.Input.HourlyRate)
	assert.Nil(t, free.Agency)

	agency := Map(answers.Record{}, Hints{Persona: teamrates.Agency}, team)
	assert.Equal(t, 0.45, agency.Margin)
	assert.Equal(t, 89.18, agency.Input.HourlyRate)
	require.NotNil(t, agency.Agency)
	assert.Equal(t, 5, agency.Agency.TeamSize)
	assert.Equal(t, 61.5, agency.Agency.BlendedCostRate)
	assert.Equal(t, 89.18, agency.Agency.BillableRate)
	assert.Equal(t, 0.45, agency.Agency.Roles[2].Share)

	inHouse := Map(answers.Record{}, Hints{Persona: teamrates.InHouse}, team)
	assert.Equal(t, 0.0, inHouse.Margin)
	assert.Equal(t, 61.5, inHouse.Input.HourlyRate)
}

func TestMapClampsRateAndFallsBackWithoutRoles(t *testing.T) {
	m := Map(answers.Record{KeyHourlyRate: 5}, Hints{}, teamrates.Default())
	assert.Equal(t, ratetable.MinHourlyRate, m.Input.HourlyRate)

	empty := teamrates.Config{Currency: "GBP"}
	m = Map(answers.Record{KeyCurrency: "JPY"}, Hints{Persona: teamrates.Agency}, empty)
	assert.Equal(t, ratetable.MinHourlyRate, m.Input.HourlyRate)
	assert.Nil(t, m.InternalRate)
	assert.Nil(t, m.Agency)
	assert.Equal(t, "GBP", m.Currency)
}

func TestMapClampsMarginPercent(t *testing.T) {
	m := Map(answers.Record{KeyMarginPercent: 500}, Hints{}, teamrates.Default())
	assert.Equal(t, 1.0, m.Margin)
	assert.Equal(t, 123.0, m.Input.HourlyRate)

	m = Map(answers.Record{KeyMarginPercent: -20}, Hints{}, teamrates.Default())
	assert.Equal(t, 0.0, m.Margin)
	assert.Equal(t, 61.5, m.Input.HourlyRate)
}
