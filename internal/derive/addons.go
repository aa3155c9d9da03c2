// Package derive builds the secondary commercial artifacts of an estimate:
// addon line items, maintenance retainer packages and the payment plan.
package derive

import (
	"github.com/Simplici0/webquote/internal/answers"
	"github.com/Simplici0/webquote/internal/complexity"
	"github.com/Simplici0/webquote/internal/pricing"
)

// Answer keys read by the derivers.
const (
	KeyTrainingNeeds      = "training_needs"
	KeySEOSupport         = "seo_support"
	KeyLocalization       = "localization"
	KeyMaintenanceLevel   = "maintenance_level"
	KeyMaintenanceScope   = "maintenance_scope"
	KeyMaintenanceCadence = "maintenance_cadence"
	KeyMaintenanceHours   = "maintenance_hours"
	KeyHostingOwner       = "hosting_owner"
	KeySupportSLA         = "support_sla"
)

type addon struct {
	value       string
	label       string
	hours       float64
	description string
}

type addonSource struct {
	id     string
	key    string
	multi  bool
	addons []addon
}

var addonSources = []addonSource{
	{
		id:    "integration",
		key:   complexity.KeyIntegrations,
		multi: true,
		addons: []addon{
			{"crm", "CRM integration", 12, "Lead and contact sync with the CRM"},
			{"payment_gateway", "Payment gateway", 16, "Checkout, webhooks and refunds"},
			{"erp", "ERP integration", 32, "Inventory, order and invoice sync"},
			{"marketing_automation", "Marketing automation", 10, "Forms and events pushed to campaigns"},
			{"analytics", "Analytics setup", 6, "Tag manager, goals and dashboards"},
			{"sso", "Single sign-on", 14, "SAML/OIDC login for staff or members"},
			{"booking", "Booking engine", 12, "Availability, reservations and reminders"},
		},
	},
	{
		id:    "training",
		key:   KeyTrainingNeeds,
		multi: true,
		addons: []addon{
			{"admin_training", "Admin training", 4, "Live session for site administrators"},
			{"editor_training", "Editor training", 3, "Content editing walkthrough"},
			{"documentation", "Documentation", 6, "Written handbook for the CMS"},
			{"video_walkthroughs", "Video walkthroughs", 8, "Recorded how-to videos"},
		},
	},
	{
		id:  "seo",
		key: KeySEOSupport,
		addons: []addon{
			{"basic", "SEO foundations", 8, "Metadata, sitemap and redirects"},
			{"advanced", "Advanced SEO", 20, "Keyword mapping and structured data"},
			{"comprehensive", "Comprehensive SEO", 36, "Content strategy, audits and migration plan"},
		},
	},
	{
		id:  "localization",
		key: KeyLocalization,
		addons: []addon{
			{"bilingual", "Bilingual site", 16, "Second language with switcher"},
			{"multilingual", "Multilingual site", 40, "Three to five languages with workflows"},
			{"global", "Global rollout", 72, "Regional sites, hreflang and translation pipeline"},
		},
	},
}

// Addons returns one line item per recognised integration, training need,
// SEO level and localization level selected in r. Costs are priced at
// hourlyRate. Unknown values are skipped.
func Addons(r answers.Record, hourlyRate float64) []pricing.LineItem {
	var items []pricing.LineItem
	for _, src := range addonSources {
		var selected []string
		if src.multi {
			selected = r.Strings(src.key)
		} else if v := r.String(src.key, ""); v != "" {
			selected = []string{v}
		}

		seen := make(map[string]bool, len(selected))
		for _, v := range selected {
			if seen[v] {
				continue
			}
			seen[v] = true
			a, ok := src.lookup(v)
			if !ok {
				continue
			}
			items = append(items, pricing.LineItem{
				ID:          "addon-" + src.id + "-" + a.value,
				Label:       a.label,
				Hours:       a.hours,
				Cost:        pricing.Round2(a.hours * hourlyRate),
				Description: a.description,
			})
		}
	}
	return items
}

func (s addonSource) lookup(v string) (addon, bool) {
	for _, a := range s.addons {
		if a.value == v {
			return a, true
		}
	}
	return addon{}, false
}
