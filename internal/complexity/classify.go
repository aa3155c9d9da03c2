// Package complexity turns a questionnaire answer record into the five
// multiplier levels used by pricing and a numeric complexity score with its
// contingency buffer.
package complexity

import (
	"github.com/Simplici0/webquote/internal/answers"
	"github.com/Simplici0/webquote/internal/pricing"
	"github.com/Simplici0/webquote/internal/ratetable"
)

// Answer keys read by the classifier.
const (
	KeyDesignDepth        = "design_depth"
	KeyMotionStrategy     = "motion_strategy"
	KeyFeatures           = "features"
	KeyPageCount          = "page_count"
	KeyContentSource      = "content_source"
	KeyCMS                = "cms"
	KeyCommerce           = "commerce"
	KeyIntegrations       = "integrations"
	KeyPerformanceTargets = "performance_targets"
	KeyCompliance         = "compliance"
	KeyQALevel            = "qa_level"
	KeyCustomCode         = "custom_code"
	KeyLaunchTimeline     = "launch_timeline"
	KeyDeadlineWeeks      = "deadline_weeks"
)

const defaultPageCount = 5

var (
	platformFeatures    = []string{"dashboard", "realtime", "custom_api"}
	advancedFeatures    = []string{"accounts", "booking", "dashboard", "realtime", "custom_api"}
	interactiveFeatures = []string{"forms", "blog", "search", "gallery", "calculator"}
)

// Classify derives the multiplier set and complexity score from r. It is a
// pure function of the record.
func Classify(r answers.Record) (pricing.MultiplierSet, Score) {
	set := pricing.MultiplierSet{
		Design:        designLevel(r),
		Functionality: functionalityLevel(r),
		Content:       contentLevel(r),
		Technical:     technicalLevel(r),
		Timeline:      timelineLevel(r),
	}
	return set, Evaluate(r)
}

func designLevel(r answers.Record) string {
	depth := r.OneOf(KeyDesignDepth, "template", "template", "refined", "bespoke")
	motion := r.OneOf(KeyMotionStrategy, "none", "none", "subtle", "rich")

	switch depth {
	case "bespoke":
		if motion != "none" {
			return "immersive"
		}
		return "custom"
	case "refined":
		if motion == "rich" {
			return "custom"
		}
		return "standard"
	default:
		if motion == "rich" {
			return "standard"
		}
		return "minimal"
	}
}

func functionalityLevel(r answers.Record) string {
	features := r.Strings(KeyFeatures)
	switch {
	case r.Contains(KeyFeatures, "accounts") && r.Contains(KeyFeatures, platformFeatures...):
		return "platform"
	case r.Contains(KeyFeatures, advancedFeatures...):
		return "advanced"
	case r.Contains(KeyFeatures, interactiveFeatures...) || len(features) >= 2:
		return "interactive"
	default:
		return "basic"
	}
}

func contentLevel(r answers.Record) string {
	pages := r.Number(KeyPageCount, defaultPageCount)
	source := r.String(KeyContentSource, "client_ready")
	cms := r.String(KeyCMS, "none")

	switch {
	case source == "from_scratch" || pages > 30:
		return "heavy"
	case source == "needs_editing" || pages > 10 || cms == "structured" || cms == "headless":
		return "moderate"
	default:
		return "light"
	}
}

func technicalLevel(r answers.Record) string {
	targets := len(r.Strings(KeyPerformanceTargets))
	switch {
	case len(r.Strings(KeyCompliance)) > 0:
		return "regulated"
	case len(r.Strings(KeyIntegrations)) > 0 || targets >= 2:
		return "complex"
	case r.String(KeyCMS, "none") == "headless" || r.String(KeyCommerce, "none") != "none" || targets == 1:
		return "integrations"
	default:
		return "basic"
	}
}

func timelineLevel(r answers.Record) string {
	if choice := r.String(KeyLaunchTimeline, ""); ratetable.Rank(ratetable.FactorTimeline, choice) >= 0 {
		return choice
	}

	if !r.Has(KeyDeadlineWeeks) {
		return "flexible"
	}
	weeks := r.Number(KeyDeadlineWeeks, 0)
	switch {
	case weeks <= 0:
		return "flexible"
	case weeks <= 2:
		return "rush"
	case weeks <= 4:
		return "accelerated"
	case weeks <= 8:
		return "standard"
	default:
		return "flexible"
	}
}
