// Package insight defines the external complexity assessment the estimator
// blends into its deterministic classification, and the providers that
// obtain one from a language model.
package insight

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/Simplici0/webquote/internal/answers"
	"github.com/Simplici0/webquote/internal/complexity"
	"github.com/Simplici0/webquote/internal/pricing"
	"github.com/Simplici0/webquote/internal/ratetable"
)

// ErrEmptyResponse is returned when the model answers with no content.
var ErrEmptyResponse = errors.New("insight: empty model response")

// Insight is an untrusted, partially confident alternative classification.
type Insight struct {
	ComplexityScore  float64                      `json:"complexity_score"`
	Confidence       float64                      `json:"confidence"`
	Multipliers      pricing.MultiplierSet        `json:"multipliers"`
	FactorConfidence map[ratetable.Factor]float64 `json:"factor_confidence,omitempty"`
	Highlights       []string                     `json:"highlights,omitempty"`
	Risks            []string                     `json:"risks,omitempty"`
	Rationale        string                       `json:"rationale,omitempty"`
	Model            string                       `json:"model,omitempty"`
}

// CrawlSummary is the site metrics produced by the external crawler for an
// existing website.
type CrawlSummary struct {
	URL          string   `json:"url"`
	PageCount    int      `json:"page_count"`
	FormCount    int      `json:"form_count"`
	HasCommerce  bool     `json:"has_commerce"`
	Technologies []string `json:"technologies,omitempty"`
	Languages    []string `json:"languages,omitempty"`
	AvgLoadMs    int      `json:"avg_load_ms"`
}

// Request is the evidence handed to a provider.
type Request struct {
	Answers     answers.Record        `json:"answers"`
	Crawl       *CrawlSummary         `json:"crawl,omitempty"`
	Multipliers pricing.MultiplierSet `json:"multipliers"`
	Score       complexity.Score      `json:"score"`
}

// Provider produces an insight for a request.
type Provider interface {
	Assess(ctx context.Context, req Request) (*Insight, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, req Request) (*Insight, error)

// Assess calls f.
func (f ProviderFunc) Assess(ctx context.Context, req Request) (*Insight, error) {
	return f(ctx, req)
}

type wireInsight struct {
	ComplexityScore  float64            `mapstructure:"complexity_score"`
	Confidence       float64            `mapstructure:"confidence"`
	Multipliers      map[string]string  `mapstructure:"multipliers"`
	FactorConfidence map[string]float64 `mapstructure:"factor_confidence"`
	Highlights       []string           `mapstructure:"highlights"`
	Risks            []string           `mapstructure:"risks"`
	Rationale        string             `mapstructure:"rationale"`
}

// Decode reads a loosely typed model payload into a normalized Insight.
// Numbers given as strings are accepted.
func Decode(raw map[string]any) (*Insight, error) {
	var w wireInsight
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &w,
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode insight: %w", err)
	}

	in := Insight{
		ComplexityScore: w.ComplexityScore,
		Confidence:      w.Confidence,
		Highlights:      w.Highlights,
		Risks:           w.Risks,
		Rationale:       w.Rationale,
	}
	for _, f := range ratetable.Factors() {
		in.Multipliers = in.Multipliers.With(f, strings.ToLower(strings.TrimSpace(w.Multipliers[string(f)])))
	}
	if len(w.FactorConfidence) > 0 {
		in.FactorConfidence = make(map[ratetable.Factor]float64, len(w.FactorConfidence))
		for k, v := range w.FactorConfidence {
			in.FactorConfidence[ratetable.Factor(strings.ToLower(k))] = v
		}
	}

	out := Normalize(in)
	return &out, nil
}

// Normalize clamps the score to [0, 100] and confidences to [0, 1], blanks
// proposed levels outside their enumeration, drops confidences for unknown
// factors and trims empty notes.
func Normalize(in Insight) Insight {
	out := in
	out.ComplexityScore = clamp(in.ComplexityScore, 0, 100)
	out.Confidence = clamp(in.Confidence, 0, 1)

	for _, f := range ratetable.Factors() {
		if ratetable.Rank(f, in.Multipliers.Get(f)) < 0 {
			out.Multipliers = out.Multipliers.With(f, "")
		}
	}

	out.FactorConfidence = nil
	for f, v := range in.FactorConfidence {
		if len(ratetable.Levels(f)) == 0 {
			continue
		}
		if out.FactorConfidence == nil {
			out.FactorConfidence = make(map[ratetable.Factor]float64)
		}
		out.FactorConfidence[f] = clamp(v, 0, 1)
	}

	out.Highlights = compact(in.Highlights)
	out.Risks = compact(in.Risks)
	out.Rationale = strings.TrimSpace(in.Rationale)
	return out
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
