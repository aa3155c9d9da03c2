// Package currency converts rates and priced results between the supported
// currencies using a rate snapshot, and retrieves snapshots with a cache,
// live fetch and static fallback.
package currency

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/webquote/internal/pricing"
)

// Supported currency codes.
const (
	USD = "USD"
	EUR = "EUR"
	GBP = "GBP"
	CAD = "CAD"
	AUD = "AUD"
)

// Base is the currency snapshots are quoted against.
const Base = USD

var supported = []string{USD, EUR, GBP, CAD, AUD}

// Codes lists the supported currency codes.
func Codes() []string {
	out := make([]string, len(supported))
	copy(out, supported)
	return out
}

// Supported reports whether code is a supported currency.
func Supported(code string) bool {
	code = Normalize(code)
	for _, c := range supported {
		if c == code {
			return true
		}
	}
	return false
}

// Normalize upper-cases and trims a currency code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Source tags where a snapshot came from.
type Source string

const (
	SourceLive   Source = "live"
	SourceCache  Source = "cache"
	SourceStatic Source = "static"
)

// Snapshot is a point-in-time table of rates relative to Base.
type Snapshot struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
	Source    Source             `json:"source"`
	Stale     bool               `json:"stale"`
}

// NewSnapshot copies rates into a snapshot. The base rate is always 1.
func NewSnapshot(base string, rates map[string]float64, fetchedAt time.Time, source Source) Snapshot {
	base = Normalize(base)
	s := Snapshot{
		Base:      base,
		Rates:     make(map[string]float64, len(rates)+1),
		FetchedAt: fetchedAt,
		Source:    source,
	}
	for code, r := range rates {
		s.Rates[Normalize(code)] = r
	}
	s.Rates[base] = 1
	return s
}

// Rate returns the rate of code, if the snapshot has a usable one.
func (s Snapshot) Rate(code string) (float64, bool) {
	r, ok := s.Rates[Normalize(code)]
	return r, ok && r > 0
}

// Convert converts amount from one currency to another through the snapshot
// base, rounded to precision places (negative precision skips rounding).
// Equal currencies return amount as is; unknown currencies leave it
// unchanged.
func Convert(amount float64, from, to string, snap Snapshot, precision int) float64 {
	if Normalize(from) == Normalize(to) {
		return amount
	}
	rateFrom, ok := snap.Rate(from)
	if !ok {
		return amount
	}
	rateTo, ok := snap.Rate(to)
	if !ok {
		return amount
	}

	v := decimal.NewFromFloat(amount).
		Div(decimal.NewFromFloat(rateFrom)).
		Mul(decimal.NewFromFloat(rateTo))
	if precision >= 0 {
		v = v.Round(int32(precision))
	}
	return v.InexactFloat64()
}

// NormalizeInputToBase returns a copy of in with its hourly rate expressed
// in the snapshot base currency.
func NormalizeInputToBase(in pricing.Input, cur string, snap Snapshot) pricing.Input {
	out := in
	out.HourlyRate = Convert(in.HourlyRate, Normalize(cur), snap.Base, snap, 2)
	return out
}

// ConvertResult converts every monetary field of r. Hours are untouched.
// Equal currencies return r itself.
func ConvertResult(r *pricing.Result, from, to string, snap Snapshot) *pricing.Result {
	from, to = Normalize(from), Normalize(to)
	if from == to {
		return r
	}
	conv := func(v float64) float64 { return Convert(v, from, to, snap, 2) }

	c := r.Clone()
	c.Currency = to
	c.TotalCost = conv(r.TotalCost)
	c.MaintenanceCost = conv(r.MaintenanceCost)
	c.EffectiveHourlyRate = conv(r.EffectiveHourlyRate)
	if c.Buffer != nil {
		c.Buffer.Cost = conv(c.Buffer.Cost)
	}
	for i := range c.LineItems {
		c.LineItems[i].Cost = conv(c.LineItems[i].Cost)
	}
	for i := range c.Addons {
		c.Addons[i].Cost = conv(c.Addons[i].Cost)
	}
	for i := range c.Retainers {
		c.Retainers[i].MonthlyFee = conv(c.Retainers[i].MonthlyFee)
	}
	if c.PaymentPlan != nil {
		c.PaymentPlan.Total = conv(c.PaymentPlan.Total)
		for i := range c.PaymentPlan.Milestones {
			c.PaymentPlan.Milestones[i].Amount = conv(c.PaymentPlan.Milestones[i].Amount)
		}
	}
	if c.Deterministic != nil {
		c.Deterministic.TotalCost = conv(c.Deterministic.TotalCost)
		c.Deterministic.MaintenanceCost = conv(c.Deterministic.MaintenanceCost)
	}
	return c
}
