package currency

import "time"

// staticAsOf dates the built-in table.
var staticAsOf = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

var staticRates = map[string]float64{
	EUR: 0.92,
	GBP: 0.79,
	CAD: 1.36,
	AUD: 1.52,
}

// Static returns the built-in rate table, used when no live or cached
// snapshot is available.
func Static() Snapshot {
	return NewSnapshot(Base, staticRates, staticAsOf, SourceStatic)
}
