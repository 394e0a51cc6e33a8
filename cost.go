// Copyright 2025 The wattsage Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

// ToCost converts an energy total to monetary cost, rounded to 2 decimals
// at the boundary.
func ToCost(kwh, ratePerKwh float64) float64 {
	return round2(kwh * ratePerKwh)
}

// SumRowsCost totals the cost of a row set across the given appliances.
// Restricting the slice of rows (e.g. buckets at or before "now") is how
// callers compute "so far" totals; there is no separate computation.
func SumRowsCost(rows []PeriodRow, appliances []string, ratePerKwh float64) float64 {
	total := 0.0
	for _, row := range rows {
		for _, name := range appliances {
			total += ToCost(row.Values[name], ratePerKwh)
		}
	}
	return round2(total)
}

// Delta computes the cost change between a period and its predecessor.
// previousRows must be nil when no prior-period data exists; the result then
// carries a nil PreviousTotal and a nil PercentChange. PercentChange is also
// nil for a zero previous total: there is no baseline, and division by zero
// is disallowed.
//
// A non-positive rate is a caller contract violation and is rejected.
func Delta(currentRows, previousRows []PeriodRow, appliances []string, ratePerKwh float64) (CostDelta, error) {
	if ratePerKwh <= 0 {
		return CostDelta{}, &ConfigError{
			Field:   "rate_per_kwh",
			Message: "must be a positive number",
		}
	}

	delta := CostDelta{
		CurrentTotal: SumRowsCost(currentRows, appliances, ratePerKwh),
	}
	if previousRows == nil {
		return delta, nil
	}

	previous := SumRowsCost(previousRows, appliances, ratePerKwh)
	delta.PreviousTotal = &previous
	if previous != 0 {
		change := round2((delta.CurrentTotal - previous) / previous * 100)
		delta.PercentChange = &change
	}
	return delta, nil
}
