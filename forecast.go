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

import (
	"sort"
	"time"
)

// Forecast projects a full-period total from the portion elapsed so far,
// using a run-rate strategy keyed on how far into the period the anchor
// falls:
//
//   - Day: average kWh per elapsed hour (through the latest observed
//     reading hour, minimum 1 hour) scaled to 24 hours.
//   - Week: average kWh per elapsed day scaled to 7 days.
//   - Month: average kWh per elapsed calendar day scaled to the month's
//     day count.
//   - Year: average kWh per elapsed day-of-year scaled to 365 or 366 days.
//
// Extrapolation applies only to the period containing the anchor. For a
// period fully in the past the projected total equals the elapsed total
// exactly. The cumulative series is always emitted for trend display; it
// plays no part in the projection itself.
func Forecast(period Period, anchor time.Time, agg Aggregates) ForecastResult {
	result := ForecastResult{
		ElapsedTotal: round2(agg.TotalKwh),
		Series:       cumulativeSeries(agg),
	}

	anchorDay := dateOnly(anchor)
	if !period.Contains(anchorDay) {
		// Fully elapsed (or not yet started): nothing to extrapolate.
		result.ProjectedTotal = result.ElapsedTotal
		return result
	}

	var projected float64
	switch period.Granularity {
	case GranularityDay:
		hoursElapsed := agg.LastHour + 1
		if hoursElapsed < 1 {
			hoursElapsed = 1
		}
		projected = agg.TotalKwh / float64(hoursElapsed) * 24
	case GranularityWeek:
		projected = runRate(agg.TotalKwh, elapsedDays(period.Start, anchorDay, 7), 7)
	case GranularityMonth:
		total := daysInMonth(period.Start.Year(), period.Start.Month())
		projected = runRate(agg.TotalKwh, elapsedDays(period.Start, anchorDay, total), total)
	case GranularityYear:
		total := daysInYear(period.Start.Year())
		projected = runRate(agg.TotalKwh, anchorDay.YearDay(), total)
	default:
		projected = agg.TotalKwh
	}

	result.ProjectedTotal = round2(projected)
	return result
}

// runRate scales an elapsed total by totalDays/elapsedDays, guarding the
// zero-elapsed case.
func runRate(elapsedKwh float64, elapsedDays, totalDays int) float64 {
	if elapsedDays < 1 {
		elapsedDays = 1
	}
	return elapsedKwh / float64(elapsedDays) * float64(totalDays)
}

// elapsedDays counts calendar days from the period start through the anchor
// date inclusive, capped at the period length.
func elapsedDays(start, anchorDay time.Time, cap int) int {
	days := int(anchorDay.Sub(start).Hours()/24) + 1
	if days > cap {
		days = cap
	}
	return days
}

// cumulativeSeries builds the ascending (date, cumulative kWh) running
// total across all elapsed days with data in the period.
func cumulativeSeries(agg Aggregates) []ForecastPoint {
	dates := make([]string, 0, len(agg.ByDate))
	for key := range agg.ByDate {
		dates = append(dates, key)
	}
	sort.Strings(dates)

	series := make([]ForecastPoint, 0, len(dates))
	cumulative := 0.0
	for _, key := range dates {
		cumulative += agg.ByDate[key]
		series = append(series, ForecastPoint{Date: key, CumulativeKwh: round2(cumulative)})
	}
	return series
}
