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
	"fmt"
	"math"
	"sort"
	"time"
)

// round2 rounds to 2 decimal places. Applied only at the point of emission,
// never during intermediate accumulation, so rounding error cannot compound.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BuildDayBuckets groups readings by calendar date and sums kWh per
// appliance within that date. The map is period-agnostic: it is built once
// per snapshot and every period-scoped view is a projection over it.
// Readings without an appliance name are skipped; they cannot be attributed.
func BuildDayBuckets(readings []Reading) map[string]DayBucket {
	buckets := make(map[string]DayBucket)
	for _, r := range readings {
		if r.Appliance == "" {
			continue
		}
		key := dateKey(r.Timestamp)
		bucket, ok := buckets[key]
		if !ok {
			bucket = make(DayBucket)
			buckets[key] = bucket
		}
		bucket[r.Appliance] += r.EnergyKwh
	}
	return buckets
}

// BuildSnapshot assembles the immutable per-pass view of a normalized
// reading set: day buckets, the observed appliance list in lexicographic
// order, and the latest reading timestamp (the default anchor).
func BuildSnapshot(readings []Reading) *Snapshot {
	snap := &Snapshot{
		Readings:   readings,
		DayBuckets: BuildDayBuckets(readings),
	}

	seen := make(map[string]bool)
	for _, r := range readings {
		if r.Appliance != "" && !seen[r.Appliance] {
			seen[r.Appliance] = true
			snap.AllAppliances = append(snap.AllAppliances, r.Appliance)
		}
		if r.Timestamp.After(snap.Latest) {
			snap.Latest = r.Timestamp
		}
	}
	sort.Strings(snap.AllAppliances)
	return snap
}

// ActiveAppliances derives the single ordered, deduplicated appliance set a
// pass operates on. An explicit non-empty filter wins (caller order kept);
// otherwise all observed appliances are included in lexicographic order so
// chart series ordering and coloring stay deterministic.
func ActiveAppliances(snap *Snapshot, filter []string) []string {
	if len(filter) == 0 {
		return append([]string(nil), snap.AllAppliances...)
	}
	seen := make(map[string]bool, len(filter))
	active := make([]string, 0, len(filter))
	for _, name := range filter {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		active = append(active, name)
	}
	if len(active) == 0 {
		return append([]string(nil), snap.AllAppliances...)
	}
	return active
}

// readingsInPeriod filters the snapshot down to one period's attributable
// readings.
func readingsInPeriod(snap *Snapshot, period Period) []Reading {
	var matched []Reading
	for _, r := range snap.Readings {
		if r.Appliance == "" {
			continue
		}
		if period.Contains(r.Timestamp) {
			matched = append(matched, r)
		}
	}
	return matched
}

// RowsForPeriod expands a period into zero-filled chart rows: 24 hourly rows
// for the day view, one row per calendar date otherwise (7 for a week, the
// month's day count for a month, 365/366 for a year). Emitted values are
// rounded to 2 decimals.
func RowsForPeriod(period Period, snap *Snapshot, appliances []string) []PeriodRow {
	if period.Granularity == GranularityDay {
		return hourlyRows(period, snap, appliances)
	}
	return dailyRows(period, snap, appliances)
}

// hourlyRows is the one projection that needs raw readings rather than day
// buckets: day buckets have no hour resolution.
func hourlyRows(period Period, snap *Snapshot, appliances []string) []PeriodRow {
	totals := make([]map[string]float64, 24)
	rows := make([]PeriodRow, 24)
	for h := range rows {
		totals[h] = make(map[string]float64, len(appliances))
		rows[h] = PeriodRow{Label: fmt.Sprintf("%02d:00", h)}
	}

	active := make(map[string]bool, len(appliances))
	for _, name := range appliances {
		active[name] = true
	}

	for _, r := range readingsInPeriod(snap, period) {
		if !active[r.Appliance] {
			continue
		}
		totals[r.Timestamp.UTC().Hour()][r.Appliance] += r.EnergyKwh
	}

	for h := range rows {
		rows[h].Values = emitValues(totals[h], appliances)
	}
	return rows
}

func dailyRows(period Period, snap *Snapshot, appliances []string) []PeriodRow {
	rows := make([]PeriodRow, 0, period.Days())
	for day := period.Start; !day.After(period.End); day = day.AddDate(0, 0, 1) {
		key := dateKey(day)
		bucket := snap.DayBuckets[key]
		rows = append(rows, PeriodRow{
			Label:  key,
			Values: emitValues(bucket, appliances),
		})
	}
	return rows
}

// emitValues projects an accumulated appliance map onto the active appliance
// set, zero-filling absences and rounding at the emission boundary.
func emitValues(totals map[string]float64, appliances []string) map[string]float64 {
	values := make(map[string]float64, len(appliances))
	for _, name := range appliances {
		values[name] = round2(totals[name])
	}
	return values
}

// BuildAggregates computes the per-period rollups the cost calculator,
// forecaster, and rule engine consume: total kWh, per-appliance totals, the
// 24-bucket hourly profile, per-appliance hourly profiles, and per-date
// totals. Values stay unrounded here.
func BuildAggregates(period Period, snap *Snapshot) Aggregates {
	agg := Aggregates{
		ByAppliance:       make(map[string]float64),
		ByApplianceHourly: make(map[string][24]float64),
		ByDate:            make(map[string]float64),
		LastHour:          -1,
	}
	for _, r := range readingsInPeriod(snap, period) {
		hour := r.Timestamp.UTC().Hour()
		if hour > agg.LastHour {
			agg.LastHour = hour
		}
		agg.TotalKwh += r.EnergyKwh
		agg.ByAppliance[r.Appliance] += r.EnergyKwh
		agg.Hourly[hour] += r.EnergyKwh
		agg.ByDate[dateKey(r.Timestamp)] += r.EnergyKwh
		agg.ReadingCount++

		profile := agg.ByApplianceHourly[r.Appliance]
		profile[hour] += r.EnergyKwh
		agg.ByApplianceHourly[r.Appliance] = profile
	}
	return agg
}

// TopAppliances ranks a period's appliances by total kWh, descending, with
// lexicographic order breaking ties so identical inputs always rank
// identically. Emitted totals are rounded.
func TopAppliances(agg Aggregates, n int) []ApplianceUsage {
	ranked := make([]ApplianceUsage, 0, len(agg.ByAppliance))
	for name, kwh := range agg.ByAppliance {
		ranked = append(ranked, ApplianceUsage{Appliance: name, Kwh: kwh})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Kwh != ranked[j].Kwh {
			return ranked[i].Kwh > ranked[j].Kwh
		}
		return ranked[i].Appliance < ranked[j].Appliance
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	for i := range ranked {
		ranked[i].Kwh = round2(ranked[i].Kwh)
	}
	return ranked
}

// PeakHourOf returns the hour-of-day with the highest kWh total; the
// earliest hour wins ties.
func PeakHourOf(agg Aggregates) PeakHour {
	peak := 0
	for h := 1; h < 24; h++ {
		if agg.Hourly[h] > agg.Hourly[peak] {
			peak = h
		}
	}
	return PeakHour{Hour: peak, Kwh: round2(agg.Hourly[peak])}
}

// weekendWeekdaySplit sums a period's per-date totals into weekday and
// weekend portions for the skew rule.
func weekendWeekdaySplit(agg Aggregates) (weekday, weekend float64) {
	for key, kwh := range agg.ByDate {
		day, err := time.Parse(dateKeyLayout, key)
		if err != nil {
			continue
		}
		switch day.Weekday() {
		case time.Saturday, time.Sunday:
			weekend += kwh
		default:
			weekday += kwh
		}
	}
	return weekday, weekend
}
