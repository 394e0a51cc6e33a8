// Copyright 2025 The wattsage Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"reflect"
	"testing"
	"time"
)

func mustPeriod(t *testing.T, g Granularity, anchor time.Time) Period {
	t.Helper()
	period, err := PeriodFor(g, anchor)
	if err != nil {
		t.Fatalf("resolve %s period: %v", g, err)
	}
	return period
}

func TestBuildDayBucketsSumsSameApplianceSameDay(t *testing.T) {
	t.Parallel()

	readings := []Reading{
		{Timestamp: time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 1.0},
		{Timestamp: time.Date(2024, time.March, 13, 9, 30, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 2.0},
		{Timestamp: time.Date(2024, time.March, 13, 9, 45, 0, 0, time.UTC), Appliance: "", EnergyKwh: 5.0},
	}

	buckets := BuildDayBuckets(readings)
	if got := buckets["2024-03-13"]["TV"]; got != 3.0 {
		t.Fatalf("expected TV bucket 3.00 kWh, got %.2f", got)
	}
	if len(buckets["2024-03-13"]) != 1 {
		t.Fatalf("expected unattributable reading skipped, got bucket %v", buckets["2024-03-13"])
	}
}

func TestRowsForPeriodDayHas24ZeroFilledRows(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC)
	snap := BuildSnapshot([]Reading{
		{Timestamp: time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 1.0},
		{Timestamp: time.Date(2024, time.March, 13, 9, 30, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 2.0},
	})
	period := mustPeriod(t, GranularityDay, anchor)

	rows := RowsForPeriod(period, snap, []string{"TV", "Fridge"})
	if len(rows) != 24 {
		t.Fatalf("expected 24 hourly rows, got %d", len(rows))
	}
	if rows[0].Label != "00:00" || rows[23].Label != "23:00" {
		t.Fatalf("unexpected hour labels: %q .. %q", rows[0].Label, rows[23].Label)
	}
	if got := rows[9].Values["TV"]; got != 3.0 {
		t.Fatalf("expected 3.00 kWh at 09:00 for TV, got %.2f", got)
	}
	for h, row := range rows {
		if h == 9 {
			continue
		}
		if row.Values["TV"] != 0 {
			t.Fatalf("expected zero-filled TV value at hour %d, got %.2f", h, row.Values["TV"])
		}
	}
	if got := rows[9].Values["Fridge"]; got != 0 {
		t.Fatalf("expected zero-filled Fridge value, got %.2f", got)
	}
}

func TestRowsForPeriodRowCounts(t *testing.T) {
	t.Parallel()

	snap := BuildSnapshot(nil)

	cases := []struct {
		name     string
		g        Granularity
		anchor   time.Time
		wantRows int
	}{
		{"week", GranularityWeek, time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC), 7},
		{"leap_february", GranularityMonth, time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC), 29},
		{"plain_february", GranularityMonth, time.Date(2023, time.February, 10, 0, 0, 0, 0, time.UTC), 28},
		{"january", GranularityMonth, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), 31},
		{"april", GranularityMonth, time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC), 30},
		{"leap_year", GranularityYear, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), 366},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			period := mustPeriod(t, tc.g, tc.anchor)
			rows := RowsForPeriod(period, snap, []string{"TV"})
			if len(rows) != tc.wantRows {
				t.Fatalf("expected %d rows, got %d", tc.wantRows, len(rows))
			}
			for _, row := range rows {
				if row.Values["TV"] != 0 {
					t.Fatalf("expected zero-filled row %q, got %.2f", row.Label, row.Values["TV"])
				}
			}
		})
	}
}

func TestRowsForPeriodWeekLabelsAreDates(t *testing.T) {
	t.Parallel()

	period := mustPeriod(t, GranularityWeek, time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC))
	rows := RowsForPeriod(period, BuildSnapshot(nil), []string{"TV"})

	if rows[0].Label != "2024-03-11" {
		t.Fatalf("expected first row label 2024-03-11, got %q", rows[0].Label)
	}
	if rows[6].Label != "2024-03-17" {
		t.Fatalf("expected last row label 2024-03-17, got %q", rows[6].Label)
	}
}

func TestBuildAggregatesIsDeterministic(t *testing.T) {
	t.Parallel()

	readings := []Reading{
		{Timestamp: time.Date(2024, time.March, 11, 8, 0, 0, 0, time.UTC), Appliance: "Fridge", EnergyKwh: 0.4},
		{Timestamp: time.Date(2024, time.March, 12, 19, 0, 0, 0, time.UTC), Appliance: "Air Conditioner", EnergyKwh: 2.2},
		{Timestamp: time.Date(2024, time.March, 13, 19, 30, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 0.8},
	}
	snap := BuildSnapshot(readings)
	period := mustPeriod(t, GranularityWeek, time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC))

	first := BuildAggregates(period, snap)
	second := BuildAggregates(period, snap)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aggregation is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}

	if first.ReadingCount != 3 {
		t.Fatalf("expected 3 readings counted, got %d", first.ReadingCount)
	}
	if first.LastHour != 19 {
		t.Fatalf("expected last observed hour 19, got %d", first.LastHour)
	}
	if got := first.Hourly[19]; got != 3.0 {
		t.Fatalf("expected 3.00 kWh in hour 19, got %.2f", got)
	}
	if got := first.ByDate["2024-03-12"]; got != 2.2 {
		t.Fatalf("expected 2.20 kWh on 2024-03-12, got %.2f", got)
	}
}

func TestBuildAggregatesEmptyPeriod(t *testing.T) {
	t.Parallel()

	snap := BuildSnapshot([]Reading{
		{Timestamp: time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 1.0},
	})
	period := mustPeriod(t, GranularityMonth, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))

	agg := BuildAggregates(period, snap)
	if agg.ReadingCount != 0 || agg.TotalKwh != 0 {
		t.Fatalf("expected empty aggregates, got %+v", agg)
	}
	if agg.LastHour != -1 {
		t.Fatalf("expected LastHour -1 for empty period, got %d", agg.LastHour)
	}
}

func TestActiveAppliances(t *testing.T) {
	t.Parallel()

	snap := BuildSnapshot([]Reading{
		{Timestamp: time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 1},
		{Timestamp: time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC), Appliance: "Fridge", EnergyKwh: 1},
		{Timestamp: time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC), Appliance: "Heater", EnergyKwh: 1},
	})

	cases := []struct {
		name   string
		filter []string
		want   []string
	}{
		{"empty_filter_all_sorted", nil, []string{"Fridge", "Heater", "TV"}},
		{"explicit_keeps_caller_order", []string{"TV", "Fridge"}, []string{"TV", "Fridge"}},
		{"deduplicates", []string{"TV", "TV", "Fridge"}, []string{"TV", "Fridge"}},
		{"blank_entries_fall_back", []string{"", ""}, []string{"Fridge", "Heater", "TV"}},
		{"unobserved_name_kept", []string{"Sauna"}, []string{"Sauna"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ActiveAppliances(snap, tc.filter)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestTopAppliancesRanksAndBreaksTies(t *testing.T) {
	t.Parallel()

	agg := Aggregates{
		ByAppliance: map[string]float64{
			"TV":      5.0,
			"Heater":  10.0,
			"Fridge":  5.0,
			"Router":  0.5,
			"Washer":  0.2,
			"Toaster": 0.1,
		},
	}

	top := TopAppliances(agg, 5)
	if len(top) != 5 {
		t.Fatalf("expected 5 ranked appliances, got %d", len(top))
	}
	if top[0].Appliance != "Heater" {
		t.Fatalf("expected Heater first, got %q", top[0].Appliance)
	}
	// Equal totals rank lexicographically.
	if top[1].Appliance != "Fridge" || top[2].Appliance != "TV" {
		t.Fatalf("expected tie broken as Fridge, TV; got %q, %q", top[1].Appliance, top[2].Appliance)
	}
}

func TestPeakHourEarliestWinsTies(t *testing.T) {
	t.Parallel()

	var agg Aggregates
	agg.Hourly[7] = 2.0
	agg.Hourly[19] = 2.0
	agg.Hourly[3] = 1.0

	peak := PeakHourOf(agg)
	if peak.Hour != 7 {
		t.Fatalf("expected earliest tied hour 7, got %d", peak.Hour)
	}
	if peak.Kwh != 2.0 {
		t.Fatalf("expected peak 2.00 kWh, got %.2f", peak.Kwh)
	}
}
