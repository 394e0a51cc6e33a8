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
	"testing"
	"time"
)

func TestPeriodForWeekStartsMonday(t *testing.T) {
	t.Parallel()

	// 2024-03-13 is a Wednesday.
	anchor := time.Date(2024, time.March, 13, 15, 30, 0, 0, time.UTC)
	period, err := PeriodFor(GranularityWeek, anchor)
	if err != nil {
		t.Fatalf("resolve week period: %v", err)
	}

	wantStart := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC) // Monday
	wantEnd := time.Date(2024, time.March, 17, 0, 0, 0, 0, time.UTC)   // Sunday
	if !period.Start.Equal(wantStart) {
		t.Fatalf("expected week start %s, got %s", wantStart, period.Start)
	}
	if !period.End.Equal(wantEnd) {
		t.Fatalf("expected week end %s, got %s", wantEnd, period.End)
	}
	if period.Key != "2024-03-11__WEEK" {
		t.Fatalf("expected week key 2024-03-11__WEEK, got %q", period.Key)
	}
}

func TestPeriodForWeekSundayBelongsToEndingWeek(t *testing.T) {
	t.Parallel()

	// 2024-03-17 is a Sunday; it closes the week of Monday 2024-03-11.
	anchor := time.Date(2024, time.March, 17, 8, 0, 0, 0, time.UTC)
	period, err := PeriodFor(GranularityWeek, anchor)
	if err != nil {
		t.Fatalf("resolve week period: %v", err)
	}
	if got := period.Start.Format(dateKeyLayout); got != "2024-03-11" {
		t.Fatalf("expected Sunday to map to week starting 2024-03-11, got %s", got)
	}
}

func TestPeriodForSpans(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		g        Granularity
		wantDays int
		wantKey  string
	}{
		{"day", GranularityDay, 1, "2024-02-15"},
		{"week", GranularityWeek, 7, "2024-02-12__WEEK"},
		{"leap_month", GranularityMonth, 29, "2024-02"},
		{"leap_year", GranularityYear, 366, "2024"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			period, err := PeriodFor(tc.g, anchor)
			if err != nil {
				t.Fatalf("resolve period: %v", err)
			}
			if period.Days() != tc.wantDays {
				t.Fatalf("expected %d days, got %d", tc.wantDays, period.Days())
			}
			if period.Key != tc.wantKey {
				t.Fatalf("expected key %q, got %q", tc.wantKey, period.Key)
			}
		})
	}
}

func TestPreviousPeriodMonthCrossesYearBoundary(t *testing.T) {
	t.Parallel()

	period, err := PeriodFor(GranularityMonth, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("resolve month period: %v", err)
	}

	previous := PreviousPeriod(period)
	if previous.Key != "2023-12" {
		t.Fatalf("expected previous month key 2023-12, got %q", previous.Key)
	}
	if previous.Days() != 31 {
		t.Fatalf("expected December to span 31 days, got %d", previous.Days())
	}
}

func TestPreviousPeriodByGranularity(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		g       Granularity
		wantKey string
	}{
		{"day", GranularityDay, "2024-03-12"},
		{"week", GranularityWeek, "2024-03-04__WEEK"},
		{"month", GranularityMonth, "2024-02"},
		{"year", GranularityYear, "2023"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			period, err := PeriodFor(tc.g, anchor)
			if err != nil {
				t.Fatalf("resolve period: %v", err)
			}
			if got := PreviousPeriod(period).Key; got != tc.wantKey {
				t.Fatalf("expected previous key %q, got %q", tc.wantKey, got)
			}
		})
	}
}

func TestPeriodForKeyRoundTrips(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	for _, g := range []Granularity{GranularityDay, GranularityWeek, GranularityMonth, GranularityYear} {
		period, err := PeriodFor(g, anchor)
		if err != nil {
			t.Fatalf("resolve %s period: %v", g, err)
		}
		resolved, err := PeriodForKey(g, period.Key)
		if err != nil {
			t.Fatalf("resolve %s key %q: %v", g, period.Key, err)
		}
		if !resolved.Start.Equal(period.Start) || !resolved.End.Equal(period.End) {
			t.Fatalf("%s key %q did not round-trip: got %s..%s", g, period.Key, resolved.Start, resolved.End)
		}
	}
}

func TestPeriodForKeyRejectsInvalidKeys(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		g    Granularity
		key  string
	}{
		{"day_garbage", GranularityDay, "not-a-date"},
		{"week_missing_suffix", GranularityWeek, "2024-03-11"},
		{"week_not_monday", GranularityWeek, "2024-03-12__WEEK"},
		{"month_full_date", GranularityMonth, "2024-03-11"},
		{"year_garbage", GranularityYear, "twenty24"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := PeriodForKey(tc.g, tc.key); err == nil {
				t.Fatalf("expected error for %s key %q", tc.g, tc.key)
			}
		})
	}
}

func TestEnumeratePeriodsDeduplicatesAndSorts(t *testing.T) {
	t.Parallel()

	readings := []Reading{
		{Timestamp: time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 1},
		{Timestamp: time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 1},
		{Timestamp: time.Date(2024, time.January, 25, 10, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 1},
		{Timestamp: time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 1},
	}

	periods, err := EnumeratePeriods(GranularityMonth, readings)
	if err != nil {
		t.Fatalf("enumerate periods: %v", err)
	}

	wantKeys := []string{"2024-01", "2024-03"}
	if len(periods) != len(wantKeys) {
		t.Fatalf("expected %d periods, got %d", len(wantKeys), len(periods))
	}
	for i, want := range wantKeys {
		if periods[i].Key != want {
			t.Fatalf("expected period %d to be %q, got %q", i, want, periods[i].Key)
		}
	}
}

func TestDaysInMonthAndYear(t *testing.T) {
	t.Parallel()

	if got := daysInMonth(2024, time.February); got != 29 {
		t.Fatalf("expected 29 days in Feb 2024, got %d", got)
	}
	if got := daysInMonth(2023, time.February); got != 28 {
		t.Fatalf("expected 28 days in Feb 2023, got %d", got)
	}
	if got := daysInYear(2024); got != 366 {
		t.Fatalf("expected 366 days in 2024, got %d", got)
	}
	if got := daysInYear(2100); got != 365 {
		t.Fatalf("expected 365 days in 2100, got %d", got)
	}
}
