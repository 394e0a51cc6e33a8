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

func TestForecastPastPeriodProjectsElapsedExactly(t *testing.T) {
	t.Parallel()

	snap := BuildSnapshot([]Reading{
		{Timestamp: time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 12.5},
		{Timestamp: time.Date(2024, time.January, 20, 18, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 7.5},
	})
	period := mustPeriod(t, GranularityMonth, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	agg := BuildAggregates(period, snap)

	// Anchor in February: January is fully elapsed.
	anchor := time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC)
	forecast := Forecast(period, anchor, agg)

	if forecast.ElapsedTotal != 20.0 {
		t.Fatalf("expected elapsed total 20.00, got %.2f", forecast.ElapsedTotal)
	}
	if forecast.ProjectedTotal != forecast.ElapsedTotal {
		t.Fatalf("expected projected == elapsed for past period, got %.2f vs %.2f",
			forecast.ProjectedTotal, forecast.ElapsedTotal)
	}
}

func TestForecastDayScalesFirstHourTo24(t *testing.T) {
	t.Parallel()

	snap := BuildSnapshot([]Reading{
		{Timestamp: time.Date(2024, time.March, 13, 0, 15, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 2.0},
		{Timestamp: time.Date(2024, time.March, 13, 0, 45, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 1.0},
	})
	period := mustPeriod(t, GranularityDay, time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC))
	agg := BuildAggregates(period, snap)

	anchor := time.Date(2024, time.March, 13, 0, 50, 0, 0, time.UTC)
	forecast := Forecast(period, anchor, agg)

	// Only hour 0 observed: 3 kWh in 1 elapsed hour scales to 72 over 24.
	if forecast.ProjectedTotal != 72.0 {
		t.Fatalf("expected projected 72.00, got %.2f", forecast.ProjectedTotal)
	}
}

func TestForecastWeekRunRate(t *testing.T) {
	t.Parallel()

	// Monday through Wednesday of the week starting 2024-03-11.
	snap := BuildSnapshot([]Reading{
		{Timestamp: time.Date(2024, time.March, 11, 10, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 10},
		{Timestamp: time.Date(2024, time.March, 12, 10, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 10},
		{Timestamp: time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 10},
	})
	period := mustPeriod(t, GranularityWeek, time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC))
	agg := BuildAggregates(period, snap)

	anchor := time.Date(2024, time.March, 13, 23, 0, 0, 0, time.UTC)
	forecast := Forecast(period, anchor, agg)

	// 30 kWh over 3 elapsed days scales to 70 over 7.
	if forecast.ProjectedTotal != 70.0 {
		t.Fatalf("expected projected 70.00, got %.2f", forecast.ProjectedTotal)
	}
}

func TestForecastMonthRunRate(t *testing.T) {
	t.Parallel()

	snap := BuildSnapshot([]Reading{
		{Timestamp: time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 25},
		{Timestamp: time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 25},
	})
	period := mustPeriod(t, GranularityMonth, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	agg := BuildAggregates(period, snap)

	anchor := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	forecast := Forecast(period, anchor, agg)

	// 50 kWh over 10 elapsed days scales to 155 over 31.
	if forecast.ProjectedTotal != 155.0 {
		t.Fatalf("expected projected 155.00, got %.2f", forecast.ProjectedTotal)
	}
}

func TestForecastYearRunRate(t *testing.T) {
	t.Parallel()

	snap := BuildSnapshot([]Reading{
		{Timestamp: time.Date(2023, time.January, 1, 10, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 73},
	})
	period := mustPeriod(t, GranularityYear, time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC))
	agg := BuildAggregates(period, snap)

	// Day 73 of a 365-day year: 73 kWh / 73 days * 365 days.
	anchor := time.Date(2023, time.March, 14, 12, 0, 0, 0, time.UTC)
	if anchor.YearDay() != 73 {
		t.Fatalf("test anchor is day %d, expected 73", anchor.YearDay())
	}
	forecast := Forecast(period, anchor, agg)

	if forecast.ProjectedTotal != 365.0 {
		t.Fatalf("expected projected 365.00, got %.2f", forecast.ProjectedTotal)
	}
}

func TestForecastEmptyPeriod(t *testing.T) {
	t.Parallel()

	period := mustPeriod(t, GranularityMonth, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	agg := BuildAggregates(period, BuildSnapshot(nil))

	forecast := Forecast(period, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), agg)
	if forecast.ElapsedTotal != 0 || forecast.ProjectedTotal != 0 {
		t.Fatalf("expected zero forecast for empty period, got %+v", forecast)
	}
	if len(forecast.Series) != 0 {
		t.Fatalf("expected empty series, got %d points", len(forecast.Series))
	}
}

func TestForecastCumulativeSeries(t *testing.T) {
	t.Parallel()

	snap := BuildSnapshot([]Reading{
		{Timestamp: time.Date(2024, time.March, 12, 10, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 2.5},
		{Timestamp: time.Date(2024, time.March, 11, 10, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 1.5},
		{Timestamp: time.Date(2024, time.March, 12, 18, 0, 0, 0, time.UTC), Appliance: "TV", EnergyKwh: 1.0},
	})
	period := mustPeriod(t, GranularityWeek, time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC))
	agg := BuildAggregates(period, snap)

	forecast := Forecast(period, time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC), agg)
	want := []ForecastPoint{
		{Date: "2024-03-11", CumulativeKwh: 1.5},
		{Date: "2024-03-12", CumulativeKwh: 5.0},
	}
	if len(forecast.Series) != len(want) {
		t.Fatalf("expected %d series points, got %d", len(want), len(forecast.Series))
	}
	for i, point := range want {
		if forecast.Series[i] != point {
			t.Fatalf("series point %d: expected %+v, got %+v", i, point, forecast.Series[i])
		}
	}
}
