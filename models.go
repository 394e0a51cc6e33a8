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
	"time"
)

// Granularity identifies the calendar span a view aggregates over
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// ParseGranularity converts a user-supplied view name into a Granularity.
// Unrecognized values are a caller error, not a data-quality issue.
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "day", "today":
		return GranularityDay, nil
	case "week", "weekly":
		return GranularityWeek, nil
	case "month", "monthly":
		return GranularityMonth, nil
	case "year", "yearly":
		return GranularityYear, nil
	default:
		return "", &ValidationError{
			Field:   "granularity",
			Value:   s,
			Message: "must be one of day, week, month, year",
		}
	}
}

// RawRecord is one loosely-typed record as delivered by the data source.
// Every field may be missing, a string, or otherwise malformed; the
// Normalizer decides what survives.
type RawRecord struct {
	Timestamp any `json:"Timestamp"`
	Appliance any `json:"Appliance"`
	Energy    any `json:"Energy Usage (kWh)"`
}

// Reading is one validated energy measurement for one appliance.
// Immutable once produced by the Normalizer.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	Appliance string    `json:"appliance"`
	EnergyKwh float64   `json:"energyKwh"`
}

// Period is a bounded calendar span over which aggregates are computed.
// Start and End are midnight UTC dates; End is inclusive.
type Period struct {
	Granularity Granularity `json:"granularity"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Label       string      `json:"label"`
	Key         string      `json:"key"`
}

// DayBucket maps appliance name to accumulated kWh for one calendar day.
type DayBucket map[string]float64

// PeriodRow is one chart-ready record: a bucket label (hour-of-day for the
// day view, calendar date otherwise) plus one kWh value per active appliance,
// zero-filled when absent. Values are rounded to 2 decimals at emission.
type PeriodRow struct {
	Label  string             `json:"label"`
	Values map[string]float64 `json:"values"`
}

// ApplianceUsage is one appliance's total over a period, used for ranking.
type ApplianceUsage struct {
	Appliance string  `json:"appliance"`
	Kwh       float64 `json:"kwh"`
}

// CostDelta compares the cost of a period with the previous equivalent one.
// PreviousTotal is nil when no prior-period data exists; PercentChange is nil
// whenever PreviousTotal is nil or zero.
type CostDelta struct {
	CurrentTotal  float64  `json:"currentTotal"`
	PreviousTotal *float64 `json:"previousTotal,omitempty"`
	PercentChange *float64 `json:"percentChange,omitempty"`
}

// ForecastPoint is one step of the cumulative usage series.
type ForecastPoint struct {
	Date          string  `json:"date"`
	CumulativeKwh float64 `json:"cumulativeKwh"`
}

// ForecastResult projects a full-period total from the elapsed portion.
// ProjectedTotal equals ElapsedTotal for a period fully in the past.
type ForecastResult struct {
	ElapsedTotal   float64         `json:"elapsedTotal"`
	ProjectedTotal float64         `json:"projectedTotal"`
	Series         []ForecastPoint `json:"series"`
}

// Recommendation is one opaque advisory message.
type Recommendation struct {
	Text string `json:"text"`
}

// PeakHour is the hour-of-day with the highest kWh total in a period.
type PeakHour struct {
	Hour int     `json:"hour"`
	Kwh  float64 `json:"kwh"`
}

// Aggregates holds the per-period rollups the downstream calculators and the
// rule engine consume. All values are raw (unrounded) accumulations.
// LastHour is the latest hour-of-day with an observed reading, -1 when the
// period is empty.
type Aggregates struct {
	TotalKwh          float64
	ByAppliance       map[string]float64
	Hourly            [24]float64
	ByApplianceHourly map[string][24]float64
	ByDate            map[string]float64
	ReadingCount      int
	LastHour          int
}

/// Snapshot is one immutable view of the raw reading set: the normalized
// readings, the period-agnostic day buckets, and the observed appliance set.
// Built once per analysis pass; every period-scoped view is a projection
// over it.
type Snapshot struct {
	Readings      []Reading
	DayBuckets    map[string]DayBucket
	AllAppliances []string
	Latest        time.Time
}

// Selection carries the view parameters for one analysis pass. A zero Anchor
// means "the latest reading in the snapshot"; an empty Appliances slice means
// "all observed appliances"; PeriodKey optionally pins an enumerated period
// instead of the anchor-resolved one.
type Selection struct {
	Granularity Granularity
	Anchor      time.Time
	PeriodKey   string
	Appliances  []string
	RatePerKwh  float64
}

// AnalysisResult is the complete output of one engine pass.
type AnalysisResult struct {
	GeneratedAt      time.Time        `json:"generatedAt"`
	Period           Period           `json:"period"`
	PreviousPeriod   Period           `json:"previousPeriod"`
	ActiveAppliances []string         `json:"activeAppliances"`
	Rows             []PeriodRow      `json:"rows"`
	PreviousRows     []PeriodRow      `json:"previousRows"`
	Cost             CostDelta        `json:"cost"`
	Forecast         ForecastResult   `json:"forecast"`
	TopAppliances    []ApplianceUsage `json:"topAppliances"`
	Peak             PeakHour         `json:"peak"`
	Recommendations  []Recommendation `json:"recommendations"`
	AvailablePeriods []Period         `json:"availablePeriods"`
	ReadingCount     int              `json:"readingCount"`
	RatePerKwh       float64          `json:"ratePerKwh"`
	// Charts (base64 encoded PNG images, populated for HTML reports)
	UsageChart    string `json:"usageChart,omitempty"`
	ForecastChart string `json:"forecastChart,omitempty"`
	ShareChart    string `json:"shareChart,omitempty"`
}
