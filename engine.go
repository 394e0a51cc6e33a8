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

// topAppliancesCount is how many appliances the result ranks for display.
const topAppliancesCount = 5

// Engine is the shared analytical core behind the dashboard views. Every
// pass is a pure computation over the supplied snapshot and selection: no
// state survives between calls, so concurrent passes with different
// snapshots or selections are safe.
type Engine struct {
	config *Config
	logger *Logger
}

// NewEngine creates a new analysis engine
func NewEngine(config *Config, logger *Logger) *Engine {
	return &Engine{
		config: config,
		logger: logger.WithComponent("engine"),
	}
}

// Analyze runs one full pass over a raw record snapshot: normalization,
// period resolution, aggregation, cost delta, forecast, ranking, and
// recommendations. Malformed records never fail the pass; an invalid
// selection (bad rate, unknown granularity, bad period key) does.
func (e *Engine) Analyze(records []RawRecord, sel Selection) (*AnalysisResult, error) {
	if sel.RatePerKwh <= 0 {
		return nil, &ConfigError{
			Field:   "rate_per_kwh",
			Message: "must be a positive number",
		}
	}

	readings := Normalize(records)
	e.logger.LogNormalization(len(records), len(readings))
	snap := BuildSnapshot(readings)

	anchor := sel.Anchor
	if anchor.IsZero() {
		// The dashboard anchors "now" to the newest data point so a stale
		// snapshot still renders its most recent period.
		anchor = snap.Latest
	}
	if anchor.IsZero() {
		anchor = time.Now().UTC()
	}

	period, err := e.resolvePeriod(sel, anchor)
	if err != nil {
		return nil, err
	}
	previous := PreviousPeriod(period)
	e.logger.LogPeriodResolved(period)

	active := ActiveAppliances(snap, sel.Appliances)
	rows := RowsForPeriod(period, snap, active)
	e.logger.LogAnalysisStage("aggregation")

	aggregates := BuildAggregates(period, snap)
	previousAggregates := BuildAggregates(previous, snap)

	// A previous period with zero readings is valid, but it is no baseline:
	// the delta must carry nil instead of a zero comparison.
	var previousRows []PeriodRow
	if previousAggregates.ReadingCount > 0 {
		previousRows = RowsForPeriod(previous, snap, active)
	}

	cost, err := Delta(rows, previousRows, active, sel.RatePerKwh)
	if err != nil {
		return nil, err
	}
	e.logger.LogAnalysisStage("cost_delta")

	forecast := Forecast(period, anchor, aggregates)
	e.logger.LogAnalysisStage("forecast")

	recommendations := Recommend(aggregates, cost, period.Granularity, sel.RatePerKwh, e.config.Rules)
	e.logger.LogAnalysisStage("recommendations")

	available, err := EnumeratePeriods(period.Granularity, readings)
	if err != nil {
		return nil, err
	}

	return &AnalysisResult{
		GeneratedAt:      time.Now().UTC(),
		Period:           period,
		PreviousPeriod:   previous,
		ActiveAppliances: active,
		Rows:             rows,
		PreviousRows:     previousRows,
		Cost:             cost,
		Forecast:         forecast,
		TopAppliances:    TopAppliances(aggregates, topAppliancesCount),
		Peak:             PeakHourOf(aggregates),
		Recommendations:  recommendations,
		AvailablePeriods: available,
		ReadingCount:     aggregates.ReadingCount,
		RatePerKwh:       sel.RatePerKwh,
	}, nil
}

// resolvePeriod picks the analysis period: an explicit picker key when the
// selection carries one, the anchor-containing period otherwise.
func (e *Engine) resolvePeriod(sel Selection, anchor time.Time) (Period, error) {
	if sel.PeriodKey != "" {
		return PeriodForKey(sel.Granularity, sel.PeriodKey)
	}
	return PeriodFor(sel.Granularity, anchor)
}
