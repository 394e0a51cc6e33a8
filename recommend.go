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
	"strings"
)

// RuleConfig carries every tunable the recommendation rules consume:
// appliance vocabularies, hour windows, and thresholds. Keeping these as
// named configuration means rules can be tuned without touching rule logic,
// and no device vocabulary is baked into the engine.
type RuleConfig struct {
	// Appliance vocabularies
	HVACAppliances      []string `yaml:"hvac_appliances"`
	StandbyAppliances   []string `yaml:"standby_appliances"`
	ShiftableAppliances []string `yaml:"shiftable_appliances"`

	// Hour-of-day windows
	PeakHours   []int `yaml:"peak_hours"`
	NightHours  []int `yaml:"night_hours"`
	MiddayHours []int `yaml:"midday_hours"`

	// Thresholds and estimated-saving rates
	TopContributors       int     `yaml:"top_contributors"`
	HVACShareThreshold    float64 `yaml:"hvac_share_threshold"`
	HVACSavingRate        float64 `yaml:"hvac_saving_rate"`
	PeakShareThreshold    float64 `yaml:"peak_share_threshold"`
	ShiftSavingRate       float64 `yaml:"shift_saving_rate"`
	StandbyShareThreshold float64 `yaml:"standby_share_threshold"`
	StandbyFloorKwh       float64 `yaml:"standby_floor_kwh"`
	StandbySavingRate     float64 `yaml:"standby_saving_rate"`
	BaseLoadRatio         float64 `yaml:"base_load_ratio"`
	BaseLoadFloorKwh      float64 `yaml:"base_load_floor_kwh"`
	CostSpikeRatio        float64 `yaml:"cost_spike_ratio"`
	SkewRatio             float64 `yaml:"skew_ratio"`

	MaxRecommendations int    `yaml:"max_recommendations"`
	CurrencyLabel      string `yaml:"currency_label"`
}

// DefaultRuleConfig returns the stock tuning.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		HVACAppliances:      []string{"Air Conditioner", "Heater"},
		StandbyAppliances:   []string{"TV", "Plug Loads", "Others", "Computer", "Game Console", "Router", "Set-Top Box"},
		ShiftableAppliances: []string{"Washing Machine", "Dishwasher"},

		PeakHours:   []int{17, 18, 19, 20, 21, 22},
		NightHours:  []int{0, 1, 2, 3, 4, 5},
		MiddayHours: []int{10, 11, 12, 13, 14, 15},

		TopContributors:       3,
		HVACShareThreshold:    0.30,
		HVACSavingRate:        0.07,
		PeakShareThreshold:    0.40,
		ShiftSavingRate:       0.10,
		StandbyShareThreshold: 0.20,
		StandbyFloorKwh:       0.2,
		StandbySavingRate:     0.15,
		BaseLoadRatio:         0.60,
		BaseLoadFloorKwh:      0.1,
		CostSpikeRatio:        1.08,
		SkewRatio:             1.4,

		MaxRecommendations: 5,
		CurrencyLabel:      "MUR",
	}
}

// Recommend evaluates the fixed heuristic rule set against one period's
// aggregates. Each rule is independently triggerable and emits zero or one
// message; the output is deduplicated by exact text, capped, and ordered by
// rule-evaluation order, so identical inputs always produce the identical
// list. The function is a pure computation over its arguments.
func Recommend(agg Aggregates, delta CostDelta, g Granularity, ratePerKwh float64, cfg RuleConfig) []Recommendation {
	if agg.ReadingCount == 0 {
		return []Recommendation{{
			Text: "Not enough data for this period yet. Keep using the system and insights will be generated automatically.",
		}}
	}

	var texts []string
	appendRule := func(msg string) {
		if msg != "" {
			texts = append(texts, msg)
		}
	}

	appendRule(topContributorsRule(agg, cfg))
	appendRule(hvacDominanceRule(agg, ratePerKwh, cfg))
	appendRule(peakShiftRule(agg, ratePerKwh, cfg))
	appendRule(standbyLoadRule(agg, ratePerKwh, cfg))
	appendRule(baseLoadRule(agg, cfg))
	appendRule(costSpikeRule(delta, g, cfg))
	appendRule(weekSkewRule(agg, cfg))

	seen := make(map[string]bool, len(texts))
	recs := make([]Recommendation, 0, cfg.MaxRecommendations)
	for _, text := range texts {
		if seen[text] {
			continue
		}
		seen[text] = true
		recs = append(recs, Recommendation{Text: text})
		if len(recs) == cfg.MaxRecommendations {
			break
		}
	}
	return recs
}

// topContributorsRule names the largest appliances by share of total energy.
func topContributorsRule(agg Aggregates, cfg RuleConfig) string {
	top := TopAppliances(agg, cfg.TopContributors)
	if len(top) == 0 {
		return ""
	}
	parts := make([]string, 0, len(top))
	for _, usage := range top {
		parts = append(parts, fmt.Sprintf("%s %.0f%%", usage.Appliance, share(usage.Kwh, agg.TotalKwh)*100))
	}
	return fmt.Sprintf("Top contributors this period: %s. Focus on these to make the biggest impact.", strings.Join(parts, ", "))
}

// hvacDominanceRule fires when climate-control appliances dominate the
// period; a 1-2 degree setpoint change is worth roughly 7% of their cost.
func hvacDominanceRule(agg Aggregates, ratePerKwh float64, cfg RuleConfig) string {
	hvacKwh := sumAppliances(agg.ByAppliance, cfg.HVACAppliances)
	if agg.TotalKwh <= 0 || hvacKwh/agg.TotalKwh <= cfg.HVACShareThreshold {
		return ""
	}
	saving := hvacKwh * cfg.HVACSavingRate * ratePerKwh
	return fmt.Sprintf(
		"HVAC is a major driver (~%.0f%% of total). Raise the cooling or lower the heating setpoint by 1-2 degrees and use schedules. Potential saving: %s %.0f this period.",
		hvacKwh/agg.TotalKwh*100, cfg.CurrencyLabel, saving)
}

// peakShiftRule fires when washing/dishwashing load concentrates in the
// evening peak window; shifting those cycles to midday is worth roughly 10%
// of the shiftable cost.
func peakShiftRule(agg Aggregates, ratePerKwh float64, cfg RuleConfig) string {
	var maxPeakShare, shiftableKwh float64
	for _, name := range cfg.ShiftableAppliances {
		total := agg.ByAppliance[name]
		shiftableKwh += total
		if total <= 0 {
			continue
		}
		profile := agg.ByApplianceHourly[name]
		if s := sumHours(profile, cfg.PeakHours) / total; s > maxPeakShare {
			maxPeakShare = s
		}
	}
	if maxPeakShare <= cfg.PeakShareThreshold {
		return ""
	}
	saving := maxPeakShare * shiftableKwh * ratePerKwh * cfg.ShiftSavingRate
	return fmt.Sprintf(
		"Laundry and dishwashing often run in evening peak hours. Shift cycles to late morning or early afternoon. Estimated saving: %s %.0f.",
		cfg.CurrencyLabel, saving)
}

// standbyLoadRule fires when always-on-style appliances account for a large
// share of overnight energy above an absolute floor.
func standbyLoadRule(agg Aggregates, ratePerKwh float64, cfg RuleConfig) string {
	nightKwh := sumHours(agg.Hourly, cfg.NightHours)
	if nightKwh <= 0 {
		return ""
	}
	var vampireKwh float64
	for _, name := range cfg.StandbyAppliances {
		profile := agg.ByApplianceHourly[name]
		vampireKwh += sumHours(profile, cfg.NightHours)
	}
	if vampireKwh/nightKwh <= cfg.StandbyShareThreshold || vampireKwh <= cfg.StandbyFloorKwh {
		return ""
	}
	saving := vampireKwh * ratePerKwh * cfg.StandbySavingRate
	return fmt.Sprintf(
		"Overnight standby looks high (~%.0f%% of total). Use smart power strips and disable always-on devices at night. Potential saving: %s %.0f.",
		share(vampireKwh, agg.TotalKwh)*100, cfg.CurrencyLabel, saving)
}

// baseLoadRule flags an audit when the overnight hourly average is a large
// fraction of the mid-day hourly average.
func baseLoadRule(agg Aggregates, cfg RuleConfig) string {
	nightAvg := avgHours(agg.Hourly, cfg.NightHours)
	dayAvg := avgHours(agg.Hourly, cfg.MiddayHours)
	if nightAvg <= dayAvg*cfg.BaseLoadRatio || nightAvg <= cfg.BaseLoadFloorKwh {
		return ""
	}
	return "Overnight base load is relatively high. Audit always-on devices (old fridge, routers, set-top box) and target a 10-20% overnight reduction."
}

// costSpikeRule fires when the current period's cost clearly exceeds the
// previous period's. Without a baseline the rule stays silent.
func costSpikeRule(delta CostDelta, g Granularity, cfg RuleConfig) string {
	if delta.PreviousTotal == nil || delta.CurrentTotal <= *delta.PreviousTotal*cfg.CostSpikeRatio {
		return ""
	}
	baseline := *delta.PreviousTotal
	if baseline < 1 {
		baseline = 1
	}
	pct := (delta.CurrentTotal - *delta.PreviousTotal) / baseline * 100
	return fmt.Sprintf(
		"Energy cost is up %.1f%% vs the previous %s. Review recent schedule or setpoint changes and any newly added devices.",
		pct, g)
}

// weekSkewRule fires when usage concentrates heavily on weekends or
// weekdays; with time-varying tariffs flexible loads should follow the
// cheaper side.
func weekSkewRule(agg Aggregates, cfg RuleConfig) string {
	weekday, weekend := weekendWeekdaySplit(agg)
	if weekday <= 0 || weekend <= 0 {
		return ""
	}
	if weekend/weekday <= cfg.SkewRatio && weekday/weekend <= cfg.SkewRatio {
		return ""
	}
	side := "weekdays"
	if weekend > weekday {
		side = "weekends"
	}
	return fmt.Sprintf(
		"Usage is concentrated on %s. If tariffs vary, schedule flexible loads to the cheaper days or hours.", side)
}

func share(part, total float64) float64 {
	if total < 1 {
		total = 1
	}
	return part / total
}

func sumAppliances(byAppliance map[string]float64, names []string) float64 {
	total := 0.0
	for _, name := range names {
		total += byAppliance[name]
	}
	return total
}

func sumHours(profile [24]float64, hours []int) float64 {
	total := 0.0
	for _, h := range hours {
		if h >= 0 && h < 24 {
			total += profile[h]
		}
	}
	return total
}

func avgHours(profile [24]float64, hours []int) float64 {
	if len(hours) == 0 {
		return 0
	}
	return sumHours(profile, hours) / float64(len(hours))
}
