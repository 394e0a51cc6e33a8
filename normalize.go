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
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// sentinelCutoff marks the end of the first epoch day. Devices that have
// never reported emit epoch-start timestamps; anything before this instant
// is treated as "device never reported" and discarded.
var sentinelCutoff = time.Date(1970, time.January, 2, 0, 0, 0, 0, time.UTC)

// timestampLayouts are the formats the data source has been observed to emit.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Normalize validates and converts raw records into clean readings.
//
// A record is dropped when its timestamp is missing, unparseable, or falls
// within the first day of the epoch (sentinel). An unparseable energy field
// becomes 0. A missing appliance name is kept: such readings still count for
// period enumeration, and aggregation skips them later because they cannot
// be attributed.
//
// Normalize never fails; the worst outcome is an empty slice.
func Normalize(records []RawRecord) []Reading {
	readings := make([]Reading, 0, len(records))
	for _, rec := range records {
		ts, ok := parseTimestamp(rec.Timestamp)
		if !ok || ts.Before(sentinelCutoff) {
			continue
		}
		readings = append(readings, Reading{
			Timestamp: ts,
			Appliance: parseAppliance(rec.Appliance),
			EnergyKwh: parseEnergy(rec.Energy),
		})
	}
	return readings
}

// parseTimestamp coerces a loosely-typed timestamp field into a UTC instant.
func parseTimestamp(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseEnergy coerces a loosely-typed energy field into kWh, substituting 0
// for anything that does not parse. Negative source values are clamped to 0
// so a misbehaving meter cannot subtract energy from an aggregate.
func parseEnergy(v any) float64 {
	var kwh float64
	switch val := v.(type) {
	case float64:
		kwh = val
	case json.Number:
		kwh, _ = val.Float64()
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		kwh = parsed
	case int:
		kwh = float64(val)
	default:
		return 0
	}
	if kwh < 0 {
		return 0
	}
	return kwh
}

// parseAppliance coerces a loosely-typed appliance field into a name,
// returning "" when nothing usable is present.
func parseAppliance(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		return ""
	}
}
