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
	"sort"
	"time"
)

// All calendar arithmetic lives in this file. Other components consume only
// typed Period and time.Time values, never raw date strings.

const (
	dateKeyLayout = "2006-01-02"
	weekKeySuffix = "__WEEK"
)

// dateOnly truncates an instant to its midnight UTC calendar date.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dateKey formats a calendar date as YYYY-MM-DD.
func dateKey(t time.Time) string {
	return t.UTC().Format(dateKeyLayout)
}

// mondayOf returns the Monday of the week containing d. Sunday maps to an
// offset of -6 so it belongs to the week ending that day, not starting it.
func mondayOf(d time.Time) time.Time {
	d = dateOnly(d)
	diff := 1 - int(d.Weekday())
	if d.Weekday() == time.Sunday {
		diff = -6
	}
	return d.AddDate(0, 0, diff)
}

// daysInMonth returns the calendar length of a month, leap years included.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// daysInYear tests leap years via February having 29 days.
func daysInYear(year int) int {
	if daysInMonth(year, time.February) == 29 {
		return 366
	}
	return 365
}

// PeriodFor resolves the period of the given granularity containing the
// anchor date. Weeks start on Monday and span exactly 7 days; months and
// years span their full calendar extent.
func PeriodFor(g Granularity, anchor time.Time) (Period, error) {
	day := dateOnly(anchor)
	switch g {
	case GranularityDay:
		return Period{
			Granularity: g,
			Start:       day,
			End:         day,
			Label:       day.Format("Mon, 02 Jan 2006"),
			Key:         dateKey(day),
		}, nil
	case GranularityWeek:
		start := mondayOf(day)
		return weekPeriod(start), nil
	case GranularityMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return monthPeriod(start), nil
	case GranularityYear:
		start := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return yearPeriod(start), nil
	default:
		return Period{}, &ValidationError{
			Field:   "granularity",
			Value:   string(g),
			Message: "unrecognized granularity",
		}
	}
}

func weekPeriod(monday time.Time) Period {
	end := monday.AddDate(0, 0, 6)
	return Period{
		Granularity: GranularityWeek,
		Start:       monday,
		End:         end,
		Label:       fmt.Sprintf("%s - %s", monday.Format("02 Jan 2006"), end.Format("02 Jan 2006")),
		Key:         dateKey(monday) + weekKeySuffix,
	}
}

func monthPeriod(first time.Time) Period {
	end := first.AddDate(0, 0, daysInMonth(first.Year(), first.Month())-1)
	return Period{
		Granularity: GranularityMonth,
		Start:       first,
		End:         end,
		Label:       first.Format("January 2006"),
		Key:         first.Format("2006-01"),
	}
}

func yearPeriod(first time.Time) Period {
	return Period{
		Granularity: GranularityYear,
		Start:       first,
		End:         time.Date(first.Year(), time.December, 31, 0, 0, 0, 0, time.UTC),
		Label:       first.Format("2006"),
		Key:         first.Format("2006"),
	}
}

// PreviousPeriod returns the immediately preceding equivalent period. A
// period with no readings is still a valid period: absence of data shows up
// as empty aggregates downstream, never as a failure here.
func PreviousPeriod(p Period) Period {
	switch p.Granularity {
	case GranularityWeek:
		return weekPeriod(p.Start.AddDate(0, 0, -7))
	case GranularityMonth:
		return monthPeriod(p.Start.AddDate(0, -1, 0))
	case GranularityYear:
		return yearPeriod(p.Start.AddDate(-1, 0, 0))
	default:
		day := p.Start.AddDate(0, 0, -1)
		return Period{
			Granularity: GranularityDay,
			Start:       day,
			End:         day,
			Label:       day.Format("Mon, 02 Jan 2006"),
			Key:         dateKey(day),
		}
	}
}

// PeriodForKey resolves an enumerated period key (picker selection) back
// into a full Period.
func PeriodForKey(g Granularity, key string) (Period, error) {
	badKey := func() (Period, error) {
		return Period{}, &ValidationError{
			Field:   "period",
			Value:   key,
			Message: fmt.Sprintf("not a valid %s period key", g),
		}
	}
	switch g {
	case GranularityDay:
		day, err := time.Parse(dateKeyLayout, key)
		if err != nil {
			return badKey()
		}
		return PeriodFor(GranularityDay, day)
	case GranularityWeek:
		if len(key) != len(dateKeyLayout)+len(weekKeySuffix) || key[len(dateKeyLayout):] != weekKeySuffix {
			return badKey()
		}
		monday, err := time.Parse(dateKeyLayout, key[:len(dateKeyLayout)])
		if err != nil || !monday.Equal(mondayOf(monday)) {
			return badKey()
		}
		return weekPeriod(dateOnly(monday)), nil
	case GranularityMonth:
		first, err := time.Parse("2006-01", key)
		if err != nil {
			return badKey()
		}
		return monthPeriod(dateOnly(first)), nil
	case GranularityYear:
		first, err := time.Parse("2006", key)
		if err != nil {
			return badKey()
		}
		return yearPeriod(dateOnly(first)), nil
	default:
		return Period{}, &ValidationError{
			Field:   "granularity",
			Value:   string(g),
			Message: "unrecognized granularity",
		}
	}
}

// EnumeratePeriods derives the distinct set of periods of one granularity
// actually represented in the reading set, sorted chronologically ascending.
// Used to populate period pickers.
func EnumeratePeriods(g Granularity, readings []Reading) ([]Period, error) {
	seen := make(map[string]Period)
	for _, r := range readings {
		p, err := PeriodFor(g, r.Timestamp)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[p.Key]; !ok {
			seen[p.Key] = p
		}
	}

	periods := make([]Period, 0, len(seen))
	for _, p := range seen {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Start.Before(periods[j].Start)
	})
	return periods, nil
}

// Contains reports whether a calendar date falls within the period span.
func (p Period) Contains(date time.Time) bool {
	d := dateOnly(date)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Days returns the period's calendar length in days.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}
