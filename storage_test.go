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

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	storage, err := NewStorage(t.TempDir(), NewLogger(false))
	if err != nil {
		t.Fatalf("init storage: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

func TestCacheRoundTrip(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	records := []RawRecord{
		{Timestamp: "2024-03-13T19:30:00Z", Appliance: "TV", Energy: 1.0},
	}

	if err := storage.SaveCache(snapshotCacheKey, records, time.Minute); err != nil {
		t.Fatalf("save cache: %v", err)
	}

	var loaded []RawRecord
	found, err := storage.LoadCache(snapshotCacheKey, &loaded)
	if err != nil {
		t.Fatalf("load cache: %v", err)
	}
	if !found {
		t.Fatal("expected cache hit")
	}
	if len(loaded) != 1 || loaded[0].Appliance != "TV" {
		t.Fatalf("unexpected cached records: %+v", loaded)
	}
}

func TestCacheExpiryAndStaleFallback(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)
	records := []RawRecord{
		{Timestamp: "2024-03-13T19:30:00Z", Appliance: "TV", Energy: 1.0},
	}

	// Store with an already-elapsed TTL.
	if err := storage.SaveCache(snapshotCacheKey, records, -time.Minute); err != nil {
		t.Fatalf("save cache: %v", err)
	}

	var loaded []RawRecord
	found, err := storage.LoadCache(snapshotCacheKey, &loaded)
	if err != nil {
		t.Fatalf("load cache: %v", err)
	}
	if found {
		t.Fatal("expected expired entry to miss")
	}

	found, err = storage.LoadCacheIgnoringExpiry(snapshotCacheKey, &loaded)
	if err != nil {
		t.Fatalf("load stale cache: %v", err)
	}
	if !found {
		t.Fatal("expected stale entry to be readable when expiry is ignored")
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 stale record, got %d", len(loaded))
	}
}

func TestCacheMiss(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)

	var loaded []RawRecord
	found, err := storage.LoadCache("absent", &loaded)
	if err != nil {
		t.Fatalf("load cache: %v", err)
	}
	if found {
		t.Fatal("expected miss for absent key")
	}
}

func TestSaveAndLoadLatestAnalysis(t *testing.T) {
	t.Parallel()

	storage := newTestStorage(t)

	none, err := storage.LoadLatestAnalysis()
	if err != nil {
		t.Fatalf("load from empty storage: %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil result from empty storage, got %+v", none)
	}

	result := &AnalysisResult{
		GeneratedAt: time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC),
		Period: Period{
			Granularity: GranularityMonth,
			Start:       time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			End:         time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
			Label:       "March 2024",
			Key:         "2024-03",
		},
		ReadingCount: 4,
		RatePerKwh:   6.14,
	}
	if err := storage.SaveAnalysisResult(result); err != nil {
		t.Fatalf("save analysis: %v", err)
	}

	loaded, err := storage.LoadLatestAnalysis()
	if err != nil {
		t.Fatalf("load latest analysis: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected a saved analysis")
	}
	if loaded.Period.Key != "2024-03" || loaded.ReadingCount != 4 {
		t.Fatalf("unexpected loaded analysis: period %q, readings %d", loaded.Period.Key, loaded.ReadingCount)
	}
}
