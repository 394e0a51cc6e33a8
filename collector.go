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

// Collector acquires the raw reading snapshot the engine analyzes: a local
// file when configured, otherwise the remote source with a short-lived
// cache in front of it so repeated runs do not hammer the upstream.
type Collector struct {
	client  *SourceClient
	config  *Config
	storage *Storage
	logger  *Logger
}

// NewCollector creates a new snapshot collector
func NewCollector(client *SourceClient, config *Config, storage *Storage, logger *Logger) *Collector {
	return &Collector{
		client:  client,
		config:  config,
		storage: storage,
		logger:  logger.WithComponent("collector"),
	}
}

// CollectSnapshot returns the raw record collection for one analysis pass.
func (c *Collector) CollectSnapshot() ([]RawRecord, error) {
	if c.config.InputFile != "" {
		c.logger.Info("Loading readings from file", "path", c.config.InputFile)
		return LoadReadingsFile(c.config.InputFile)
	}

	ttl := time.Duration(c.config.SnapshotTTLMinutes) * time.Minute

	var records []RawRecord
	if ttl > 0 {
		cached, err := c.storage.LoadCache(snapshotCacheKey, &records)
		if err != nil {
			c.logger.Warn("Failed to load snapshot from cache", "error", err)
		}
		if cached {
			c.logger.Info("Loaded raw readings from cache", "count", len(records))
			return records, nil
		}
	}

	records, err := c.client.FetchReadings()
	if err != nil {
		// A stale snapshot beats no snapshot when the upstream is down.
		var stale []RawRecord
		if found, loadErr := c.storage.LoadCacheIgnoringExpiry(snapshotCacheKey, &stale); loadErr == nil && found {
			c.logger.Warn("Source unreachable, using expired snapshot", "count", len(stale), "error", err)
			return stale, nil
		}
		return nil, err
	}

	if ttl > 0 {
		if err := c.storage.SaveCache(snapshotCacheKey, records, ttl); err != nil {
			c.logger.Warn("Failed to cache snapshot", "error", err)
		}
	}
	return records, nil
}
