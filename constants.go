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

import "time"

const (
	// snapshotCacheKey is the cache key for the raw reading snapshot
	snapshotCacheKey = "raw_readings"

	// sourceRequestTimeout bounds a single request to the data source
	sourceRequestTimeout = 30 * time.Second

	// maxFetchAttempts is how many times a retryable fetch is attempted
	maxFetchAttempts = 3

	// fetchRetryBackoff is the base delay between fetch attempts,
	// multiplied by the attempt number
	fetchRetryBackoff = 2 * time.Second
)
