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
	"io"
	"net/http"
	"os"
	"time"
)

// SourceClient pulls the raw reading collection from the remote data
// source. Retrieval lives entirely outside the engine: the engine receives
// whatever record slice this client (or a local file) produced.
type SourceClient struct {
	endpoint   string
	headers    map[string]string
	httpClient *http.Client
	logger     *Logger
}

// NewSourceClient creates a new data-source client
func NewSourceClient(endpoint string, headers map[string]string, logger *Logger) *SourceClient {
	return &SourceClient{
		endpoint: endpoint,
		headers:  headers,
		httpClient: &http.Client{
			Timeout: sourceRequestTimeout,
		},
		logger: logger.WithComponent("source"),
	}
}

// FetchReadings retrieves the full raw record collection. Transient
// upstream failures are retried with a linear backoff; anything else is
// surfaced as an APIError.
func (c *SourceClient) FetchReadings() ([]RawRecord, error) {
	var lastErr error
	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		records, err := c.fetchOnce()
		if err == nil {
			c.logger.Info("Fetched raw readings", "count", len(records), "attempt", attempt)
			return records, nil
		}
		lastErr = err

		apiErr, ok := err.(*APIError)
		if !ok || !apiErr.IsRetryable() || attempt == maxFetchAttempts {
			break
		}
		backoff := time.Duration(attempt) * fetchRetryBackoff
		c.logger.Warn("Retrying source fetch", "attempt", attempt, "backoff", backoff, "error", err)
		time.Sleep(backoff)
	}
	return nil, lastErr
}

func (c *SourceClient) fetchOnce() ([]RawRecord, error) {
	c.logger.LogSourceRequest(http.MethodGet, c.endpoint)

	req, err := http.NewRequest(http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create source request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", GetUserAgent())
	for name, value := range c.headers {
		req.Header.Set(name, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{
			Endpoint: c.endpoint,
			Message:  "failed to reach data source",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   c.endpoint,
			Message:    fmt.Sprintf("unexpected status: %s", string(body)),
		}
		c.logger.LogSourceError(c.endpoint, resp.StatusCode, apiErr)
		return nil, apiErr
	}

	var records []RawRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   c.endpoint,
			Message:    "failed to decode reading collection",
			Err:        err,
		}
	}
	return records, nil
}

// LoadReadingsFile reads a raw record collection from a local JSON file,
// the offline alternative to the remote source.
func LoadReadingsFile(path string) ([]RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{
			Operation: "read_input",
			Path:      path,
			Err:       err,
		}
	}
	var records []RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &StorageError{
			Operation: "decode_input",
			Path:      path,
			Err:       err,
		}
	}
	return records, nil
}
