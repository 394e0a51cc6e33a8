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
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

func main() {
	// Define command-line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	sourceURL := flag.String("source", "", "Reading collection endpoint URL (overrides config)")
	inputFile := flag.String("input", "", "Local JSON file of raw readings (overrides config)")
	rate := flag.Float64("rate", 0, "Cost per kWh (overrides config)")
	view := flag.String("view", "", "Analysis granularity: day, week, month or year (overrides config)")
	anchorDate := flag.String("anchor", "", "Anchor date (YYYY-MM-DD, default: latest reading)")
	periodKey := flag.String("period", "", "Explicit period key to analyze")
	appliances := flag.String("appliances", "", "Comma-separated appliance filter")
	listPeriods := flag.Bool("list-periods", false, "List available periods and exit")
	outputPath := flag.String("output", "", "Output file for report (default: stdout)")
	htmlOutput := flag.Bool("html", false, "Generate HTML report instead of Markdown")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("wattsage %s\n", GetVersion())
		os.Exit(0)
	}

	// Initialize logger
	logger := NewLogger(*debug)
	logger.Info("Starting wattsage", "version", GetVersion())

	// Check for updates (non-blocking)
	go CheckForUpdates(logger)

	// Load configuration
	logger.Info("Loading configuration", "config_file", *configPath)
	config, err := LoadConfig(*configPath)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Override with command-line flags
	if *sourceURL != "" {
		config.SourceURL = *sourceURL
	}
	if *inputFile != "" {
		config.InputFile = *inputFile
	}
	if *rate > 0 {
		config.RatePerKwh = *rate
	}
	if *view != "" {
		config.View = *view
	}
	if *appliances != "" {
		config.Appliances = splitAppliances(*appliances)
	}
	if *debug {
		config.Debug = true
		// Recreate logger with debug enabled
		logger = NewLogger(true)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Configuration loaded successfully")

	granularity, err := ParseGranularity(config.View)
	if err != nil {
		logger.Error("Invalid view", "error", err)
		os.Exit(1)
	}

	var anchor time.Time
	if *anchorDate != "" {
		anchor, err = time.Parse(dateKeyLayout, *anchorDate)
		if err != nil {
			logger.Error("Invalid anchor date, expected YYYY-MM-DD", "value", *anchorDate, "error", err)
			os.Exit(1)
		}
	}

	// Initialize storage
	logger.Info("Initializing storage", "path", config.StoragePath)
	storage, err := NewStorage(config.StoragePath, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	// Create data-source client
	logger.Info("Creating source client")
	client := NewSourceClient(config.SourceURL, config.SourceHeaders, logger)

	// Create snapshot collector
	logger.Info("Initializing collector")
	collector := NewCollector(client, config, storage, logger)

	// Acquire the raw reading snapshot
	logger.Info("Collecting readings")
	records, err := collector.CollectSnapshot()
	if err != nil {
		logger.Error("Failed to collect readings", "error", err)
		os.Exit(1)
	}

	// List periods and exit if requested
	if *listPeriods {
		readings := Normalize(records)
		periods, err := EnumeratePeriods(granularity, readings)
		if err != nil {
			logger.Error("Failed to enumerate periods", "error", err)
			os.Exit(1)
		}
		for _, p := range periods {
			fmt.Printf("%s\t%s\n", p.Key, p.Label)
		}
		os.Exit(0)
	}

	// Create analysis engine
	logger.Info("Initializing engine")
	engine := NewEngine(config, logger)

	// Perform analysis
	logger.Info("Performing analysis")
	result, err := engine.Analyze(records, Selection{
		Granularity: granularity,
		Anchor:      anchor,
		PeriodKey:   *periodKey,
		Appliances:  config.Appliances,
		RatePerKwh:  config.RatePerKwh,
	})
	if err != nil {
		logger.Error("Failed to perform analysis", "error", err)
		os.Exit(1)
	}

	// Render charts for the HTML report
	if *htmlOutput {
		chartGen := NewChartGenerator()
		if chart, err := chartGen.GenerateUsageChart(result); err != nil {
			logger.Warn("Failed to render usage chart", "error", err)
		} else {
			result.UsageChart = chart
		}
		if chart, err := chartGen.GenerateForecastChart(result); err != nil {
			logger.Warn("Failed to render forecast chart", "error", err)
		} else {
			result.ForecastChart = chart
		}
		if chart, err := chartGen.GenerateShareChart(result); err != nil {
			logger.Warn("Failed to render share chart", "error", err)
		} else {
			result.ShareChart = chart
		}
	}

	// Save analysis results
	logger.Info("Saving analysis results")
	if err := storage.SaveAnalysisResult(result); err != nil {
		logger.Warn("Failed to save analysis results", "error", err)
	}

	// Generate report (HTML or Markdown)
	if *htmlOutput {
		logger.Info("Generating HTML report")
		htmlReporter := NewHTMLReporter(config.Rules.CurrencyLabel, logger)
		if err := htmlReporter.GenerateHTMLReport(result, *outputPath); err != nil {
			logger.Error("Failed to generate HTML report", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Info("Generating Markdown report")
		reporter := NewReporter(config.Rules.CurrencyLabel, logger)
		if err := reporter.GenerateReport(result, *outputPath); err != nil {
			logger.Error("Failed to generate report", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Analysis completed successfully")
}

// splitAppliances parses the comma-separated appliance filter flag
func splitAppliances(value string) []string {
	parts := strings.Split(value, ",")
	appliances := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			appliances = append(appliances, trimmed)
		}
	}
	return appliances
}
