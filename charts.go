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
	"encoding/base64"
	"fmt"

	charts "github.com/vicanso/go-charts/v2"
)

// ChartGenerator renders the analysis views as PNG charts for the HTML
// report: usage per appliance over the period, the cumulative forecast
// trajectory, and the appliance share ranking.
type ChartGenerator struct {
	theme string
}

// NewChartGenerator creates a new chart generator
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{
		theme: "dark", // Match our HTML report dark theme
	}
}

// GenerateUsageChart creates a line chart of per-appliance usage across the
// period rows, one series per active appliance.
func (cg *ChartGenerator) GenerateUsageChart(result *AnalysisResult) (string, error) {
	if len(result.Rows) == 0 || len(result.ActiveAppliances) == 0 {
		return "", &DataError{DataType: "usage", Message: "no rows or active appliances to plot"}
	}

	labels := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		labels = append(labels, row.Label)
	}

	values := make([][]float64, 0, len(result.ActiveAppliances))
	for _, appliance := range result.ActiveAppliances {
		series := make([]float64, 0, len(result.Rows))
		for _, row := range result.Rows {
			series = append(series, row.Values[appliance])
		}
		values = append(values, series)
	}

	p, err := charts.LineRender(
		values,
		charts.TitleTextOptionFunc(fmt.Sprintf("Energy Usage - %s", result.Period.Label)),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc(result.ActiveAppliances, charts.PositionRight),
		charts.ThemeOptionFunc(cg.getTheme()),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(400),
		charts.PaddingOptionFunc(charts.Box{
			Top:    20,
			Right:  20,
			Bottom: 20,
			Left:   20,
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render usage chart: %w", err)
	}

	return encodeChart(p)
}

// GenerateForecastChart creates a line chart of the cumulative consumption
// trajectory with the projected total as a flat reference line.
func (cg *ChartGenerator) GenerateForecastChart(result *AnalysisResult) (string, error) {
	if len(result.Forecast.Series) == 0 {
		return "", &DataError{DataType: "forecast", Message: "no cumulative series to plot"}
	}

	labels := make([]string, 0, len(result.Forecast.Series))
	cumulative := make([]float64, 0, len(result.Forecast.Series))
	projected := make([]float64, 0, len(result.Forecast.Series))
	for _, point := range result.Forecast.Series {
		labels = append(labels, point.Date)
		cumulative = append(cumulative, point.CumulativeKwh)
		projected = append(projected, result.Forecast.ProjectedTotal)
	}

	p, err := charts.LineRender(
		[][]float64{cumulative, projected},
		charts.TitleTextOptionFunc(fmt.Sprintf("Forecast - %s", result.Period.Label)),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc([]string{"Cumulative (kWh)", "Projected (kWh)"}, charts.PositionRight),
		charts.ThemeOptionFunc(cg.getTheme()),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(400),
		charts.PaddingOptionFunc(charts.Box{
			Top:    20,
			Right:  20,
			Bottom: 20,
			Left:   20,
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render forecast chart: %w", err)
	}

	return encodeChart(p)
}

// GenerateShareChart creates a horizontal bar chart of the top appliances
// by total consumption.
func (cg *ChartGenerator) GenerateShareChart(result *AnalysisResult) (string, error) {
	if len(result.TopAppliances) == 0 {
		return "", &DataError{DataType: "appliances", Message: "no ranked appliances to plot"}
	}

	// Horizontal bars render bottom-up, so feed the ranking reversed to put
	// the biggest consumer on top.
	labels := make([]string, 0, len(result.TopAppliances))
	series := make([]float64, 0, len(result.TopAppliances))
	for i := len(result.TopAppliances) - 1; i >= 0; i-- {
		labels = append(labels, result.TopAppliances[i].Appliance)
		series = append(series, result.TopAppliances[i].Kwh)
	}

	p, err := charts.HorizontalBarRender(
		[][]float64{series},
		charts.TitleTextOptionFunc("Top Appliances (kWh)"),
		charts.YAxisDataOptionFunc(labels),
		charts.ThemeOptionFunc(cg.getTheme()),
		charts.WidthOptionFunc(800),
		charts.HeightOptionFunc(400),
		charts.PaddingOptionFunc(charts.Box{
			Top:    20,
			Right:  40,
			Bottom: 20,
			Left:   20,
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render share chart: %w", err)
	}

	return encodeChart(p)
}

// encodeChart converts a rendered painter to base64 for HTML embedding
func encodeChart(p *charts.Painter) (string, error) {
	buf, err := p.Bytes()
	if err != nil {
		return "", fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// getTheme returns the chart theme name
func (cg *ChartGenerator) getTheme() string {
	return cg.theme
}
