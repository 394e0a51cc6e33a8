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
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
)

// Reporter generates markdown reports from analysis results
type Reporter struct {
	currency string
	logger   *Logger
}

// NewReporter creates a new report generator
func NewReporter(currency string, logger *Logger) *Reporter {
	return &Reporter{
		currency: currency,
		logger:   logger,
	}
}

// GenerateReport creates a markdown report from analysis results
func (r *Reporter) GenerateReport(result *AnalysisResult, outputPath string) error {
	r.logger.Info("Generating report")

	var writer io.Writer
	if outputPath == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	// Generate report content
	r.writeHeader(writer, result)
	r.writeSummary(writer, result)
	r.writeUsageBreakdown(writer, result)
	r.writeTopAppliances(writer, result)
	r.writeForecast(writer, result)
	r.writeRecommendations(writer, result)
	r.writeAvailablePeriods(writer, result)
	r.writeFooter(writer)

	if outputPath != "" {
		r.logger.Info("Report saved", "path", outputPath)
	}

	return nil
}

// writeHeader writes the report header
func (r *Reporter) writeHeader(w io.Writer, result *AnalysisResult) {
	fmt.Fprintf(w, "# Energy Consumption Analysis Report\n\n")
	fmt.Fprintf(w, "**Generated:** %s\n\n", result.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "**Analysis Period:** %s (%s view)\n\n", result.Period.Label, result.Period.Granularity)
	fmt.Fprintf(w, "**Readings Analyzed:** %s\n\n", humanize.Comma(int64(result.ReadingCount)))
	fmt.Fprintf(w, "**wattsage version:** %s\n\n", GetVersion())
	fmt.Fprintf(w, "---\n\n")
}

// writeSummary writes the summary section
func (r *Reporter) writeSummary(w io.Writer, result *AnalysisResult) {
	fmt.Fprintf(w, "## 📊 Summary\n\n")

	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| ⚡ Total Consumption | %s kWh |\n", humanize.CommafWithDigits(result.Forecast.ElapsedTotal, 2))
	fmt.Fprintf(w, "| 💰 Cost So Far | %s |\n", r.formatCurrency(result.Cost.CurrentTotal))

	if result.Cost.PreviousTotal != nil {
		fmt.Fprintf(w, "| 📅 Previous Period (%s) | %s |\n", result.PreviousPeriod.Label, r.formatCurrency(*result.Cost.PreviousTotal))
	} else {
		fmt.Fprintf(w, "| 📅 Previous Period (%s) | *no data* |\n", result.PreviousPeriod.Label)
	}

	if result.Cost.PercentChange != nil {
		indicator := "📈"
		if *result.Cost.PercentChange < 0 {
			indicator = "📉"
		}
		fmt.Fprintf(w, "| %s Change vs Previous | %s |\n", indicator, FormatPercentage(*result.Cost.PercentChange))
	} else {
		fmt.Fprintf(w, "| 🔄 Change vs Previous | *not comparable* |\n")
	}

	if result.Peak.Kwh > 0 {
		fmt.Fprintf(w, "| 🕐 Peak Hour | %02d:00 (%.2f kWh) |\n", result.Peak.Hour, result.Peak.Kwh)
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "> **📅 Projected Period Total:** %s kWh (%s)\n\n",
		humanize.CommafWithDigits(result.Forecast.ProjectedTotal, 2),
		r.formatCurrency(ToCost(result.Forecast.ProjectedTotal, result.RatePerKwh)),
	)
}

// writeUsageBreakdown writes the per-row usage table
func (r *Reporter) writeUsageBreakdown(w io.Writer, result *AnalysisResult) {
	if len(result.Rows) == 0 || len(result.ActiveAppliances) == 0 {
		fmt.Fprintf(w, "## ⚡ Usage Breakdown\n\n")
		fmt.Fprintf(w, "*No consumption data available for this period.*\n\n")
		return
	}

	fmt.Fprintf(w, "## ⚡ Usage Breakdown\n\n")

	fmt.Fprintf(w, "| Period |")
	for _, appliance := range result.ActiveAppliances {
		fmt.Fprintf(w, " %s |", appliance)
	}
	fmt.Fprintf(w, " Total |\n")

	fmt.Fprintf(w, "|--------|")
	for range result.ActiveAppliances {
		fmt.Fprintf(w, "------|")
	}
	fmt.Fprintf(w, "------|\n")

	for _, row := range result.Rows {
		total := 0.0
		fmt.Fprintf(w, "| %s |", row.Label)
		for _, appliance := range result.ActiveAppliances {
			value := row.Values[appliance]
			total += value
			fmt.Fprintf(w, " %.2f |", value)
		}
		fmt.Fprintf(w, " **%.2f** |\n", round2(total))
	}
	fmt.Fprintf(w, "\n")
}

// writeTopAppliances writes the appliance ranking section
func (r *Reporter) writeTopAppliances(w io.Writer, result *AnalysisResult) {
	if len(result.TopAppliances) == 0 {
		return
	}

	fmt.Fprintf(w, "## 🏆 Top Appliances\n\n")
	fmt.Fprintf(w, "| Rank | Appliance | Consumption | Cost |\n")
	fmt.Fprintf(w, "|------|-----------|-------------|------|\n")
	for i, usage := range result.TopAppliances {
		fmt.Fprintf(w, "| %d | %s | %.2f kWh | %s |\n",
			i+1,
			usage.Appliance,
			usage.Kwh,
			r.formatCurrency(ToCost(usage.Kwh, result.RatePerKwh)),
		)
	}
	fmt.Fprintf(w, "\n")
}

// writeForecast writes the forecast section
func (r *Reporter) writeForecast(w io.Writer, result *AnalysisResult) {
	fmt.Fprintf(w, "## 🔮 Forecast\n\n")

	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| ⚡ Consumed So Far | %.2f kWh |\n", result.Forecast.ElapsedTotal)
	fmt.Fprintf(w, "| 📅 Projected Total | %.2f kWh |\n", result.Forecast.ProjectedTotal)
	fmt.Fprintf(w, "| 💰 Projected Cost | %s |\n", r.formatCurrency(ToCost(result.Forecast.ProjectedTotal, result.RatePerKwh)))
	fmt.Fprintf(w, "\n")

	if len(result.Forecast.Series) > 0 {
		fmt.Fprintf(w, "### 📈 Cumulative Consumption\n\n")
		fmt.Fprintf(w, "| Date | Cumulative |\n")
		fmt.Fprintf(w, "|------|------------|\n")
		for _, point := range result.Forecast.Series {
			fmt.Fprintf(w, "| %s | %.2f kWh |\n", point.Date, point.CumulativeKwh)
		}
		fmt.Fprintf(w, "\n")
	}
}

// writeRecommendations writes the recommendations section
func (r *Reporter) writeRecommendations(w io.Writer, result *AnalysisResult) {
	if len(result.Recommendations) == 0 {
		return
	}

	fmt.Fprintf(w, "## 💡 Recommendations\n\n")
	for _, rec := range result.Recommendations {
		fmt.Fprintf(w, "- %s\n", rec.Text)
	}
	fmt.Fprintf(w, "\n")
}

// writeAvailablePeriods lists the periods the data covers
func (r *Reporter) writeAvailablePeriods(w io.Writer, result *AnalysisResult) {
	if len(result.AvailablePeriods) == 0 {
		return
	}

	fmt.Fprintf(w, "## 🗓️ Available Periods\n\n")
	for _, period := range result.AvailablePeriods {
		marker := ""
		if period.Key == result.Period.Key {
			marker = " *(current)*"
		}
		fmt.Fprintf(w, "- %s%s\n", period.Label, marker)
	}
	fmt.Fprintf(w, "\n")
}

// writeFooter writes the report footer
func (r *Reporter) writeFooter(w io.Writer) {
	fmt.Fprintf(w, "---\n\n")
	fmt.Fprintf(w, "*Projections are run-rate extrapolations from observed usage and may vary with seasonal changes and usage patterns.*\n\n")
	fmt.Fprintf(w, "*Generated by [wattsage](https://github.com/wattsage/wattsage)*\n")
}

// formatCurrency formats a value with the configured currency label
func (r *Reporter) formatCurrency(value float64) string {
	return fmt.Sprintf("%s %s", r.currency, humanize.CommafWithDigits(value, 2))
}

// FormatPercentage formats a value as a percentage
func FormatPercentage(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}
