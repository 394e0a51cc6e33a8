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
	"html"
	"io"
	"os"
)

// HTMLReporter generates HTML reports from analysis results
type HTMLReporter struct {
	currency string
	logger   *Logger
}

// NewHTMLReporter creates a new HTML report generator
func NewHTMLReporter(currency string, logger *Logger) *HTMLReporter {
	return &HTMLReporter{
		currency: currency,
		logger:   logger,
	}
}

// GenerateHTMLReport generates an HTML report
func (r *HTMLReporter) GenerateHTMLReport(result *AnalysisResult, outputPath string) error {
	r.logger.Info("Generating HTML report")

	var writer io.Writer
	if outputPath == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create HTML report file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	// Generate HTML report content
	r.writeHTMLHeader(writer, result)
	r.writeHTMLSummary(writer, result)
	r.writeHTMLUsage(writer, result)
	r.writeHTMLTopAppliances(writer, result)
	r.writeHTMLForecast(writer, result)
	r.writeHTMLRecommendations(writer, result)
	r.writeHTMLFooter(writer)

	if outputPath != "" {
		r.logger.Info("HTML report saved", "path", outputPath)
	}

	return nil
}

func (r *HTMLReporter) writeHTMLHeader(w io.Writer, result *AnalysisResult) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Energy Consumption Analysis Report</title>
    <style>
        :root {
            --primary-color: #FF006E;
            --secondary-color: #00C896;
            --warning-color: #FFB800;
            --danger-color: #FF006E;
            --success-color: #00C896;
            --bg-color: #0A0F1E;
            --card-bg: #1A2332;
            --text-color: #E8EAF6;
            --text-muted: #9FA8DA;
            --border-color: #2A3550;
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            background: var(--bg-color);
            color: var(--text-color);
            line-height: 1.6;
            padding: 20px;
        }

        .container {
            max-width: 1200px;
            margin: 0 auto;
        }

        header {
            background: linear-gradient(135deg, var(--primary-color), var(--secondary-color));
            padding: 40px;
            border-radius: 16px;
            margin-bottom: 30px;
            box-shadow: 0 8px 32px rgba(255, 0, 110, 0.2);
        }

        h1 {
            font-size: 2.5em;
            margin-bottom: 10px;
            font-weight: 700;
        }

        .subtitle {
            color: rgba(255, 255, 255, 0.9);
            font-size: 1.1em;
        }

        .card {
            background: var(--card-bg);
            border-radius: 12px;
            padding: 30px;
            margin-bottom: 30px;
            border: 1px solid var(--border-color);
            box-shadow: 0 4px 16px rgba(0, 0, 0, 0.3);
        }

        h2 {
            color: var(--primary-color);
            margin-bottom: 20px;
            font-size: 1.8em;
            border-bottom: 2px solid var(--border-color);
            padding-bottom: 10px;
        }

        h3 {
            color: var(--secondary-color);
            margin: 25px 0 15px 0;
            font-size: 1.4em;
        }

        table {
            width: 100%%;
            border-collapse: collapse;
            margin: 20px 0;
        }

        th, td {
            padding: 12px;
            text-align: left;
            border-bottom: 1px solid var(--border-color);
        }

        th {
            background: rgba(255, 0, 110, 0.1);
            color: var(--primary-color);
            font-weight: 600;
        }

        tr:hover {
            background: rgba(0, 200, 150, 0.05);
        }

        .metric-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
            gap: 20px;
            margin: 20px 0;
        }

        .metric-card {
            background: rgba(255, 0, 110, 0.05);
            border: 1px solid var(--border-color);
            border-radius: 8px;
            padding: 20px;
            text-align: center;
        }

        .metric-value {
            font-size: 2em;
            font-weight: bold;
            color: var(--secondary-color);
            margin: 10px 0;
        }

        .metric-label {
            color: var(--text-muted);
            font-size: 0.9em;
        }

        .badge {
            display: inline-block;
            padding: 6px 12px;
            border-radius: 20px;
            font-size: 0.85em;
            font-weight: 600;
            margin: 5px;
        }

        .badge-success {
            background: var(--success-color);
            color: white;
        }

        .badge-danger {
            background: var(--danger-color);
            color: white;
        }

        .badge-info {
            background: #3F51B5;
            color: white;
        }

        .insight-box {
            background: rgba(0, 200, 150, 0.05);
            border-left: 4px solid var(--secondary-color);
            padding: 20px;
            margin: 15px 0;
            border-radius: 4px;
        }

        .chart {
            width: 100%%;
            border-radius: 8px;
            margin: 20px 0;
        }

        footer {
            text-align: center;
            padding: 30px;
            color: var(--text-muted);
            border-top: 1px solid var(--border-color);
            margin-top: 40px;
        }

        @media (max-width: 768px) {
            body {
                padding: 10px;
            }

            header {
                padding: 20px;
            }

            h1 {
                font-size: 1.8em;
            }

            .card {
                padding: 20px;
            }

            table {
                font-size: 0.9em;
            }
        }

        @media print {
            body {
                background: white;
                color: black;
            }

            .card {
                border: 1px solid #ddd;
                break-inside: avoid;
            }
        }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>⚡ Energy Consumption Analysis</h1>
            <div class="subtitle">Generated: %s</div>
            <div class="subtitle">Analysis Period: %s</div>
            <div class="subtitle" style="opacity: 0.7; font-size: 0.9em; margin-top: 10px;">wattsage %s</div>
        </header>
`,
		result.GeneratedAt.Format("Monday, 2 January 2006 at 15:04"),
		html.EscapeString(result.Period.Label),
		GetVersion(),
	)
}

func (r *HTMLReporter) writeHTMLSummary(w io.Writer, result *AnalysisResult) {
	change := "n/a"
	changeStatus := "info"
	if result.Cost.PercentChange != nil {
		change = FormatPercentage(*result.Cost.PercentChange)
		if *result.Cost.PercentChange > 0 {
			changeStatus = "danger"
		} else {
			changeStatus = "success"
		}
	}

	fmt.Fprintf(w, `
        <div class="card">
            <h2>📊 Summary</h2>

            <div class="metric-grid">
                <div class="metric-card">
                    <div class="metric-label">Total Consumption</div>
                    <div class="metric-value">%.2f kWh</div>
                    <span class="badge badge-info">%d readings</span>
                </div>
                <div class="metric-card">
                    <div class="metric-label">Cost So Far</div>
                    <div class="metric-value">%s %.2f</div>
                    <span class="badge badge-info">at %s %.2f/kWh</span>
                </div>
                <div class="metric-card">
                    <div class="metric-label">Projected Total</div>
                    <div class="metric-value">%.2f kWh</div>
                    <span class="badge badge-info">Run-Rate Estimate</span>
                </div>
                <div class="metric-card">
                    <div class="metric-label">vs Previous Period</div>
                    <div class="metric-value">%s</div>
                    <span class="badge badge-%s">%s</span>
                </div>
            </div>
        </div>
`,
		result.Forecast.ElapsedTotal,
		result.ReadingCount,
		r.currency,
		result.Cost.CurrentTotal,
		r.currency,
		result.RatePerKwh,
		result.Forecast.ProjectedTotal,
		change,
		changeStatus,
		html.EscapeString(result.PreviousPeriod.Label),
	)
}

func (r *HTMLReporter) writeHTMLUsage(w io.Writer, result *AnalysisResult) {
	fmt.Fprintf(w, `
        <div class="card">
            <h2>⚡ Usage Breakdown</h2>
`)

	if result.UsageChart != "" {
		fmt.Fprintf(w, `            <img class="chart" src="data:image/png;base64,%s" alt="Usage chart">
`, result.UsageChart)
	}

	if len(result.Rows) > 0 && len(result.ActiveAppliances) > 0 {
		fmt.Fprintf(w, `            <table>
                <thead>
                    <tr>
                        <th>Period</th>
`)
		for _, appliance := range result.ActiveAppliances {
			fmt.Fprintf(w, "                        <th>%s</th>\n", html.EscapeString(appliance))
		}
		fmt.Fprintf(w, `                    </tr>
                </thead>
                <tbody>
`)
		for _, row := range result.Rows {
			fmt.Fprintf(w, "                    <tr>\n                        <td>%s</td>\n", html.EscapeString(row.Label))
			for _, appliance := range result.ActiveAppliances {
				fmt.Fprintf(w, "                        <td>%.2f</td>\n", row.Values[appliance])
			}
			fmt.Fprintf(w, "                    </tr>\n")
		}
		fmt.Fprintf(w, `                </tbody>
            </table>
`)
	} else {
		fmt.Fprintf(w, `            <p><em>No consumption data available for this period.</em></p>
`)
	}

	fmt.Fprintf(w, `        </div>
`)
}

func (r *HTMLReporter) writeHTMLTopAppliances(w io.Writer, result *AnalysisResult) {
	if len(result.TopAppliances) == 0 {
		return
	}

	fmt.Fprintf(w, `
        <div class="card">
            <h2>🏆 Top Appliances</h2>
`)

	if result.ShareChart != "" {
		fmt.Fprintf(w, `            <img class="chart" src="data:image/png;base64,%s" alt="Appliance share chart">
`, result.ShareChart)
	}

	fmt.Fprintf(w, `            <table>
                <thead>
                    <tr>
                        <th>Rank</th>
                        <th>Appliance</th>
                        <th>Consumption</th>
                        <th>Cost</th>
                    </tr>
                </thead>
                <tbody>
`)
	for i, usage := range result.TopAppliances {
		fmt.Fprintf(w, `                    <tr>
                        <td>%d</td>
                        <td>%s</td>
                        <td>%.2f kWh</td>
                        <td>%s %.2f</td>
                    </tr>
`,
			i+1,
			html.EscapeString(usage.Appliance),
			usage.Kwh,
			r.currency,
			ToCost(usage.Kwh, result.RatePerKwh),
		)
	}
	fmt.Fprintf(w, `                </tbody>
            </table>
        </div>
`)
}

func (r *HTMLReporter) writeHTMLForecast(w io.Writer, result *AnalysisResult) {
	fmt.Fprintf(w, `
        <div class="card">
            <h2>🔮 Forecast</h2>
`)

	if result.ForecastChart != "" {
		fmt.Fprintf(w, `            <img class="chart" src="data:image/png;base64,%s" alt="Forecast chart">
`, result.ForecastChart)
	}

	fmt.Fprintf(w, `            <table>
                <thead>
                    <tr>
                        <th>Metric</th>
                        <th>Value</th>
                    </tr>
                </thead>
                <tbody>
                    <tr>
                        <td>⚡ Consumed So Far</td>
                        <td>%.2f kWh</td>
                    </tr>
                    <tr>
                        <td>📅 Projected Total</td>
                        <td>%.2f kWh</td>
                    </tr>
                    <tr>
                        <td>💰 Projected Cost</td>
                        <td>%s %.2f</td>
                    </tr>
                </tbody>
            </table>
        </div>
`,
		result.Forecast.ElapsedTotal,
		result.Forecast.ProjectedTotal,
		r.currency,
		ToCost(result.Forecast.ProjectedTotal, result.RatePerKwh),
	)
}

func (r *HTMLReporter) writeHTMLRecommendations(w io.Writer, result *AnalysisResult) {
	if len(result.Recommendations) == 0 {
		return
	}

	fmt.Fprintf(w, `
        <div class="card">
            <h2>💡 Recommendations</h2>
`)
	for _, rec := range result.Recommendations {
		fmt.Fprintf(w, `            <div class="insight-box">%s</div>
`, html.EscapeString(rec.Text))
	}
	fmt.Fprintf(w, `        </div>
`)
}

func (r *HTMLReporter) writeHTMLFooter(w io.Writer) {
	fmt.Fprintf(w, `
        <footer>
            <p>Projections are run-rate extrapolations from observed usage and may vary with seasonal changes and usage patterns.</p>
            <p>Generated by <a href="https://github.com/wattsage/wattsage" style="color: var(--secondary-color)">wattsage</a></p>
        </footer>
    </div>
</body>
</html>
`)
}
