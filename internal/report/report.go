// Package report renders a RunResult as a human-readable text report.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/adanWu2005/City-Data-Analysis-Dashboard/internal/model"
)

// metricTitles maps metric identifiers to report headings.
var metricTitles = map[model.Metric]string{
	model.MetricPopulation: "Population Growth",
	model.MetricEmployment: "Employment Growth",
	model.MetricCrimeIndex: "Crime Index",
}

// FormatReport generates a human-readable analysis report.
func FormatReport(result *model.RunResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# City Analysis Report\n")
	fmt.Fprintf(&b, "Run: %s\n", result.RunID)
	fmt.Fprintf(&b, "Cities: %d analyzed, %d requested\n\n", len(result.Datasets), len(result.Selections))

	// Summary.
	b.WriteString("## Summary\n")
	for _, cmp := range result.Comparisons {
		title := metricTitles[cmp.Metric]
		if title == "" {
			title = string(cmp.Metric)
		}
		if cmp.Strongest == nil {
			fmt.Fprintf(&b, "- %s: no city improved over the period\n", title)
			continue
		}
		s := cmp.Strongest
		fmt.Fprintf(&b, "- %s: %s (%+.1f over %d-%d)\n",
			title, s.City, s.NetChange, s.StartYear, s.EndYear)
	}
	b.WriteString("\n")

	// Per-metric detail.
	for _, cmp := range result.Comparisons {
		title := metricTitles[cmp.Metric]
		if title == "" {
			title = string(cmp.Metric)
		}
		fmt.Fprintf(&b, "## %s\n", title)
		if len(cmp.Changes) == 0 {
			b.WriteString("Not enough data for any city.\n\n")
			continue
		}
		for _, c := range cmp.Changes {
			fmt.Fprintf(&b, "- %s: %.1f -> %.1f (%+.1f, %d-%d)",
				c.City, c.StartValue, c.EndValue, c.NetChange, c.StartYear, c.EndYear)
			if cmp.Metric == model.MetricPopulation || cmp.Metric == model.MetricEmployment {
				fmt.Fprintf(&b, " CAGR %.2f%%", c.CAGRPct)
			}
			if cmp.Metric == model.MetricEmployment {
				fmt.Fprintf(&b, " score %.2f", c.CompositeScore)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Correlation insights.
	if result.Correlation != nil {
		b.WriteString("## Correlation Insights\n")
		writeCorrelationInsights(&b, result.Correlation)
		b.WriteString("\n")
	}

	// Warnings.
	if len(result.Warnings) > 0 {
		b.WriteString("## Warnings\n")
		for _, w := range result.Warnings {
			marker := ""
			if w.Fatal {
				marker = " (city dropped)"
			}
			fmt.Fprintf(&b, "- [%s] %s: %s%s\n", w.Code, w.City, w.Detail, marker)
		}
	}

	return b.String()
}

// writeCorrelationInsights lists the column pairs by correlation strength,
// strongest first, skipping degenerate entries.
func writeCorrelationInsights(b *strings.Builder, m *model.CorrelationMatrix) {
	type pair struct {
		a, b string
		r    float64
	}
	var pairs []pair
	for i := 0; i < len(m.Columns); i++ {
		for j := i + 1; j < len(m.Columns); j++ {
			r := m.At(i, j)
			if math.IsNaN(r) {
				continue
			}
			pairs = append(pairs, pair{m.Columns[i], m.Columns[j], r})
		}
	}
	if len(pairs) == 0 {
		b.WriteString("Not enough overlapping data to compute correlations.\n")
		return
	}
	sort.Slice(pairs, func(i, j int) bool {
		if math.Abs(pairs[i].r) != math.Abs(pairs[j].r) {
			return math.Abs(pairs[i].r) > math.Abs(pairs[j].r)
		}
		return pairs[i].a+pairs[i].b < pairs[j].a+pairs[j].b
	})
	for _, p := range pairs {
		fmt.Fprintf(b, "- %s vs %s: %+.3f (%s)\n", p.a, p.b, p.r, describe(p.r))
	}
}

// describe labels a coefficient's strength and direction.
func describe(r float64) string {
	abs := math.Abs(r)
	var strength string
	switch {
	case abs >= 0.8:
		strength = "strong"
	case abs >= 0.5:
		strength = "moderate"
	case abs >= 0.2:
		strength = "weak"
	default:
		return "negligible"
	}
	if r < 0 {
		return strength + " negative"
	}
	return strength + " positive"
}
