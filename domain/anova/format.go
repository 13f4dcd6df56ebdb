package anova

import (
	"fmt"
	"strings"
)

// SignificanceStars returns the conventional star annotation for a p-value.
// Boundary values are non-significant at that star level (strict <).
func SignificanceStars(p float64) string {
	switch {
	case p < 0.001:
		return " ***"
	case p < 0.01:
		return " **"
	case p < 0.05:
		return " *"
	}
	return ""
}

// FormatSummary renders an ANOVA table as a readable string with
// significance annotations.
func FormatSummary(t Table) string {
	header := fmt.Sprintf("%-20s | %-12s | %-5s | %-12s | %-10s | %s",
		"Source", "SS", "df", "MS", "F", "p-value")
	sep := strings.Repeat("-", 82)

	lines := []string{header, sep}
	for _, r := range t.Rows {
		lines = append(lines, formatRow(r))
	}

	footer := "\nSignificance: * p<0.05, ** p<0.01, *** p<0.001"
	if t.Degenerate {
		footer += "\nNote: F undefined (zero error variance)"
	}
	return strings.Join(lines, "\n") + footer
}

func formatRow(r Row) string {
	ms := "-"
	if r.HasMS {
		ms = fmt.Sprintf("%.4f", r.MS)
	}

	fCol := "-"
	pCol := "-"
	if r.HasF {
		fCol = fmt.Sprintf("%.4f", r.F)
		pCol = fmt.Sprintf("%.6f%s", r.P, SignificanceStars(r.P))
	} else if r.FUndefined {
		fCol = "undef"
	}

	return fmt.Sprintf("%-20s | %-12.4f | %-5d | %-12s | %-10s | %s",
		r.Source, r.SS, r.DF, ms, fCol, pCol)
}

// CSVString returns the ANOVA table in CSV form for saving or export.
func (t Table) CSVString() string {
	lines := []string{"Source,SS,df,MS,F,p-value"}
	for _, r := range t.Rows {
		ms, f, p := "-", "-", "-"
		if r.HasMS {
			ms = fmt.Sprintf("%.6f", r.MS)
		}
		if r.HasF {
			f = fmt.Sprintf("%.6f", r.F)
			p = fmt.Sprintf("%.6f", r.P)
		} else if r.FUndefined {
			f = "undef"
		}
		lines = append(lines, fmt.Sprintf("%s,%.6f,%d,%s,%s,%s", r.Source, r.SS, r.DF, ms, f, p))
	}
	return strings.Join(lines, "\n")
}

// FormatPostHocSummary renders pairwise comparison results. Each method
// carries different columns, mirroring how the tables are usually reported.
func FormatPostHocSummary(r PostHocResult) string {
	switch r.Method {
	case MethodTukeyHSD:
		return formatTukeySummary(r)
	case MethodBonferroni:
		return formatBonferroniSummary(r)
	case MethodScheffe:
		return formatScheffeSummary(r)
	}
	return ""
}

func formatTukeySummary(r PostHocResult) string {
	lines := []string{
		"=== Tukey HSD ===",
		fmt.Sprintf("%-30s | %10s | %10s | %20s | %s",
			"Comparison", "Mean Diff", "p-value", "95% CI", "Sig."),
		strings.Repeat("-", 88),
	}
	for _, c := range r.Comparisons {
		ci := fmt.Sprintf("[%.4f, %.4f]", c.CILow, c.CIHigh)
		lines = append(lines, fmt.Sprintf("%s vs %-20s | %10.4f | %10.4f | %20s | %s",
			c.GroupA, c.GroupB, c.MeanDiff, c.PValue, ci, yesNo(c.Significant)))
	}
	return strings.Join(lines, "\n")
}

func formatBonferroniSummary(r PostHocResult) string {
	m := len(r.Comparisons)
	correctedAlpha := r.Alpha
	if m > 0 {
		correctedAlpha = r.Alpha / float64(m)
	}
	lines := []string{
		fmt.Sprintf("=== Bonferroni Pairwise Comparisons (alpha=%.2f) ===", r.Alpha),
		fmt.Sprintf("Corrected alpha per comparison: %.6f", correctedAlpha),
		"",
		fmt.Sprintf("%-30s | %10s | %8s | %10s | %10s | %s",
			"Comparison", "Mean Diff", "t", "p(raw)", "p(adj)", "Sig."),
		strings.Repeat("-", 95),
	}
	for _, c := range r.Comparisons {
		lines = append(lines, fmt.Sprintf("%s vs %-20s | %10.4f | %8.4f | %10.6f | %10.6f | %s",
			c.GroupA, c.GroupB, c.MeanDiff, c.Statistic, c.PValue, c.PAdjusted, yesNo(c.Significant)))
	}
	return strings.Join(lines, "\n")
}

func formatScheffeSummary(r PostHocResult) string {
	lines := []string{
		"=== Scheffé Pairwise Comparisons ===",
		fmt.Sprintf("%-30s | %10s | %12s | %10s | %s",
			"Comparison", "Mean Diff", "F(Scheffé)", "p-value", "Sig."),
		strings.Repeat("-", 82),
	}
	for _, c := range r.Comparisons {
		lines = append(lines, fmt.Sprintf("%s vs %-20s | %10.4f | %12.4f | %10.4f | %s",
			c.GroupA, c.GroupB, c.MeanDiff, c.Statistic, c.PValue, yesNo(c.Significant)))
	}
	return strings.Join(lines, "\n")
}

func yesNo(sig bool) string {
	if sig {
		return "Yes *"
	}
	return "No"
}
