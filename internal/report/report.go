// Package report renders a stored analysis run as a markdown document
// and converts it to HTML for the web UI.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"goanova/domain/anova"
	"goanova/domain/run"
)

// BuildMarkdown renders a run record as a markdown report.
func BuildMarkdown(rec *run.Record) (string, error) {
	payload, err := rec.DecodePayload()
	if err != nil {
		return "", fmt.Errorf("failed to decode run payload: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# ANOVA Report\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", rec.ID)
	fmt.Fprintf(&b, "- Design: %s\n", designLabel(rec.Design))
	fmt.Fprintf(&b, "- Created: %s\n\n", rec.CreatedAt.Time().Format("2006-01-02 15:04:05"))

	switch {
	case payload.OneWay != nil:
		writeOneWay(&b, payload.OneWay)
		writePostHocSection(&b, "Post-hoc Comparisons", payload.PostHoc)
	case payload.TwoWay != nil:
		writeTwoWay(&b, payload.TwoWay)
		writePostHocSection(&b, fmt.Sprintf("Post-hoc: %s", payload.TwoWay.FactorAName), payload.PostHocByA)
		writePostHocSection(&b, fmt.Sprintf("Post-hoc: %s", payload.TwoWay.FactorBName), payload.PostHocByB)
	default:
		return "", fmt.Errorf("run %s has an empty payload", rec.ID)
	}

	return b.String(), nil
}

// RenderHTML converts a markdown report to HTML.
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}

func writeOneWay(b *strings.Builder, res *anova.OneWayResult) {
	fmt.Fprintf(b, "## ANOVA Table\n\n```\n%s\n```\n\n", res.Summary)
	fmt.Fprintf(b, "## Group Means\n\n")
	fmt.Fprintf(b, "| Group | Mean | SE |\n|---|---|---|\n")
	for i, name := range res.GroupNames {
		fmt.Fprintf(b, "| %s | %.4f | %.4f |\n", name, res.GroupMeans[i], res.GroupSE[i])
	}
	fmt.Fprintf(b, "\nGrand mean: %.4f\n\n", res.GrandMean)
	if res.Table.Degenerate {
		fmt.Fprintf(b, "**Note:** the F-ratio is undefined because the within-group variance is zero.\n\n")
	}
}

func writeTwoWay(b *strings.Builder, res *anova.TwoWayResult) {
	fmt.Fprintf(b, "## ANOVA Table\n\n```\n%s\n```\n\n", res.Summary)

	fmt.Fprintf(b, "## Cell Means\n\n")
	fmt.Fprintf(b, "| |")
	for _, name := range res.BLevelNames {
		fmt.Fprintf(b, " %s |", name)
	}
	fmt.Fprintf(b, "\n|---|")
	for range res.BLevelNames {
		fmt.Fprintf(b, "---|")
	}
	fmt.Fprintf(b, "\n")
	for i, name := range res.ALevelNames {
		fmt.Fprintf(b, "| %s |", name)
		for j := range res.BLevelNames {
			fmt.Fprintf(b, " %.4f |", res.CellMeans[i][j])
		}
		fmt.Fprintf(b, "\n")
	}
	fmt.Fprintf(b, "\nGrand mean: %.4f\n\n", res.GrandMean)
	if res.Table.Degenerate {
		fmt.Fprintf(b, "**Note:** F-ratios are undefined because the within-cell variance is zero.\n\n")
	}
}

func writePostHocSection(b *strings.Builder, title string, results []*anova.PostHocResult) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, res := range results {
		fmt.Fprintf(b, "```\n%s\n```\n\n", res.Summary)
	}
}

func designLabel(d anova.Design) string {
	switch d {
	case anova.DesignOneWay:
		return "One-Way ANOVA"
	case anova.DesignTwoWay:
		return "Two-Way ANOVA"
	}
	return string(d)
}
