package excel

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"goanova/domain/anova"
)

func TestWriteWorkbook_RoundTrip(t *testing.T) {
	table := anova.Table{
		Rows: []anova.Row{
			{Source: anova.SourceBetween, SS: 83.03, DF: 2, MS: 41.51, HasMS: true, F: 126.3, P: 0.0000001, HasF: true},
			{Source: anova.SourceWithin, SS: 3.944, DF: 12, MS: 0.3287, HasMS: true},
			{Source: anova.SourceTotal, SS: 86.97, DF: 14},
		},
	}
	postHoc := []*anova.PostHocResult{
		{
			Method: anova.MethodTukeyHSD,
			Alpha:  0.05,
			Comparisons: []anova.Comparison{
				{GroupA: "Low", GroupB: "High", MeanDiff: -5.76, SE: 0.36, Statistic: 15.9, PValue: 0.0001, Significant: true},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := WriteWorkbook(path, table, postHoc); err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("ANOVA", "A1")
	if err != nil || got != "Source" {
		t.Errorf("ANOVA!A1 = %q, err %v", got, err)
	}
	got, _ = f.GetCellValue("ANOVA", "A2")
	if got != anova.SourceBetween {
		t.Errorf("ANOVA!A2 = %q", got)
	}

	got, _ = f.GetCellValue("Tukey HSD", "A2")
	if got != "Low" {
		t.Errorf("Tukey HSD!A2 = %q", got)
	}
	got, _ = f.GetCellValue("Tukey HSD", "B2")
	if got != "High" {
		t.Errorf("Tukey HSD!B2 = %q", got)
	}
}

func TestWriteWorkbook_DegenerateTable(t *testing.T) {
	table := anova.Table{
		Rows: []anova.Row{
			{Source: anova.SourceBetween, SS: 10, DF: 1, MS: 10, HasMS: true, FUndefined: true},
			{Source: anova.SourceWithin, SS: 0, DF: 4, MS: 0, HasMS: true},
			{Source: anova.SourceTotal, SS: 10, DF: 5},
		},
		Degenerate: true,
	}

	path := filepath.Join(t.TempDir(), "degenerate.xlsx")
	if err := WriteWorkbook(path, table, nil); err != nil {
		t.Fatalf("WriteWorkbook failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	got, _ := f.GetCellValue("ANOVA", "E2")
	if got != "undef" {
		t.Errorf("degenerate F cell = %q, want undef", got)
	}
}
