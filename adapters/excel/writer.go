package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"goanova/domain/anova"
)

// WriteWorkbook exports an ANOVA table and any post-hoc results to an
// Excel workbook, one sheet per table.
func WriteWorkbook(path string, table anova.Table, postHoc []*anova.PostHocResult) error {
	f := excelize.NewFile()
	defer f.Close()

	const anovaSheet = "ANOVA"
	f.SetSheetName("Sheet1", anovaSheet)
	if err := writeAnovaSheet(f, anovaSheet, table); err != nil {
		return err
	}

	for _, ph := range postHoc {
		sheet := sheetNameFor(ph.Method)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
		}
		if err := writePostHocSheet(f, sheet, ph); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeAnovaSheet(f *excelize.File, sheet string, table anova.Table) error {
	headers := []interface{}{"Source", "SS", "df", "MS", "F", "p-value"}
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}

	for i, r := range table.Rows {
		values := []interface{}{r.Source, r.SS, r.DF, "-", "-", "-"}
		if r.HasMS {
			values[3] = r.MS
		}
		if r.HasF {
			values[4] = r.F
			values[5] = r.P
		} else if r.FUndefined {
			values[4] = "undef"
		}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writePostHocSheet(f *excelize.File, sheet string, ph *anova.PostHocResult) error {
	headers := []interface{}{"Group A", "Group B", "Mean Diff", "SE", "Statistic", "p-value", "p-adjusted", "Significant"}
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, c := range ph.Comparisons {
		values := []interface{}{c.GroupA, c.GroupB, c.MeanDiff, c.SE, c.Statistic, c.PValue, c.PAdjusted, c.Significant}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func sheetNameFor(m anova.Method) string {
	switch m {
	case anova.MethodTukeyHSD:
		return "Tukey HSD"
	case anova.MethodBonferroni:
		return "Bonferroni"
	case anova.MethodScheffe:
		return "Scheffe"
	}
	return string(m)
}
