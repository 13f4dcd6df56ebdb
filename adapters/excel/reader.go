// Package excel reads observation data from Excel and CSV files and
// exports result tables back to Excel workbooks.
package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"goanova/domain/core"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a new data reader that handles both Excel and
// CSV files, keyed off the file extension.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadGroups reads one-way grouped data: the header row carries group
// names and each column below it carries that group's observations.
// Columns may have unequal lengths (unbalanced designs); blank cells are
// skipped.
func (r *DataReader) ReadGroups() ([][]float64, []string, error) {
	rows, err := r.readRows()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) < 2 {
		return nil, nil, core.NewValidationError("file", "expected a header row and at least one data row")
	}

	names := make([]string, 0, len(rows[0]))
	for _, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h != "" {
			names = append(names, h)
		}
	}
	if len(names) < 2 {
		return nil, nil, core.NewValidationError("header", "expected at least 2 group columns")
	}

	groups := make([][]float64, len(names))
	for _, row := range rows[1:] {
		for col := 0; col < len(names) && col < len(row); col++ {
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, core.NewValidationError(
					fmt.Sprintf("column %q", names[col]),
					fmt.Sprintf("non-numeric value %q", cell))
			}
			groups[col] = append(groups[col], v)
		}
	}
	return groups, names, nil
}

// ReadTwoWay reads long-format two-way data with three columns: Factor A
// level, Factor B level, observed value. Levels are ordered by first
// appearance. The resulting design must be balanced; the two-way engine
// rejects it otherwise.
func (r *DataReader) ReadTwoWay() ([][][]float64, []string, []string, error) {
	rows, err := r.readRows()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(rows) < 2 {
		return nil, nil, nil, core.NewValidationError("file", "expected a header row and at least one data row")
	}

	aIndex := make(map[string]int)
	bIndex := make(map[string]int)
	var aLevels, bLevels []string
	cells := make(map[[2]int][]float64)

	for line, row := range rows[1:] {
		if len(row) < 3 {
			return nil, nil, nil, core.NewValidationError(
				fmt.Sprintf("row %d", line+2), "expected 3 columns: factor A, factor B, value")
		}
		aName := strings.TrimSpace(row[0])
		bName := strings.TrimSpace(row[1])
		cell := strings.TrimSpace(row[2])
		if aName == "" && bName == "" && cell == "" {
			continue
		}

		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, nil, nil, core.NewValidationError(
				fmt.Sprintf("row %d", line+2), fmt.Sprintf("non-numeric value %q", cell))
		}

		i, ok := aIndex[aName]
		if !ok {
			i = len(aLevels)
			aIndex[aName] = i
			aLevels = append(aLevels, aName)
		}
		j, ok := bIndex[bName]
		if !ok {
			j = len(bLevels)
			bIndex[bName] = j
			bLevels = append(bLevels, bName)
		}
		key := [2]int{i, j}
		cells[key] = append(cells[key], v)
	}

	data := make([][][]float64, len(aLevels))
	for i := range aLevels {
		data[i] = make([][]float64, len(bLevels))
		for j := range bLevels {
			data[i][j] = cells[[2]int{i, j}]
		}
	}
	return data, aLevels, bLevels, nil
}

func (r *DataReader) readRows() ([][]string, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVRows()
	case "xlsx":
		return r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged columns allowed
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	return rows, nil
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}
