// Package codec converts between domain records and the binary document
// formats the console exchanges with the outside world (XLSX uploads and
// exports, PDF snapshots).
package codec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"ottica-backend/internal/models"
	"ottica-backend/internal/sheet"
)

// DecodeRows reads the first worksheet of an XLSX file into rows of cell
// strings, the shape the sheet parser scans.
func DecodeRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("file excel non leggibile: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("file excel senza fogli")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("file excel non leggibile: %w", err)
	}
	return rows, nil
}

// EncodeMonthlySheet writes a monthly record back to the spreadsheet layout
// the parser scans: metric names in column D, one value column per day from
// column E. Re-importing the output reproduces the same record.
func EncodeMonthlySheet(s *models.MonthlySheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Sheet1"

	// Header row: dates above the value columns
	if err := setCell(f, sheetName, sheet.AnchorColumn, 0, "Metrica"); err != nil {
		return nil, err
	}
	for d, h := range s.DateHeaders {
		if err := setCell(f, sheetName, sheet.ValueStartColumn+d, 0, h); err != nil {
			return nil, err
		}
	}

	for i, m := range s.Metrics {
		row := i + 1
		if m.Name != "" {
			if err := setCell(f, sheetName, sheet.AnchorColumn, row, m.Name); err != nil {
				return nil, err
			}
		}
		for d, v := range m.Values {
			if v == nil {
				continue
			}
			if err := setCell(f, sheetName, sheet.ValueStartColumn+d, row, *v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTableXLSX writes a generic header+rows table to a worksheet
func EncodeTableXLSX(headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Sheet1"

	for col, h := range headers {
		if err := setCell(f, sheetName, col, 0, h); err != nil {
			return nil, err
		}
	}
	for r, row := range rows {
		for col, v := range row {
			if err := setCell(f, sheetName, col, r+1, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// setCell writes a value at 0-indexed column/row coordinates
func setCell(f *excelize.File, sheetName string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheetName, cell, value)
}
