// Package sheet parses the monthly KPI spreadsheet layout: metric names in
// column D, one value column per calendar day starting at column E. The
// scanning contract lives here so it stays independent of the XLSX codec.
package sheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ottica-backend/internal/models"
	"ottica-backend/internal/timeutil"
)

const (
	// MarkerText anchors the metric block: the first row whose AnchorColumn
	// cell equals it (case-insensitive, trimmed) starts the window.
	MarkerText = "saldato tgt"

	// AnchorColumn is the 0-indexed column holding metric names (column D)
	AnchorColumn = 3

	// ValueStartColumn is the first per-day value column (column E)
	ValueStartColumn = 4

	// MaxMetricRows bounds the scan window below the anchor
	MaxMetricRows = 25
)

// ErrMarkerNotFound is returned when no row carries the anchor marker
var ErrMarkerNotFound = errors.New(`riga "Saldato TGT" non trovata nella colonna D del file`)

// Parse scans the sheet rows and builds the monthly record for the given
// period (YYYY-MM). Date headers are generated from the period, one per
// calendar day, regardless of what the sheet's own header row contains.
func Parse(rows [][]string, period string) (*models.MonthlySheet, error) {
	days, err := timeutil.DaysInPeriod(period)
	if err != nil {
		return nil, err
	}

	anchor := -1
	for i, row := range rows {
		if strings.EqualFold(strings.TrimSpace(cell(row, AnchorColumn)), MarkerText) {
			anchor = i
			break
		}
	}
	if anchor == -1 {
		return nil, ErrMarkerNotFound
	}

	headers := make([]string, days)
	for d := 0; d < days; d++ {
		headers[d] = fmt.Sprintf("%02d/%s/%s", d+1, period[5:7], period[:4])
	}

	var metrics []models.Metric
	for i := anchor; i < anchor+MaxMetricRows && i < len(rows); i++ {
		row := rows[i]
		name := strings.TrimSpace(cell(row, AnchorColumn))

		values := make([]*float64, days)
		for d := 0; d < days; d++ {
			values[d] = parseNumber(cell(row, ValueStartColumn+d))
		}

		// Blank rows are section spacers, kept in position
		metrics = append(metrics, models.Metric{Name: name, Values: values})
	}

	// Trim trailing spacers so the window bound does not pad the record
	for len(metrics) > 0 && metrics[len(metrics)-1].Blank() {
		metrics = metrics[:len(metrics)-1]
	}

	return &models.MonthlySheet{
		Period:      period,
		DateHeaders: headers,
		Metrics:     metrics,
	}, nil
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// parseNumber reads a cell as a number; blank or non-numeric cells become
// nil. Accepts the comma decimal separator the shop's sheets use.
func parseNumber(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &n
}
