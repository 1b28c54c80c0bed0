package models

import "strings"

// Metric is one row of a monthly KPI sheet. Values align 1:1 with the
// sheet's dateHeaders; a nil entry is a blank cell. A Metric with an empty
// Name and all-blank Values is a spacer row, kept in position so a
// re-exported sheet reproduces the original layout.
type Metric struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// Blank reports whether the metric is a spacer row
func (m *Metric) Blank() bool {
	if m.Name != "" {
		return false
	}
	for _, v := range m.Values {
		if v != nil {
			return false
		}
	}
	return true
}

// MonthlySheet is one imported KPI sheet (collection "datiMensili",
// document id = Period). Rewritten wholesale on every import and on every
// daily-closure write-back; last writer wins.
type MonthlySheet struct {
	Period      string   `json:"period"` // YYYY-MM
	DateHeaders []string `json:"dateHeaders"`
	Metrics     []Metric `json:"metrics"`
}

// KPI metric row names the engines read and write. Matching is
// case-insensitive on the trimmed row name.
const (
	MetricSaldatoTGT = "saldato tgt"
	MetricSaldatoCY  = "saldato cy"
	MetricWOTGT      = "wo tgt"
	MetricWOCY       = "wo cy"
	MetricFirstAct   = "first act"
	MetricSecondAct  = "second act"
)

// DayIndex returns the column index of the given DD/MM/YYYY header,
// or -1 when the date is not part of the sheet.
func (s *MonthlySheet) DayIndex(date string) int {
	for i, h := range s.DateHeaders {
		if h == date {
			return i
		}
	}
	return -1
}

func normalizeMetricName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FindMetric returns the metric with the given name (case-insensitive,
// trimmed), or nil.
func (s *MonthlySheet) FindMetric(name string) *Metric {
	for i := range s.Metrics {
		if normalizeMetricName(s.Metrics[i].Name) == normalizeMetricName(name) {
			return &s.Metrics[i]
		}
	}
	return nil
}
