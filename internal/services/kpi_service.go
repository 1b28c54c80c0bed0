package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"

	"ottica-backend/internal/cache"
	"ottica-backend/internal/codec"
	"ottica-backend/internal/models"
	"ottica-backend/internal/repository"
	"ottica-backend/internal/sheet"
	"ottica-backend/internal/store"
	"ottica-backend/internal/timeutil"
)

var periodPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// KPIService manages the monthly KPI sheets: import, export, the daily
// objective and the closure rollup/write-back.
type KPIService struct {
	Store store.Store
	Views *repository.Views
}

func NewKPIService(st store.Store, views *repository.Views) *KPIService {
	return &KPIService{Store: st, Views: views}
}

// ImportSheet decodes the uploaded XLSX, parses the metric block and
// replaces the period's record wholesale.
func (s *KPIService) ImportSheet(ctx context.Context, period string, file []byte) (*models.MonthlySheet, error) {
	if !periodPattern.MatchString(period) {
		return nil, errors.New("periodo non valido: atteso YYYY-MM")
	}

	rows, err := codec.DecodeRows(file)
	if err != nil {
		return nil, err
	}
	parsed, err := sheet.Parse(rows, period)
	if err != nil {
		return nil, err
	}

	fields, err := store.FieldsOf(parsed)
	if err != nil {
		return nil, err
	}
	if err := s.Store.Set(ctx, models.CollectionDatiMensili, period, fields, false); err != nil {
		return nil, err
	}

	cache.InvalidateKPICaches(ctx)
	return parsed, nil
}

// GetSheet returns the record for a period, or a not-found error
func (s *KPIService) GetSheet(period string) (*models.MonthlySheet, error) {
	for _, m := range s.Views.Monthly.Snapshot() {
		if m.Period == period {
			found := m
			return &found, nil
		}
	}
	return nil, fmt.Errorf("nessun dato mensile per il periodo %s", period)
}

// ExportSheet renders a period back to the importable spreadsheet layout
func (s *KPIService) ExportSheet(period string) ([]byte, error) {
	m, err := s.GetSheet(period)
	if err != nil {
		return nil, err
	}
	return codec.EncodeMonthlySheet(m)
}

// Objective is the sidebar daily objective; nil values render as "N/D"
type Objective struct {
	Date       string   `json:"date"`
	SaldatoTGT *float64 `json:"saldato_tgt"`
	WOTGT      *float64 `json:"wo_tgt"`
}

// DailyObjective reads today's targets from the current month's sheet
func (s *KPIService) DailyObjective() *Objective {
	obj := &Objective{Date: timeutil.Today()}

	m, err := s.GetSheet(timeutil.CurrentPeriod())
	if err != nil {
		return obj
	}
	day := m.DayIndex(obj.Date)
	if day == -1 {
		return obj
	}
	obj.SaldatoTGT = metricValueAt(m, models.MetricSaldatoTGT, day)
	obj.WOTGT = metricValueAt(m, models.MetricWOTGT, day)
	return obj
}

func metricValueAt(m *models.MonthlySheet, name string, day int) *float64 {
	metric := m.FindMetric(name)
	if metric == nil || day >= len(metric.Values) {
		return nil
	}
	return metric.Values[day]
}

// ClosureRollup compares the month-to-date actual against today's target
type ClosureRollup struct {
	TargetSaldato  float64 `json:"target_saldato"`
	TargetWO       float64 `json:"target_wo"`
	RollingSaldato float64 `json:"rolling_saldato"`
	RollingWO      float64 `json:"rolling_wo"`
	Delta          float64 `json:"delta"`
	Percent        float64 `json:"percent"`
}

// Rollup computes the closure figures for "today" against a month's sheet.
// When today's column is absent every output is zero. Targets are today's
// single-day cells; rolling actuals sum day 1 through today, blanks as 0.
// Percent is defined as 0 on a zero target.
func Rollup(m *models.MonthlySheet, today string) ClosureRollup {
	var r ClosureRollup
	day := m.DayIndex(today)
	if day == -1 {
		return r
	}

	if v := metricValueAt(m, models.MetricSaldatoTGT, day); v != nil {
		r.TargetSaldato = *v
	}
	if v := metricValueAt(m, models.MetricWOTGT, day); v != nil {
		r.TargetWO = *v
	}
	r.RollingSaldato = rollingSum(m, models.MetricSaldatoCY, day)
	r.RollingWO = rollingSum(m, models.MetricWOCY, day)

	r.Delta = r.RollingSaldato - r.TargetSaldato
	if r.TargetSaldato != 0 {
		r.Percent = r.Delta / r.TargetSaldato * 100
	}
	return r
}

func rollingSum(m *models.MonthlySheet, name string, day int) float64 {
	metric := m.FindMetric(name)
	if metric == nil {
		return 0
	}
	var sum float64
	for i := 0; i <= day && i < len(metric.Values); i++ {
		if metric.Values[i] != nil {
			sum += *metric.Values[i]
		}
	}
	return sum
}

// ClosureRequest carries the manual totals of the daily closure form
type ClosureRequest struct {
	Fatturato    float64  `json:"fatturato"`
	PacchettiLac int      `json:"pacchetti_lac"`
	OcchialiSole int      `json:"occhiali_sole"`
	ValoreSole   float64  `json:"valore_sole"`
	Destinatari  []string `json:"destinatari"`
}

// ClosureResult is the prepared report plus the write-back outcome
type ClosureResult struct {
	Body         string        `json:"body"`
	Destinatari  []string      `json:"destinatari"`
	SheetUpdated bool          `json:"sheet_updated"`
	Rollup       ClosureRollup `json:"rollup"`
}

// SendClosure builds the daily closure report and patches today's cells of
// the current month's sheet ("saldato cy", "wo cy", "first act",
// "second act"). A failed write-back does not block the report: the sheet
// update is best-effort, the email body is the deliverable.
func (s *KPIService) SendClosure(ctx context.Context, req *ClosureRequest) (*ClosureResult, error) {
	if len(req.Destinatari) == 0 {
		return nil, errors.New("seleziona almeno un destinatario")
	}

	today := timeutil.Today()
	var totaleWO float64
	var primi, secondi int
	for _, sale := range s.Views.Sales.Snapshot() {
		if sale.Data != today {
			continue
		}
		totaleWO += sale.Importo
		if sale.OrdineLente == models.OrdinePrimo {
			primi++
		} else {
			secondi++
		}
	}

	result := &ClosureResult{Destinatari: req.Destinatari}

	if current, err := s.GetSheet(timeutil.CurrentPeriod()); err == nil {
		// Work on a copy: the snapshot's metric slices are shared
		m := cloneSheet(current)
		if day := m.DayIndex(today); day != -1 {
			writeBack := map[string]float64{
				models.MetricSaldatoCY: req.Fatturato,
				models.MetricWOCY:      totaleWO,
				models.MetricFirstAct:  float64(primi),
				models.MetricSecondAct: float64(secondi),
			}
			for name, value := range writeBack {
				if metric := m.FindMetric(name); metric != nil && day < len(metric.Values) {
					v := value
					metric.Values[day] = &v
				}
			}

			if err := s.persistSheet(ctx, m); err != nil {
				log.Printf("[KPI] closure write-back failed for %s: %v", m.Period, err)
			} else {
				result.SheetUpdated = true
				result.Rollup = Rollup(m, today)
			}
		}
	}

	body := fmt.Sprintf("Report di chiusura per la giornata del %s:\n\n", today)
	body += "RIEPILOGO DATI GIORNALIERI:\n"
	body += fmt.Sprintf("  - Totale Fatturato (da Cassa): %.2f EUR\n", req.Fatturato)
	body += fmt.Sprintf("  - Totale Commissionato (WO): %.2f EUR\n", totaleWO)
	body += fmt.Sprintf("    - Primi: %d\n", primi)
	body += fmt.Sprintf("    - Secondi: %d\n", secondi)
	body += fmt.Sprintf("  - N. Pacchetti LAC: %d\n", req.PacchettiLac)
	body += fmt.Sprintf("  - Occhiali da Sole Venduti: %d\n", req.OcchialiSole)
	body += fmt.Sprintf("  - Valore Occhiali da Sole: %.2f EUR\n\n", req.ValoreSole)
	body += "Cordiali Saluti,\nIl Sistema Gestionale"
	result.Body = body

	return result, nil
}

func cloneSheet(m *models.MonthlySheet) *models.MonthlySheet {
	out := &models.MonthlySheet{
		Period:      m.Period,
		DateHeaders: append([]string(nil), m.DateHeaders...),
		Metrics:     make([]models.Metric, len(m.Metrics)),
	}
	for i, metric := range m.Metrics {
		out.Metrics[i] = models.Metric{
			Name:   metric.Name,
			Values: append([]*float64(nil), metric.Values...),
		}
	}
	return out
}

// persistSheet rewrites the whole record (last writer wins, no merge)
func (s *KPIService) persistSheet(ctx context.Context, m *models.MonthlySheet) error {
	fields, err := store.FieldsOf(m)
	if err != nil {
		return err
	}
	if err := s.Store.Set(ctx, models.CollectionDatiMensili, m.Period, fields, false); err != nil {
		return err
	}
	cache.InvalidateKPICaches(ctx)
	return nil
}
