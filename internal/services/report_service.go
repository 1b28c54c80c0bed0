package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"ottica-backend/internal/cache"
	"ottica-backend/internal/codec"
	"ottica-backend/internal/models"
	"ottica-backend/internal/repository"
	"ottica-backend/internal/timeutil"
)

// Filter is the report query: every set field must match (AND semantics).
// Dates are ISO "YYYY-MM-DD" and the range is inclusive on both ends.
type Filter struct {
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Cliente     string   `json:"cliente"`       // case-insensitive surname substring
	Vaschetta   string   `json:"vaschetta"`     // tray code substring
	Venditore   string   `json:"venditore"`     // exact
	TipoLente   string   `json:"tipo_lente"`    // exact
	OrdineLente string   `json:"ordine_lente"`  // exact
	Trattamento string   `json:"trattamento"`   // record must carry the tag
	Stati       []string `json:"stati"`         // empty = all statuses
	SoloSOS     bool     `json:"utilizzo_sos"`  // only records tagged "Utilizzo SOS"
	EscludiSOS  bool     `json:"escludi_sos"`   // drop records tagged "Utilizzo SOS"
}

// LabSearch is the order-status lookup: a start-date lower bound plus at
// least one of surname or tray code.
type LabSearch struct {
	StartDate         string `json:"start_date"` // ISO YYYY-MM-DD
	Cliente           string `json:"cliente"`
	Vaschetta         string `json:"vaschetta"`
	EscludiConsegnati bool   `json:"escludi_consegnati"`
}

// ReportService runs the pure read-side queries over the sale snapshot
type ReportService struct {
	Views *repository.Views
}

func NewReportService(views *repository.Views) *ReportService {
	return &ReportService{Views: views}
}

const isoDateLayout = "2006-01-02"

// FilterSales applies the filter to the current snapshot and returns the
// matches sorted date-descending.
func (s *ReportService) FilterSales(f *Filter) ([]models.Sale, error) {
	start, err := time.ParseInLocation(isoDateLayout, f.StartDate, timeutil.Rome)
	if err != nil {
		return nil, errors.New("data inizio non valida")
	}
	end, err := time.ParseInLocation(isoDateLayout, f.EndDate, timeutil.Rome)
	if err != nil {
		return nil, errors.New("data fine non valida")
	}
	end = timeutil.EndOfDay(end)

	var out []models.Sale
	for _, sale := range s.Views.Sales.Snapshot() {
		if saleMatches(sale, f, start, end) {
			out = append(out, sale)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return saleDateAfter(out[i], out[j])
	})
	return out, nil
}

func saleMatches(sale models.Sale, f *Filter, start, end time.Time) bool {
	if sale.Data == "" {
		return false
	}
	d, err := timeutil.ParseDisplayDate(sale.Data)
	if err != nil {
		return false
	}
	if d.Before(start) || d.After(end) {
		return false
	}
	if f.Cliente != "" && !strings.Contains(strings.ToLower(sale.Cliente), strings.ToLower(f.Cliente)) {
		return false
	}
	if f.Vaschetta != "" && !strings.Contains(sale.RifVaschetta, f.Vaschetta) {
		return false
	}
	if f.Venditore != "" && sale.Venditore != f.Venditore {
		return false
	}
	if f.TipoLente != "" && sale.TipoLente != f.TipoLente {
		return false
	}
	if f.OrdineLente != "" && sale.OrdineLente != f.OrdineLente {
		return false
	}
	if f.Trattamento != "" && !sale.HasTreatment(f.Trattamento) {
		return false
	}
	if len(f.Stati) > 0 && !slices.Contains(f.Stati, sale.StatoOrdine) {
		return false
	}
	// The two SOS toggles are independent; combined they yield nothing
	if f.SoloSOS && !sale.HasTreatment(models.TreatmentUtilizzoSOS) {
		return false
	}
	if f.EscludiSOS && sale.HasTreatment(models.TreatmentUtilizzoSOS) {
		return false
	}
	return true
}

// SearchLab runs the order-status lookup used at the lab bench
func (s *ReportService) SearchLab(q *LabSearch) ([]models.Sale, error) {
	if q.Cliente == "" && q.Vaschetta == "" {
		return nil, errors.New("compilare almeno uno dei campi cognome o rif. vaschetta")
	}
	start, err := time.ParseInLocation(isoDateLayout, q.StartDate, timeutil.Rome)
	if err != nil {
		return nil, errors.New("data inizio non valida")
	}

	var out []models.Sale
	for _, sale := range s.Views.Sales.Snapshot() {
		if sale.Data == "" {
			continue
		}
		d, err := timeutil.ParseDisplayDate(sale.Data)
		if err != nil {
			continue
		}
		if d.Before(start) {
			continue
		}
		if q.Cliente != "" && !strings.Contains(strings.ToLower(sale.Cliente), strings.ToLower(q.Cliente)) {
			continue
		}
		if q.Vaschetta != "" && !strings.Contains(sale.RifVaschetta, q.Vaschetta) {
			continue
		}
		if q.EscludiConsegnati && sale.StatoOrdine == models.SaleStatusConsegnato {
			continue
		}
		out = append(out, sale)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return saleDateAfter(out[i], out[j])
	})
	return out, nil
}

// WindowStats aggregates one time window of sales
type WindowStats struct {
	Totale        float64            `json:"totale"`
	Venditori     map[string]float64 `json:"venditori"`
	PrimiOrdini   int                `json:"primi_ordini"`
	SecondiOrdini int                `json:"secondi_ordini"`
	TipiLente     map[string]int     `json:"tipi_lente"`
}

// SalesStats carries the today/current-month dashboard aggregates
type SalesStats struct {
	Oggi     WindowStats `json:"oggi"`
	Mese     WindowStats `json:"mese"`
	NomeMese string      `json:"nome_mese"`
}

// Stats computes the dashboard aggregates by linear reduction over the
// snapshot. Results are cached briefly; any sale write invalidates them.
func (s *ReportService) Stats(ctx context.Context) (*SalesStats, error) {
	if data, ok := cache.GetCached(ctx, cache.StatsKey); ok {
		var cached SalesStats
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	now := timeutil.Now()
	var oggi, mese []models.Sale
	for _, sale := range s.Views.Sales.Snapshot() {
		if sale.Data == "" {
			continue
		}
		d, err := timeutil.ParseDisplayDate(sale.Data)
		if err != nil {
			continue
		}
		if d.Year() == now.Year() && d.Month() == now.Month() {
			mese = append(mese, sale)
			if d.Day() == now.Day() {
				oggi = append(oggi, sale)
			}
		}
	}

	stats := &SalesStats{
		Oggi:     reduceWindow(oggi),
		Mese:     reduceWindow(mese),
		NomeMese: italianMonths[now.Month()-1],
	}

	if data, err := json.Marshal(stats); err == nil {
		cache.SetCached(ctx, cache.StatsKey, data, 5*time.Minute)
	}
	return stats, nil
}

var italianMonths = [...]string{
	"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
	"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre",
}

func reduceWindow(sales []models.Sale) WindowStats {
	w := WindowStats{
		Venditori: make(map[string]float64),
		TipiLente: map[string]int{
			models.LensMonofocale:  0,
			models.LensMultifocale: 0,
			models.LensOffice:      0,
		},
	}
	for _, sale := range sales {
		w.Totale += sale.Importo
		w.Venditori[sale.Venditore] += sale.Importo
		if sale.OrdineLente == models.OrdinePrimo {
			w.PrimiOrdini++
		} else {
			w.SecondiOrdini++
		}
		w.TipiLente[sale.TipoLente]++
	}
	return w
}

// CassettoBucket is one status bucket of the fiscal-drawer snapshot
type CassettoBucket struct {
	Totale float64 `json:"totale"`
	Count  int     `json:"count"`
}

// CassettoData totals the open orders dated on or before the cut-off
type CassettoData struct {
	InCorso CassettoBucket `json:"in_corso"`
	Pronti  CassettoBucket `json:"pronti"`
}

// Cassetto computes the fiscal-drawer totals up to the given ISO date
func (s *ReportService) Cassetto(cutoff string) (*CassettoData, error) {
	limit, err := time.ParseInLocation(isoDateLayout, cutoff, timeutil.Rome)
	if err != nil {
		return nil, errors.New("data non valida")
	}
	limit = timeutil.EndOfDay(limit)

	data := &CassettoData{}
	for _, sale := range s.Views.Sales.Snapshot() {
		d, err := timeutil.ParseDisplayDate(sale.Data)
		if err != nil || d.After(limit) {
			continue
		}
		switch sale.StatoOrdine {
		case models.SaleStatusInCorso:
			data.InCorso.Totale += sale.Importo
			data.InCorso.Count++
		case models.SaleStatusPronto:
			data.Pronti.Totale += sale.Importo
			data.Pronti.Count++
		}
	}
	return data, nil
}

// reportTableHeaders is the column layout of the filtered report exports
var reportTableHeaders = []string{
	"Data", "Cliente", "Venditore", "Tipo Lente", "Ordine Lente",
	"Rif.Vaschetta", "N. Ordine", "Stato", "Importo (EUR)", "Trattamenti",
}

func reportRows(sales []models.Sale) [][]string {
	rows := make([][]string, len(sales))
	for i, sale := range sales {
		rows[i] = []string{
			sale.Data,
			sale.Cliente,
			sale.Venditore,
			sale.TipoLente,
			sale.OrdineLente,
			sale.RifVaschetta,
			sale.NumeroOrdine,
			sale.StatoOrdine,
			fmt.Sprintf("%.2f", sale.Importo),
			strings.Join(sale.Trattamenti, ", "),
		}
	}
	return rows
}

// ExportPDF renders the filtered sales as a landscape PDF
func (s *ReportService) ExportPDF(f *Filter) ([]byte, error) {
	sales, err := s.FilterSales(f)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return nil, errors.New("nessuna vendita trovata per i filtri selezionati")
	}
	return codec.EncodeTablePDF("Report Vendite Filtrato", reportTableHeaders, reportRows(sales))
}

// ExportXLSX renders the filtered sales as a worksheet
func (s *ReportService) ExportXLSX(f *Filter) ([]byte, error) {
	sales, err := s.FilterSales(f)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return nil, errors.New("nessuna vendita trovata per i filtri selezionati")
	}
	return codec.EncodeTableXLSX(reportTableHeaders, reportRows(sales))
}
