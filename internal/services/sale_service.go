package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"ottica-backend/internal/cache"
	"ottica-backend/internal/codec"
	"ottica-backend/internal/models"
	"ottica-backend/internal/repository"
	"ottica-backend/internal/store"
	"ottica-backend/internal/timeutil"
)

var (
	vaschettaPattern = regexp.MustCompile(`^\d{3}$`)
	ordinePattern    = regexp.MustCompile(`^\d{5}$`)
)

// SaleService handles the sale order lifecycle: intake, delete by order
// number and the archive snapshot.
type SaleService struct {
	Store store.Store
	Views *repository.Views
}

func NewSaleService(st store.Store, views *repository.Views) *SaleService {
	return &SaleService{Store: st, Views: views}
}

// CreateSale validates the intake form and persists a new order, stamped
// with today's date. The duplicate order-number check is optimistic: the
// store enforces nothing, acceptable for single-operator usage.
func (s *SaleService) CreateSale(ctx context.Context, req *models.CreateSaleRequest) (*models.Sale, error) {
	if req.Cliente == "" || req.StatoOrdine == "" {
		return nil, errors.New("compilare tutti i campi obbligatori")
	}
	if !vaschettaPattern.MatchString(req.RifVaschetta) {
		return nil, errors.New("rif. vaschetta non valido: attese 3 cifre")
	}
	if !ordinePattern.MatchString(req.NumeroOrdine) {
		return nil, errors.New("numero ordine non valido: attese 5 cifre")
	}
	if req.Importo < 0 {
		return nil, errors.New("importo non valido")
	}
	if !models.IsValidSaleStatus(req.StatoOrdine) {
		return nil, fmt.Errorf("stato ordine non valido: %q", req.StatoOrdine)
	}

	for _, existing := range s.Views.Sales.Snapshot() {
		if existing.NumeroOrdine == req.NumeroOrdine {
			return nil, fmt.Errorf("numero ordine %s già presente", req.NumeroOrdine)
		}
	}

	sale := &models.Sale{
		Data:         timeutil.Today(),
		Cliente:      req.Cliente,
		Venditore:    req.Venditore,
		TipoLente:    req.TipoLente,
		OrdineLente:  req.OrdineLente,
		RifVaschetta: req.RifVaschetta,
		NumeroOrdine: req.NumeroOrdine,
		Importo:      req.Importo,
		StatoOrdine:  req.StatoOrdine,
		Trattamenti:  req.Trattamenti,
	}
	if sale.Trattamenti == nil {
		sale.Trattamenti = []string{}
	}

	fields, err := store.FieldsOf(sale)
	if err != nil {
		return nil, err
	}
	id, err := s.Store.Create(ctx, models.CollectionVendite, fields)
	if err != nil {
		return nil, err
	}
	sale.ID = id

	cache.InvalidateSaleCaches(ctx)
	return sale, nil
}

// DeleteByNumeroOrdine removes the order with the given 5-digit number
func (s *SaleService) DeleteByNumeroOrdine(ctx context.Context, numero string) (*models.Sale, error) {
	if !ordinePattern.MatchString(numero) {
		return nil, errors.New("numero ordine non valido: attese 5 cifre")
	}

	for _, sale := range s.Views.Sales.Snapshot() {
		if sale.NumeroOrdine == numero {
			if err := s.Store.Delete(ctx, models.CollectionVendite, sale.ID); err != nil {
				return nil, err
			}
			cache.InvalidateSaleCaches(ctx)
			found := sale
			return &found, nil
		}
	}
	return nil, fmt.Errorf("nessun ordine trovato con numero %s", numero)
}

// ArchiveResult carries the snapshot PDF and how many orders it removed
type ArchiveResult struct {
	PDF           []byte
	ArchivedCount int
}

// Archive snapshots every delivered order to a PDF and deletes them in one
// atomic batch. The PDF is the only surviving copy: it is built before the
// delete commits.
func (s *SaleService) Archive(ctx context.Context) (*ArchiveResult, error) {
	var delivered []models.Sale
	for _, sale := range s.Views.Sales.Snapshot() {
		if sale.StatoOrdine == models.SaleStatusConsegnato {
			delivered = append(delivered, sale)
		}
	}
	if len(delivered) == 0 {
		return nil, errors.New("nessun ordine consegnato da archiviare")
	}

	sort.SliceStable(delivered, func(i, j int) bool {
		return saleDateAfter(delivered[j], delivered[i])
	})

	rows := make([][]string, len(delivered))
	for i, sale := range delivered {
		rows[i] = saleRow(sale)
	}
	pdf, err := codec.EncodeTablePDF("Archivio Ordini Consegnati", saleTableHeaders, rows)
	if err != nil {
		return nil, err
	}

	batch := s.Store.Batch()
	for _, sale := range delivered {
		batch.Delete(models.CollectionVendite, sale.ID)
	}
	if err := batch.Commit(ctx); err != nil {
		return nil, err
	}

	cache.InvalidateSaleCaches(ctx)
	return &ArchiveResult{PDF: pdf, ArchivedCount: len(delivered)}, nil
}

// saleTableHeaders is the column layout shared by the archive snapshot and
// the filtered export
var saleTableHeaders = []string{
	"Data", "Cliente", "Venditore", "N. Ordine", "Rif.Vaschetta",
	"Tipo Lente", "Ordine Lente", "Importo",
}

func saleRow(sale models.Sale) []string {
	return []string{
		sale.Data,
		sale.Cliente,
		sale.Venditore,
		sale.NumeroOrdine,
		sale.RifVaschetta,
		sale.TipoLente,
		sale.OrdineLente,
		fmt.Sprintf("%.2f", sale.Importo),
	}
}

// saleDateAfter reports whether a's date is strictly after b's. Unparsable
// dates sort last.
func saleDateAfter(a, b models.Sale) bool {
	ta, errA := timeutil.ParseDisplayDate(a.Data)
	tb, errB := timeutil.ParseDisplayDate(b.Data)
	if errA != nil {
		return false
	}
	if errB != nil {
		return true
	}
	return ta.After(tb)
}
