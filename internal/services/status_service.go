package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"ottica-backend/internal/cache"
	"ottica-backend/internal/metrics"
	"ottica-backend/internal/models"
	"ottica-backend/internal/repository"
	"ottica-backend/internal/store"
)

var (
	// tokenPattern extracts 3-digit tray codes from scanner input
	tokenPattern = regexp.MustCompile(`\d{3}`)

	// quickDeliverPattern matches "<3 digits>c", the delivery shortcut
	quickDeliverPattern = regexp.MustCompile(`^(\d{3})[cC]$`)
)

// ParseTokens extracts the ordered list of 3-digit vaschetta tokens from
// free-form scanner input. Letters and symbols only separate tokens;
// duplicates are preserved.
func ParseTokens(input string) []string {
	return tokenPattern.FindAllString(input, -1)
}

// StatusService drives the order status workflows: single updates, the
// quick-deliver shortcut and the bulk lab update.
type StatusService struct {
	Store store.Store
	Views *repository.Views
}

func NewStatusService(st store.Store, views *repository.Views) *StatusService {
	return &StatusService{Store: st, Views: views}
}

// UpdateSaleStatus moves one order to a new stato_ordine
func (s *StatusService) UpdateSaleStatus(ctx context.Context, id, newStatus string) error {
	if !models.IsValidSaleStatus(newStatus) {
		return fmt.Errorf("stato ordine non valido: %q", newStatus)
	}

	if err := s.Store.Update(ctx, models.CollectionVendite, id, store.Fields{"stato_ordine": newStatus}); err != nil {
		return err
	}

	if newStatus == models.SaleStatusConsegnato {
		metrics.OrdersDelivered.Inc()
	}
	cache.InvalidateSaleCaches(ctx)
	return nil
}

// QuickDeliverResult reports which record the shortcut delivered
type QuickDeliverResult struct {
	Vaschetta string `json:"vaschetta"`
	Tipo      string `json:"tipo"` // vendita | riparazione
	Cliente   string `json:"cliente"`
}

// ErrQuickDeliverFormat is returned when the input is not "<3 digits>c"
var ErrQuickDeliverFormat = errors.New("formato non valido: attese 3 cifre seguite da 'c'")

// QuickDeliver marks the first open order with the scanned tray code as
// delivered. Sales are searched before repairs; no match in either
// collection is a not-found failure without mutation.
func (s *StatusService) QuickDeliver(ctx context.Context, input string) (*QuickDeliverResult, error) {
	m := quickDeliverPattern.FindStringSubmatch(input)
	if m == nil {
		return nil, ErrQuickDeliverFormat
	}
	vaschetta := m[1]

	for _, sale := range s.Views.Sales.Snapshot() {
		if sale.RifVaschetta == vaschetta && sale.Open() {
			err := s.Store.Update(ctx, models.CollectionVendite, sale.ID,
				store.Fields{"stato_ordine": models.SaleStatusConsegnato})
			if err != nil {
				return nil, err
			}
			metrics.OrdersDelivered.Inc()
			cache.InvalidateSaleCaches(ctx)
			return &QuickDeliverResult{Vaschetta: vaschetta, Tipo: "vendita", Cliente: sale.Cliente}, nil
		}
	}

	for _, rep := range s.Views.Repairs.Snapshot() {
		if rep.RifVaschetta == vaschetta && rep.Open() {
			err := s.Store.Update(ctx, models.CollectionRiparazioni, rep.ID,
				store.Fields{"stato": models.RepairStatusConsegnato})
			if err != nil {
				return nil, err
			}
			metrics.OrdersDelivered.Inc()
			cache.InvalidateRepairCaches(ctx)
			return &QuickDeliverResult{Vaschetta: vaschetta, Tipo: "riparazione", Cliente: rep.Cliente}, nil
		}
	}

	return nil, fmt.Errorf("nessun ordine attivo trovato per la vaschetta %s", vaschetta)
}

// BulkReadyResult summarizes a bulk update: partial success is the common
// case and is reported per-token, not as an aggregate failure.
type BulkReadyResult struct {
	UpdatedCount   int      `json:"updated_count"`
	NotFoundTokens []string `json:"not_found_tokens"`
}

// BulkReady parses tray codes out of the scanner input and stages a
// status→PRONTO update for the first open sale matching each distinct
// token. All staged updates commit as one atomic batch.
func (s *StatusService) BulkReady(ctx context.Context, input string) (*BulkReadyResult, error) {
	tokens := ParseTokens(input)
	if len(tokens) == 0 {
		return nil, errors.New("nessun numero di vaschetta (3 cifre) valido trovato")
	}

	sales := s.Views.Sales.Snapshot()
	batch := s.Store.Batch()

	seen := make(map[string]bool)
	updated := 0
	var notFound []string

	for _, token := range tokens {
		if seen[token] {
			continue
		}
		seen[token] = true

		found := false
		for _, sale := range sales {
			if sale.RifVaschetta == token && sale.Open() {
				batch.Update(models.CollectionVendite, sale.ID,
					store.Fields{"stato_ordine": models.SaleStatusPronto})
				updated++
				found = true
				break
			}
		}
		if !found {
			notFound = append(notFound, token)
		}
	}

	if updated > 0 {
		if err := batch.Commit(ctx); err != nil {
			return nil, err
		}
		metrics.OrdersMarkedReady.Add(float64(updated))
		cache.InvalidateSaleCaches(ctx)
	}

	return &BulkReadyResult{UpdatedCount: updated, NotFoundTokens: notFound}, nil
}
