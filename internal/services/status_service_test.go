package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ottica-backend/internal/models"
)

func TestParseTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"letters separate tokens", "101a102 103x", []string{"101", "102", "103"}},
		{"duplicates preserved", "101-101", []string{"101", "101"}},
		{"short runs ignored", "ab 12 c", nil},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTokens(tt.input))
		})
	}
}

func TestUpdateSaleStatusRejectsUnknownStatus(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewStatusService(st, views)

	err := svc.UpdateSaleStatus(context.Background(), "s1", "SPEDITO")
	assert.Error(t, err)
}

func TestUpdateSaleStatus(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewStatusService(st, views)

	seedDoc(t, st, models.CollectionVendite, "s1", &models.Sale{
		Cliente: "Rossi", RifVaschetta: "101", StatoOrdine: models.SaleStatusInCorso,
	})

	err := svc.UpdateSaleStatus(context.Background(), "s1", models.SaleStatusPronto)
	require.NoError(t, err)
	assert.Equal(t, models.SaleStatusPronto, fieldOf(t, st, models.CollectionVendite, "s1", "stato_ordine"))
}

func TestQuickDeliverBadFormat(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewStatusService(st, views)

	for _, input := range []string{"101", "101d", "10c", "1010c", "c101"} {
		_, err := svc.QuickDeliver(context.Background(), input)
		assert.ErrorIs(t, err, ErrQuickDeliverFormat, input)
	}
}

func TestQuickDeliverSale(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewStatusService(st, views)

	seedDoc(t, st, models.CollectionVendite, "s1", &models.Sale{
		Cliente: "Rossi", RifVaschetta: "101", StatoOrdine: models.SaleStatusPronto,
	})

	result, err := svc.QuickDeliver(context.Background(), "101c")
	require.NoError(t, err)

	assert.Equal(t, "vendita", result.Tipo)
	assert.Equal(t, "101", result.Vaschetta)
	assert.Equal(t, "Rossi", result.Cliente)
	assert.Equal(t, models.SaleStatusConsegnato, fieldOf(t, st, models.CollectionVendite, "s1", "stato_ordine"))
}

func TestQuickDeliverUppercaseSuffix(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewStatusService(st, views)

	seedDoc(t, st, models.CollectionVendite, "s1", &models.Sale{
		Cliente: "Rossi", RifVaschetta: "101", StatoOrdine: models.SaleStatusPronto,
	})

	result, err := svc.QuickDeliver(context.Background(), "101C")
	require.NoError(t, err)
	assert.Equal(t, "vendita", result.Tipo)
}

func TestQuickDeliverFallsBackToRepairs(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewStatusService(st, views)

	// The only sale with this tray code is already delivered
	seedDoc(t, st, models.CollectionVendite, "s1", &models.Sale{
		Cliente: "Rossi", RifVaschetta: "101", StatoOrdine: models.SaleStatusConsegnato,
	})
	seedDoc(t, st, models.CollectionRiparazioni, "r1", &models.Repair{
		Cliente: "Bianchi", RifVaschetta: "101", Stato: models.RepairStatusPronto,
	})

	result, err := svc.QuickDeliver(context.Background(), "101c")
	require.NoError(t, err)

	assert.Equal(t, "riparazione", result.Tipo)
	assert.Equal(t, "Bianchi", result.Cliente)
	assert.Equal(t, models.RepairStatusConsegnato, fieldOf(t, st, models.CollectionRiparazioni, "r1", "stato"))
	// The delivered sale stays untouched
	assert.Equal(t, models.SaleStatusConsegnato, fieldOf(t, st, models.CollectionVendite, "s1", "stato_ordine"))
}

func TestQuickDeliverNotFound(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewStatusService(st, views)

	_, err := svc.QuickDeliver(context.Background(), "999c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "999")
}

func TestBulkReady(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewStatusService(st, views)

	seedDoc(t, st, models.CollectionVendite, "s1", &models.Sale{
		Cliente: "Rossi", RifVaschetta: "101", StatoOrdine: models.SaleStatusInCorso,
	})
	seedDoc(t, st, models.CollectionVendite, "s2", &models.Sale{
		Cliente: "Verdi", RifVaschetta: "102", StatoOrdine: models.SaleStatusConsegnato,
	})

	result, err := svc.BulkReady(context.Background(), "101 102 103")
	require.NoError(t, err)

	assert.Equal(t, 1, result.UpdatedCount)
	assert.Equal(t, []string{"102", "103"}, result.NotFoundTokens)
	assert.Equal(t, models.SaleStatusPronto, fieldOf(t, st, models.CollectionVendite, "s1", "stato_ordine"))
	assert.Equal(t, models.SaleStatusConsegnato, fieldOf(t, st, models.CollectionVendite, "s2", "stato_ordine"))
}

func TestBulkReadyDistinctTokens(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewStatusService(st, views)

	seedDoc(t, st, models.CollectionVendite, "s1", &models.Sale{
		Cliente: "Rossi", RifVaschetta: "101", StatoOrdine: models.SaleStatusInCorso,
	})
	seedDoc(t, st, models.CollectionVendite, "s2", &models.Sale{
		Cliente: "Rossi", RifVaschetta: "101", StatoOrdine: models.SaleStatusInCorso,
	})

	// A repeated token counts once and moves only the first open match
	result, err := svc.BulkReady(context.Background(), "101 101 101")
	require.NoError(t, err)

	assert.Equal(t, 1, result.UpdatedCount)
	assert.Empty(t, result.NotFoundTokens)
	assert.Equal(t, models.SaleStatusPronto, fieldOf(t, st, models.CollectionVendite, "s1", "stato_ordine"))
	assert.Equal(t, models.SaleStatusInCorso, fieldOf(t, st, models.CollectionVendite, "s2", "stato_ordine"))
}

func TestBulkReadyNoTokens(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewStatusService(st, views)

	_, err := svc.BulkReady(context.Background(), "nessun codice qui")
	assert.Error(t, err)
}
