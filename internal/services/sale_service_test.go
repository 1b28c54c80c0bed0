package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ottica-backend/internal/models"
	"ottica-backend/internal/store"
	"ottica-backend/internal/timeutil"
)

func validSaleRequest() *models.CreateSaleRequest {
	return &models.CreateSaleRequest{
		Cliente:      "Rossi",
		Venditore:    "Anna",
		TipoLente:    models.LensMonofocale,
		OrdineLente:  models.OrdinePrimo,
		RifVaschetta: "101",
		NumeroOrdine: "10001",
		Importo:      250,
		StatoOrdine:  models.SaleStatusInCorso,
	}
}

func TestCreateSale(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewSaleService(st, views)

	sale, err := svc.CreateSale(context.Background(), validSaleRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, sale.ID)
	assert.Equal(t, timeutil.Today(), sale.Data)
	assert.Equal(t, []string{}, sale.Trattamenti)

	doc, err := st.Get(context.Background(), models.CollectionVendite, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rossi", doc.Fields["cliente"])
}

func TestCreateSaleValidation(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewSaleService(st, views)

	tests := []struct {
		name   string
		mutate func(*models.CreateSaleRequest)
	}{
		{"missing cliente", func(r *models.CreateSaleRequest) { r.Cliente = "" }},
		{"missing stato", func(r *models.CreateSaleRequest) { r.StatoOrdine = "" }},
		{"short vaschetta", func(r *models.CreateSaleRequest) { r.RifVaschetta = "12" }},
		{"long numero ordine", func(r *models.CreateSaleRequest) { r.NumeroOrdine = "123456" }},
		{"negative importo", func(r *models.CreateSaleRequest) { r.Importo = -1 }},
		{"unknown stato", func(r *models.CreateSaleRequest) { r.StatoOrdine = "SPEDITO" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSaleRequest()
			tt.mutate(req)
			_, err := svc.CreateSale(context.Background(), req)
			assert.Error(t, err)
		})
	}
}

func TestCreateSaleDuplicateNumeroOrdine(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewSaleService(st, views)

	_, err := svc.CreateSale(context.Background(), validSaleRequest())
	require.NoError(t, err)

	req := validSaleRequest()
	req.Cliente = "Bianchi"
	_, err = svc.CreateSale(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10001")
}

func TestDeleteByNumeroOrdine(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewSaleService(st, views)

	created, err := svc.CreateSale(context.Background(), validSaleRequest())
	require.NoError(t, err)

	deleted, err := svc.DeleteByNumeroOrdine(context.Background(), "10001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = st.Get(context.Background(), models.CollectionVendite, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteByNumeroOrdineNotFound(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewSaleService(st, views)

	_, err := svc.DeleteByNumeroOrdine(context.Background(), "99999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "99999")

	_, err = svc.DeleteByNumeroOrdine(context.Background(), "1")
	assert.Error(t, err)
}

func TestArchiveNoDeliveredOrders(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewSaleService(st, views)

	seedDoc(t, st, models.CollectionVendite, "s1", &models.Sale{
		Cliente: "Rossi", StatoOrdine: models.SaleStatusInCorso,
	})

	_, err := svc.Archive(context.Background())
	assert.Error(t, err)
}

func TestArchiveDeliveredOrders(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewSaleService(st, views)

	seedDoc(t, st, models.CollectionVendite, "s1", &models.Sale{
		Data: "01/03/2025", Cliente: "Rossi", NumeroOrdine: "10001",
		StatoOrdine: models.SaleStatusConsegnato,
	})
	seedDoc(t, st, models.CollectionVendite, "s2", &models.Sale{
		Data: "02/03/2025", Cliente: "Bianchi", NumeroOrdine: "10002",
		StatoOrdine: models.SaleStatusConsegnato,
	})
	seedDoc(t, st, models.CollectionVendite, "s3", &models.Sale{
		Data: "03/03/2025", Cliente: "Verdi", NumeroOrdine: "10003",
		StatoOrdine: models.SaleStatusPronto,
	})

	result, err := svc.Archive(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.ArchivedCount)
	assert.NotEmpty(t, result.PDF)

	// Only the open order survives
	snap, err := st.List(context.Background(), models.CollectionVendite)
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, "s3", snap[0].ID)
}
