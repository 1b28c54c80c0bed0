package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ottica-backend/internal/models"
)

func TestCreateRepair(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewRepairService(st, views)

	repair, err := svc.CreateRepair(context.Background(), &models.CreateRepairRequest{
		Cliente: "Rossi", Descrizione: "Sostituzione nasello",
		Stato: models.RepairStatusAttesa, Importo: 15,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, repair.ID)
	assert.Equal(t, 15.0, repair.Importo)
	assert.Equal(t, []models.RepairNote{}, repair.Note)
}

func TestCreateRepairWarrantyZeroesAmount(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewRepairService(st, views)

	repair, err := svc.CreateRepair(context.Background(), &models.CreateRepairRequest{
		Cliente: "Rossi", Descrizione: "Asta rotta",
		Stato: models.RepairStatusAttesa, Importo: 40, InGaranzia: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, repair.Importo)
}

func TestCreateRepairValidation(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewRepairService(st, views)

	tests := []struct {
		name string
		req  models.CreateRepairRequest
	}{
		{"missing cliente", models.CreateRepairRequest{Descrizione: "x", Stato: models.RepairStatusAttesa}},
		{"missing descrizione", models.CreateRepairRequest{Cliente: "Rossi", Stato: models.RepairStatusAttesa}},
		{"unknown stato", models.CreateRepairRequest{Cliente: "Rossi", Descrizione: "x", Stato: "SPEDITO"}},
		{"bad vaschetta", models.CreateRepairRequest{Cliente: "Rossi", Descrizione: "x", Stato: models.RepairStatusAttesa, RifVaschetta: "12"}},
		{"negative importo", models.CreateRepairRequest{Cliente: "Rossi", Descrizione: "x", Stato: models.RepairStatusAttesa, Importo: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateRepair(context.Background(), &tt.req)
			assert.Error(t, err)
		})
	}
}

func TestAppendNote(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewRepairService(st, views)

	repair, err := svc.CreateRepair(context.Background(), &models.CreateRepairRequest{
		Cliente: "Rossi", Descrizione: "Saldatura", Stato: models.RepairStatusLavorazione,
	})
	require.NoError(t, err)

	require.NoError(t, svc.AppendNote(context.Background(), repair.ID, "Ricambio ordinato"))
	require.NoError(t, svc.AppendNote(context.Background(), repair.ID, "Ricambio arrivato"))

	repairs := svc.Views.Repairs.Snapshot()
	require.Len(t, repairs, 1)
	require.Len(t, repairs[0].Note, 2)
	assert.Equal(t, "Ricambio ordinato", repairs[0].Note[0].Testo)
	assert.NotEmpty(t, repairs[0].Note[0].Timestamp)
}

func TestAppendNoteValidation(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewRepairService(st, views)

	assert.Error(t, svc.AppendNote(context.Background(), "r1", ""))
	assert.Error(t, svc.AppendNote(context.Background(), "manca", "testo"))
}

func TestMarkDelivered(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewRepairService(st, views)

	repair, err := svc.CreateRepair(context.Background(), &models.CreateRepairRequest{
		Cliente: "Rossi", Descrizione: "Lucidatura", Stato: models.RepairStatusPronto,
	})
	require.NoError(t, err)

	require.NoError(t, svc.MarkDelivered(context.Background(), repair.ID))
	assert.Equal(t, models.RepairStatusConsegnato, fieldOf(t, st, models.CollectionRiparazioni, repair.ID, "stato"))
}

func TestDeleteRepair(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewRepairService(st, views)

	repair, err := svc.CreateRepair(context.Background(), &models.CreateRepairRequest{
		Cliente: "Rossi", Descrizione: "Viti", Stato: models.RepairStatusAttesa,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRepair(context.Background(), repair.ID))
	assert.Empty(t, svc.Views.Repairs.Snapshot())
}
