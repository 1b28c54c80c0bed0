package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ottica-backend/internal/config"
	"ottica-backend/internal/models"
	"ottica-backend/internal/store"
)

func TestBackupExport(t *testing.T) {
	st := store.NewMemory("test-operator")
	svc := NewBackupService(st, &config.Config{})

	seedDoc(t, st, models.CollectionVendite, "s1", &models.Sale{
		Cliente: "Rossi", NumeroOrdine: "10001", StatoOrdine: models.SaleStatusInCorso,
	})
	seedDoc(t, st, models.CollectionVenditori, "v1", &models.Seller{Nome: "Anna"})

	data, err := svc.Export(context.Background())
	require.NoError(t, err)

	var backup map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &backup))

	// Every collection is present, even the empty ones
	for _, coll := range models.AllCollections {
		assert.Contains(t, backup, coll)
	}

	require.Len(t, backup[models.CollectionVendite], 1)
	assert.Equal(t, "s1", backup[models.CollectionVendite][0]["id"])
	assert.Equal(t, "Rossi", backup[models.CollectionVendite][0]["cliente"])
}

func TestBackupImportWipesAndRestores(t *testing.T) {
	st := store.NewMemory("test-operator")
	svc := NewBackupService(st, &config.Config{})

	seedDoc(t, st, models.CollectionVendite, "vecchio", &models.Sale{
		Cliente: "DaRimuovere", NumeroOrdine: "99999",
	})

	backup := map[string][]map[string]interface{}{
		models.CollectionVendite: {
			{"id": "s1", "cliente": "Rossi", "numero_ordine": "10001"},
		},
		models.CollectionVenditori: {
			{"id": "v1", "nome": "Anna"},
		},
	}
	data, err := json.Marshal(backup)
	require.NoError(t, err)

	require.NoError(t, svc.Import(context.Background(), data))

	snap, err := st.List(context.Background(), models.CollectionVendite)
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, "s1", snap[0].ID)
	assert.Equal(t, "Rossi", snap[0].Fields["cliente"])

	sellers, err := st.List(context.Background(), models.CollectionVenditori)
	require.NoError(t, err)
	require.Len(t, sellers, 1)
	assert.Equal(t, "v1", sellers[0].ID)
}

func TestBackupImportGeneratesMissingIDs(t *testing.T) {
	st := store.NewMemory("test-operator")
	svc := NewBackupService(st, &config.Config{})

	data, err := json.Marshal(map[string][]map[string]interface{}{
		models.CollectionVenditori: {{"nome": "Anna"}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Import(context.Background(), data))

	sellers, err := st.List(context.Background(), models.CollectionVenditori)
	require.NoError(t, err)
	require.Len(t, sellers, 1)
	assert.NotEmpty(t, sellers[0].ID)
}

func TestBackupImportRejectsGarbage(t *testing.T) {
	st := store.NewMemory("test-operator")
	svc := NewBackupService(st, &config.Config{})

	err := svc.Import(context.Background(), []byte("non è json"))
	assert.Error(t, err)
}
