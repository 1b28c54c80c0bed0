package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ottica-backend/internal/models"
	"ottica-backend/internal/store"
)

func TestCollectionTracksStore(t *testing.T) {
	st := store.NewMemory("test-operator")
	ctx := context.Background()

	coll, err := NewCollection[models.Seller](st, models.CollectionVenditori)
	require.NoError(t, err)
	defer coll.Close()

	assert.Empty(t, coll.Snapshot())

	_, err = st.Create(ctx, models.CollectionVenditori, store.Fields{"nome": "Anna"})
	require.NoError(t, err)

	snap := coll.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "Anna", snap[0].Nome)
	assert.NotEmpty(t, snap[0].ID)
}

func TestCollectionSkipsMalformedDocuments(t *testing.T) {
	st := store.NewMemory("test-operator")
	ctx := context.Background()

	// importo should be a number; a string makes the document undecodable
	require.NoError(t, st.Set(ctx, models.CollectionVendite, "bad", store.Fields{"importo": "tanto"}, false))
	require.NoError(t, st.Set(ctx, models.CollectionVendite, "ok", store.Fields{"cliente": "Rossi"}, false))

	coll, err := NewCollection[models.Sale](st, models.CollectionVendite)
	require.NoError(t, err)
	defer coll.Close()

	snap := coll.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "Rossi", snap[0].Cliente)
}

func TestCollectionOnChange(t *testing.T) {
	st := store.NewMemory("test-operator")
	ctx := context.Background()

	coll, err := NewCollection[models.Seller](st, models.CollectionVenditori)
	require.NoError(t, err)
	defer coll.Close()

	var calls int
	var last []models.Seller
	coll.OnChange(func(items []models.Seller) {
		calls++
		last = items
	})

	_, err = st.Create(ctx, models.CollectionVenditori, store.Fields{"nome": "Anna"})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	require.Len(t, last, 1)
	assert.Equal(t, "Anna", last[0].Nome)
}

func TestCollectionCloseStopsDelivery(t *testing.T) {
	st := store.NewMemory("test-operator")
	ctx := context.Background()

	coll, err := NewCollection[models.Seller](st, models.CollectionVenditori)
	require.NoError(t, err)

	var calls int
	coll.OnChange(func([]models.Seller) { calls++ })
	coll.Close()

	_, err = st.Create(ctx, models.CollectionVenditori, store.Fields{"nome": "Anna"})
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestNewViewsOpensEveryCollection(t *testing.T) {
	st := store.NewMemory("test-operator")

	views, err := NewViews(st)
	require.NoError(t, err)
	defer views.Close()

	assert.NotNil(t, views.Sales)
	assert.NotNil(t, views.Repairs)
	assert.NotNil(t, views.Sellers)
	assert.NotNil(t, views.Emails)
	assert.NotNil(t, views.Monthly)
	assert.NotNil(t, views.Lac)
}
