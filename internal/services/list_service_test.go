package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSeller(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewListService(st, views)

	seller, err := svc.AddSeller(context.Background(), "  Anna  ")
	require.NoError(t, err)

	assert.NotEmpty(t, seller.ID)
	assert.Equal(t, "Anna", seller.Nome)
}

func TestAddSellerDuplicateCaseInsensitive(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewListService(st, views)

	_, err := svc.AddSeller(context.Background(), "Anna")
	require.NoError(t, err)

	_, err = svc.AddSeller(context.Background(), "ANNA")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "già presente")
}

func TestAddSellerEmptyName(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewListService(st, views)

	_, err := svc.AddSeller(context.Background(), "   ")
	assert.Error(t, err)
}

func TestDeleteSeller(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewListService(st, views)

	seller, err := svc.AddSeller(context.Background(), "Anna")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSeller(context.Background(), seller.ID))
	assert.Empty(t, svc.Views.Sellers.Snapshot())
}

func TestAddEmail(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewListService(st, views)

	contact, err := svc.AddEmail(context.Background(), "Direzione", "direzione@negozio.it")
	require.NoError(t, err)

	assert.NotEmpty(t, contact.ID)
	assert.Equal(t, "Direzione", contact.NomeContatto)
}

func TestAddEmailValidation(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewListService(st, views)

	_, err := svc.AddEmail(context.Background(), "", "direzione@negozio.it")
	assert.Error(t, err)

	for _, bad := range []string{"direzione", "direzione@negozio", "@negozio.it", "a b@negozio.it"} {
		_, err = svc.AddEmail(context.Background(), "Direzione", bad)
		assert.Error(t, err, bad)
	}
}

func TestDeleteEmail(t *testing.T) {
	st, views := newTestViews(t)
	svc := NewListService(st, views)

	contact, err := svc.AddEmail(context.Background(), "Direzione", "direzione@negozio.it")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEmail(context.Background(), contact.ID))
	assert.Empty(t, svc.Views.Emails.Snapshot())
}
