package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"ottica-backend/internal/repository"
	"ottica-backend/internal/store"
)

func newTestViews(t *testing.T) (*store.Memory, *repository.Views) {
	t.Helper()
	st := store.NewMemory("test-operator")
	views, err := repository.NewViews(st)
	require.NoError(t, err)
	t.Cleanup(views.Close)
	return st, views
}

// seedDoc writes a json-tagged struct into the store under a known id
func seedDoc(t *testing.T, st store.Store, collection, id string, v interface{}) {
	t.Helper()
	fields, err := store.FieldsOf(v)
	require.NoError(t, err)
	require.NoError(t, st.Set(context.Background(), collection, id, fields, false))
}

func fieldOf(t *testing.T, st store.Store, collection, id, key string) interface{} {
	t.Helper()
	doc, err := st.Get(context.Background(), collection, id)
	require.NoError(t, err)
	return doc.Fields[key]
}
