package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCreateAndGet(t *testing.T) {
	m := NewMemory("test-operator")

	id, err := m.Create(context.Background(), "vendite", Fields{"cliente": "Rossi"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := m.Get(context.Background(), "vendite", id)
	require.NoError(t, err)
	assert.Equal(t, "Rossi", doc.Fields["cliente"])

	_, err = m.Get(context.Background(), "vendite", "manca")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListInsertionOrder(t *testing.T) {
	m := NewMemory("test-operator")
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "vendite", "a", Fields{"n": 1}, false))
	require.NoError(t, m.Set(ctx, "vendite", "b", Fields{"n": 2}, false))
	require.NoError(t, m.Set(ctx, "vendite", "c", Fields{"n": 3}, false))

	snap, err := m.List(ctx, "vendite")
	require.NoError(t, err)
	require.Len(t, snap, 3)
	assert.Equal(t, "a", snap[0].ID)
	assert.Equal(t, "c", snap[2].ID)
}

func TestMemorySetMergeSemantics(t *testing.T) {
	m := NewMemory("test-operator")
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "vendite", "a", Fields{"cliente": "Rossi", "importo": 100}, false))

	// Merge keeps the untouched fields
	require.NoError(t, m.Set(ctx, "vendite", "a", Fields{"importo": 200}, true))
	doc, err := m.Get(ctx, "vendite", "a")
	require.NoError(t, err)
	assert.Equal(t, "Rossi", doc.Fields["cliente"])
	assert.Equal(t, 200, doc.Fields["importo"])

	// Plain set replaces the document wholesale
	require.NoError(t, m.Set(ctx, "vendite", "a", Fields{"importo": 300}, false))
	doc, err = m.Get(ctx, "vendite", "a")
	require.NoError(t, err)
	assert.NotContains(t, doc.Fields, "cliente")
}

func TestMemoryUpdateMissingDocument(t *testing.T) {
	m := NewMemory("test-operator")
	err := m.Update(context.Background(), "vendite", "manca", Fields{"x": 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySubscribePushesInitialAndChanges(t *testing.T) {
	m := NewMemory("test-operator")
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "vendite", "a", Fields{"n": 1}, false))

	var pushes []Snapshot
	cancel, err := m.Subscribe("vendite", func(s Snapshot) {
		pushes = append(pushes, s)
	})
	require.NoError(t, err)
	defer cancel()

	// Initial push carries the current contents
	require.Len(t, pushes, 1)
	require.Len(t, pushes[0], 1)

	require.NoError(t, m.Set(ctx, "vendite", "b", Fields{"n": 2}, false))
	require.Len(t, pushes, 2)
	assert.Len(t, pushes[1], 2)

	cancel()
	require.NoError(t, m.Delete(ctx, "vendite", "a"))
	assert.Len(t, pushes, 2)
}

func TestMemorySnapshotIsolation(t *testing.T) {
	m := NewMemory("test-operator")
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "vendite", "a", Fields{"cliente": "Rossi"}, false))

	snap, err := m.List(ctx, "vendite")
	require.NoError(t, err)
	snap[0].Fields["cliente"] = "manomesso"

	doc, err := m.Get(ctx, "vendite", "a")
	require.NoError(t, err)
	assert.Equal(t, "Rossi", doc.Fields["cliente"])
}

func TestMemoryBatchCommit(t *testing.T) {
	m := NewMemory("test-operator")
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "vendite", "a", Fields{"stato": "PRONTO"}, false))
	require.NoError(t, m.Set(ctx, "vendite", "b", Fields{"stato": "PRONTO"}, false))

	var pushes int
	cancel, err := m.Subscribe("vendite", func(Snapshot) { pushes++ })
	require.NoError(t, err)
	defer cancel()
	pushes = 0

	batch := m.Batch()
	batch.Update("vendite", "a", Fields{"stato": "CONSEGNATO"})
	batch.Delete("vendite", "b")
	batch.Set("vendite", "c", Fields{"stato": "PRONTO"})
	require.NoError(t, batch.Commit(ctx))

	// One notification per touched collection, not per operation
	assert.Equal(t, 1, pushes)

	doc, err := m.Get(ctx, "vendite", "a")
	require.NoError(t, err)
	assert.Equal(t, "CONSEGNATO", doc.Fields["stato"])

	_, err = m.Get(ctx, "vendite", "b")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Get(ctx, "vendite", "c")
	assert.NoError(t, err)
}

func TestMemoryRequiresBoundOperator(t *testing.T) {
	m := NewMemory("")
	ctx := context.Background()

	_, err := m.Subscribe("vendite", func(Snapshot) {})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = m.Get(ctx, "vendite", "a")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = m.List(ctx, "vendite")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = m.Create(ctx, "vendite", Fields{"n": 1})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	assert.ErrorIs(t, m.Set(ctx, "vendite", "a", Fields{"n": 1}, false), ErrUnauthenticated)
	assert.ErrorIs(t, m.Update(ctx, "vendite", "a", Fields{"n": 1}), ErrUnauthenticated)
	assert.ErrorIs(t, m.Delete(ctx, "vendite", "a"), ErrUnauthenticated)

	batch := m.Batch()
	batch.Set("vendite", "a", Fields{"n": 1})
	assert.ErrorIs(t, batch.Commit(ctx), ErrUnauthenticated)
}

func TestFieldsOfDropsID(t *testing.T) {
	type record struct {
		ID   string `json:"id"`
		Nome string `json:"nome"`
	}

	fields, err := FieldsOf(&record{ID: "x", Nome: "Anna"})
	require.NoError(t, err)
	assert.NotContains(t, fields, "id")
	assert.Equal(t, "Anna", fields["nome"])
}

func TestDecodeDocumentInjectsID(t *testing.T) {
	type record struct {
		ID   string `json:"id"`
		Nome string `json:"nome"`
	}

	var r record
	err := DecodeDocument(Document{ID: "doc1", Fields: Fields{"nome": "Anna"}}, &r)
	require.NoError(t, err)
	assert.Equal(t, "doc1", r.ID)
	assert.Equal(t, "Anna", r.Nome)
}
