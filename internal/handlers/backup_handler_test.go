package handlers

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ottica-backend/internal/config"
	"ottica-backend/internal/services"
	"ottica-backend/internal/store"
)

type ctxMarker struct{}

// contextRecordingStore captures the context each List call receives
type contextRecordingStore struct {
	store.Store
	mu    sync.Mutex
	marks []interface{}
}

func (s *contextRecordingStore) List(ctx context.Context, collection string) (store.Snapshot, error) {
	s.mu.Lock()
	s.marks = append(s.marks, ctx.Value(ctxMarker{}))
	s.mu.Unlock()
	return s.Store.List(ctx, collection)
}

func TestBackupExportCarriesRequestContext(t *testing.T) {
	rs := &contextRecordingStore{Store: store.NewMemory("test-operator")}
	h := NewBackupHandler(services.NewBackupService(rs, &config.Config{}))

	req := httptest.NewRequest("GET", "/api/backup/export", nil)
	req = req.WithContext(context.WithValue(req.Context(), ctxMarker{}, "richiesta"))
	rr := httptest.NewRecorder()

	h.Export(rr, req)

	require.Equal(t, 200, rr.Code)
	require.NotEmpty(t, rs.marks)
	for _, mark := range rs.marks {
		assert.Equal(t, "richiesta", mark)
	}
}
