// Package store defines the document-store gateway the whole application
// persists through: user-scoped, schemaless collections with full-snapshot
// subscription push and atomic write batches. The contract mirrors the
// managed document database the original console ran against.
package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
)

var (
	// ErrUnauthenticated is returned by every operation when no operator
	// session is bound to the store.
	ErrUnauthenticated = errors.New("store: utente non autenticato")

	// ErrNotFound is returned by Get when the document does not exist
	ErrNotFound = errors.New("store: documento non trovato")
)

// Fields is the schemaless field set of a document
type Fields map[string]interface{}

// Document is one record of a collection
type Document struct {
	ID     string
	Fields Fields
}

// Snapshot is the full contents of a collection, pushed to subscribers on
// every change. Order is stable (store-defined) so "first match" lookups
// are deterministic.
type Snapshot []Document

// Batch accumulates write operations for an all-or-nothing commit.
// A committed batch runs to completion or fails as a unit; there is no
// mid-flight cancellation.
type Batch interface {
	Set(collection, id string, fields Fields)
	Update(collection, id string, fields Fields)
	Delete(collection, id string)
	Commit(ctx context.Context) error
}

// Store is the gateway contract (generic CRUD + subscription primitive).
type Store interface {
	// Subscribe registers fn to receive the current snapshot immediately
	// and again after every change. The returned cancel stops delivery.
	Subscribe(collection string, fn func(Snapshot)) (cancel func(), err error)

	Get(ctx context.Context, collection, id string) (*Document, error)
	List(ctx context.Context, collection string) (Snapshot, error)
	Create(ctx context.Context, collection string, fields Fields) (string, error)
	Set(ctx context.Context, collection, id string, fields Fields, merge bool) error
	Update(ctx context.Context, collection, id string, fields Fields) error
	Delete(ctx context.Context, collection, id string) error
	Batch() Batch
}

// NewID generates a random document id (20 hex chars)
func NewID() string {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

// FieldsOf converts a json-tagged struct to a field map. The "id" field is
// dropped: document ids live outside the field set.
func FieldsOf(v interface{}) (Fields, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var f Fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	delete(f, "id")
	return f, nil
}

// DecodeDocument unmarshals a document's fields into a json-tagged struct
// and injects the document id into its "id" field.
func DecodeDocument(doc Document, v interface{}) error {
	f := make(Fields, len(doc.Fields)+1)
	for k, val := range doc.Fields {
		f[k] = val
	}
	f["id"] = doc.ID
	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
