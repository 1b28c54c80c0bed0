package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store with the same contract as the Postgres
// implementation, operator gate included. It backs the test suites and the
// degraded "no database" mode. Snapshot order is insertion order;
// notifications are delivered synchronously after each successful mutation.
type Memory struct {
	uid         string
	mu          sync.RWMutex
	collections map[string][]Document
	subs        map[string]map[int]func(Snapshot)
	nextSub     int
}

func NewMemory(uid string) *Memory {
	return &Memory{
		uid:         uid,
		collections: make(map[string][]Document),
		subs:        make(map[string]map[int]func(Snapshot)),
	}
}

func (m *Memory) authed() error {
	if m.uid == "" {
		return ErrUnauthenticated
	}
	return nil
}

func (m *Memory) snapshotLocked(collection string) Snapshot {
	docs := m.collections[collection]
	out := make(Snapshot, len(docs))
	for i, d := range docs {
		fields := make(Fields, len(d.Fields))
		for k, v := range d.Fields {
			fields[k] = v
		}
		out[i] = Document{ID: d.ID, Fields: fields}
	}
	return out
}

func (m *Memory) notify(collection string) {
	m.mu.RLock()
	snap := m.snapshotLocked(collection)
	fns := make([]func(Snapshot), 0, len(m.subs[collection]))
	for _, fn := range m.subs[collection] {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (m *Memory) Subscribe(collection string, fn func(Snapshot)) (func(), error) {
	if err := m.authed(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.subs[collection] == nil {
		m.subs[collection] = make(map[int]func(Snapshot))
	}
	id := m.nextSub
	m.nextSub++
	m.subs[collection][id] = fn
	snap := m.snapshotLocked(collection)
	m.mu.Unlock()

	// Initial push, matching the live store's subscribe semantics
	fn(snap)

	cancel := func() {
		m.mu.Lock()
		delete(m.subs[collection], id)
		m.mu.Unlock()
	}
	return cancel, nil
}

func (m *Memory) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := m.authed(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.collections[collection] {
		if d.ID == id {
			doc := Document{ID: d.ID, Fields: make(Fields, len(d.Fields))}
			for k, v := range d.Fields {
				doc.Fields[k] = v
			}
			return &doc, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) List(ctx context.Context, collection string) (Snapshot, error) {
	if err := m.authed(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked(collection), nil
}

func (m *Memory) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	if err := m.authed(); err != nil {
		return "", err
	}

	id := NewID()
	m.mu.Lock()
	m.collections[collection] = append(m.collections[collection], Document{ID: id, Fields: fields})
	m.mu.Unlock()
	m.notify(collection)
	return id, nil
}

func (m *Memory) Set(ctx context.Context, collection, id string, fields Fields, merge bool) error {
	if err := m.authed(); err != nil {
		return err
	}

	m.mu.Lock()
	m.setLocked(collection, id, fields, merge)
	m.mu.Unlock()
	m.notify(collection)
	return nil
}

func (m *Memory) setLocked(collection, id string, fields Fields, merge bool) {
	docs := m.collections[collection]
	for i, d := range docs {
		if d.ID == id {
			if merge {
				for k, v := range fields {
					docs[i].Fields[k] = v
				}
			} else {
				replaced := make(Fields, len(fields))
				for k, v := range fields {
					replaced[k] = v
				}
				docs[i].Fields = replaced
			}
			return
		}
	}
	// Set on a missing id creates the document
	m.collections[collection] = append(docs, Document{ID: id, Fields: fields})
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields Fields) error {
	if err := m.authed(); err != nil {
		return err
	}

	m.mu.Lock()
	found := false
	for i, d := range m.collections[collection] {
		if d.ID == id {
			for k, v := range fields {
				m.collections[collection][i].Fields[k] = v
			}
			found = true
			break
		}
	}
	m.mu.Unlock()
	if !found {
		return ErrNotFound
	}
	m.notify(collection)
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	if err := m.authed(); err != nil {
		return err
	}

	m.mu.Lock()
	docs := m.collections[collection]
	for i, d := range docs {
		if d.ID == id {
			m.collections[collection] = append(docs[:i:i], docs[i+1:]...)
			break
		}
	}
	m.mu.Unlock()
	m.notify(collection)
	return nil
}

type memoryOp struct {
	kind       string // set | update | delete
	collection string
	id         string
	fields     Fields
}

type memoryBatch struct {
	store *Memory
	ops   []memoryOp
}

func (m *Memory) Batch() Batch {
	return &memoryBatch{store: m}
}

func (b *memoryBatch) Set(collection, id string, fields Fields) {
	b.ops = append(b.ops, memoryOp{kind: "set", collection: collection, id: id, fields: fields})
}

func (b *memoryBatch) Update(collection, id string, fields Fields) {
	b.ops = append(b.ops, memoryOp{kind: "update", collection: collection, id: id, fields: fields})
}

func (b *memoryBatch) Delete(collection, id string) {
	b.ops = append(b.ops, memoryOp{kind: "delete", collection: collection, id: id})
}

func (b *memoryBatch) Commit(ctx context.Context) error {
	if err := b.store.authed(); err != nil {
		return err
	}

	b.store.mu.Lock()
	touched := make(map[string]bool)
	for _, op := range b.ops {
		touched[op.collection] = true
		switch op.kind {
		case "set":
			b.store.setLocked(op.collection, op.id, op.fields, false)
		case "update":
			for i, d := range b.store.collections[op.collection] {
				if d.ID == op.id {
					for k, v := range op.fields {
						b.store.collections[op.collection][i].Fields[k] = v
					}
					break
				}
			}
		case "delete":
			docs := b.store.collections[op.collection]
			for i, d := range docs {
				if d.ID == op.id {
					b.store.collections[op.collection] = append(docs[:i:i], docs[i+1:]...)
					break
				}
			}
		}
	}
	b.store.mu.Unlock()

	for collection := range touched {
		b.store.notify(collection)
	}
	b.ops = nil
	return nil
}
