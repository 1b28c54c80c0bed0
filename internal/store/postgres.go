package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres persists every collection in a single JSONB documents table,
// scoped by operator uid. Mutations re-read the touched collection and push
// the full snapshot to subscribers; a second mutation issued before that
// push lands operates on the previous snapshot (accepted eventual-
// consistency window, single-operator usage).
type Postgres struct {
	pool *pgxpool.Pool
	uid  string

	mu      sync.RWMutex
	subs    map[string]map[int]func(Snapshot)
	nextSub int
}

func NewPostgres(pool *pgxpool.Pool, uid string) *Postgres {
	return &Postgres{
		pool: pool,
		uid:  uid,
		subs: make(map[string]map[int]func(Snapshot)),
	}
}

// EnsureSchema creates the documents table. The store has exactly one
// table, so there is no migration framework around it.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			uid        TEXT NOT NULL,
			collection TEXT NOT NULL,
			doc_id     TEXT NOT NULL,
			data       JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (uid, collection, doc_id)
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_documents_collection
		ON documents (uid, collection, created_at)`)
	return err
}

func (p *Postgres) authed() error {
	if p.uid == "" {
		return ErrUnauthenticated
	}
	return nil
}

func (p *Postgres) Subscribe(collection string, fn func(Snapshot)) (func(), error) {
	if err := p.authed(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.subs[collection] == nil {
		p.subs[collection] = make(map[int]func(Snapshot))
	}
	id := p.nextSub
	p.nextSub++
	p.subs[collection][id] = fn
	p.mu.Unlock()

	// Initial push with the current contents
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	snap, err := p.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	fn(snap)

	return func() {
		p.mu.Lock()
		delete(p.subs[collection], id)
		p.mu.Unlock()
	}, nil
}

// notify re-reads a collection and pushes the snapshot to its subscribers.
// Runs in the background so write paths return as soon as the store commits.
func (p *Postgres) notify(collection string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		snap, err := p.List(ctx, collection)
		if err != nil {
			log.Printf("[Store] snapshot refresh failed for %s: %v", collection, err)
			return
		}

		p.mu.RLock()
		fns := make([]func(Snapshot), 0, len(p.subs[collection]))
		for _, fn := range p.subs[collection] {
			fns = append(fns, fn)
		}
		p.mu.RUnlock()

		for _, fn := range fns {
			fn(snap)
		}
	}()
}

func (p *Postgres) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := p.authed(); err != nil {
		return nil, err
	}

	var raw []byte
	err := p.pool.QueryRow(ctx,
		`SELECT data FROM documents WHERE uid=$1 AND collection=$2 AND doc_id=$3`,
		p.uid, collection, id).Scan(&raw)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var fields Fields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return &Document{ID: id, Fields: fields}, nil
}

func (p *Postgres) List(ctx context.Context, collection string) (Snapshot, error) {
	if err := p.authed(); err != nil {
		return nil, err
	}

	// created_at then doc_id gives a stable snapshot order, which makes
	// "first open match" lookups deterministic
	rows, err := p.pool.Query(ctx,
		`SELECT doc_id, data FROM documents
		 WHERE uid=$1 AND collection=$2
		 ORDER BY created_at, doc_id`,
		p.uid, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snap Snapshot
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var fields Fields
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
		snap = append(snap, Document{ID: id, Fields: fields})
	}
	return snap, rows.Err()
}

func (p *Postgres) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	if err := p.authed(); err != nil {
		return "", err
	}

	id := NewID()
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO documents (uid, collection, doc_id, data) VALUES ($1,$2,$3,$4)`,
		p.uid, collection, id, raw)
	if err != nil {
		return "", err
	}
	p.notify(collection)
	return id, nil
}

func (p *Postgres) Set(ctx context.Context, collection, id string, fields Fields, merge bool) error {
	if err := p.authed(); err != nil {
		return err
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	query := `INSERT INTO documents (uid, collection, doc_id, data) VALUES ($1,$2,$3,$4)
		ON CONFLICT (uid, collection, doc_id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
	if merge {
		query = `INSERT INTO documents (uid, collection, doc_id, data) VALUES ($1,$2,$3,$4)
			ON CONFLICT (uid, collection, doc_id)
			DO UPDATE SET data = documents.data || EXCLUDED.data, updated_at = now()`
	}
	if _, err := p.pool.Exec(ctx, query, p.uid, collection, id, raw); err != nil {
		return err
	}
	p.notify(collection)
	return nil
}

func (p *Postgres) Update(ctx context.Context, collection, id string, fields Fields) error {
	if err := p.authed(); err != nil {
		return err
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx,
		`UPDATE documents SET data = data || $4::jsonb, updated_at = now()
		 WHERE uid=$1 AND collection=$2 AND doc_id=$3`,
		p.uid, collection, id, raw)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	p.notify(collection)
	return nil
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	if err := p.authed(); err != nil {
		return err
	}

	_, err := p.pool.Exec(ctx,
		`DELETE FROM documents WHERE uid=$1 AND collection=$2 AND doc_id=$3`,
		p.uid, collection, id)
	if err != nil {
		return err
	}
	p.notify(collection)
	return nil
}

type pgOp struct {
	kind       string // set | update | delete
	collection string
	id         string
	fields     Fields
}

type pgBatch struct {
	store *Postgres
	ops   []pgOp
}

func (p *Postgres) Batch() Batch {
	return &pgBatch{store: p}
}

func (b *pgBatch) Set(collection, id string, fields Fields) {
	b.ops = append(b.ops, pgOp{kind: "set", collection: collection, id: id, fields: fields})
}

func (b *pgBatch) Update(collection, id string, fields Fields) {
	b.ops = append(b.ops, pgOp{kind: "update", collection: collection, id: id, fields: fields})
}

func (b *pgBatch) Delete(collection, id string) {
	b.ops = append(b.ops, pgOp{kind: "delete", collection: collection, id: id})
}

// Commit runs every accumulated operation in one transaction: all succeed
// or none do.
func (b *pgBatch) Commit(ctx context.Context) error {
	if err := b.store.authed(); err != nil {
		return err
	}

	tx, err := b.store.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, op := range b.ops {
		switch op.kind {
		case "set":
			raw, err := json.Marshal(op.fields)
			if err != nil {
				return err
			}
			_, err = tx.Exec(ctx,
				`INSERT INTO documents (uid, collection, doc_id, data) VALUES ($1,$2,$3,$4)
				 ON CONFLICT (uid, collection, doc_id)
				 DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
				b.store.uid, op.collection, op.id, raw)
			if err != nil {
				return err
			}
		case "update":
			raw, err := json.Marshal(op.fields)
			if err != nil {
				return err
			}
			tag, err := tx.Exec(ctx,
				`UPDATE documents SET data = data || $4::jsonb, updated_at = now()
				 WHERE uid=$1 AND collection=$2 AND doc_id=$3`,
				b.store.uid, op.collection, op.id, raw)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("batch update %s/%s: %w", op.collection, op.id, ErrNotFound)
			}
		case "delete":
			_, err := tx.Exec(ctx,
				`DELETE FROM documents WHERE uid=$1 AND collection=$2 AND doc_id=$3`,
				b.store.uid, op.collection, op.id)
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	touched := make(map[string]bool)
	for _, op := range b.ops {
		if !touched[op.collection] {
			touched[op.collection] = true
			b.store.notify(op.collection)
		}
	}
	b.ops = nil
	return nil
}
