// Package repository maintains in-process typed views of the store
// collections. Each view holds the latest decoded snapshot and fans change
// notifications out to observers, so read paths never touch the database.
package repository

import (
	"log"
	"sync"

	"ottica-backend/internal/models"
	"ottica-backend/internal/store"
)

// Collection is a live typed view over one store collection. Snapshot order
// follows the store's order.
type Collection[T any] struct {
	name string

	mu        sync.RWMutex
	items     []T
	observers []func([]T)

	cancel func()
}

// NewCollection subscribes to the named collection and keeps the decoded
// snapshot current. Documents that fail to decode are skipped with a log
// line rather than poisoning the whole view.
func NewCollection[T any](st store.Store, name string) (*Collection[T], error) {
	c := &Collection[T]{name: name}

	cancel, err := st.Subscribe(name, func(snap store.Snapshot) {
		items := make([]T, 0, len(snap))
		for _, doc := range snap {
			var v T
			if err := store.DecodeDocument(doc, &v); err != nil {
				log.Printf("[Repository] skipping malformed document %s/%s: %v", name, doc.ID, err)
				continue
			}
			items = append(items, v)
		}

		c.mu.Lock()
		c.items = items
		observers := make([]func([]T), len(c.observers))
		copy(observers, c.observers)
		c.mu.Unlock()

		for _, fn := range observers {
			fn(items)
		}
	})
	if err != nil {
		return nil, err
	}
	c.cancel = cancel
	return c, nil
}

// Snapshot returns the current decoded snapshot. Callers must not mutate
// the returned slice.
func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items
}

// OnChange registers fn to run after every snapshot refresh
func (c *Collection[T]) OnChange(fn func([]T)) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Close cancels the underlying subscription
func (c *Collection[T]) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Views bundles the live view of every collection the console works with
type Views struct {
	Sales   *Collection[models.Sale]
	Repairs *Collection[models.Repair]
	Sellers *Collection[models.Seller]
	Emails  *Collection[models.AdminEmail]
	Monthly *Collection[models.MonthlySheet]
	Lac     *Collection[models.LacClient]
}

// NewViews opens a view on every collection
func NewViews(st store.Store) (*Views, error) {
	sales, err := NewCollection[models.Sale](st, models.CollectionVendite)
	if err != nil {
		return nil, err
	}
	repairs, err := NewCollection[models.Repair](st, models.CollectionRiparazioni)
	if err != nil {
		return nil, err
	}
	sellers, err := NewCollection[models.Seller](st, models.CollectionVenditori)
	if err != nil {
		return nil, err
	}
	emails, err := NewCollection[models.AdminEmail](st, models.CollectionEmails)
	if err != nil {
		return nil, err
	}
	monthly, err := NewCollection[models.MonthlySheet](st, models.CollectionDatiMensili)
	if err != nil {
		return nil, err
	}
	lac, err := NewCollection[models.LacClient](st, models.CollectionLac)
	if err != nil {
		return nil, err
	}

	return &Views{
		Sales:   sales,
		Repairs: repairs,
		Sellers: sellers,
		Emails:  emails,
		Monthly: monthly,
		Lac:     lac,
	}, nil
}

// Close cancels every subscription
func (v *Views) Close() {
	v.Sales.Close()
	v.Repairs.Close()
	v.Sellers.Close()
	v.Emails.Close()
	v.Monthly.Close()
	v.Lac.Close()
}
