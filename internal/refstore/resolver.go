// Package refstore resolves shared reference entities (code labels,
// countries, addresses, contacts, departments, government functions) to row
// identifiers. Rows are created lazily, deduplicated by natural key, and
// never deleted by ingestion. Resolution runs outside document transactions
// so a failing document never rolls back reference rows other documents
// already point at.
package refstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"lobbyreg/internal/catalog"
)

// Row is one shared entity ready for storage: natural key, creation-time
// column values with nested references already resolved to ids, and owned
// rows written only when the entity is first created.
type Row struct {
	Entity   string
	Key      []string
	Fields   map[string]any
	Children []*catalog.Record
}

// Store persists shared entities.
type Store interface {
	// GetOrCreate returns the id for the row's natural key, creating the row
	// if it does not exist. created reports whether this call inserted it.
	// Concurrent calls for the same key must converge on one id.
	GetOrCreate(ctx context.Context, row Row) (id int64, created bool, err error)
	// Merge fills columns that are still NULL on an existing row. Labels
	// learned from later documents backfill rows created without them.
	Merge(ctx context.Context, entity string, id int64, fields map[string]any) error
}

// Resolver caches natural-key lookups in front of a Store. Safe for
// concurrent use.
type Resolver struct {
	store Store

	mu    sync.RWMutex
	cache map[string]*entry
}

type entry struct {
	id int64

	mu     sync.Mutex
	filled map[string]bool // label columns known to be non-NULL
}

// New returns a resolver over the store.
func New(store Store) *Resolver {
	return &Resolver{store: store, cache: map[string]*entry{}}
}

// Resolve returns the row id for a reference, creating the row on first
// sight. Nested references are resolved first, depth first.
func (r *Resolver) Resolve(ctx context.Context, ref *catalog.Ref) (int64, error) {
	ent := catalog.MustLookup(ref.Entity)

	key := cacheKey(ref)
	r.mu.RLock()
	cached := r.cache[key]
	r.mu.RUnlock()
	if cached != nil {
		if err := r.mergeLabels(ctx, ent, ref, cached); err != nil {
			return 0, err
		}
		return cached.id, nil
	}

	fields := make(map[string]any, len(ref.Fields)+len(ref.Refs))
	for col, v := range ref.Fields {
		fields[col] = v
	}
	for col, nested := range ref.Refs {
		id, err := r.Resolve(ctx, nested)
		if err != nil {
			return 0, err
		}
		fields[col] = id
	}

	id, created, err := r.store.GetOrCreate(ctx, Row{
		Entity:   ref.Entity,
		Key:      ref.Key,
		Fields:   fields,
		Children: ref.Children,
	})
	if err != nil {
		return 0, fmt.Errorf("resolve %s: %w", ref.Entity, err)
	}

	e := &entry{id: id, filled: map[string]bool{}}
	if created {
		for col, v := range fields {
			if v != nil {
				e.filled[col] = true
			}
		}
	} else {
		if err := r.mergeLabels(ctx, ent, ref, e); err != nil {
			return 0, err
		}
	}

	r.mu.Lock()
	if prior, ok := r.cache[key]; ok {
		e = prior
	} else {
		r.cache[key] = e
	}
	r.mu.Unlock()
	return e.id, nil
}

// mergeLabels backfills label columns on rows first seen without them. Only
// the label entities carry columns outside their natural key that later
// documents can supply.
func (r *Resolver) mergeLabels(ctx context.Context, ent *catalog.Entity, ref *catalog.Ref, e *entry) error {
	if ent.Name != catalog.CodeLabel && ent.Name != catalog.CountryLabel {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.filled == nil {
		e.filled = map[string]bool{}
	}
	labels := map[string]any{}
	for _, col := range []string{"de", "en"} {
		if v, ok := ref.Fields[col]; ok && v != nil && !e.filled[col] {
			labels[col] = v
		}
	}
	if len(labels) == 0 {
		return nil
	}
	if err := r.store.Merge(ctx, ent.Name, e.id, labels); err != nil {
		return fmt.Errorf("merge %s labels: %w", ent.Name, err)
	}
	for col := range labels {
		e.filled[col] = true
	}
	return nil
}

func cacheKey(ref *catalog.Ref) string {
	return ref.Entity + "\x1f" + strings.Join(ref.Key, "\x1f")
}
