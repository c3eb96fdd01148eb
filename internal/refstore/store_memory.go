package refstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"lobbyreg/internal/catalog"
)

// MemoryStore is an in-memory Store for tests and dry runs.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string]*memRow
	byID   map[int64]*memRow
}

type memRow struct {
	id       int64
	entity   string
	fields   map[string]any
	children []*catalog.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: map[string]*memRow{}, byID: map[int64]*memRow{}}
}

func (s *MemoryStore) GetOrCreate(_ context.Context, row Row) (int64, bool, error) {
	key := row.Entity + "\x1f" + strings.Join(row.Key, "\x1f")

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.rows[key]; ok {
		return existing.id, false, nil
	}

	s.nextID++
	fields := make(map[string]any, len(row.Fields))
	for col, v := range row.Fields {
		fields[col] = v
	}
	r := &memRow{id: s.nextID, entity: row.Entity, fields: fields, children: row.Children}
	s.rows[key] = r
	s.byID[r.id] = r
	return r.id, true, nil
}

func (s *MemoryStore) Merge(_ context.Context, entity string, id int64, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok || r.entity != entity {
		return fmt.Errorf("merge %s %d: no such row", entity, id)
	}
	for col, v := range fields {
		if existing, ok := r.fields[col]; !ok || existing == nil {
			r.fields[col] = v
		}
	}
	return nil
}

// Fields returns a copy of the stored column values, for assertions.
func (s *MemoryStore) Fields(id int64) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byID[id]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(r.fields))
	for col, v := range r.fields {
		out[col] = v
	}
	return out
}

// Children returns the rows stored when the entity was created.
func (s *MemoryStore) Children(id int64) []*catalog.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.byID[id]; ok {
		return r.children
	}
	return nil
}

// Len reports how many distinct shared rows exist.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
