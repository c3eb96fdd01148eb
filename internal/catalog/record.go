package catalog

// Record is one normalized row plus the owned rows beneath it. The normalizer
// produces a tree of records rooted at a register_entry record; the
// persistence engine walks it guided by the entity definitions.
type Record struct {
	Entity string
	// Fields maps column name to converted value; a missing key persists as
	// NULL. Ordinals for collection members live here under "ordinal".
	Fields map[string]any
	// Refs maps a foreign-key column to the natural key of a shared entity.
	// The reference resolver replaces each with a row identifier before the
	// owning row is written.
	Refs map[string]*Ref
	// Children are owned records in source order.
	Children []*Record
}

// NewRecord returns an empty record for the entity.
func NewRecord(entity string) *Record {
	return &Record{
		Entity: entity,
		Fields: map[string]any{},
	}
}

// SetRef attaches a shared-entity reference for the column. A nil ref is
// ignored so call sites can pass optional references through unconditionally.
func (r *Record) SetRef(column string, ref *Ref) {
	if ref == nil {
		return
	}
	if r.Refs == nil {
		r.Refs = map[string]*Ref{}
	}
	r.Refs[column] = ref
}

// AddChild appends an owned record. Ordinals are assigned by the caller.
func (r *Record) AddChild(child *Record) {
	if child != nil {
		r.Children = append(r.Children, child)
	}
}

// Ref is a reference to a shared entity expressed purely as its natural key.
// Key holds the canonical key parts in the order fixed by the entity
// definition; Fields carries the column values stored when the row is first
// created. Refs and Children mirror Record for shared entities that
// themselves reference other shared entities (an address referencing its
// country) or own rows written once at creation (a contact's emails).
type Ref struct {
	Entity   string
	Key      []string
	Fields   map[string]any
	Refs     map[string]*Ref
	Children []*Record
}

// NewRef returns a reference with the given canonical key parts.
func NewRef(entity string, key ...string) *Ref {
	return &Ref{
		Entity: entity,
		Key:    key,
		Fields: map[string]any{},
	}
}

// SetRef attaches a nested shared-entity reference.
func (f *Ref) SetRef(column string, ref *Ref) {
	if ref == nil {
		return
	}
	if f.Refs == nil {
		f.Refs = map[string]*Ref{}
	}
	f.Refs[column] = ref
}
