// Package persist writes normalized record trees to PostgreSQL. Each
// document commits atomically: the register entry row, its versioned detail
// rows, and every section are written in one transaction, with ordered
// collections replaced wholesale. Shared references are resolved before the
// transaction opens so they survive a failing document.
package persist

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"lobbyreg/internal/catalog"
	"lobbyreg/internal/refstore"
)

// Engine commits record trees.
type Engine struct {
	db       *sql.DB
	resolver *refstore.Resolver
	log      *log.Logger
}

func NewEngine(db *sql.DB, resolver *refstore.Resolver, logger *log.Logger) *Engine {
	return &Engine{db: db, resolver: resolver, log: logger}
}

// InitSchema applies the catalog's tables and indexes. Safe to run
// repeatedly.
func (e *Engine) InitSchema(ctx context.Context) error {
	stmts := append(catalog.DDL(), catalog.Indexes()...)
	for _, stmt := range stmts {
		if _, err := e.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	e.log.Printf("schema ready (%d statements)", len(stmts))
	return nil
}

// Commit writes one document's record tree. Re-committing the same tree is a
// no-op in effect: the root and sections upsert, versioned rows merge, and
// collections land identically.
func (e *Engine) Commit(ctx context.Context, root *catalog.Record) error {
	if root.Entity != catalog.RegisterEntry {
		return fmt.Errorf("commit: root must be %s, got %s", catalog.RegisterEntry, root.Entity)
	}

	if err := e.resolveRefs(ctx, root); err != nil {
		return err
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	rootEnt := catalog.MustLookup(catalog.RegisterEntry)
	var entryID int64
	if err := tx.QueryRowContext(ctx, upsertSQL(rootEnt), argsFor(rootEnt, root.Fields)...).Scan(&entryID); err != nil {
		return classify(rootEnt.Table, fmt.Errorf("upsert register entry: %w", err))
	}

	present := map[string]bool{}
	for _, child := range root.Children {
		present[child.Entity] = true
		ent := catalog.MustLookup(child.Entity)
		switch ent.Mode {
		case catalog.ModeVersioned:
			var id int64
			args := append([]any{entryID}, argsFor(ent, child.Fields)...)
			if err := tx.QueryRowContext(ctx, upsertSQL(ent), args...).Scan(&id); err != nil {
				return classify(ent.Table, fmt.Errorf("upsert %s: %w", ent.Table, err))
			}
		case catalog.ModeSection:
			if err := e.writeSection(ctx, tx, ent, entryID, child); err != nil {
				return err
			}
		default:
			return fmt.Errorf("commit: unexpected %s under register entry", child.Entity)
		}
	}

	// Sections the document no longer carries are removed with their
	// subtrees. Versioned detail rows are additive and stay.
	for _, ent := range catalog.ChildrenOf(catalog.RegisterEntry) {
		if ent.Mode != catalog.ModeSection || present[ent.Name] {
			continue
		}
		stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", ent.Table, ent.FK)
		if _, err := tx.ExecContext(ctx, stmt, entryID); err != nil {
			return classify(ent.Table, fmt.Errorf("prune %s: %w", ent.Table, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return classify(rootEnt.Table, fmt.Errorf("commit: %w", err))
	}
	return nil
}

// writeSection upserts a singleton section and replaces its collections.
// The section row keeps its id across ingestions; everything beneath it is
// rewritten in document order.
func (e *Engine) writeSection(ctx context.Context, tx *sql.Tx, ent *catalog.Entity, entryID int64, rec *catalog.Record) error {
	var id int64
	args := append([]any{entryID}, argsFor(ent, rec.Fields)...)
	if err := tx.QueryRowContext(ctx, upsertSQL(ent), args...).Scan(&id); err != nil {
		return classify(ent.Table, fmt.Errorf("upsert %s: %w", ent.Table, err))
	}

	// Delete direct children; cascading foreign keys clear the rest of the
	// subtree before it is rebuilt.
	for _, child := range catalog.ChildrenOf(ent.Name) {
		stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", child.Table, child.FK)
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return classify(child.Table, fmt.Errorf("clear %s: %w", child.Table, err))
		}
	}

	return e.insertSubtree(ctx, tx, id, rec.Children)
}

// insertSubtree inserts freshly cleared rows depth first.
func (e *Engine) insertSubtree(ctx context.Context, tx *sql.Tx, parentID int64, children []*catalog.Record) error {
	for _, child := range children {
		ent := catalog.MustLookup(child.Entity)
		var id int64
		args := append([]any{parentID}, argsFor(ent, child.Fields)...)
		if err := tx.QueryRowContext(ctx, insertSQL(ent), args...).Scan(&id); err != nil {
			return classify(ent.Table, fmt.Errorf("insert %s: %w", ent.Table, err))
		}
		if err := e.insertSubtree(ctx, tx, id, child.Children); err != nil {
			return err
		}
	}
	return nil
}

// resolveRefs walks the tree and replaces every shared-entity reference with
// its row id. Runs outside the document transaction.
func (e *Engine) resolveRefs(ctx context.Context, rec *catalog.Record) error {
	for col, ref := range rec.Refs {
		id, err := e.resolver.Resolve(ctx, ref)
		if err != nil {
			return err
		}
		rec.Fields[col] = id
	}
	for _, child := range rec.Children {
		if err := e.resolveRefs(ctx, child); err != nil {
			return err
		}
	}
	return nil
}
