package refstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"lobbyreg/internal/catalog"
)

// PostgresStore keeps shared entities in PostgreSQL. Each create runs in its
// own short transaction on the pool, never inside document transactions:
// reference rows must survive a failing document. Races between workers
// creating the same key are settled by ON CONFLICT DO NOTHING plus a re-read.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetOrCreate(ctx context.Context, row Row) (int64, bool, error) {
	ent := catalog.MustLookup(row.Entity)

	cols, args := orderedFields(row.Fields)
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	insert := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING RETURNING id",
		ent.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
		strings.Join(ent.NaturalKey, ", "),
	)

	// The row and its create-time children commit together: a contact that
	// loses its emails mid-create would otherwise satisfy every later lookup
	// of the same fingerprint while staying childless forever.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("begin %s: %w", ent.Table, err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, insert, args...).Scan(&id)
	switch {
	case err == nil:
		if err := s.insertChildren(ctx, tx, ent, id, row.Children); err != nil {
			return 0, false, err
		}
		if err := tx.Commit(); err != nil {
			return 0, false, fmt.Errorf("commit %s: %w", ent.Table, err)
		}
		return id, true, nil
	case errors.Is(err, sql.ErrNoRows):
		// Lost the race or the row predates this run; read it back.
	default:
		return 0, false, fmt.Errorf("insert %s: %w", ent.Table, err)
	}

	conds := make([]string, len(ent.NaturalKey))
	keyArgs := make([]any, len(ent.NaturalKey))
	for i, col := range ent.NaturalKey {
		conds[i] = fmt.Sprintf("%s = $%d", col, i+1)
		keyArgs[i] = row.Fields[col]
	}
	query := fmt.Sprintf("SELECT id FROM %s WHERE %s", ent.Table, strings.Join(conds, " AND "))
	if err := s.db.QueryRowContext(ctx, query, keyArgs...).Scan(&id); err != nil {
		return 0, false, fmt.Errorf("select %s after conflict: %w", ent.Table, err)
	}
	return id, false, nil
}

func (s *PostgresStore) insertChildren(ctx context.Context, tx *sql.Tx, parent *catalog.Entity, parentID int64, children []*catalog.Record) error {
	for _, child := range children {
		ent := catalog.MustLookup(child.Entity)
		fields := make(map[string]any, len(child.Fields)+1)
		for col, v := range child.Fields {
			fields[col] = v
		}
		fields[ent.FK] = parentID

		cols, args := orderedFields(fields)
		placeholders := make([]string, len(cols))
		for i := range cols {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		}
		stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			ent.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("insert %s: %w", ent.Table, err)
		}
	}
	return nil
}

func (s *PostgresStore) Merge(ctx context.Context, entity string, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	ent := catalog.MustLookup(entity)

	cols, args := orderedFields(fields)
	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = COALESCE(%s, $%d)", col, col, i+1)
	}
	args = append(args, id)
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", ent.Table, strings.Join(sets, ", "), len(args))
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("merge %s: %w", ent.Table, err)
	}
	return nil
}

func orderedFields(fields map[string]any) ([]string, []any) {
	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	args := make([]any, len(cols))
	for i, col := range cols {
		args[i] = fields[col]
	}
	return cols, args
}
