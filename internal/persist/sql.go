package persist

import (
	"fmt"
	"strings"

	"lobbyreg/internal/catalog"
)

// columnsOf lists every writable column of an entity in a fixed order:
// ordinal first when ordered, then scalar columns, then reference columns.
// The parent foreign key is handled separately by the caller.
func columnsOf(ent *catalog.Entity) []string {
	cols := make([]string, 0, len(ent.Columns)+len(ent.Refs)+1)
	if ent.Ordered {
		cols = append(cols, "ordinal")
	}
	for _, c := range ent.Columns {
		cols = append(cols, c.Name)
	}
	for _, r := range ent.Refs {
		cols = append(cols, r.Name)
	}
	return cols
}

func placeholders(from, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("$%d", from+i)
	}
	return out
}

// insertSQL renders an insert of all entity columns plus the parent foreign
// key, returning the new id.
func insertSQL(ent *catalog.Entity) string {
	cols := append([]string{ent.FK}, columnsOf(ent)...)
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		ent.Table, strings.Join(cols, ", "),
		strings.Join(placeholders(1, len(cols)), ", "))
}

// upsertSQL renders a natural-key upsert. Versioned entities merge: existing
// values win over NULLs so history rows keep detail the current document no
// longer repeats. All other upserts overwrite, clearing columns the new
// document omits.
func upsertSQL(ent *catalog.Entity) string {
	cols := columnsOf(ent)
	if ent.FK != "" {
		cols = append([]string{ent.FK}, cols...)
	}

	var conflict []string
	switch ent.Mode {
	case catalog.ModeRoot, catalog.ModeVersioned:
		conflict = ent.NaturalKey
	case catalog.ModeSection:
		conflict = []string{ent.FK}
	default:
		panic(fmt.Sprintf("persist: entity %s is not upsertable", ent.Name))
	}

	isKey := map[string]bool{}
	for _, k := range conflict {
		isKey[k] = true
	}
	var sets []string
	for _, col := range cols {
		if isKey[col] {
			continue
		}
		if ent.Mode == catalog.ModeVersioned {
			sets = append(sets, fmt.Sprintf("%s = COALESCE(EXCLUDED.%s, %s.%s)", col, col, ent.Table, col))
		} else {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}

	action := "DO NOTHING"
	if len(sets) > 0 {
		action = "DO UPDATE SET " + strings.Join(sets, ", ")
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) %s RETURNING id",
		ent.Table, strings.Join(cols, ", "),
		strings.Join(placeholders(1, len(cols)), ", "),
		strings.Join(conflict, ", "), action)
}

// argsFor collects values for columnsOf in the same order, NULL for columns
// the record does not carry.
func argsFor(ent *catalog.Entity, fields map[string]any) []any {
	cols := columnsOf(ent)
	args := make([]any, len(cols))
	for i, col := range cols {
		args[i] = fields[col]
	}
	return args
}
