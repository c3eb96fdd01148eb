package catalog

import (
	"fmt"
	"strings"
)

// DDL renders the CREATE TABLE statements for the whole catalog, parents
// before children. Statements use IF NOT EXISTS so applying the schema is
// repeatable.
func DDL() []string {
	stmts := make([]string, 0, len(Entities))
	for i := range Entities {
		stmts = append(stmts, createTable(&Entities[i]))
	}
	return stmts
}

func createTable(e *Entity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", e.Table)

	lines := []string{"    id BIGSERIAL PRIMARY KEY"}

	if e.Parent != "" {
		parent := MustLookup(e.Parent)
		lines = append(lines, fmt.Sprintf("    %s BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE", e.FK, parent.Table))
	}
	if e.Ordered {
		lines = append(lines, "    ordinal INT NOT NULL")
	}
	for _, c := range e.Columns {
		line := fmt.Sprintf("    %s %s", c.Name, c.Kind.SQLType())
		if c.NotNull {
			line += " NOT NULL"
		}
		lines = append(lines, line)
	}
	for _, r := range e.Refs {
		target := MustLookup(r.Target)
		lines = append(lines, fmt.Sprintf("    %s BIGINT REFERENCES %s(id)", r.Name, target.Table))
	}

	switch e.Mode {
	case ModeRoot, ModeShared, ModeVersioned:
		lines = append(lines, fmt.Sprintf("    UNIQUE (%s)", strings.Join(e.NaturalKey, ", ")))
	case ModeSection, ModeChild:
		lines = append(lines, fmt.Sprintf("    UNIQUE (%s)", e.FK))
	case ModeCollection:
		lines = append(lines, fmt.Sprintf("    UNIQUE (%s, ordinal)", e.FK))
	}

	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n)")
	return b.String()
}

// Indexes renders secondary indexes for the foreign keys the unique
// constraints do not already cover.
func Indexes() []string {
	var stmts []string
	for i := range Entities {
		e := &Entities[i]
		for _, r := range e.Refs {
			stmts = append(stmts, fmt.Sprintf(
				"CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s (%s)",
				e.Table, r.Name, e.Table, r.Name))
		}
	}
	return stmts
}
