package catalog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogConsistency(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range Entities {
		t.Run(e.Name, func(t *testing.T) {
			if e.Parent != "" {
				assert.True(t, seen[e.Parent], "parent %s must be defined before %s", e.Parent, e.Name)
				assert.NotEmpty(t, e.FK, "entity with a parent needs a foreign-key column")
			} else {
				assert.Empty(t, e.FK)
			}

			switch e.Mode {
			case ModeRoot, ModeShared, ModeVersioned:
				require.NotEmpty(t, e.NaturalKey)
				for _, k := range e.NaturalKey {
					if k == e.FK {
						continue
					}
					_, ok := e.ColumnKind(k)
					assert.True(t, ok, "natural key column %s missing from %s", k, e.Name)
				}
			case ModeCollection:
				assert.True(t, e.Ordered, "collection %s must carry an ordinal", e.Name)
			}

			for _, r := range e.Refs {
				target, ok := Lookup(r.Target)
				require.True(t, ok, "ref target %s of %s", r.Target, e.Name)
				assert.Equal(t, ModeShared, target.Mode, "ref %s.%s must point at a shared entity", e.Name, r.Name)
			}
		})
		seen[e.Name] = true
	}
}

func TestCatalogTableNamesUnique(t *testing.T) {
	tables := map[string]string{}
	for _, e := range Entities {
		prev, dup := tables[e.Table]
		assert.False(t, dup, "table %s used by both %s and %s", e.Table, prev, e.Name)
		tables[e.Table] = e.Name
	}
}

func TestLookup(t *testing.T) {
	e, ok := Lookup(RegisterEntry)
	require.True(t, ok)
	assert.Equal(t, ModeRoot, e.Mode)
	assert.Equal(t, []string{"register_number"}, e.NaturalKey)

	_, ok = Lookup("no_such_entity")
	assert.False(t, ok)

	assert.Panics(t, func() { MustLookup("no_such_entity") })
}

func TestChildrenOf(t *testing.T) {
	var names []string
	for _, c := range ChildrenOf("activities") {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"activity_exercise", "field_of_interest", "legislative_project"}, names)
}

func TestDDL(t *testing.T) {
	stmts := DDL()
	require.Len(t, stmts, len(Entities))

	byTable := map[string]string{}
	for _, s := range stmts {
		name := strings.TrimPrefix(s, "CREATE TABLE IF NOT EXISTS ")
		name = name[:strings.Index(name, " ")]
		byTable[name] = s
	}

	t.Run("root upserts by natural key", func(t *testing.T) {
		s := byTable["register_entry"]
		assert.Contains(t, s, "register_number TEXT NOT NULL")
		assert.Contains(t, s, "UNIQUE (register_number)")
		assert.NotContains(t, s, "ordinal")
	})

	t.Run("collections are unique per parent and position", func(t *testing.T) {
		s := byTable["field_of_interest"]
		assert.Contains(t, s, "activities_id BIGINT NOT NULL REFERENCES activities_interests(id) ON DELETE CASCADE")
		assert.Contains(t, s, "ordinal INT NOT NULL")
		assert.Contains(t, s, "UNIQUE (activities_id, ordinal)")
	})

	t.Run("sections are singletons per entry", func(t *testing.T) {
		s := byTable["financial_expenses"]
		assert.Contains(t, s, "UNIQUE (entry_id)")
		assert.Contains(t, s, "expenses_from_eur BIGINT")
	})

	t.Run("versioned details keyed by legislation and version", func(t *testing.T) {
		s := byTable["entry_details"]
		assert.Contains(t, s, "UNIQUE (entry_id, legislation, version)")
	})

	t.Run("shared refs have no cascade", func(t *testing.T) {
		s := byTable["address"]
		assert.Contains(t, s, "country_id BIGINT REFERENCES country_label(id)")
		assert.NotContains(t, s, "country_id BIGINT REFERENCES country_label(id) ON DELETE")
	})
}

func TestIndexes(t *testing.T) {
	stmts := Indexes()
	assert.Contains(t, stmts, "CREATE INDEX IF NOT EXISTS idx_address_country_id ON address (country_id)")
}

func TestConvert(t *testing.T) {
	cases := []struct {
		name    string
		kind    Kind
		raw     any
		want    any
		wantErr bool
	}{
		{"nil passes through", Text, nil, nil, false},
		{"text", Text, "hello", "hello", false},
		{"text rejects number", Text, 3.0, nil, true},
		{"bool", Bool, true, true, false},
		{"bool rejects string", Bool, "true", nil, true},
		{"int from whole float", Int, 42.0, int64(42), false},
		{"int rejects fraction", Int, 41.5, nil, true},
		{"int rejects string", Int, "42", nil, true},
		{"euro", Euro, 250000.0, int64(250000), false},
		{"number keeps fraction", Number, 2.5, 2.5, false},
		{"year month", YearMonth, "2024-03", "2024-03", false},
		{"year month rejects date", YearMonth, "2024-03-01", nil, true},
		{"date", Date, "2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"date from timestamp", Date, "2024-03-01T10:30:00Z", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"date keeps zoned calendar day", Date, "2024-03-01T00:00:00+01:00", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"date keeps western zoned calendar day", Date, "2024-03-01T23:30:00-05:00", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"date rejects garbage", Date, "yesterday", nil, true},
		{"timestamp", Timestamp, "2024-03-01T10:30:00Z", time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), false},
		{"timestamp without zone", Timestamp, "2024-03-01T10:30:00", time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), false},
		{"timestamp from bare date", Timestamp, "2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Convert(tc.kind, tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if want, ok := tc.want.(time.Time); ok {
				assert.True(t, want.Equal(got.(time.Time)), "got %v want %v", got, want)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRecordTree(t *testing.T) {
	root := NewRecord(RegisterEntry)
	root.Fields["register_number"] = "R004228"

	child := NewRecord("entry_details")
	child.Fields["legislation"] = "LobbyRG"
	child.Fields["version"] = int64(3)
	root.AddChild(child)
	root.AddChild(nil)

	require.Len(t, root.Children, 1)
	assert.Equal(t, "entry_details", root.Children[0].Entity)

	ref := NewRef(CodeLabel, "activity", "A01")
	root.SetRef("ignored_id", ref)
	root.SetRef("other_id", nil)
	require.Len(t, root.Refs, 1)
	assert.Equal(t, []string{"activity", "A01"}, root.Refs["ignored_id"].Key)
}
