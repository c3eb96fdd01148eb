// Package document holds small accessors over decoded register documents.
// The register API nests sections many levels deep and omits whole branches
// for fields a lobbyist never filled in, so every accessor treats a missing
// or mistyped container as absent. Scalar values are not interpreted here;
// the normalizer converts them against the catalog and reports violations.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Raw is a decoded JSON object.
type Raw = map[string]any

// Decode reads one JSON document. Numbers stay float64.
func Decode(r io.Reader) (Raw, error) {
	dec := json.NewDecoder(r)
	var doc Raw
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// Parse decodes a document held in memory.
func Parse(data []byte) (Raw, error) {
	return Decode(bytes.NewReader(data))
}

// Obj returns the object under key, or nil when absent or not an object.
func Obj(m Raw, key string) Raw {
	if m == nil {
		return nil
	}
	o, _ := m[key].(Raw)
	return o
}

// List returns the array under key, or nil when absent or not an array.
func List(m Raw, key string) []any {
	if m == nil {
		return nil
	}
	l, _ := m[key].([]any)
	return l
}

// Objs returns the array of objects under key, skipping non-object elements.
func Objs(m Raw, key string) []Raw {
	list := List(m, key)
	if list == nil {
		return nil
	}
	out := make([]Raw, 0, len(list))
	for _, el := range list {
		if o, ok := el.(Raw); ok {
			out = append(out, o)
		}
	}
	return out
}

// Value returns the raw value under key, nil when the document or key is
// absent.
func Value(m Raw, key string) any {
	if m == nil {
		return nil
	}
	return m[key]
}

// Path walks nested objects and returns the object at the end of the chain.
func Path(m Raw, keys ...string) Raw {
	for _, k := range keys {
		m = Obj(m, k)
		if m == nil {
			return nil
		}
	}
	return m
}
