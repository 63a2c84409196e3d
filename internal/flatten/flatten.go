// Package flatten implements the dotted-key flattening transform of
// §4.1: maps become flat, ordered key-path -> leaf rows for tabular
// emission, and back again on decode.
package flatten

import (
	"sort"
	"strings"

	"github.com/zonformat/zon/value"
)

// Row is an ordered flat row: dotted key path -> leaf value.
type Row struct {
	Keys   []string
	Values map[string]value.Value
}

func newRow() *Row {
	return &Row{Values: make(map[string]value.Value)}
}

func (r *Row) set(k string, v value.Value) {
	if _, exists := r.Values[k]; !exists {
		r.Keys = append(r.Keys, k)
	}
	r.Values[k] = v
}

// Flatten converts a map value into a flat row. A list value is kept as
// a leaf; it is never recursed into. A non-empty map value is recursed
// into with the dotted key path extended; an empty map becomes a leaf.
func Flatten(m map[string]value.Value) *Row {
	r := newRow()
	flattenInto(r, "", m)
	return r
}

func flattenInto(r *Row, prefix string, m map[string]value.Value) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := m[k]
		newKey := k
		if prefix != "" {
			newKey = prefix + "." + k
		}
		if sub, ok := v.Map(); ok && len(sub) > 0 {
			flattenInto(r, newKey, sub)
			continue
		}
		r.set(newKey, v)
	}
}

// Unflatten reverses Flatten: split each key on '.', walk/create
// intermediate maps, set the terminal leaf. On collision — an
// intermediate path segment already holds a non-map leaf — the newer
// key is silently dropped rather than overwriting, so malformed input
// never produces a type-inconsistent tree. Keys containing "__proto__"
// or a "constructor.prototype" segment pair are dropped entirely.
func Unflatten(keys []string, values map[string]value.Value) map[string]value.Value {
	root := make(map[string]value.Value)
	for _, k := range keys {
		v := values[k]
		parts := strings.Split(k, ".")
		if containsUnsafePath(parts) {
			continue
		}
		setPath(root, parts, v)
	}
	return root
}

func containsUnsafePath(parts []string) bool {
	for i, p := range parts {
		if p == "__proto__" {
			return true
		}
		if p == "constructor" && i+1 < len(parts) && parts[i+1] == "prototype" {
			return true
		}
	}
	return false
}

func setPath(root map[string]value.Value, parts []string, leaf value.Value) {
	cur := root
	for _, seg := range parts[:len(parts)-1] {
		existing, ok := cur[seg]
		if !ok {
			next := make(map[string]value.Value)
			cur[seg] = value.NewMap(next)
			cur = next
			continue
		}
		sub, isMap := existing.Map()
		if !isMap {
			return
		}
		cur = sub
	}
	last := parts[len(parts)-1]
	cur[last] = leaf
}
