// Package dict builds the global string dictionary of §4.3: a shared
// token table so repeated strings can be referenced as "%i" instead of
// spelled out in every row.
package dict

import (
	"sort"

	"github.com/zonformat/zon/value"
)

const maxEntries = 64

// Dictionary is the built dictionary plus the inverse lookup used while
// streaming rows.
type Dictionary struct {
	Strings []string
	index   map[string]int
}

// Index returns the dictionary slot for s; ok is false if s isn't present.
func (d *Dictionary) Index(s string) (int, bool) {
	i, ok := d.index[s]
	return i, ok
}

func (d *Dictionary) Len() int { return len(d.Strings) }

// Build counts every distinct string value (length >= 3) across the
// given rows and keeps a candidate iff its occurrence frequency f and
// length L satisfy f*(L-2) > L+5 -- the per-occurrence saving of a "%i"
// reference must exceed the dictionary entry's own cost. Candidates are
// sorted by frequency descending and truncated to the top 64; ties are
// broken by the string itself so Build is deterministic.
func Build(rows []map[string]value.Value) *Dictionary {
	freq := make(map[string]int)
	for _, row := range rows {
		for _, v := range row {
			if s, ok := v.String(); ok {
				freq[s]++
			}
		}
	}

	type candidate struct {
		s string
		f int
	}
	var candidates []candidate
	for s, f := range freq {
		l := len(s)
		if l < 3 {
			continue
		}
		if f*(l-2) > l+5 {
			candidates = append(candidates, candidate{s, f})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].f != candidates[j].f {
			return candidates[i].f > candidates[j].f
		}
		return candidates[i].s < candidates[j].s
	})
	if len(candidates) > maxEntries {
		candidates = candidates[:maxEntries]
	}

	strs := make([]string, len(candidates))
	idx := make(map[string]int, len(candidates))
	for i, c := range candidates {
		strs[i] = c.s
		idx[c.s] = i
	}
	return &Dictionary{Strings: strs, index: idx}
}

// FromStrings rebuilds a Dictionary from a decoded header's string list.
func FromStrings(strs []string) *Dictionary {
	idx := make(map[string]int, len(strs))
	for i, s := range strs {
		idx[s] = i
	}
	return &Dictionary{Strings: strs, index: idx}
}
