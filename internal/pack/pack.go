// Package pack implements the ZON value packing/unpacking primitives of
// §4.7-4.8: canonical number formatting, string quoting, and the
// null/bool/number/string literal grammar shared by every cell position
// in the wire format (dictionary entries, rule arguments, row cells).
package pack

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/zonformat/zon/value"
)

// safeBareword matches strings that never need quoting on their own
// account (they still get quoted if they collide with a reserved literal).
var safeBareword = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

var reservedLiterals = map[string]bool{
	"null": true, "T": true, "F": true,
}

// NeedsQuote reports whether s must be wrapped in a quoted literal to
// round-trip: it fails the safe-bareword pattern, collides with a
// reserved literal, or would otherwise be ambiguous with a number.
func NeedsQuote(s string) bool {
	if s == "" {
		return true
	}
	if reservedLiterals[s] {
		return true
	}
	if !safeBareword.MatchString(s) {
		return true
	}
	if looksNumeric(s) {
		return true
	}
	return false
}

func looksNumeric(s string) bool {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	return false
}

// PackString renders s as a bareword when safe, otherwise as a
// JSON-style quoted literal (the codec borrows Go's encoding/json for
// the exact same escaping the reference encoder gets from Python's
// json.dumps).
func PackString(s string) string {
	if s == "" {
		return `""`
	}
	if !NeedsQuote(s) {
		return s
	}
	b, _ := json.Marshal(s)
	return string(b)
}

// PackInt renders an integer with no decimal point.
func PackInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// PackFloat renders a float in the shortest decimal form that
// round-trips to the same 64-bit value, never in scientific notation.
// Non-finite floats render as "null" (callers normally never see one,
// since value.NewFloat already normalises NaN/±Inf to Null).
func PackFloat(f float64) string {
	if f != f || f > 1.7976931348623157e+308 || f < -1.7976931348623157e+308 {
		return "null"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Pack renders a single Value as a wire literal. The List and Map forms
// appear wherever a flattened row holds a list leaf or an empty-map leaf:
// in table row cells and in inline rows (table rows flatten non-empty
// maps before Pack sees them, and lists stay opaque leaves).
func Pack(v value.Value) string {
	switch v.Kind() {
	case value.Null:
		return "null"
	case value.Bool:
		b, _ := v.Bool()
		if b {
			return "T"
		}
		return "F"
	case value.Int:
		i, _ := v.Int()
		return PackInt(i)
	case value.Float:
		f, _ := v.Float()
		return PackFloat(f)
	case value.String:
		s, _ := v.String()
		return PackString(s)
	case value.List:
		items, _ := v.List()
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = Pack(it)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case value.Map:
		m, _ := v.Map()
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+":"+Pack(m[k]))
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return "null"
	}
}

// Unpack is the inverse of Pack for scalar literals: a quoted-string
// unescape first, then the null/T/F aliases (exact canonical form), then
// integer, then float, then a wider case-insensitive alias set for
// hand-authored documents, finally a literal bareword.
func Unpack(tok string) value.Value {
	if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
		var s string
		if err := json.Unmarshal([]byte(tok), &s); err == nil {
			return value.NewString(s)
		}
	}
	switch tok {
	case "null":
		return value.NewNull()
	case "T":
		return value.NewBool(true)
	case "F":
		return value.NewBool(false)
	}
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return value.NewInt(i)
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return value.NewFloat(f)
	}
	switch strings.ToLower(tok) {
	case "none", "nil":
		return value.NewNull()
	case "true", "t", "yes":
		return value.NewBool(true)
	case "false", "f", "no":
		return value.NewBool(false)
	}
	return value.NewString(tok)
}
