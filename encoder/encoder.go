// Package encoder implements the ZON encoder driver of §4.4: schema
// header emission, row streaming with run-length folding and anchors,
// and the visiting-set cycle guard from §9.
package encoder

import (
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/zonformat/zon/ast"
	"github.com/zonformat/zon/internal/dict"
	"github.com/zonformat/zon/internal/flatten"
	"github.com/zonformat/zon/internal/pack"
	"github.com/zonformat/zon/internal/schema"
	"github.com/zonformat/zon/value"
	"github.com/zonformat/zon/zonerr"
)

const (
	defaultAnchorInterval = 100
	version               = "1.0.3"
)

type options struct {
	anchorInterval int
}

// Option configures Encode, in the style of the teacher's constructor
// functions (lexer.New, parser.New) rather than a global config struct.
type Option func(*options)

// WithAnchorInterval sets the row interval at which the encoder emits a
// full anchor row instead of a predicted/empty one. Default 100.
func WithAnchorInterval(k int) Option {
	return func(o *options) {
		if k > 0 {
			o.anchorInterval = k
		}
	}
}

// Encode serialises v to its ZON wire text. v must be a list (of maps,
// table mode) or a bare map (inline mode); any other top-level shape
// returns an *zonerr.EncodeError. A cyclic input — detected with a
// visiting-set walk before any output is produced — fails with
// ErrCircularReference.
func Encode(v value.Value, opts ...Option) (string, error) {
	cfg := options{anchorInterval: defaultAnchorInterval}
	for _, o := range opts {
		o(&cfg)
	}

	if err := detectCycle(v, map[uintptr]bool{}); err != nil {
		return "", err
	}

	switch v.Kind() {
	case value.List:
		items, _ := v.List()
		if len(items) == 0 {
			return "[]", nil
		}
		rows := make([]map[string]value.Value, len(items))
		for i, it := range items {
			m, ok := it.Map()
			if !ok {
				return "", zonerr.ErrUnsupportedType("list element is not an object")
			}
			rows[i] = m
		}
		return encodeTable(rows, cfg.anchorInterval)
	case value.Map:
		m, _ := v.Map()
		return encodeInlineRow(flatten.Flatten(m)), nil
	default:
		return "", zonerr.ErrUnsupportedType(v.Kind().String())
	}
}

func detectCycle(v value.Value, visiting map[uintptr]bool) error {
	switch v.Kind() {
	case value.Map:
		m, _ := v.Map()
		if len(m) == 0 {
			return nil
		}
		ptr := reflect.ValueOf(m).Pointer()
		if visiting[ptr] {
			return zonerr.ErrCircularReference()
		}
		visiting[ptr] = true
		for _, sub := range m {
			if err := detectCycle(sub, visiting); err != nil {
				return err
			}
		}
		delete(visiting, ptr)
	case value.List:
		items, _ := v.List()
		if len(items) == 0 {
			return nil
		}
		ptr := reflect.ValueOf(items).Pointer()
		if visiting[ptr] {
			return zonerr.ErrCircularReference()
		}
		visiting[ptr] = true
		for _, sub := range items {
			if err := detectCycle(sub, visiting); err != nil {
				return err
			}
		}
		delete(visiting, ptr)
	}
	return nil
}

func encodeInlineRow(row *flatten.Row) string {
	parts := make([]string, len(row.Keys))
	for i, k := range row.Keys {
		parts[i] = k + ":" + pack.Pack(row.Values[k])
	}
	return strings.Join(parts, ",")
}

func encodeTable(rawRows []map[string]value.Value, anchorInterval int) (string, error) {
	flatRows := make([]*flatten.Row, len(rawRows))
	for i, r := range rawRows {
		flatRows[i] = flatten.Flatten(r)
	}

	keySet := map[string]bool{}
	for _, r := range flatRows {
		for _, k := range r.Keys {
			keySet[k] = true
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	columns := make(map[string][]value.Value, len(keys))
	for _, k := range keys {
		vals := make([]value.Value, len(flatRows))
		for i, r := range flatRows {
			if v, ok := r.Values[k]; ok {
				vals[i] = v
			} else {
				vals[i] = value.NewNull()
			}
		}
		columns[k] = vals
	}

	rowMaps := make([]map[string]value.Value, len(flatRows))
	for i, r := range flatRows {
		rowMaps[i] = r.Values
	}
	d := dict.Build(rowMaps)

	cols := schema.Analyze(keys, columns)

	header := &ast.Header{
		Version: version,
		Dict:    d.Strings,
		Schema: &ast.SchemaDecl{
			RowCount: len(flatRows),
			Columns:  cols,
		},
		AnchorInterval: anchorInterval,
	}

	var out strings.Builder
	out.WriteString(header.String())

	prev := make(map[string]value.Value, len(keys))
	for _, k := range keys {
		prev[k] = value.NewNull()
	}
	pendingRLE := 0

	for i := range flatRows {
		isAnchor := i == 0 || (i+1)%anchorInterval == 0
		isPredictable := !isAnchor
		if isPredictable {
			for _, c := range cols {
				val := columns[c.Name][i]
				if !schema.Predictable(c.Rule) {
					isPredictable = false
					break
				}
				predicted, _ := schema.PredictValue(c.Rule, i, prev[c.Name])
				if !value.Equal(val, predicted) {
					isPredictable = false
					break
				}
			}
		}

		if isPredictable {
			pendingRLE++
			for _, k := range keys {
				prev[k] = columns[k][i]
			}
			continue
		}

		if pendingRLE > 0 {
			out.WriteByte('\n')
			out.WriteString(strconv.Itoa(pendingRLE))
			out.WriteByte('x')
			pendingRLE = 0
		}

		cells := make([]string, len(cols))
		for ci, c := range cols {
			val := columns[c.Name][i]
			cells[ci] = encodeCell(c, val, i, prev[c.Name], isAnchor, d)
		}

		out.WriteByte('\n')
		if isAnchor {
			out.WriteByte('$')
			out.WriteString(strconv.Itoa(i + 1))
			out.WriteByte(':')
		}
		out.WriteString(strings.Join(cells, ","))

		for _, k := range keys {
			prev[k] = columns[k][i]
		}
	}

	if pendingRLE > 0 {
		out.WriteByte('\n')
		out.WriteString(strconv.Itoa(pendingRLE))
		out.WriteByte('x')
	}

	return out.String(), nil
}

func encodeCell(col ast.ColumnDecl, val value.Value, idx int, prev value.Value, isAnchor bool, d *dict.Dictionary) string {
	var literal string
	switch rule := col.Rule.(type) {
	case ast.MultRule:
		if f, ok := val.Float(); ok {
			scaled := f * rule.Factor
			literal = strconv.Itoa(int(round(scaled)))
		} else {
			literal = pack.Pack(val)
		}
	case ast.EnumRule:
		if idx := enumIndex(rule, val); idx >= 0 {
			literal = strconv.Itoa(idx)
		} else {
			literal = pack.Pack(val)
		}
	case ast.DeltaRule:
		if idx > 0 {
			if pv, ok := prev.Number(); ok {
				if cv, ok := val.Number(); ok {
					literal = formatDelta(cv - pv)
				} else {
					literal = pack.Pack(val)
				}
			} else {
				literal = pack.Pack(val)
			}
		} else {
			literal = pack.Pack(val)
		}
	default:
		if s, ok := val.String(); ok {
			if i, found := d.Index(s); found {
				literal = "%" + strconv.Itoa(i)
			} else {
				literal = pack.Pack(val)
			}
		} else {
			literal = pack.Pack(val)
		}
	}

	if isAnchor || !schema.Predictable(col.Rule) {
		return literal
	}
	predicted, _ := schema.PredictValue(col.Rule, idx, prev)
	if value.Equal(val, predicted) {
		return ""
	}
	return literal
}

func enumIndex(rule ast.EnumRule, val value.Value) int {
	want := pack.Pack(val)
	for i, v := range rule.Values {
		if pack.Pack(v) == want {
			return i
		}
	}
	return -1
}

func formatDelta(d float64) string {
	if d == float64(int64(d)) {
		return strconv.Itoa(int(d))
	}
	return pack.PackFloat(d)
}

func round(f float64) float64 {
	if f >= 0 {
		return float64(int64(f + 0.5))
	}
	return float64(int64(f - 0.5))
}

