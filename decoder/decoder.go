// Package decoder implements the ZON decoder driver of §4.5: header
// parsing, security limits, row/RLE/anchor reconstruction, and the
// strict/non-strict validation split of §7, grounded directly on
// original_source/zon-format/src/zon/decoder.py's _parse_rule / _calc_val
// / _unpack / _unflatten passes.
package decoder

import (
	"math"
	"strconv"
	"strings"

	"github.com/zonformat/zon/ast"
	"github.com/zonformat/zon/cellscan"
	"github.com/zonformat/zon/internal/dict"
	"github.com/zonformat/zon/internal/flatten"
	"github.com/zonformat/zon/internal/schema"
	"github.com/zonformat/zon/parser"
	"github.com/zonformat/zon/value"
	"github.com/zonformat/zon/zonerr"
)

const (
	maxDocBytes  = 100 * 1024 * 1024
	maxLineBytes = 1 * 1024 * 1024
)

type options struct {
	strict bool
}

// Option configures Decode, in the style of the teacher's constructor
// functions rather than a global config struct.
type Option func(*options)

// WithLenient disables strict-mode validation: a declared table row
// count that disagrees with the actual row count (E001) or a row whose
// field count disagrees with the schema's column count (E002) is
// tolerated instead of failing. Strict is the default, per the wire
// grammar's strict=true default.
func WithLenient() Option {
	return func(o *options) { o.strict = false }
}

// Decode parses ZON wire text back into a value.Value. It dispatches on
// the same three shapes Encode can produce: the empty list, a bare
// inline map (a single line with no leading '@'), and a full table
// header.
func Decode(text string, opts ...Option) (value.Value, error) {
	cfg := options{strict: true}
	for _, o := range opts {
		o(&cfg)
	}

	if len(text) > maxDocBytes {
		return value.Value{}, zonerr.NewDecodeError(zonerr.EDocTooLarge, "document exceeds the 100 MiB limit", 0, "")
	}

	text = strings.TrimRight(text, "\n")
	if text == "" || text == "[]" {
		return value.NewList(nil), nil
	}

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if len(l) > maxLineBytes {
			return value.Value{}, zonerr.NewDecodeError(zonerr.ELineTooLong, "line exceeds the 1 MiB limit", i+1, "")
		}
	}

	if !strings.HasPrefix(lines[0], "@") {
		return decodeInlineRow(lines[0])
	}
	return decodeTable(lines, cfg)
}

func decodeInlineRow(line string) (value.Value, error) {
	cells := cellscan.Split(line)
	keys := make([]string, 0, len(cells))
	vals := make(map[string]value.Value, len(cells))
	for _, cell := range cells {
		idx := strings.IndexByte(cell, ':')
		if idx < 0 {
			return value.Value{}, zonerr.NewDecodeError(zonerr.EFieldCount, "malformed inline field: "+cell, 1, "")
		}
		key := cell[:idx]
		lit, err := parser.ParseCellLiteral(cell[idx+1:])
		if err != nil {
			return value.Value{}, wrapLiteralErr(err, 1)
		}
		keys = append(keys, key)
		vals[key] = lit
	}
	return value.NewMap(flatten.Unflatten(keys, vals)), nil
}

func decodeTable(lines []string, cfg options) (value.Value, error) {
	header, errs := parser.ParseHeader(lines[0])
	if header == nil {
		return value.Value{}, zonerr.NewDecodeError(zonerr.ERowCount, "malformed header: "+strings.Join(errs, "; "), 1, "")
	}

	dataLines := lines[1:]

	if header.PureList != nil {
		return decodePureList(header.PureList, dataLines, cfg)
	}

	d := dict.FromStrings(header.Dict)
	cols := header.Schema.Columns
	declaredRows := header.Schema.RowCount

	prev := make(map[string]value.Value, len(cols))
	for _, c := range cols {
		prev[c.Name] = value.NewNull()
	}

	var rows []map[string]value.Value
	rowIdx := 0
	for i, raw := range dataLines {
		lineNo := i + 2
		if raw == "" {
			continue
		}
		if n, ok := parseRLE(raw); ok {
			for k := 0; k < n; k++ {
				row, err := reconstructRow(cols, nil, rowIdx, prev, d, lineNo)
				if err != nil {
					return value.Value{}, err
				}
				rows = append(rows, row)
				rowIdx++
			}
			continue
		}

		cellLine := raw
		if strings.HasPrefix(raw, "$") {
			sep := strings.IndexByte(raw, ':')
			if sep < 0 {
				return value.Value{}, zonerr.NewDecodeError(zonerr.ERowCount, "malformed anchor row", lineNo, "")
			}
			cellLine = raw[sep+1:]
		}
		cells := cellscan.Split(cellLine)

		if cfg.strict && len(cells) != len(cols) {
			return value.Value{}, zonerr.NewDecodeError(zonerr.EFieldCount, "row field count does not match schema column count", lineNo, "")
		}

		row, err := reconstructRow(cols, cells, rowIdx, prev, d, lineNo)
		if err != nil {
			return value.Value{}, err
		}
		rows = append(rows, row)
		rowIdx++
	}

	if cfg.strict && rowIdx != declaredRows {
		return value.Value{}, zonerr.NewDecodeError(zonerr.ERowCount, "declared row count does not match actual row count", 1, "")
	}

	items := make([]value.Value, len(rows))
	for i, r := range rows {
		items[i] = value.NewMap(r)
	}
	return value.NewList(items), nil
}

func decodePureList(pl *ast.PureListDecl, dataLines []string, cfg options) (value.Value, error) {
	var rows []value.Value
	for i, raw := range dataLines {
		lineNo := i + 2
		if raw == "" {
			continue
		}
		cells := cellscan.Split(raw)
		if cfg.strict && len(cells) != len(pl.Columns) {
			return value.Value{}, zonerr.NewDecodeError(zonerr.EFieldCount, "row field count does not match pure-list column count", lineNo, "")
		}
		keys := make([]string, 0, len(pl.Columns))
		vals := make(map[string]value.Value, len(pl.Columns))
		for ci, name := range pl.Columns {
			var cellStr string
			if ci < len(cells) {
				cellStr = cells[ci]
			}
			var lit value.Value
			if cellStr == "" {
				lit = value.NewNull()
			} else {
				var err error
				lit, err = parser.ParseCellLiteral(cellStr)
				if err != nil {
					return value.Value{}, wrapLiteralErr(err, lineNo)
				}
			}
			keys = append(keys, name)
			vals[name] = lit
		}
		rows = append(rows, value.NewMap(flatten.Unflatten(keys, vals)))
	}
	if cfg.strict && len(rows) != pl.Count {
		return value.Value{}, zonerr.NewDecodeError(zonerr.ERowCount, "declared row count does not match actual row count", 1, "")
	}
	return value.NewList(rows), nil
}

// reconstructRow decodes one logical row given its (possibly nil, for an
// RLE-predicted row) cell slice, applying each column's rule in the
// inverse direction of encoder.encodeCell, then unflattens the dotted
// key paths back into a nested map.
func reconstructRow(cols []ast.ColumnDecl, cells []string, rowIdx int, prev map[string]value.Value, d *dict.Dictionary, lineNo int) (map[string]value.Value, error) {
	keys := make([]string, len(cols))
	vals := make(map[string]value.Value, len(cols))

	for i, c := range cols {
		keys[i] = c.Name

		var cellStr string
		hasCell := cells != nil && i < len(cells) && cells[i] != ""
		if hasCell {
			cellStr = cells[i]
		}

		var v value.Value
		var err error
		switch rule := c.Rule.(type) {
		case ast.MultRule:
			v, err = decodeMult(rule, hasCell, cellStr, prev[c.Name], d, lineNo)
		case ast.EnumRule:
			v, err = decodeEnum(rule, hasCell, cellStr, prev[c.Name], d, lineNo)
		case ast.DeltaRule:
			v, err = decodeDelta(rule, rowIdx, hasCell, cellStr, prev[c.Name], d, lineNo)
		default:
			v, err = decodeGeneric(c.Rule, rowIdx, hasCell, cellStr, prev[c.Name], d, lineNo)
		}
		if err != nil {
			return nil, err
		}

		vals[c.Name] = v
		prev[c.Name] = v
	}

	return flatten.Unflatten(keys, vals), nil
}

func decodeMult(rule ast.MultRule, hasCell bool, cellStr string, prevVal value.Value, d *dict.Dictionary, lineNo int) (value.Value, error) {
	if !hasCell {
		return prevVal, nil
	}
	scaled, err := strconv.ParseInt(cellStr, 10, 64)
	if err != nil {
		return resolveLiteral(cellStr, d, lineNo)
	}
	return value.NewFloat(float64(scaled) / rule.Factor), nil
}

func decodeEnum(rule ast.EnumRule, hasCell bool, cellStr string, prevVal value.Value, d *dict.Dictionary, lineNo int) (value.Value, error) {
	if !hasCell {
		return prevVal, nil
	}
	idx, err := strconv.Atoi(cellStr)
	if err != nil || idx < 0 || idx >= len(rule.Values) {
		return resolveLiteral(cellStr, d, lineNo)
	}
	return rule.Values[idx], nil
}

// decodeDelta mirrors the original's _calc_val: row 0 carries the
// column's absolute value as a literal (never omitted); rows >= 1 carry
// the signed offset from the previous reconstructed value.
func decodeDelta(rule ast.DeltaRule, rowIdx int, hasCell bool, cellStr string, prevVal value.Value, d *dict.Dictionary, lineNo int) (value.Value, error) {
	if rowIdx == 0 {
		if !hasCell {
			return numberValue(rule.Base), nil
		}
		return resolveLiteral(cellStr, d, lineNo)
	}
	if !hasCell {
		return prevVal, nil
	}
	diff, ok := parseNumberLiteral(cellStr)
	if !ok {
		return resolveLiteral(cellStr, d, lineNo)
	}
	base, _ := prevVal.Number()
	return numberValue(base + diff), nil
}

// decodeGeneric handles SOLID, LIQUID, RANGE, PATTERN and VALUE: a
// predictable rule synthesises the omitted cell; a non-predictable one
// (SOLID) falls back to the previous row's value as a non-strict
// leniency for a malformed document, matching the original's _calc_val
// default.
func decodeGeneric(rule ast.RuleNode, rowIdx int, hasCell bool, cellStr string, prevVal value.Value, d *dict.Dictionary, lineNo int) (value.Value, error) {
	if !hasCell {
		if schema.Predictable(rule) {
			predicted, _ := schema.PredictValue(rule, rowIdx, prevVal)
			return predicted, nil
		}
		return prevVal, nil
	}
	return resolveLiteral(cellStr, d, lineNo)
}

func resolveLiteral(s string, d *dict.Dictionary, lineNo int) (value.Value, error) {
	if strings.HasPrefix(s, "%") {
		idx, err := strconv.Atoi(s[1:])
		if err != nil || idx < 0 || idx >= d.Len() {
			return value.Value{}, zonerr.NewDecodeError(zonerr.ERowCount, "invalid dictionary reference "+s, lineNo, "")
		}
		return value.NewString(d.Strings[idx]), nil
	}
	v, err := parser.ParseCellLiteral(s)
	if err != nil {
		return value.Value{}, wrapLiteralErr(err, lineNo)
	}
	return v, nil
}

func wrapLiteralErr(err error, lineNo int) error {
	switch err {
	case parser.ErrArrayTooLarge:
		return zonerr.NewDecodeError(zonerr.EArrayTooBig, err.Error(), lineNo, "")
	case parser.ErrObjectTooLarge:
		return zonerr.NewDecodeError(zonerr.EObjTooBig, err.Error(), lineNo, "")
	case parser.ErrNestingTooDeep:
		return zonerr.NewDecodeError(zonerr.EArrayTooBig, err.Error(), lineNo, "")
	default:
		return zonerr.NewDecodeError(zonerr.EFieldCount, err.Error(), lineNo, "")
	}
}

func parseRLE(line string) (int, bool) {
	if !strings.HasSuffix(line, "x") || len(line) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(line[:len(line)-1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func parseNumberLiteral(s string) (float64, bool) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(i), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return 0, false
}

func numberValue(f float64) value.Value {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return value.NewInt(int64(f))
	}
	return value.NewFloat(f)
}
