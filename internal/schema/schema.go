// Package schema implements the entropy-tournament column analyser of
// §4.2: for each column, evaluate the eight candidate rules and pick
// the lowest-cost one, ties broken by the fixed evaluation order
// (RANGE, PATTERN, MULT, ENUM, VALUE, DELTA, LIQUID, SOLID). It also
// carries the rule-application function shared verbatim by the
// encoder's row-predictability check and the decoder's empty-cell
// synthesis, since both are the same computation applied in opposite
// directions.
package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/zonformat/zon/ast"
	"github.com/zonformat/zon/internal/pack"
	"github.com/zonformat/zon/value"
)

// Analyze picks one rule per key given the column's values across every
// row, in row order. vals[i] may be the zero value.Value (Null) for a
// row missing that key.
func Analyze(keys []string, columns map[string][]value.Value) []ast.ColumnDecl {
	decls := make([]ast.ColumnDecl, 0, len(keys))
	for _, k := range keys {
		decls = append(decls, ast.ColumnDecl{Name: k, Rule: analyzeColumn(columns[k])})
	}
	return decls
}

func analyzeColumn(vals []value.Value) ast.RuleNode {
	n := len(vals)
	var bestRule ast.RuleNode
	bestCost := math.Inf(1)

	if rule, cost, ok := tryRange(vals); ok && cost < bestCost {
		bestRule, bestCost = rule, cost
	}
	if rule, cost, ok := tryPattern(vals); ok && cost < bestCost {
		bestRule, bestCost = rule, cost
	}
	if rule, cost, ok := tryMult(vals); ok && cost < bestCost {
		bestRule, bestCost = rule, cost
	}
	if rule, cost, ok := tryEnum(vals); ok && cost < bestCost {
		bestRule, bestCost = rule, cost
	}
	if rule, cost, ok := tryValue(vals); ok && cost < bestCost {
		bestRule, bestCost = rule, cost
	}
	if rule, cost, ok := tryDelta(vals); ok && cost < bestCost {
		bestRule, bestCost = rule, cost
	}
	if rule, cost, ok := tryLiquid(vals); ok && cost < bestCost {
		bestRule, bestCost = rule, cost
	}
	if cost := solidCost(vals); bestRule == nil || cost < bestCost {
		bestRule, bestCost = ast.SolidRule{}, cost
	}
	_ = n
	return bestRule
}

func solidCost(vals []value.Value) float64 {
	total := 0.0
	for _, v := range vals {
		total += float64(len(pack.Pack(v)))
	}
	return total
}

func allNumeric(vals []value.Value) ([]float64, bool) {
	nums := make([]float64, len(vals))
	for i, v := range vals {
		f, ok := v.Number()
		if !ok {
			return nil, false
		}
		nums[i] = f
	}
	return nums, len(vals) > 0
}

// tryRange: RANGE(start, step) -- arithmetic progression, cost 0.
func tryRange(vals []value.Value) (ast.RuleNode, float64, bool) {
	if len(vals) < 2 {
		return nil, 0, false
	}
	nums, ok := allNumeric(vals)
	if !ok {
		return nil, 0, false
	}
	step := nums[1] - nums[0]
	if math.Abs(step) < 1e-9 {
		return nil, 0, false
	}
	for i := 1; i < len(nums); i++ {
		if math.Abs((nums[i]-nums[i-1])-step) > 1e-9 {
			return nil, 0, false
		}
	}
	return ast.RangeRule{Start: nums[0], Step: step}, 0, true
}

var patternDigits = regexp.MustCompile(`\d+`)

// tryPattern: PATTERN(template, start, step) -- zero-padded numeric run
// in an otherwise fixed string template, cost 0.
func tryPattern(vals []value.Value) (ast.RuleNode, float64, bool) {
	if len(vals) < 2 {
		return nil, 0, false
	}
	strs := make([]string, len(vals))
	for i, v := range vals {
		s, ok := v.String()
		if !ok {
			return nil, 0, false
		}
		strs[i] = s
	}
	if strs[0] == "" || strs[1] == "" {
		return nil, 0, false
	}
	loc := patternDigits.FindStringIndex(strs[0])
	if loc == nil {
		return nil, 0, false
	}
	prefix, suffix := strs[0][:loc[0]], strs[0][loc[1]:]
	digits := loc[1] - loc[0]
	start, err := strconv.Atoi(strs[0][loc[0]:loc[1]])
	if err != nil {
		return nil, 0, false
	}
	loc2 := patternDigits.FindStringIndex(strs[1])
	if loc2 == nil {
		return nil, 0, false
	}
	second, err := strconv.Atoi(strs[1][loc2[0]:loc2[1]])
	if err != nil {
		return nil, 0, false
	}
	step := second - start
	tpl := fmt.Sprintf("%s{:0%dd}%s", prefix, digits, suffix)

	limit := len(strs)
	if limit > 5 {
		limit = 5
	}
	for i := 0; i < limit; i++ {
		if strs[i] != formatPattern(tpl, start+i*step) {
			return nil, 0, false
		}
	}
	return ast.PatternRule{Template: tpl, Start: start, Step: step}, 0, true
}

var patternPlaceholder = regexp.MustCompile(`\{:0(\d+)d\}`)

func formatPattern(tpl string, n int) string {
	loc := patternPlaceholder.FindStringSubmatchIndex(tpl)
	if loc == nil {
		return tpl
	}
	digits, _ := strconv.Atoi(tpl[loc[2]:loc[3]])
	prefix, suffix := tpl[:loc[0]], tpl[loc[1]:]
	return fmt.Sprintf("%s%0*d%s", prefix, digits, n, suffix)
}

// FormatPattern is the exported form of the PATTERN cell formatter that
// PredictValue applies.
func FormatPattern(tpl string, n int) string { return formatPattern(tpl, n) }

const multFactor = 100.0

// tryMult: MULT(factor) -- a fixed-point float column, cost is the
// integer-digit length of the scaled value summed over all rows.
func tryMult(vals []value.Value) (ast.RuleNode, float64, bool) {
	if len(vals) == 0 {
		return nil, 0, false
	}
	cost := 0.0
	for _, v := range vals {
		f, ok := v.Float()
		if !ok {
			return nil, 0, false
		}
		scaled := f * multFactor
		if math.Abs(scaled-math.Round(scaled)) > 1e-6 {
			return nil, 0, false
		}
		cost += float64(len(strconv.FormatInt(int64(math.Round(scaled)), 10)))
	}
	return ast.MultRule{Factor: multFactor}, cost, true
}

// tryEnum: ENUM(values...) -- a small local dictionary, cost is the
// header's packed-value cost plus ~1.5 digits per row, beating literal
// emission.
func tryEnum(vals []value.Value) (ast.RuleNode, float64, bool) {
	if len(vals) == 0 {
		return nil, 0, false
	}
	seen := map[string]bool{}
	var uniq []value.Value
	explicitCost := 0.0
	for _, v := range vals {
		if v.IsNull() {
			return nil, 0, false
		}
		if _, isList := v.List(); isList {
			return nil, 0, false
		}
		if _, isMap := v.Map(); isMap {
			return nil, 0, false
		}
		key := pack.Pack(v)
		explicitCost += float64(len(key))
		if !seen[key] {
			seen[key] = true
			uniq = append(uniq, v)
		}
	}
	if len(uniq) < 2 || len(uniq) > 15 {
		return nil, 0, false
	}
	headerCost := 0.0
	for _, v := range uniq {
		headerCost += float64(len(pack.Pack(v)))
	}
	streamCost := float64(len(vals)) * 1.5
	total := headerCost + streamCost
	if total >= explicitCost {
		return nil, 0, false
	}
	return ast.EnumRule{Values: uniq}, total, true
}

// tryValue: VALUE(default) -- a sparse default occupying >=60% of rows.
func tryValue(vals []value.Value) (ast.RuleNode, float64, bool) {
	if len(vals) == 0 {
		return nil, 0, false
	}
	counts := map[string]int{}
	samples := map[string]value.Value{}
	for _, v := range vals {
		if _, isList := v.List(); isList {
			continue
		}
		if _, isMap := v.Map(); isMap {
			continue
		}
		key := pack.Pack(v)
		counts[key]++
		samples[key] = v
	}
	bestKey, bestCount := "", 0
	for k, c := range counts {
		if c > bestCount || (c == bestCount && k < bestKey) {
			bestKey, bestCount = k, c
		}
	}
	if bestCount == 0 || float64(bestCount)/float64(len(vals)) < 0.6 {
		return nil, 0, false
	}
	cost := float64(len(vals)-bestCount) * float64(len(bestKey))
	return ast.ValueRule{Default: samples[bestKey]}, cost, true
}

// tryDelta: DELTA(base) -- numeric differential, cost is the average
// decimal length of consecutive differences times the row count.
func tryDelta(vals []value.Value) (ast.RuleNode, float64, bool) {
	if len(vals) < 2 {
		return nil, 0, false
	}
	nums, ok := allNumeric(vals)
	if !ok {
		return nil, 0, false
	}
	diffSum, valSum := 0, 0
	for i := 1; i < len(nums); i++ {
		diffSum += len(strconv.FormatInt(int64(nums[i]-nums[i-1]), 10))
	}
	for _, v := range nums {
		valSum += len(strconv.FormatInt(int64(v), 10))
	}
	avgDiff := float64(diffSum) / float64(len(nums)-1)
	avgVal := float64(valSum) / float64(len(nums))
	if avgDiff >= avgVal-1 {
		return nil, 0, false
	}
	return ast.DeltaRule{Base: nums[0]}, avgDiff * float64(len(vals)), true
}

// tryLiquid: LIQUID -- predict the previous row's value, cost is 5
// characters per non-repeated row.
func tryLiquid(vals []value.Value) (ast.RuleNode, float64, bool) {
	if len(vals) == 0 {
		return nil, 0, false
	}
	seen := map[string]bool{}
	for _, v := range vals {
		seen[pack.Pack(v)] = true
	}
	if float64(len(seen))/float64(len(vals)) >= 0.5 {
		return nil, 0, false
	}
	repeats := 0
	for i := 1; i < len(vals); i++ {
		if pack.Pack(vals[i]) == pack.Pack(vals[i-1]) {
			repeats++
		}
	}
	cost := float64(len(vals)-repeats) * 5
	return ast.LiquidRule{}, cost, true
}

// Predictable reports whether a rule can ever cause a cell to be
// omitted on a non-anchor row. Only RANGE, PATTERN, LIQUID and VALUE
// predict; SOLID/MULT/ENUM/DELTA always write a literal cell.
func Predictable(rule ast.RuleNode) bool {
	switch rule.(type) {
	case ast.RangeRule, ast.PatternRule, ast.LiquidRule, ast.ValueRule:
		return true
	default:
		return false
	}
}

// PredictValue computes the value a predictable rule yields at row
// index idx given the previous row's reconstructed value. ok is false
// for a non-predictable rule.
func PredictValue(rule ast.RuleNode, idx int, prev value.Value) (value.Value, bool) {
	switch r := rule.(type) {
	case ast.RangeRule:
		raw := r.Start + float64(idx)*r.Step
		return numberValue(raw), true
	case ast.PatternRule:
		return value.NewString(formatPattern(r.Template, r.Start+idx*r.Step)), true
	case ast.LiquidRule:
		return prev, true
	case ast.ValueRule:
		return r.Default, true
	default:
		return value.Value{}, false
	}
}

func numberValue(f float64) value.Value {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return value.NewInt(int64(f))
	}
	return value.NewFloat(f)
}
