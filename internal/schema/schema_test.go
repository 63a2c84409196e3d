package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zonformat/zon/ast"
	"github.com/zonformat/zon/internal/schema"
	"github.com/zonformat/zon/value"
)

func ints(vs ...int64) []value.Value {
	out := make([]value.Value, len(vs))
	for i, v := range vs {
		out[i] = value.NewInt(v)
	}
	return out
}

func TestAnalyzePicksRangeForArithmeticProgression(t *testing.T) {
	cols := schema.Analyze([]string{"id"}, map[string][]value.Value{
		"id": ints(1, 2, 3, 4, 5),
	})
	require.Len(t, cols, 1)
	rule, ok := cols[0].Rule.(ast.RangeRule)
	require.True(t, ok, "expected RangeRule, got %T", cols[0].Rule)
	require.Equal(t, 1.0, rule.Start)
	require.Equal(t, 1.0, rule.Step)
}

func TestAnalyzePicksPatternForZeroPaddedTemplate(t *testing.T) {
	vals := []value.Value{
		value.NewString("ORD-001"),
		value.NewString("ORD-002"),
		value.NewString("ORD-003"),
	}
	cols := schema.Analyze([]string{"order"}, map[string][]value.Value{"order": vals})
	rule, ok := cols[0].Rule.(ast.PatternRule)
	require.True(t, ok, "expected PatternRule, got %T", cols[0].Rule)
	require.Equal(t, 1, rule.Start)
	require.Equal(t, 1, rule.Step)
}

func TestAnalyzePicksEnumForSmallDistinctSet(t *testing.T) {
	vals := make([]value.Value, 0, 20)
	statuses := []string{"active", "inactive", "pending"}
	for i := 0; i < 20; i++ {
		vals = append(vals, value.NewString(statuses[i%len(statuses)]))
	}
	cols := schema.Analyze([]string{"status"}, map[string][]value.Value{"status": vals})
	_, ok := cols[0].Rule.(ast.EnumRule)
	require.True(t, ok, "expected EnumRule, got %T", cols[0].Rule)
}

func TestAnalyzePicksSolidForHighEntropyColumn(t *testing.T) {
	vals := []value.Value{
		value.NewString("a1b2c3"),
		value.NewString("zz9yy8"),
		value.NewString("m0n1o2"),
	}
	cols := schema.Analyze([]string{"token"}, map[string][]value.Value{"token": vals})
	_, ok := cols[0].Rule.(ast.SolidRule)
	require.True(t, ok, "expected SolidRule, got %T", cols[0].Rule)
}

func TestPredictableAndPredictValueForRange(t *testing.T) {
	rule := ast.RangeRule{Start: 10, Step: 5}
	require.True(t, schema.Predictable(rule))
	v, ok := schema.PredictValue(rule, 2, value.NewNull())
	require.True(t, ok)
	i, _ := v.Int()
	require.Equal(t, int64(20), i)
}

func TestPredictValueForLiquidReturnsPrevious(t *testing.T) {
	rule := ast.LiquidRule{}
	prev := value.NewString("hello")
	v, ok := schema.PredictValue(rule, 3, prev)
	require.True(t, ok)
	require.True(t, value.Equal(prev, v))
}

func TestSolidAndMultAreNeverPredictable(t *testing.T) {
	require.False(t, schema.Predictable(ast.SolidRule{}))
	require.False(t, schema.Predictable(ast.MultRule{Factor: 100}))
	require.False(t, schema.Predictable(ast.DeltaRule{Base: 0}))
}
