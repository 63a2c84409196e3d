package flatten_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zonformat/zon/internal/flatten"
	"github.com/zonformat/zon/value"
)

func TestFlattenNestedMap(t *testing.T) {
	m := map[string]value.Value{
		"name": value.NewString("ACME"),
		"address": value.NewMap(map[string]value.Value{
			"city": value.NewString("Springfield"),
			"zip":  value.NewString("00000"),
		}),
	}
	row := flatten.Flatten(m)
	require.Equal(t, []string{"address.city", "address.zip", "name"}, row.Keys)
	s, _ := row.Values["address.city"].String()
	require.Equal(t, "Springfield", s)
}

func TestFlattenListLeafNotRecursed(t *testing.T) {
	m := map[string]value.Value{
		"tags": value.NewList([]value.Value{value.NewString("a"), value.NewString("b")}),
	}
	row := flatten.Flatten(m)
	require.Equal(t, []string{"tags"}, row.Keys)
}

func TestFlattenEmptyMapIsLeaf(t *testing.T) {
	m := map[string]value.Value{"meta": value.NewMap(nil)}
	row := flatten.Flatten(m)
	require.Equal(t, []string{"meta"}, row.Keys)
	got, ok := row.Values["meta"].Map()
	require.True(t, ok)
	require.Len(t, got, 0)
}

func TestUnflattenRebuildsNesting(t *testing.T) {
	keys := []string{"address.city", "name"}
	vals := map[string]value.Value{
		"address.city": value.NewString("Springfield"),
		"name":          value.NewString("ACME"),
	}
	got := flatten.Unflatten(keys, vals)
	addr, ok := got["address"].Map()
	require.True(t, ok)
	city, _ := addr["city"].String()
	require.Equal(t, "Springfield", city)
}

func TestUnflattenDropsOnIntermediateCollision(t *testing.T) {
	keys := []string{"a", "a.b"}
	vals := map[string]value.Value{
		"a":   value.NewString("leaf"),
		"a.b": value.NewString("nested"),
	}
	got := flatten.Unflatten(keys, vals)
	s, ok := got["a"].String()
	require.True(t, ok)
	require.Equal(t, "leaf", s)
}

func TestUnflattenDropsUnsafePaths(t *testing.T) {
	keys := []string{"__proto__.polluted", "constructor.prototype.polluted", "safe"}
	vals := map[string]value.Value{
		"__proto__.polluted":             value.NewString("x"),
		"constructor.prototype.polluted": value.NewString("x"),
		"safe":                            value.NewString("ok"),
	}
	got := flatten.Unflatten(keys, vals)
	require.Len(t, got, 1)
	s, ok := got["safe"].String()
	require.True(t, ok)
	require.Equal(t, "ok", s)
}
