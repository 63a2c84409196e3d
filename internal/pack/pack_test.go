package pack_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zonformat/zon/internal/pack"
	"github.com/zonformat/zon/value"
)

func TestNeedsQuote(t *testing.T) {
	cases := map[string]bool{
		"":           true,
		"null":       true,
		"T":          true,
		"F":          true,
		"hello":      false,
		"order-42":   false,
		"1.0.3":      false,
		"123":        true, // would be ambiguous with an integer
		"3.14":       true,
		"has space":  true,
		"has,comma":  true,
		"quote\"in":  true,
	}
	for s, want := range cases {
		require.Equalf(t, want, pack.NeedsQuote(s), "NeedsQuote(%q)", s)
	}
}

func TestPackStringRoundTrip(t *testing.T) {
	for _, s := range []string{"hello", "has space", "null", "T", "", "42", "ORD-001"} {
		packed := pack.PackString(s)
		got := pack.Unpack(packed)
		str, ok := got.String()
		require.True(t, ok)
		require.Equal(t, s, str)
	}
}

func TestPackFloatNeverUsesScientificNotation(t *testing.T) {
	require.Equal(t, "0.0001", pack.PackFloat(0.0001))
	require.Equal(t, "100000000", pack.PackFloat(1e8))
}

func TestPackScalarKinds(t *testing.T) {
	require.Equal(t, "null", pack.Pack(value.NewNull()))
	require.Equal(t, "T", pack.Pack(value.NewBool(true)))
	require.Equal(t, "F", pack.Pack(value.NewBool(false)))
	require.Equal(t, "42", pack.Pack(value.NewInt(42)))
}

func TestPackListAndMap(t *testing.T) {
	list := value.NewList([]value.Value{value.NewInt(1), value.NewString("a")})
	require.Equal(t, `[1,a]`, pack.Pack(list))

	m := value.NewMap(map[string]value.Value{"b": value.NewInt(2), "a": value.NewInt(1)})
	require.Equal(t, `{a:1,b:2}`, pack.Pack(m))
}

func TestUnpackExactCanonicalForms(t *testing.T) {
	require.True(t, pack.Unpack("null").IsNull())
	b, ok := pack.Unpack("T").Bool()
	require.True(t, ok)
	require.True(t, b)
	b, ok = pack.Unpack("F").Bool()
	require.True(t, ok)
	require.False(t, b)
}

func TestUnpackNumberPrecedesBooleanAlias(t *testing.T) {
	v := pack.Unpack("1")
	i, ok := v.Int()
	require.True(t, ok)
	require.Equal(t, int64(1), i)
}

func TestUnpackWiderAliasesForHandAuthoredInput(t *testing.T) {
	b, ok := pack.Unpack("true").Bool()
	require.True(t, ok)
	require.True(t, b)
	require.True(t, pack.Unpack("none").IsNull())
}
