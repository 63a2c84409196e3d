package zon_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	zon "github.com/zonformat/zon"
	"github.com/zonformat/zon/value"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	v := value.NewMap(map[string]value.Value{"name": value.NewString("ACME")})
	doc, err := zon.Encode(v)
	require.NoError(t, err)
	got, err := zon.Decode(doc)
	require.NoError(t, err)
	require.True(t, value.Equal(v, got))
}

func TestDecodeIsStrictByDefault(t *testing.T) {
	_, err := zon.Decode("@1.0.3:schema[1]{id:S}:@100\n1\n2")
	require.Error(t, err)
}

func TestWithLenientOptionIsWired(t *testing.T) {
	got, err := zon.Decode("@1.0.3:schema[1]{id:S}:@100\n1\n2", zon.WithLenient())
	require.NoError(t, err)
	items, _ := got.List()
	require.Len(t, items, 2)
}

func TestWithAnchorIntervalOptionIsWired(t *testing.T) {
	v := value.NewList([]value.Value{
		value.NewMap(map[string]value.Value{"id": value.NewInt(1)}),
		value.NewMap(map[string]value.Value{"id": value.NewInt(2)}),
	})
	doc, err := zon.Encode(v, zon.WithAnchorInterval(1))
	require.NoError(t, err)
	require.Contains(t, doc, ":@1")
}
