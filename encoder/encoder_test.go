package encoder_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zonformat/zon/encoder"
	"github.com/zonformat/zon/value"
)

func rowsOf(maps ...map[string]value.Value) value.Value {
	items := make([]value.Value, len(maps))
	for i, m := range maps {
		items[i] = value.NewMap(m)
	}
	return value.NewList(items)
}

func TestEncodeEmptyList(t *testing.T) {
	out, err := encoder.Encode(value.NewList(nil))
	require.NoError(t, err)
	require.Equal(t, "[]", out)
}

func TestEncodeBareMapIsInline(t *testing.T) {
	out, err := encoder.Encode(value.NewMap(map[string]value.Value{"value": value.NewInt(1000000)}))
	require.NoError(t, err)
	require.Equal(t, "value:1000000", out)
	require.NotContains(t, out, "\n")
}

func TestEncodeSingleRowListUsesTableMode(t *testing.T) {
	out, err := encoder.Encode(rowsOf(map[string]value.Value{"value": value.NewInt(1000000)}))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "@"), "single-row list must still use the table header, got %q", out)
}

func TestEncodeTableHeaderNamesSchemaRowCount(t *testing.T) {
	rows := []map[string]value.Value{
		{"id": value.NewInt(1)},
		{"id": value.NewInt(2)},
		{"id": value.NewInt(3)},
	}
	out, err := encoder.Encode(rowsOf(rows[0], rows[1], rows[2]))
	require.NoError(t, err)
	require.Contains(t, out, "schema[3]{id:R(1,1)}")
}

func TestEncodeRejectsNonObjectListElement(t *testing.T) {
	_, err := encoder.Encode(value.NewList([]value.Value{value.NewInt(1)}))
	require.Error(t, err)
}

func TestEncodeRejectsTopLevelScalar(t *testing.T) {
	_, err := encoder.Encode(value.NewInt(5))
	require.Error(t, err)
}

func TestEncodeDetectsCircularReference(t *testing.T) {
	m := map[string]value.Value{}
	m["self"] = value.NewMap(m)
	_, err := encoder.Encode(value.NewMap(m))
	require.Error(t, err)
	require.Contains(t, err.Error(), "circular")
}

func TestEncodeWithAnchorInterval(t *testing.T) {
	var rows []map[string]value.Value
	for i := 0; i < 5; i++ {
		rows = append(rows, map[string]value.Value{"name": value.NewString("fixed")})
	}
	out, err := encoder.Encode(rowsOf(rows...), encoder.WithAnchorInterval(2))
	require.NoError(t, err)
	require.Contains(t, out, ":@2")
	require.Contains(t, out, "$1:")
	require.Contains(t, out, "$2:")
	require.Contains(t, out, "$4:")
}
