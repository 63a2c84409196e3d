package ast

import (
	"strconv"
	"strings"

	"github.com/zonformat/zon/internal/pack"
	"github.com/zonformat/zon/value"
)

func itoa(i int) string { return strconv.Itoa(i) }

func formatNum(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return pack.PackFloat(f)
}

func packStr(s string) string   { return pack.PackString(s) }
func packValue(v value.Value) string { return pack.Pack(v) }

func joinPacked(strs []string) string {
	parts := make([]string, len(strs))
	for i, s := range strs {
		parts[i] = pack.PackString(s)
	}
	return strings.Join(parts, ",")
}
