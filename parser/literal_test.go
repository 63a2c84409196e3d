package parser_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/zonformat/zon/parser"
)

func TestParseCellLiteralRejectsExcessiveNestingDepth(t *testing.T) {
	deep := strings.Repeat("[", 110) + "1" + strings.Repeat("]", 110)
	_, err := parser.ParseCellLiteral(deep)
	if err != parser.ErrNestingTooDeep {
		t.Fatalf("ParseCellLiteral() error = %v, want ErrNestingTooDeep", err)
	}
}

func TestParseCellLiteralRejectsExcessiveArrayLength(t *testing.T) {
	big := "[" + strings.Repeat("0,", 1_000_000) + "0]"
	_, err := parser.ParseCellLiteral(big)
	if err != parser.ErrArrayTooLarge {
		t.Fatalf("ParseCellLiteral() error = %v, want ErrArrayTooLarge", err)
	}
}

func TestParseCellLiteralRejectsExcessiveObjectKeyCount(t *testing.T) {
	var b strings.Builder
	b.WriteByte('{')
	for i := 0; i <= 100000; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString("k")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(":0")
	}
	b.WriteByte('}')
	_, err := parser.ParseCellLiteral(b.String())
	if err != parser.ErrObjectTooLarge {
		t.Fatalf("ParseCellLiteral() error = %v, want ErrObjectTooLarge", err)
	}
}

func TestParseCellLiteralAcceptsNestedListAndMap(t *testing.T) {
	v, err := parser.ParseCellLiteral(`{a:[1,2],b:"x"}`)
	if err != nil {
		t.Fatalf("ParseCellLiteral() error = %v", err)
	}
	m, ok := v.Map()
	if !ok {
		t.Fatalf("ParseCellLiteral() did not produce a map")
	}
	a, ok := m["a"].List()
	if !ok || len(a) != 2 {
		t.Errorf("m[a] = %#v, want a 2-element list", m["a"])
	}
}
