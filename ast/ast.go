// Package ast holds the parsed form of a ZON header line: one struct
// per grammar production, mirroring the shape of a hand-written
// recursive-descent AST.
package ast

import "github.com/zonformat/zon/value"

// Node is implemented by every AST node.
type Node interface {
	String() string
}

// Header is the root node: either a full table header or the pure-list
// short form.
type Header struct {
	Version        string
	Dict           []string // decoded dictionary strings, in declared order
	Schema         *SchemaDecl
	AnchorInterval int // 0 means "not present"; String() then omits the segment

	// PureList holds the "@N:col,col,..." short-form header, used when
	// Schema is nil.
	PureList *PureListDecl
}

func (h *Header) String() string {
	if h.PureList != nil {
		return h.PureList.String()
	}
	s := "@" + h.Version
	if len(h.Dict) > 0 {
		s += ":#" + joinPacked(h.Dict)
	}
	s += ":" + h.Schema.String()
	if h.AnchorInterval > 0 {
		s += ":@" + itoa(h.AnchorInterval)
	}
	return s
}

// PureListDecl is the "@N:col,col,..." short form naming N columns with
// no rule information.
type PureListDecl struct {
	Count   int
	Columns []string
}

func (p *PureListDecl) String() string {
	s := "@" + itoa(p.Count) + ":"
	for i, c := range p.Columns {
		if i > 0 {
			s += ","
		}
		s += c
	}
	return s
}

// SchemaDecl is the "schema[N]{col:rule,...}" segment.
type SchemaDecl struct {
	RowCount int
	Columns  []ColumnDecl
}

func (s *SchemaDecl) String() string {
	out := "schema[" + itoa(s.RowCount) + "]{"
	for i, c := range s.Columns {
		if i > 0 {
			out += ","
		}
		out += c.Name + ":" + c.Rule.String()
	}
	return out + "}"
}

// ColumnDecl pairs a column name with its chosen rule.
type ColumnDecl struct {
	Name string
	Rule RuleNode
}

// RuleNode is implemented by every column-rule grammar production.
type RuleNode interface {
	Node
	ruleNode()
}

// SolidRule: literal emission every row, no prediction.
type SolidRule struct{}

func (SolidRule) String() string { return "S" }
func (SolidRule) ruleNode()      {}

// LiquidRule: predict the previous row's value.
type LiquidRule struct{}

func (LiquidRule) String() string { return "L" }
func (LiquidRule) ruleNode()      {}

// RangeRule: arithmetic progression, value = Start + i*Step.
type RangeRule struct {
	Start float64
	Step  float64
}

func (r RangeRule) String() string { return "R(" + formatNum(r.Start) + "," + formatNum(r.Step) + ")" }
func (RangeRule) ruleNode()        {}

// PatternRule: a zero-padded numeric run embedded in a fixed template,
// e.g. "ORD-{:03d}" starting at Start and incrementing by Step.
type PatternRule struct {
	Template string
	Start    int
	Step     int
}

func (p PatternRule) String() string {
	return "P(" + packStr(p.Template) + "," + itoa(p.Start) + "," + itoa(p.Step) + ")"
}
func (PatternRule) ruleNode() {}

// MultRule: value = token / Factor.
type MultRule struct {
	Factor float64
}

func (m MultRule) String() string { return "M(" + formatNum(m.Factor) + ")" }
func (MultRule) ruleNode()        {}

// EnumRule: a small local dictionary of distinct values, referenced by
// index in the row stream.
type EnumRule struct {
	Values []value.Value
}

func (e EnumRule) String() string {
	out := "E("
	for i, v := range e.Values {
		if i > 0 {
			out += ","
		}
		out += packValue(v)
	}
	return out + ")"
}
func (EnumRule) ruleNode() {}

// ValueRule: predict a fixed default value.
type ValueRule struct {
	Default value.Value
}

func (v ValueRule) String() string { return "V(" + packValue(v.Default) + ")" }
func (ValueRule) ruleNode()        {}

// DeltaRule: row 0 is the absolute Base value; later rows are offsets
// from the previous row's reconstructed value.
type DeltaRule struct {
	Base float64
}

func (d DeltaRule) String() string { return "Δ(" + formatNum(d.Base) + ")" }
func (DeltaRule) ruleNode()        {}
