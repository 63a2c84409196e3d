// Package parser implements a recursive-descent parser for the ZON
// header grammar, turning a token stream from the lexer into an
// ast.Header.
package parser

import (
	"fmt"
	"strconv"

	"github.com/zonformat/zon/ast"
	"github.com/zonformat/zon/internal/pack"
	"github.com/zonformat/zon/lexer"
	"github.com/zonformat/zon/token"
)

// Parser consumes tokens from a Lexer and accumulates a list of
// human-readable parse errors rather than failing on the first one,
// following the lexer/parser split's usual shape: callers that need a
// hard failure wrap Errors() into a single structured error at the
// decoder boundary.
type Parser struct {
	l      *lexer.Lexer
	errors []string

	curToken  token.Token
	peekToken token.Token
}

// New creates a Parser over the given Lexer.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, errors: []string{}}
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the accumulated parse errors, if any.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekToken.Type == t {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) expectCur(t token.Type) bool {
	if p.curToken.Type == t {
		return true
	}
	p.curError(t)
	return false
}

func (p *Parser) peekError(t token.Type) {
	p.errors = append(p.errors, fmt.Sprintf("expected next token to be %s, got %s (%q) instead", t, p.peekToken.Type, p.peekToken.Literal))
}

func (p *Parser) curError(t token.Type) {
	p.errors = append(p.errors, fmt.Sprintf("expected token to be %s, got %s (%q) instead", t, p.curToken.Type, p.curToken.Literal))
}

// ParseHeader lexes and parses a single ZON header line.
func ParseHeader(line string) (*ast.Header, []string) {
	p := New(lexer.New(line))
	h := p.parseHeader()
	return h, p.errors
}

func (p *Parser) parseHeader() *ast.Header {
	if !p.expectCur(token.AT) {
		return nil
	}
	p.nextToken() // consume '@', curToken is now version/count bareword
	if p.curToken.Type != token.IDENT {
		p.errors = append(p.errors, fmt.Sprintf("expected version or count after '@', got %s", p.curToken.Type))
		return nil
	}
	firstLiteral := p.curToken.Literal

	if !p.expectPeek(token.COLON) {
		return nil
	}

	switch p.peekToken.Type {
	case token.HASH:
		p.nextToken() // curToken = HASH
		dict := p.parseDictCsv()
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken() // curToken = SCHEMA
		schema := p.parseSchema()
		if schema == nil {
			return nil
		}
		h := &ast.Header{Version: firstLiteral, Dict: dict, Schema: schema}
		p.parseOptionalAnchor(h)
		return h
	case token.SCHEMA:
		p.nextToken() // curToken = SCHEMA
		schema := p.parseSchema()
		if schema == nil {
			return nil
		}
		h := &ast.Header{Version: firstLiteral, Schema: schema}
		p.parseOptionalAnchor(h)
		return h
	default:
		// Pure-list short form: "@" int ":" col ("," col)*
		count, err := strconv.Atoi(firstLiteral)
		if err != nil {
			p.errors = append(p.errors, fmt.Sprintf("invalid pure-list column count %q", firstLiteral))
			return nil
		}
		p.nextToken() // curToken = first column IDENT
		cols := []string{}
		if p.curToken.Type == token.IDENT {
			cols = append(cols, p.curToken.Literal)
			for p.peekToken.Type == token.COMMA {
				p.nextToken() // consume comma
				if !p.expectPeek(token.IDENT) {
					return nil
				}
				cols = append(cols, p.curToken.Literal)
			}
		}
		return &ast.Header{PureList: &ast.PureListDecl{Count: count, Columns: cols}}
	}
}

// parseOptionalAnchor consumes a trailing ":@K" segment if present.
func (p *Parser) parseOptionalAnchor(h *ast.Header) {
	if p.peekToken.Type != token.COLON {
		return
	}
	p.nextToken() // curToken = COLON
	if !p.expectPeek(token.AT) {
		return
	}
	if !p.expectPeek(token.IDENT) {
		return
	}
	n, err := strconv.Atoi(p.curToken.Literal)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("invalid anchor interval %q", p.curToken.Literal))
		return
	}
	h.AnchorInterval = n
}

func (p *Parser) parseDictCsv() []string {
	// curToken == HASH
	p.nextToken()
	var out []string
	for {
		if p.curToken.Type != token.IDENT && p.curToken.Type != token.STRING {
			p.errors = append(p.errors, fmt.Sprintf("expected dictionary entry, got %s", p.curToken.Type))
			return out
		}
		v := pack.Unpack(p.curToken.Literal)
		s, _ := v.String()
		out = append(out, s)
		if p.peekToken.Type != token.COMMA {
			return out
		}
		p.nextToken() // consume comma
		p.nextToken() // curToken = next entry
	}
}

func (p *Parser) parseSchema() *ast.SchemaDecl {
	if !p.expectCur(token.SCHEMA) {
		return nil
	}
	if !p.expectPeek(token.LBRACKET) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	n, err := strconv.Atoi(p.curToken.Literal)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("invalid schema row count %q", p.curToken.Literal))
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken() // curToken = first column name, or RBRACE if empty

	decl := &ast.SchemaDecl{RowCount: n}
	if p.curToken.Type == token.RBRACE {
		return decl
	}
	for {
		col := p.parseColumnDecl()
		if col == nil {
			return nil
		}
		decl.Columns = append(decl.Columns, *col)
		if p.peekToken.Type != token.COMMA {
			break
		}
		p.nextToken() // consume comma
		p.nextToken() // curToken = next column name
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return decl
}

func (p *Parser) parseColumnDecl() *ast.ColumnDecl {
	if p.curToken.Type != token.IDENT {
		p.errors = append(p.errors, fmt.Sprintf("expected column name, got %s", p.curToken.Type))
		return nil
	}
	name := p.curToken.Literal
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken() // curToken = rule letter
	rule := p.parseRule()
	if rule == nil {
		return nil
	}
	return &ast.ColumnDecl{Name: name, Rule: rule}
}

func (p *Parser) parseRule() ast.RuleNode {
	if p.curToken.Type != token.IDENT {
		p.errors = append(p.errors, fmt.Sprintf("expected rule, got %s", p.curToken.Type))
		return nil
	}
	switch p.curToken.Literal {
	case "S":
		return ast.SolidRule{}
	case "L":
		return ast.LiquidRule{}
	case "R":
		return p.parseRangeRule()
	case "P":
		return p.parsePatternRule()
	case "M":
		return p.parseMultRule()
	case "E":
		return p.parseEnumRule()
	case "V":
		return p.parseValueRule()
	case "Δ": // Δ
		return p.parseDeltaRule()
	default:
		p.errors = append(p.errors, fmt.Sprintf("unknown column rule %q", p.curToken.Literal))
		return nil
	}
}

func (p *Parser) parseRangeRule() ast.RuleNode {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	start, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("invalid R start %q", p.curToken.Literal))
		return nil
	}
	if !p.expectPeek(token.COMMA) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	step, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("invalid R step %q", p.curToken.Literal))
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return ast.RangeRule{Start: start, Step: step}
}

func (p *Parser) parsePatternRule() ast.RuleNode {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if p.peekToken.Type != token.IDENT && p.peekToken.Type != token.STRING {
		p.peekError(token.IDENT)
		return nil
	}
	p.nextToken()
	tplVal := pack.Unpack(p.curToken.Literal)
	tpl, _ := tplVal.String()
	if p.curToken.Type == token.IDENT {
		tpl = p.curToken.Literal
	}
	if !p.expectPeek(token.COMMA) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	start, err := strconv.Atoi(p.curToken.Literal)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("invalid P start %q", p.curToken.Literal))
		return nil
	}
	if !p.expectPeek(token.COMMA) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	step, err := strconv.Atoi(p.curToken.Literal)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("invalid P step %q", p.curToken.Literal))
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return ast.PatternRule{Template: tpl, Start: start, Step: step}
}

func (p *Parser) parseMultRule() ast.RuleNode {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	factor, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("invalid M factor %q", p.curToken.Literal))
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return ast.MultRule{Factor: factor}
}

func (p *Parser) parseEnumRule() ast.RuleNode {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	var rule ast.EnumRule
	p.nextToken() // curToken = first value
	for {
		if p.curToken.Type != token.IDENT && p.curToken.Type != token.STRING {
			p.errors = append(p.errors, fmt.Sprintf("expected enum value, got %s", p.curToken.Type))
			return nil
		}
		rule.Values = append(rule.Values, pack.Unpack(p.curToken.Literal))
		if p.peekToken.Type != token.COMMA {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return rule
}

func (p *Parser) parseValueRule() ast.RuleNode {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if p.peekToken.Type != token.IDENT && p.peekToken.Type != token.STRING {
		p.peekError(token.IDENT)
		return nil
	}
	p.nextToken()
	def := pack.Unpack(p.curToken.Literal)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return ast.ValueRule{Default: def}
}

func (p *Parser) parseDeltaRule() ast.RuleNode {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	base, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errors = append(p.errors, fmt.Sprintf("invalid Δ base %q", p.curToken.Literal))
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return ast.DeltaRule{Base: base}
}
