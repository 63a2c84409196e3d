package parser

import (
	"errors"
	"fmt"

	"github.com/zonformat/zon/internal/pack"
	"github.com/zonformat/zon/lexer"
	"github.com/zonformat/zon/token"
	"github.com/zonformat/zon/value"
)

const (
	maxLiteralDepth  = 100
	maxLiteralArray  = 1_000_000
	maxLiteralObject = 100_000
)

// Sentinel errors ParseCellLiteral returns when a nested literal
// exceeds one of the security limits of §4.6. Callers map these to the
// wire-level error codes at the decoder boundary.
var (
	ErrNestingTooDeep = errors.New("nesting depth exceeds limit")
	ErrArrayTooLarge  = errors.New("array length exceeds limit")
	ErrObjectTooLarge = errors.New("object key count exceeds limit")
)

// ParseCellLiteral parses a single packed cell -- a scalar, a bracketed
// list, or a braced map, the same grammar internal/pack.Pack emits for
// a leaf value. List and map leaves are opaque to the column analyser,
// but the decoder still needs to turn their packed text back into a
// value.Value once a cell names one.
func ParseCellLiteral(s string) (value.Value, error) {
	p := New(lexer.New(s))
	return p.parseLiteralValue(0)
}

func (p *Parser) parseLiteralValue(depth int) (value.Value, error) {
	if depth > maxLiteralDepth {
		return value.Value{}, ErrNestingTooDeep
	}
	switch p.curToken.Type {
	case token.LBRACKET:
		return p.parseLiteralList(depth)
	case token.LBRACE:
		return p.parseLiteralMap(depth)
	case token.IDENT, token.STRING:
		return pack.Unpack(p.curToken.Literal), nil
	default:
		return value.Value{}, fmt.Errorf("unexpected token %s in literal", p.curToken.Type)
	}
}

func (p *Parser) parseLiteralList(depth int) (value.Value, error) {
	items := []value.Value{}
	if p.peekToken.Type == token.RBRACKET {
		p.nextToken() // curToken = ']'
		return value.NewList(items), nil
	}
	for {
		p.nextToken() // curToken = element's first token
		v, err := p.parseLiteralValue(depth + 1)
		if err != nil {
			return value.Value{}, err
		}
		items = append(items, v)
		if len(items) > maxLiteralArray {
			return value.Value{}, ErrArrayTooLarge
		}
		if p.peekToken.Type != token.COMMA {
			break
		}
		p.nextToken() // curToken = ','
	}
	if !p.expectPeek(token.RBRACKET) {
		return value.Value{}, errors.New("malformed list literal: expected ']'")
	}
	return value.NewList(items), nil
}

func (p *Parser) parseLiteralMap(depth int) (value.Value, error) {
	m := map[string]value.Value{}
	if p.peekToken.Type == token.RBRACE {
		p.nextToken() // curToken = '}'
		return value.NewMap(m), nil
	}
	for {
		if p.peekToken.Type != token.IDENT {
			return value.Value{}, errors.New("malformed map literal: expected key")
		}
		p.nextToken() // curToken = key
		key := p.curToken.Literal
		if !p.expectPeek(token.COLON) {
			return value.Value{}, errors.New("malformed map literal: expected ':'")
		}
		p.nextToken() // curToken = value's first token
		v, err := p.parseLiteralValue(depth + 1)
		if err != nil {
			return value.Value{}, err
		}
		m[key] = v
		if len(m) > maxLiteralObject {
			return value.Value{}, ErrObjectTooLarge
		}
		if p.peekToken.Type != token.COMMA {
			break
		}
		p.nextToken() // curToken = ','
	}
	if !p.expectPeek(token.RBRACE) {
		return value.Value{}, errors.New("malformed map literal: expected '}'")
	}
	return value.NewMap(m), nil
}
