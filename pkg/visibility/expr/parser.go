package expr

import (
	"errors"
	"fmt"
	"strconv"
)

// node is a compiled expression.
type node interface {
	eval(lookup func(string) (any, bool)) bool
}

type orNode struct{ left, right node }

func (n orNode) eval(lookup func(string) (any, bool)) bool {
	return n.left.eval(lookup) || n.right.eval(lookup)
}

type andNode struct{ left, right node }

func (n andNode) eval(lookup func(string) (any, bool)) bool {
	return n.left.eval(lookup) && n.right.eval(lookup)
}

type notNode struct{ inner node }

func (n notNode) eval(lookup func(string) (any, bool)) bool {
	return !n.inner.eval(lookup)
}

type truthyNode struct{ ident string }

func (n truthyNode) eval(lookup func(string) (any, bool)) bool {
	value, _ := lookup(n.ident)
	return truthy(value)
}

type compareNode struct {
	ident   string
	negate  bool
	literal any // string, float64, bool or nil
}

func (n compareNode) eval(lookup func(string) (any, bool)) bool {
	value, _ := lookup(n.ident)
	var equal bool
	switch want := n.literal.(type) {
	case nil:
		equal = value == nil
	case bool:
		equal = toBool(value) == want
	case float64:
		got, _ := toNumber(value)
		equal = got == want
	case string:
		equal = toString(value) == want
	}
	return equal != n.negate
}

type parser struct {
	tokens []token
	pos    int
}

func parse(tokens []token) (node, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	p := &parser{tokens: tokens}
	n, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("expr: unexpected %q", p.tokens[p.pos].text)
	}
	return n, nil
}

func (p *parser) accept(kind tokenKind) (token, bool) {
	if p.pos < len(p.tokens) && p.tokens[p.pos].kind == kind {
		p.pos++
		return p.tokens[p.pos-1], true
	}
	return token{}, false
}

func (p *parser) or() (node, error) {
	left, err := p.and()
	for err == nil {
		if _, ok := p.accept(tokenOr); !ok {
			return left, nil
		}
		var right node
		if right, err = p.and(); err == nil {
			left = orNode{left, right}
		}
	}
	return nil, err
}

func (p *parser) and() (node, error) {
	left, err := p.unary()
	for err == nil {
		if _, ok := p.accept(tokenAnd); !ok {
			return left, nil
		}
		var right node
		if right, err = p.unary(); err == nil {
			left = andNode{left, right}
		}
	}
	return nil, err
}

func (p *parser) unary() (node, error) {
	if _, ok := p.accept(tokenNot); ok {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notNode{inner}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	if _, ok := p.accept(tokenLParen); ok {
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if _, ok := p.accept(tokenRParen); !ok {
			return nil, errors.New("expr: missing closing ')'")
		}
		return inner, nil
	}

	ident, ok := p.accept(tokenIdent)
	if !ok {
		if p.pos >= len(p.tokens) {
			return nil, errors.New("expr: unexpected end of expression")
		}
		return nil, fmt.Errorf("expr: expected a name, got %q", p.tokens[p.pos].text)
	}

	negate := false
	if _, ok := p.accept(tokenEq); !ok {
		if _, ok := p.accept(tokenNeq); !ok {
			return truthyNode{ident: ident.text}, nil
		}
		negate = true
	}
	literal, err := p.literal()
	if err != nil {
		return nil, err
	}
	return compareNode{ident: ident.text, negate: negate, literal: literal}, nil
}

func (p *parser) literal() (any, error) {
	if p.pos >= len(p.tokens) {
		return nil, errors.New("expr: missing value after comparison")
	}
	tok := p.tokens[p.pos]
	p.pos++
	switch tok.kind {
	case tokenString, tokenIdent:
		// bare words compare as strings: notification == text
		return tok.text, nil
	case tokenNumber:
		return strconv.ParseFloat(tok.text, 64)
	case tokenBool:
		return tok.text == "true", nil
	case tokenNull:
		return nil, nil
	default:
		return nil, fmt.Errorf("expr: expected a value, got %q", tok.text)
	}
}
