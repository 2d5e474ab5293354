// Copyright 2025 Upbound Inc.
// All rights reserved

package platform

import (
	"strings"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
)

const (
	errEmptyExpression  = "empty cfg expression"
	errUnexpectedToken  = "unexpected token in cfg expression"
	errUnterminatedExpr = "unterminated cfg expression"
	errExpectedComma    = "expected ',' between cfg predicates"
)

// Parse parses a cfg-expression, e.g. `cfg(target_os = "linux")`,
// `cfg(any(unix, windows))`, or a bare triple such as
// `x86_64-unknown-linux-gnu`, which is equivalent to `target = "<triple>"`.
func Parse(s string) (Expr, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, errors.New(errEmptyExpression)
	}

	if !strings.HasPrefix(trimmed, "cfg(") {
		// Bare triple.
		return &predicate{key: "target", value: trimmed, hasValue: true}, nil
	}

	p := &parser{input: trimmed}
	if !p.consume("cfg(") {
		return nil, errors.New(errUnexpectedToken)
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.consume(")") {
		return nil, errors.New(errUnterminatedExpr)
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, errors.New(errUnexpectedToken)
	}
	return e, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n') {
		p.pos++
	}
}

func (p *parser) consume(tok string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.input[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *parser) peekIdent() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '(' || c == ')' || c == ',' || c == '=' || c == ' ' || c == '\t' || c == '\n' {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) parseExpr() (Expr, error) {
	p.skipSpace()
	ident := p.peekIdent()
	switch ident {
	case "":
		return nil, errors.New(errUnexpectedToken)
	case "all":
		return p.parseCombinator(func(inner []Expr) Expr { return &allExpr{inner: inner} })
	case "any":
		return p.parseCombinator(func(inner []Expr) Expr { return &anyExpr{inner: inner} })
	case "not":
		if !p.consume("(") {
			return nil, errors.New(errUnexpectedToken)
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.consume(")") {
			return nil, errors.New(errUnterminatedExpr)
		}
		return &notExpr{inner: inner}, nil
	default:
		return p.parsePredicate(ident)
	}
}

func (p *parser) parseCombinator(make func([]Expr) Expr) (Expr, error) {
	if !p.consume("(") {
		return nil, errors.New(errUnexpectedToken)
	}
	var inner []Expr
	for {
		p.skipSpace()
		if p.consume(")") {
			break
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		inner = append(inner, e)
		p.skipSpace()
		if p.consume(")") {
			break
		}
		if !p.consume(",") {
			return nil, errors.New(errExpectedComma)
		}
	}
	return make(inner), nil
}

func (p *parser) parsePredicate(key string) (Expr, error) {
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == '=' {
		p.pos++
		p.skipSpace()
		if p.pos >= len(p.input) || p.input[p.pos] != '"' {
			return nil, errors.New(errUnexpectedToken)
		}
		p.pos++
		start := p.pos
		for p.pos < len(p.input) && p.input[p.pos] != '"' {
			p.pos++
		}
		if p.pos >= len(p.input) {
			return nil, errors.New(errUnterminatedExpr)
		}
		value := p.input[start:p.pos]
		p.pos++ // closing quote
		return &predicate{key: key, value: value, hasValue: true}, nil
	}
	return &predicate{key: key}, nil
}
