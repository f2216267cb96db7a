// This file is part of exprvm.
//
// Copyright 2026 The exprvm Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package parser implements a recursive-descent, precedence-climbing
// parser from a token.Token sequence to an ast.Expression tree.
//
// Grammar (loosest first):
//
//	expr       := define | if | while | comparison
//	define     := 'define' '(' IDENT expr expr ')'
//	if         := 'if' '(' expr expr expr ')'
//	while      := 'while' '(' expr expr ')'
//	comparison := additive ( (== | != | < | > | <= | >=) additive )*
//	additive   := term ( (+ | -) term )*
//	term       := exponent ( (* | / | % | //) exponent )*
//	exponent   := unary ( ** unary )*
//	unary      := '-' unary | primary
//	primary    := INT | IDENT | '(' expr ')'
package parser

import (
	"fmt"

	"github.com/pkg/errors"

	"exprvm/ast"
	"exprvm/token"
)

// Error is a parse-phase failure.
type Error struct {
	Pos int
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Pos, e.Msg)
}

// Parser holds the token stream and current read position.
type Parser struct {
	toks []token.Token
	pos  int
}

// New returns a Parser over toks.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse parses toks into a single top-level
// expression. All tokens must be consumed; trailing tokens are an
// error.
func Parse(toks []token.Token) (*ast.Expression, error) {
	p := New(toks)
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, errors.Wrap(&Error{Pos: p.peek().Pos, Msg: "trailing tokens after top-level expression"}, "parse")
	}
	return e, nil
}

func (p *Parser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *Parser) peek() token.Token {
	if p.atEnd() {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.peek()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	t := p.peek()
	if t.Kind != k {
		if t.Kind == token.EOF {
			return t, errors.Wrap(&Error{Pos: t.Pos, Msg: fmt.Sprintf("expected %s, got end of input", k)}, "parse")
		}
		return t, errors.Wrap(&Error{Pos: t.Pos, Msg: fmt.Sprintf("expected %s, got %s", k, t.Kind)}, "parse")
	}
	return p.advance(), nil
}

func (p *Parser) parseExpr() (*ast.Expression, error) {
	switch p.peek().Kind {
	case token.DEFINE:
		return p.parseDefine()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	default:
		return p.parseComparison()
	}
}

func (p *Parser) parseDefine() (*ast.Expression, error) {
	p.advance() // 'define'
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, errors.Wrap(err, "expected identifier after 'define ('")
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, errors.Wrap(err, "expected ')' to close define")
	}
	return ast.NewDefine(nameTok.Name, value, body), nil
}

func (p *Parser) parseIf() (*ast.Expression, error) {
	p.advance() // 'if'
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, errors.Wrap(err, "expected ')' to close if")
	}
	return ast.NewIf(cond, then, els), nil
}

func (p *Parser) parseWhile() (*ast.Expression, error) {
	p.advance() // 'while'
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, errors.Wrap(err, "expected ')' to close while")
	}
	return ast.NewWhile(cond, body), nil
}

var comparisonOps = map[token.Kind]ast.BinOp{
	token.EQ:  ast.Eq,
	token.NEQ: ast.Neq,
	token.LT:  ast.Lt,
	token.GT:  ast.Gt,
	token.LE:  ast.Le,
	token.GE:  ast.Ge,
}

func (p *Parser) parseComparison() (*ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOps[p.peek().Kind]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(left, op, right)
	}
}

func (p *Parser) parseAdditive() (*ast.Expression, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinOp
		switch p.peek().Kind {
		case token.PLUS:
			op = ast.Add
		case token.MINUS:
			op = ast.Sub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(left, op, right)
	}
}

func (p *Parser) parseTerm() (*ast.Expression, error) {
	left, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinOp
		switch p.peek().Kind {
		case token.STAR:
			op = ast.Mul
		case token.SLASH:
			op = ast.Div
		case token.PERCENT:
			op = ast.Mod
		case token.SLASHSLASH:
			op = ast.FloorDiv
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseExponent()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(left, op, right)
	}
}

func (p *Parser) parseExponent() (*ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == token.STARSTAR {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(left, ast.Exp, right)
	}
	return left, nil
}

func (p *Parser) parseUnary() (*ast.Expression, error) {
	if p.peek().Kind == token.MINUS {
		p.advance()
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewNeg(e), nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (*ast.Expression, error) {
	t := p.peek()
	switch t.Kind {
	case token.INT:
		p.advance()
		return ast.NewNumber(t.Int), nil
	case token.IDENT:
		p.advance()
		return ast.NewVariable(t.Name), nil
	case token.LPAREN:
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, errors.Wrap(err, "expected ')'")
		}
		return e, nil
	case token.EOF:
		return nil, errors.Wrap(&Error{Pos: t.Pos, Msg: "unexpected end of input"}, "parse")
	default:
		return nil, errors.Wrap(&Error{Pos: t.Pos, Msg: fmt.Sprintf("unexpected token %s", t.Kind)}, "parse")
	}
}
