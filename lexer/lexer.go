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

// Package lexer turns source text into a token.Token sequence.
package lexer

import (
	"fmt"

	"github.com/pkg/errors"

	"exprvm/token"
)

// Error is a lex-phase failure. Pos is the rune offset where scanning
// stopped and Ch is the offending character (for a malformed
// two-character operator, the lone '=' or '!').
type Error struct {
	Pos int
	Ch  rune
	Msg string
}

func (e *Error) Error() string {
	if e.Ch != 0 {
		return fmt.Sprintf("lex error at %d: %s %q", e.Pos, e.Msg, e.Ch)
	}
	return fmt.Sprintf("lex error at %d: %s", e.Pos, e.Msg)
}

// Lexer holds scanning state over a rune slice.
type Lexer struct {
	src []rune
	pos int
}

// New returns a Lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: []rune(src)}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(off int) rune {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() rune {
	ch := l.peek()
	l.pos++
	return ch
}

func isSpace(ch rune) bool { return ch == ' ' || ch == '\t' || ch == '\n' }
func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }
func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
func isIdentPart(ch rune) bool { return isIdentStart(ch) || isDigit(ch) }

func (l *Lexer) skipSpace() {
	for isSpace(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) readInt() token.Token {
	start := l.pos
	var v int32
	for isDigit(l.peek()) {
		v = v*10 + int32(l.advance()-'0')
	}
	return token.Token{Kind: token.INT, Int: v, Pos: start}
}

func (l *Lexer) readIdent() token.Token {
	start := l.pos
	begin := l.pos
	for isIdentPart(l.peek()) {
		l.advance()
	}
	name := string(l.src[begin:l.pos])
	kind := token.LookupIdent(name)
	if kind == token.IDENT {
		return token.Token{Kind: kind, Name: name, Pos: start}
	}
	return token.Token{Kind: kind, Pos: start}
}

// two consumes the current rune plus a required following rune, or
// reports a lex error if the follower is absent.
func (l *Lexer) two(one rune, kind token.Kind) (token.Token, error) {
	start := l.pos
	l.advance() // consume one
	if l.peek() == '=' {
		l.advance()
		return token.Token{Kind: kind, Pos: start}, nil
	}
	return token.Token{}, &Error{Pos: start, Ch: one, Msg: "expected '=' after"}
}

// Next scans and returns the next token, or the first lex error
// encountered. Returns token.EOF once the source is exhausted.
func (l *Lexer) Next() (token.Token, error) {
	l.skipSpace()
	start := l.pos
	ch := l.peek()
	switch {
	case ch == 0:
		return token.Token{Kind: token.EOF, Pos: start}, nil
	case isDigit(ch):
		return l.readInt(), nil
	case isIdentStart(ch):
		return l.readIdent(), nil
	case ch == '(':
		l.advance()
		return token.Token{Kind: token.LPAREN, Pos: start}, nil
	case ch == ')':
		l.advance()
		return token.Token{Kind: token.RPAREN, Pos: start}, nil
	case ch == '+':
		l.advance()
		return token.Token{Kind: token.PLUS, Pos: start}, nil
	case ch == '-':
		l.advance()
		return token.Token{Kind: token.MINUS, Pos: start}, nil
	case ch == '%':
		l.advance()
		return token.Token{Kind: token.PERCENT, Pos: start}, nil
	case ch == '*':
		if l.peekAt(1) == '*' {
			l.advance()
			l.advance()
			return token.Token{Kind: token.STARSTAR, Pos: start}, nil
		}
		l.advance()
		return token.Token{Kind: token.STAR, Pos: start}, nil
	case ch == '/':
		if l.peekAt(1) == '/' {
			l.advance()
			l.advance()
			return token.Token{Kind: token.SLASHSLASH, Pos: start}, nil
		}
		l.advance()
		return token.Token{Kind: token.SLASH, Pos: start}, nil
	case ch == '=':
		return l.two('=', token.EQ)
	case ch == '!':
		return l.two('!', token.NEQ)
	case ch == '<':
		if l.peekAt(1) == '=' {
			l.advance()
			l.advance()
			return token.Token{Kind: token.LE, Pos: start}, nil
		}
		l.advance()
		return token.Token{Kind: token.LT, Pos: start}, nil
	case ch == '>':
		if l.peekAt(1) == '=' {
			l.advance()
			l.advance()
			return token.Token{Kind: token.GE, Pos: start}, nil
		}
		l.advance()
		return token.Token{Kind: token.GT, Pos: start}, nil
	default:
		l.advance()
		return token.Token{}, &Error{Pos: start, Ch: ch, Msg: "invalid character"}
	}
}

// Tokenize scans the entire source, stopping at the first error. The
// returned slice never includes the terminal EOF token.
func Tokenize(src string) ([]token.Token, error) {
	l := New(src)
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, errors.Wrap(err, "tokenize")
		}
		if tok.Kind == token.EOF {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}
