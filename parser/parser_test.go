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

package parser

import (
	"testing"

	"exprvm/ast"
	"exprvm/lexer"
)

func parseSrc(t *testing.T, src string) *ast.Expression {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	e, err := Parse(toks)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return e
}

func TestParsePrecedence(t *testing.T) {
	// a + b * c parses as a + (b*c)
	e := parseSrc(t, "1 + 2 * 3")
	if e.Kind != ast.Binary || e.Op != ast.Add {
		t.Fatalf("top node = %+v, want Add", e)
	}
	if e.Right.Kind != ast.Binary || e.Right.Op != ast.Mul {
		t.Fatalf("right node = %+v, want Mul", e.Right)
	}
}

func TestParseExponentLeftAssociative(t *testing.T) {
	// a ** b ** c evaluates left-to-right (a**b)**c per the lowering.
	e := parseSrc(t, "2 ** 3 ** 2")
	if e.Kind != ast.Binary || e.Op != ast.Exp {
		t.Fatalf("top node = %+v, want Exp", e)
	}
	if e.Left.Kind != ast.Binary || e.Left.Op != ast.Exp {
		t.Fatalf("left node = %+v, want nested Exp", e.Left)
	}
}

func TestParseUnaryRightAssociative(t *testing.T) {
	e := parseSrc(t, "- - 5")
	if e.Kind != ast.UnaryNeg || e.Expr.Kind != ast.UnaryNeg {
		t.Fatalf("got %+v, want nested UnaryNeg", e)
	}
}

func TestParseParens(t *testing.T) {
	e := parseSrc(t, "(1 + 2) * 3")
	if e.Kind != ast.Binary || e.Op != ast.Mul {
		t.Fatalf("top node = %+v, want Mul", e)
	}
	if e.Left.Kind != ast.Binary || e.Left.Op != ast.Add {
		t.Fatalf("left node = %+v, want Add", e.Left)
	}
}

func TestParseDefine(t *testing.T) {
	e := parseSrc(t, "define (x 10 x)")
	if e.Kind != ast.Define || e.Name != "x" {
		t.Fatalf("got %+v, want Define(x)", e)
	}
}

func TestParseIf(t *testing.T) {
	e := parseSrc(t, "if (5 > 3 100 200)")
	if e.Kind != ast.If {
		t.Fatalf("got %+v, want If", e)
	}
	if e.Cond.Kind != ast.Binary || e.Cond.Op != ast.Gt {
		t.Fatalf("cond = %+v, want Gt", e.Cond)
	}
}

func TestParseWhile(t *testing.T) {
	e := parseSrc(t, "while (1 2)")
	if e.Kind != ast.While {
		t.Fatalf("got %+v, want While", e)
	}
}

func TestParseComparisonChain(t *testing.T) {
	// comparisons chain linearly and left-associatively: (1 < 2) < 3
	e := parseSrc(t, "1 < 2 < 3")
	if e.Kind != ast.Binary || e.Op != ast.Lt {
		t.Fatalf("top = %+v, want Lt", e)
	}
	if e.Left.Kind != ast.Binary || e.Left.Op != ast.Lt {
		t.Fatalf("left = %+v, want nested Lt", e.Left)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"define (1 2 3)",   // missing identifier
		"define (x 1 2",    // missing ')'
		"if (1 2 3",        // missing ')'
		"while (1",         // missing body and ')'
		"1 +",               // premature end of input
		"1 2",               // trailing tokens
		")",                 // unexpected token
		"",                  // premature end of input
	}
	for _, src := range cases {
		toks, err := lexer.Tokenize(src)
		if err != nil {
			continue // lex error also acceptable for malformed input
		}
		if _, err := Parse(toks); err == nil {
			t.Errorf("Parse(%q): expected error, got none", src)
		}
	}
}
