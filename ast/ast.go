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

// Package ast defines the expression tree the parser produces and the
// compiler consumes. The variant set is closed: Kind fixes it, and
// new expression shapes are never added by embedding or subclassing.
package ast

// Kind discriminates the variant an Expression holds.
type Kind int

const (
	Number Kind = iota
	Variable
	UnaryNeg
	Binary
	Define
	If
	While
)

// BinOp enumerates the binary operators a Binary node may carry.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Mod
	Exp
	FloorDiv
	Eq
	Neq
	Lt
	Gt
	Le
	Ge
)

// Expression is a tagged tree node. Only the fields relevant to Kind
// are populated; ownership is tree-exclusive (a parent owns its
// children, no sharing, no cycles).
type Expression struct {
	Kind Kind

	// Number
	Value int32

	// Variable
	Name string

	// UnaryNeg: Expr
	// Binary: Left, Op, Right
	// Define: Name (reused above), Bound (below) for the bound value,
	// Body for the scoped expression
	// If: Cond, Then, Else
	// While: Cond, Body
	Expr  *Expression
	Left  *Expression
	Right *Expression
	Op    BinOp

	Cond *Expression
	Then *Expression
	Else *Expression
	Body *Expression

	// Define's bound value expression (distinct from the Number
	// variant's Value field above, which holds a literal, not a tree).
	Bound *Expression
}

// NewNumber returns a Number node.
func NewNumber(v int32) *Expression { return &Expression{Kind: Number, Value: v} }

// NewVariable returns a Variable node referencing name.
func NewVariable(name string) *Expression { return &Expression{Kind: Variable, Name: name} }

// NewNeg returns a unary negation node.
func NewNeg(e *Expression) *Expression { return &Expression{Kind: UnaryNeg, Expr: e} }

// NewBinary returns a binary operator node.
func NewBinary(left *Expression, op BinOp, right *Expression) *Expression {
	return &Expression{Kind: Binary, Left: left, Op: op, Right: right}
}

// NewDefine returns a lexical binding node: name is bound to value
// within the scope of body.
func NewDefine(name string, value, body *Expression) *Expression {
	return &Expression{Kind: Define, Name: name, Bound: value, Body: body}
}

// NewIf returns a conditional node.
func NewIf(cond, then, els *Expression) *Expression {
	return &Expression{Kind: If, Cond: cond, Then: then, Else: els}
}

// NewWhile returns a while-loop node.
func NewWhile(cond, body *Expression) *Expression {
	return &Expression{Kind: While, Cond: cond, Body: body}
}
