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

package ast

import (
	"fmt"
	"strings"
)

var binOpNames = [...]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%", Exp: "**", FloorDiv: "//",
	Eq: "==", Neq: "!=", Lt: "<", Gt: ">", Le: "<=", Ge: ">=",
}

// String renders e as a single-line s-expression.
func (e *Expression) String() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case Number:
		return fmt.Sprintf("%d", e.Value)
	case Variable:
		return e.Name
	case UnaryNeg:
		return fmt.Sprintf("(neg %s)", e.Expr)
	case Binary:
		return fmt.Sprintf("(%s %s %s)", binOpNames[e.Op], e.Left, e.Right)
	case Define:
		return fmt.Sprintf("(define %s %s %s)", e.Name, e.Bound, e.Body)
	case If:
		return fmt.Sprintf("(if %s %s %s)", e.Cond, e.Then, e.Else)
	case While:
		return fmt.Sprintf("(while %s %s)", e.Cond, e.Body)
	default:
		return "<invalid>"
	}
}

// Dump renders a multi-line indented tree, used by the driver's
// verbose diagnostics output.
func Dump(e *Expression) string {
	var b strings.Builder
	dump(&b, e, 0)
	return b.String()
}

func dump(b *strings.Builder, e *Expression, depth int) {
	indent := strings.Repeat("  ", depth)
	if e == nil {
		fmt.Fprintf(b, "%s<nil>\n", indent)
		return
	}
	switch e.Kind {
	case Number:
		fmt.Fprintf(b, "%sNumber(%d)\n", indent, e.Value)
	case Variable:
		fmt.Fprintf(b, "%sVariable(%s)\n", indent, e.Name)
	case UnaryNeg:
		fmt.Fprintf(b, "%sNeg\n", indent)
		dump(b, e.Expr, depth+1)
	case Binary:
		fmt.Fprintf(b, "%sBinary(%s)\n", indent, binOpNames[e.Op])
		dump(b, e.Left, depth+1)
		dump(b, e.Right, depth+1)
	case Define:
		fmt.Fprintf(b, "%sDefine(%s)\n", indent, e.Name)
		dump(b, e.Bound, depth+1)
		dump(b, e.Body, depth+1)
	case If:
		fmt.Fprintf(b, "%sIf\n", indent)
		dump(b, e.Cond, depth+1)
		dump(b, e.Then, depth+1)
		dump(b, e.Else, depth+1)
	case While:
		fmt.Fprintf(b, "%sWhile\n", indent)
		dump(b, e.Cond, depth+1)
		dump(b, e.Body, depth+1)
	default:
		fmt.Fprintf(b, "%s<invalid kind %d>\n", indent, e.Kind)
	}
}
