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

package bytecode

import "testing"

func TestOpNumbering(t *testing.T) {
	// The numbering from PSH through UNK is an external contract
	// shared with the compiler and VM packages; pin it down.
	want := []Op{
		PSH, POP, ADD, SUB, MUL, DIV, SET, HLT, GET, EQ, NEQ, LSS,
		GTR, LEQ, GEQ, JMZ, JMP, MOD, EXP, FLRDIV, UNK,
	}
	for n, op := range want {
		if int(op) != n {
			t.Errorf("%s = %d, want %d", op, op, n)
		}
	}
}

func TestOpString(t *testing.T) {
	if got := ADD.String(); got != "ADD" {
		t.Errorf("ADD.String() = %q, want %q", got, "ADD")
	}
	if got := Op(999).String(); got != "UNK" {
		t.Errorf("Op(999).String() = %q, want %q", got, "UNK")
	}
	if got := Op(-1).String(); got != "UNK" {
		t.Errorf("Op(-1).String() = %q, want %q", got, "UNK")
	}
}

func TestHasImmediate(t *testing.T) {
	with := []Op{PSH, SET, GET, JMP, JMZ}
	without := []Op{POP, ADD, SUB, MUL, DIV, HLT, EQ, NEQ, MOD, EXP, FLRDIV, UNK}
	for _, op := range with {
		if !op.HasImmediate() {
			t.Errorf("%s.HasImmediate() = false, want true", op)
		}
	}
	for _, op := range without {
		if op.HasImmediate() {
			t.Errorf("%s.HasImmediate() = true, want false", op)
		}
	}
}
