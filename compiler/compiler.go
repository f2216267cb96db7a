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

// Package compiler lowers an ast.Expression tree to a flat bytecode
// program, allocating registers for lexically scoped bindings and
// back-patching jump targets for If and While.
//
// Lowering is post-order: each sub-expression, once lowered, leaves
// its value at the top of the operand stack. See the per-variant
// comments below for the exact emission shape of each construct —
// they are part of the external contract the VM relies on (notably
// the While placeholder-push/pop-before-body pattern).
package compiler

import (
	"fmt"

	"github.com/pkg/errors"

	"exprvm/ast"
	"exprvm/bytecode"
)

// MaxUserRegister is the highest register index a program may use.
// Indices 14 and 15 are reserved for IP/SP bookkeeping in the VM.
const MaxUserRegister = 13

// ErrUndefinedVariable is wrapped with the offending name when a
// Variable node references a name with no active binding.
var ErrUndefinedVariable = errors.New("undefined variable")

// ErrRegisterExhausted is returned when a program needs more than
// MaxUserRegister+1 registers in total. Registers are never released
// when a binding goes out of scope, so every Define of a name that is
// not already bound takes a new one.
var ErrRegisterExhausted = errors.New("register exhausted")

// compiler owns the mutable lowering state: the emitted instruction
// stream and the current name -> register environment.
type compiler struct {
	out         []int32
	env         map[string]int32
	nextReg     int32
}

// Compile lowers expr to a complete bytecode program, terminated by a
// single HLT.
func Compile(expr *ast.Expression) (bytecode.Program, error) {
	c := &compiler{env: make(map[string]int32)}
	if err := c.lower(expr); err != nil {
		return nil, err
	}
	c.emit(bytecode.HLT)
	return bytecode.Program(c.out), nil
}

func (c *compiler) emit(op bytecode.Op, imm ...int32) {
	c.out = append(c.out, int32(op))
	c.out = append(c.out, imm...)
}

// pc returns the current end-of-stream address, i.e. where the next
// emitted instruction will land.
func (c *compiler) pc() int { return len(c.out) }

// patchTarget overwrites the immediate operand at addr (which must be
// the address of a jump's target immediate, i.e. one past the
// opcode) with the current pc.
func (c *compiler) patchTarget(addr int) {
	c.out[addr] = int32(c.pc())
}

func (c *compiler) lower(e *ast.Expression) error {
	switch e.Kind {
	case ast.Number:
		c.emit(bytecode.PSH, e.Value)
		return nil

	case ast.Variable:
		reg, ok := c.env[e.Name]
		if !ok {
			return errors.Wrapf(ErrUndefinedVariable, "%q", e.Name)
		}
		c.emit(bytecode.GET, reg)
		return nil

	case ast.UnaryNeg:
		// PSH 0; lower(e); SUB computes 0 - e via the a-b pop order.
		c.emit(bytecode.PSH, 0)
		if err := c.lower(e.Expr); err != nil {
			return err
		}
		c.emit(bytecode.SUB)
		return nil

	case ast.Binary:
		if err := c.lower(e.Left); err != nil {
			return err
		}
		if err := c.lower(e.Right); err != nil {
			return err
		}
		c.emit(binOpcode[e.Op])
		return nil

	case ast.Define:
		if err := c.lower(e.Bound); err != nil {
			return err
		}
		reg, existed := c.env[e.Name]
		if !existed {
			var err error
			reg, err = c.allocate()
			if err != nil {
				return err
			}
			c.env[e.Name] = reg
		}
		c.emit(bytecode.SET, reg)
		if err := c.lower(e.Body); err != nil {
			return err
		}
		if !existed {
			delete(c.env, e.Name)
		}
		return nil

	case ast.If:
		if err := c.lower(e.Cond); err != nil {
			return err
		}
		c.emit(bytecode.JMZ, 0) // placeholder, patched to else-start
		jmzTarget := c.pc() - 1
		if err := c.lower(e.Then); err != nil {
			return err
		}
		c.emit(bytecode.JMP, 0) // placeholder, patched to end
		jmpTarget := c.pc() - 1
		c.patchTarget(jmzTarget)
		if err := c.lower(e.Else); err != nil {
			return err
		}
		c.patchTarget(jmpTarget)
		return nil

	case ast.While:
		c.emit(bytecode.PSH, 0) // placeholder result
		loopStart := c.pc()
		if err := c.lower(e.Cond); err != nil {
			return err
		}
		c.emit(bytecode.JMZ, 0) // placeholder, patched to loop end
		jmzTarget := c.pc() - 1
		c.emit(bytecode.POP) // discard previous iteration's (or placeholder) value
		if err := c.lower(e.Body); err != nil {
			return err
		}
		c.emit(bytecode.JMP, int32(loopStart))
		c.patchTarget(jmzTarget)
		return nil

	default:
		return errors.Errorf("compiler: unhandled expression kind %d", e.Kind)
	}
}

var binOpcode = map[ast.BinOp]bytecode.Op{
	ast.Add: bytecode.ADD, ast.Sub: bytecode.SUB, ast.Mul: bytecode.MUL,
	ast.Div: bytecode.DIV, ast.Mod: bytecode.MOD, ast.Exp: bytecode.EXP,
	ast.FloorDiv: bytecode.FLRDIV,
	ast.Eq:       bytecode.EQ, ast.Neq: bytecode.NEQ, ast.Lt: bytecode.LSS,
	ast.Gt: bytecode.GTR, ast.Le: bytecode.LEQ, ast.Ge: bytecode.GEQ,
}

func (c *compiler) allocate() (int32, error) {
	if c.nextReg > MaxUserRegister {
		return 0, errors.Wrapf(ErrRegisterExhausted, "only %d registers available", MaxUserRegister+1)
	}
	reg := c.nextReg
	c.nextReg++
	return reg, nil
}

// Disassemble renders prog as one mnemonic-plus-operand line per
// instruction, for driver diagnostics.
func Disassemble(prog bytecode.Program) string {
	var out []byte
	addr := 0
	for addr < len(prog) {
		op := bytecode.Op(prog[addr])
		if op.HasImmediate() && addr+1 < len(prog) {
			out = append(out, fmt.Sprintf("%04d  %-7s %d\n", addr, op, prog[addr+1])...)
			addr += 2
		} else {
			out = append(out, fmt.Sprintf("%04d  %-7s\n", addr, op)...)
			addr++
		}
	}
	return string(out)
}
