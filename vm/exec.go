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

package vm

import (
	"math"

	"exprvm/bytecode"
)

// step fetches any inline immediate for op, executes it, and advances
// ip past the immediate when one was consumed. It does not perform
// the final ip++ that lands on the next instruction — Run does that.
func (i *Instance) step(op bytecode.Op) error {
	switch op {
	case bytecode.PSH:
		v, err := i.fetchImmediate()
		if err != nil {
			return err
		}
		return i.push(v)

	case bytecode.POP:
		_, err := i.pop()
		return err

	case bytecode.ADD:
		return i.binOp(func(a, b int32) (int32, error) { return checkedAdd(a, b) })
	case bytecode.SUB:
		return i.binOp(func(a, b int32) (int32, error) { return checkedSub(a, b) })
	case bytecode.MUL:
		return i.binOp(func(a, b int32) (int32, error) { return checkedMul(a, b) })
	case bytecode.DIV:
		return i.divOp()
	case bytecode.MOD:
		return i.modOp()
	case bytecode.EXP:
		return i.binOp(checkedExp)
	case bytecode.FLRDIV:
		return i.floorDivOp()

	case bytecode.EQ:
		return i.cmpOp(func(a, b int32) bool { return a == b })
	case bytecode.NEQ:
		return i.cmpOp(func(a, b int32) bool { return a != b })
	case bytecode.LSS:
		return i.cmpOp(func(a, b int32) bool { return a < b })
	case bytecode.GTR:
		return i.cmpOp(func(a, b int32) bool { return a > b })
	case bytecode.LEQ:
		return i.cmpOp(func(a, b int32) bool { return a <= b })
	case bytecode.GEQ:
		return i.cmpOp(func(a, b int32) bool { return a >= b })

	case bytecode.SET:
		reg, err := i.fetchImmediate()
		if err != nil {
			return err
		}
		v, err := i.pop()
		if err != nil {
			return err
		}
		return i.setRegister(reg, v)

	case bytecode.GET:
		reg, err := i.fetchImmediate()
		if err != nil {
			return err
		}
		v, err := i.getRegister(reg)
		if err != nil {
			return err
		}
		return i.push(v)

	case bytecode.JMP:
		target, err := i.fetchImmediate()
		if err != nil {
			return err
		}
		i.ip = int(target) - 1
		return nil

	case bytecode.JMZ:
		target, err := i.fetchImmediate()
		if err != nil {
			return err
		}
		cond, err := i.pop()
		if err != nil {
			return err
		}
		if cond == 0 {
			i.ip = int(target) - 1
		}
		return nil

	case bytecode.HLT:
		i.running = false
		return nil

	default:
		return i.fail(ErrInvalidInstruction)
	}
}

// fetchImmediate advances past the current opcode to read its single
// inline immediate operand.
func (i *Instance) fetchImmediate() (int32, error) {
	i.ip++
	if i.ip < 0 || i.ip >= len(i.program) {
		return 0, i.fail(ErrIPOutOfBounds)
	}
	return i.program[i.ip], nil
}

func (i *Instance) setRegister(reg, v int32) error {
	if reg < 0 || int(reg) >= i.UserRegisterCount() {
		return i.fail(ErrInvalidRegister)
	}
	i.registers[reg] = v
	return nil
}

func (i *Instance) getRegister(reg int32) (int32, error) {
	if reg < 0 || int(reg) >= i.UserRegisterCount() {
		return 0, i.fail(ErrInvalidRegister)
	}
	return i.registers[reg], nil
}

// binOp pops b (the right operand, pushed last) then a (the left
// operand), applies fn(a, b), and pushes the result.
func (i *Instance) binOp(fn func(a, b int32) (int32, error)) error {
	b, err := i.pop()
	if err != nil {
		return err
	}
	a, err := i.pop()
	if err != nil {
		return err
	}
	res, err := fn(a, b)
	if err != nil {
		return i.fail(classify(err))
	}
	return i.push(res)
}

func (i *Instance) cmpOp(fn func(a, b int32) bool) error {
	b, err := i.pop()
	if err != nil {
		return err
	}
	a, err := i.pop()
	if err != nil {
		return err
	}
	if fn(a, b) {
		return i.push(1)
	}
	return i.push(0)
}

// divOp implements DIV. On division by zero, the popped operands are
// pushed back in their original order before the error is signaled,
// so a trace snapshot still shows them.
func (i *Instance) divOp() error {
	b, err := i.pop()
	if err != nil {
		return err
	}
	a, err := i.pop()
	if err != nil {
		return err
	}
	if b == 0 {
		i.push(a)
		i.push(b)
		return i.fail(ErrDivisionByZero)
	}
	res, err := checkedDiv(a, b)
	if err != nil {
		return i.fail(ErrIntegerOverflow)
	}
	return i.push(res)
}

func (i *Instance) modOp() error {
	b, err := i.pop()
	if err != nil {
		return err
	}
	a, err := i.pop()
	if err != nil {
		return err
	}
	if b == 0 {
		i.push(a)
		i.push(b)
		return i.fail(ErrModulusByZero)
	}
	return i.push(a % b)
}

// floorDivOp implements true floor-toward-negative-infinity division
// (see DESIGN.md, Open Question #1), checked the same way divOp is:
// the quotient is computed in int64 so MinInt32 / -1 overflows into a
// reported error instead of silently wrapping back to MinInt32.
func (i *Instance) floorDivOp() error {
	b, err := i.pop()
	if err != nil {
		return err
	}
	a, err := i.pop()
	if err != nil {
		return err
	}
	if b == 0 {
		i.push(a)
		i.push(b)
		return i.fail(ErrDivisionByZero)
	}
	q64 := int64(a) / int64(b)
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q64--
	}
	if q64 < math.MinInt32 || q64 > math.MaxInt32 {
		return i.fail(ErrIntegerOverflow)
	}
	return i.push(int32(q64))
}

type overflowError struct{}

func (overflowError) Error() string { return "integer overflow" }

func classify(err error) ErrorKind {
	if _, ok := err.(negativeExponentError); ok {
		return ErrNegativeExponent
	}
	return ErrIntegerOverflow
}

func checkedAdd(a, b int32) (int32, error) {
	res := int64(a) + int64(b)
	if res < math.MinInt32 || res > math.MaxInt32 {
		return 0, overflowError{}
	}
	return int32(res), nil
}

func checkedSub(a, b int32) (int32, error) {
	res := int64(a) - int64(b)
	if res < math.MinInt32 || res > math.MaxInt32 {
		return 0, overflowError{}
	}
	return int32(res), nil
}

func checkedMul(a, b int32) (int32, error) {
	res := int64(a) * int64(b)
	if res < math.MinInt32 || res > math.MaxInt32 {
		return 0, overflowError{}
	}
	return int32(res), nil
}

func checkedDiv(a, b int32) (int32, error) {
	res := int64(a) / int64(b)
	if res < math.MinInt32 || res > math.MaxInt32 {
		return 0, overflowError{}
	}
	return int32(res), nil
}

// checkedExp computes a**b for a non-negative b, failing on overflow
// or a negative exponent rather than coercing it (DESIGN.md, Open
// Question #3).
func checkedExp(a, b int32) (int32, error) {
	if b < 0 {
		return 0, negativeExponentError{}
	}
	// Bases of 0, 1, -1 are resolved in constant time: their result
	// never overflows and never needs more than a sign check, so they
	// must not drive the loop below through up to MaxInt32 iterations.
	switch a {
	case 0:
		if b == 0 {
			return 1, nil
		}
		return 0, nil
	case 1:
		return 1, nil
	case -1:
		if b%2 == 0 {
			return 1, nil
		}
		return -1, nil
	}
	result := int64(1)
	base := int64(a)
	for n := int32(0); n < b; n++ {
		result *= base
		if result < math.MinInt32 || result > math.MaxInt32 {
			return 0, overflowError{}
		}
	}
	return int32(result), nil
}

type negativeExponentError struct{}

func (negativeExponentError) Error() string { return "negative exponent" }
