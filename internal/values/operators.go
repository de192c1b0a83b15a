package values

import (
	"errors"
	"fmt"
	"math"

	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
)

var (
	// ErrIncompatible is returned when an operator cannot be applied to the
	// operand kinds. Callers treat it as an evaluation failure.
	ErrIncompatible   = errors.New("incompatible operand types")
	ErrDivisionByZero = errors.New("division by zero")
)

// ComparisonKind is the kind comparison and logical operators produce.
// Callers convert it to the configured boolean type.
const ComparisonKind = types.U8

// IsComparison reports whether op yields a boolean.
func IsComparison(op string) bool {
	switch op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return true
	}
	return false
}

// Binary applies a binary operator with numeric promotion.
func Binary(op string, a, b Value) (Value, error) {
	if types.ClassOf(a.kind) == types.NotNumeric || types.ClassOf(b.kind) == types.NotNumeric {
		return Value{}, ErrIncompatible
	}
	switch op {
	case "&&":
		return Bool(ComparisonKind, a.IsTruthy() && b.IsTruthy()), nil
	case "||":
		return Bool(ComparisonKind, a.IsTruthy() || b.IsTruthy()), nil
	case "<<", ">>":
		return shift(op, a, b)
	}

	k := types.Promote(a.kind, b.kind)
	a, b = a.Convert(k), b.Convert(k)
	if IsComparison(op) {
		c, err := compare(op, a, b)
		return Bool(ComparisonKind, c), err
	}
	switch types.ClassOf(k) {
	case types.Float:
		return floatOp(op, k, a.f, b.f)
	case types.Unsigned:
		return unsignedOp(op, k, a.u, b.u)
	default:
		return signedOp(op, k, a.i, b.i)
	}
}

func compare(op string, a, b Value) (bool, error) {
	var c int
	switch types.ClassOf(a.kind) {
	case types.Float:
		c = cmp3(a.f, b.f)
	case types.Unsigned:
		c = cmp3(a.u, b.u)
	default:
		c = cmp3(a.i, b.i)
	}
	switch op {
	case "==":
		return c == 0, nil
	case "!=":
		return c != 0, nil
	case "<":
		return c < 0, nil
	case ">":
		return c > 0, nil
	case "<=":
		return c <= 0, nil
	case ">=":
		return c >= 0, nil
	}
	return false, fmt.Errorf("unknown comparison operator %q", op)
}

func cmp3[T int64 | uint64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func signedOp(op string, k types.Kind, a, b int64) (Value, error) {
	switch op {
	case "+":
		return Int(k, a+b), nil
	case "-":
		return Int(k, a-b), nil
	case "*":
		return Int(k, a*b), nil
	case "/":
		if b == 0 {
			return Value{}, ErrDivisionByZero
		}
		return Int(k, a/b), nil
	case "%":
		if b == 0 {
			return Value{}, ErrDivisionByZero
		}
		return Int(k, a%b), nil
	case "&":
		return Int(k, a&b), nil
	case "|":
		return Int(k, a|b), nil
	case "^":
		return Int(k, a^b), nil
	}
	return Value{}, fmt.Errorf("unknown operator %q", op)
}

func unsignedOp(op string, k types.Kind, a, b uint64) (Value, error) {
	switch op {
	case "+":
		return Uint(k, a+b), nil
	case "-":
		return Uint(k, a-b), nil
	case "*":
		return Uint(k, a*b), nil
	case "/":
		if b == 0 {
			return Value{}, ErrDivisionByZero
		}
		return Uint(k, a/b), nil
	case "%":
		if b == 0 {
			return Value{}, ErrDivisionByZero
		}
		return Uint(k, a%b), nil
	case "&":
		return Uint(k, a&b), nil
	case "|":
		return Uint(k, a|b), nil
	case "^":
		return Uint(k, a^b), nil
	}
	return Value{}, fmt.Errorf("unknown operator %q", op)
}

func floatOp(op string, k types.Kind, a, b float64) (Value, error) {
	switch op {
	case "+":
		return Float(k, a+b), nil
	case "-":
		return Float(k, a-b), nil
	case "*":
		return Float(k, a*b), nil
	case "/":
		if b == 0 {
			return Value{}, ErrDivisionByZero
		}
		return Float(k, a/b), nil
	case "%":
		if b == 0 {
			return Value{}, ErrDivisionByZero
		}
		return Float(k, math.Mod(a, b)), nil
	case "&", "|", "^":
		return Value{}, ErrIncompatible
	}
	return Value{}, fmt.Errorf("unknown operator %q", op)
}

// shift keeps the kind of the left operand.
func shift(op string, a, b Value) (Value, error) {
	if types.ClassOf(a.kind) == types.Float || types.ClassOf(b.kind) == types.Float {
		return Value{}, ErrIncompatible
	}
	n := b.Uint64()
	if n >= 64 {
		return Int(a.kind, 0), nil
	}
	if types.ClassOf(a.kind) == types.Unsigned {
		if op == "<<" {
			return Uint(a.kind, a.u<<n), nil
		}
		return Uint(a.kind, a.u>>n), nil
	}
	if op == "<<" {
		return Int(a.kind, a.i<<n), nil
	}
	return Int(a.kind, a.i>>n), nil
}

// Unary applies -, ~ or !.
func Unary(op string, v Value) (Value, error) {
	c := types.ClassOf(v.kind)
	if c == types.NotNumeric {
		return Value{}, ErrIncompatible
	}
	switch op {
	case "-":
		switch c {
		case types.Float:
			return Float(v.kind, -v.f), nil
		case types.Unsigned:
			return Uint(v.kind, -v.u), nil
		default:
			return Int(v.kind, -v.i), nil
		}
	case "~":
		switch c {
		case types.Float:
			return Value{}, ErrIncompatible
		case types.Unsigned:
			return Uint(v.kind, ^v.u), nil
		default:
			return Int(v.kind, ^v.i), nil
		}
	case "!":
		return Bool(ComparisonKind, !v.IsTruthy()), nil
	case "+":
		return v, nil
	}
	return Value{}, fmt.Errorf("unknown unary operator %q", op)
}
