package compiler

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
	"github.com/BBpezsgo/Interpreter-sub004/internal/ir"
	"github.com/BBpezsgo/Interpreter-sub004/internal/symbols"
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
	"github.com/BBpezsgo/Interpreter-sub004/internal/values"
)

// parameter finds a parameter of the function being lowered.
func (c *Compiler) parameter(name string) (*symbols.Parameter, bool) {
	for _, p := range c.frame.params {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// TypeOf returns the type an expression was given in the current frame.
func (c *Compiler) TypeOf(e ast.Expression) (types.Type, bool) {
	t, ok := c.frame.types[e]
	return t, ok
}

func (c *Compiler) record(e ast.Expression, v ir.Value) ir.Value {
	c.frame.types[e] = v.Type()
	return v
}

// binaryResult types a builtin binary operator. Comparison and logical
// operators produce the boolean type; arithmetic promotes its operands.
// Pointers support equality and offsetting by an integer.
func (c *Compiler) binaryResult(op string, left, right types.Type, tok token.Token) (types.Type, *diagnostics.Possible) {
	lk, lNum := types.Numeric(left)
	rk, rNum := types.Numeric(right)
	_, lPtr := types.AsPointer(left)
	_, rPtr := types.AsPointer(right)
	mismatch := func() *diagnostics.Possible {
		return diagnostics.Fail(diagnostics.ErrT005, tok, op, left.String()+" and "+right.String())
	}

	switch op {
	case "==", "!=":
		if (lNum && rNum) || (lPtr && rPtr) {
			return c.booleanType(), nil
		}
	case "<", ">", "<=", ">=", "&&", "||":
		if lNum && rNum {
			return c.booleanType(), nil
		}
	case "+", "-":
		if lPtr && rNum && types.ClassOf(rk) != types.Float {
			return left, nil
		}
		fallthrough
	case "*", "/", "%":
		if lNum && rNum {
			return types.Builtin{Kind: types.Promote(lk, rk)}, nil
		}
	case "&", "|", "^":
		if lNum && rNum && types.ClassOf(lk) != types.Float && types.ClassOf(rk) != types.Float {
			return types.Builtin{Kind: types.Promote(lk, rk)}, nil
		}
	case "<<", ">>":
		if lNum && rNum && types.ClassOf(lk) != types.Float && types.ClassOf(rk) != types.Float {
			return left, nil
		}
	}
	return nil, mismatch()
}

// unaryResult types a builtin prefix operator other than & and *.
func (c *Compiler) unaryResult(op string, operand types.Type, tok token.Token) (types.Type, *diagnostics.Possible) {
	k, ok := types.Numeric(operand)
	if ok {
		switch op {
		case "-":
			return operand, nil
		case "!":
			return c.booleanType(), nil
		case "~":
			if types.ClassOf(k) != types.Float {
				return operand, nil
			}
		}
	}
	return nil, diagnostics.Fail(diagnostics.ErrT005, tok, op, operand.String())
}

// assign checks that v may be stored where dst is expected. Mismatches are
// reported and v is returned unchanged so lowering can go on.
func (c *Compiler) assign(v ir.Value, source ast.Expression, dst types.Type, tok token.Token) ir.Value {
	if dst == nil || isInvalid(v) || types.IsVoid(dst) {
		return v
	}
	if err := c.canCast(v.Type(), dst, source); err != nil {
		c.fail(err, tok)
	}
	return v
}

// fold replaces a lowered expression with its compile-time value when the
// evaluator can compute it. The value takes the type lowering gave the
// expression.
func (c *Compiler) fold(e ast.Expression, v ir.Value) ir.Value {
	if !c.settings.Optimizations.Evaluate || isInvalid(v) {
		return v
	}
	if _, ok := v.(*ir.Evaluated); ok {
		return v
	}
	k, ok := types.Numeric(v.Type())
	if !ok {
		return v
	}
	result, ok := c.eval.TryCompute(e)
	if !ok {
		return v
	}
	folded := result.Convert(k)
	c.report(diagnostics.ErrL004, e.GetToken(), folded)
	return &ir.Evaluated{ValueBase: ir.At(e.GetToken(), v.Type(), v.Observed()), Value: folded}
}

// boolean builds a constant of the boolean type.
func (c *Compiler) boolean(tok token.Token, b bool) ir.Value {
	k := c.settings.BooleanKind()
	return &ir.Evaluated{ValueBase: ir.At(tok, types.Builtin{Kind: k}, true), Value: values.Bool(k, b)}
}

// addressable reports whether &v may be taken.
func addressable(v ir.Value) bool {
	switch v.(type) {
	case *ir.VariableGetter, *ir.ParameterGetter, *ir.GlobalGetter, *ir.FieldGetter, *ir.IndexGetter, *ir.Dereference:
		return true
	}
	return false
}
