package evaluator

import (
	"math"

	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/config"
	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
	"github.com/BBpezsgo/Interpreter-sub004/internal/values"
)

// literal evaluates a numeric literal in the kind the checker gave it. A
// literal the checker has not typed yet is kept in the 64-bit kind of its
// class so no digit is lost before it meets its destination type.
func (c *Context) literal(e ast.Expression) (values.Value, bool) {
	var v values.Value
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		k, ok := suffixKind(n.Suffix, types.I64)
		if !ok {
			return values.Value{}, false
		}
		v = values.Int(k, n.Value)
	case *ast.FloatLiteral:
		k, ok := suffixKind(n.Suffix, types.F64)
		if !ok {
			return values.Value{}, false
		}
		v = values.Float(k, n.Value)
	case *ast.CharLiteral:
		v = values.Int(types.U32, int64(n.Value))
	default:
		return values.Value{}, false
	}
	if k, ok := c.host.LiteralKind(e); ok {
		v = v.Convert(k)
	}
	return v, true
}

func suffixKind(suffix string, fallback types.Kind) (types.Kind, bool) {
	if suffix == "" {
		return fallback, true
	}
	k, ok := types.ParseBuiltin(suffix)
	if !ok || types.ClassOf(k) == types.NotNumeric {
		return 0, false
	}
	return k, true
}

// untyped reports a literal without a suffix that the checker has not
// typed, whose kind still depends on its context.
func (c *Context) untyped(e ast.Expression) bool {
	if _, typed := c.host.LiteralKind(e); typed {
		return false
	}
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		return n.Suffix == ""
	case *ast.FloatLiteral:
		return n.Suffix == ""
	case *ast.CharLiteral:
		return true
	case *ast.UnaryOperator:
		return n.Operator == "-" && c.untyped(n.Operand)
	}
	return false
}

// adopt gives an untyped literal operand the kind of a typed other operand
// when its value fits, and its default kind otherwise, the way the checker
// types it. Two untyped operands stay wide until they meet their
// destination.
func (c *Context) adopt(e ast.Expression, v values.Value, otherExpr ast.Expression, other values.Value) values.Value {
	if !c.untyped(e) || c.untyped(otherExpr) {
		return v
	}
	k := other.Kind()
	fits := v.Fits(k)
	if types.ClassOf(v.Kind()) == types.Float && types.ClassOf(k) != types.Float {
		fits = false
	}
	if fits {
		return v.Convert(k)
	}
	return defaulted(e, v)
}

func defaulted(e ast.Expression, v values.Value) values.Value {
	if k, ok := naturalKind(e, v); ok {
		return v.Convert(k)
	}
	return v
}

// naturalKind is the kind an untyped declaration gives its literal
// initializer: the default kind of the literal, widened to 64 bits when the
// value does not fit it.
func naturalKind(e ast.Expression, v values.Value) (types.Kind, bool) {
	var name string
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		if n.Suffix != "" {
			return v.Kind(), true
		}
		name = config.DefaultIntegerType
	case *ast.FloatLiteral:
		if n.Suffix != "" {
			return v.Kind(), true
		}
		name = config.DefaultFloatType
	case *ast.CharLiteral:
		name = config.DefaultCharType
	case *ast.UnaryOperator:
		if n.Operator != "-" {
			return 0, false
		}
		return naturalKind(n.Operand, v)
	default:
		return 0, false
	}
	k, ok := types.ParseBuiltin(name)
	if !ok {
		return 0, false
	}
	switch {
	case types.ClassOf(k) == types.Float:
		if k == types.F32 && math.Abs(v.Float64()) > math.MaxFloat32 {
			return types.F64, true
		}
	case !v.Fits(k):
		if types.ClassOf(k) == types.Unsigned {
			return types.U32, true
		}
		return types.I64, true
	}
	return k, true
}

func (c *Context) expression(e ast.Expression) (values.Value, bool) {
	if len(c.frames) == 0 {
		if v, ok := c.memo[e]; ok {
			return v, true
		}
	}
	v, ok := c.compute(e)
	if ok && len(c.frames) == 0 {
		c.memo[e] = v
	}
	return v, ok
}

func (c *Context) compute(e ast.Expression) (values.Value, bool) {
	switch n := e.(type) {
	case nil:
		return values.Value{}, false
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.CharLiteral:
		return c.literal(n)
	case *ast.BoolLiteral:
		return values.Bool(c.host.BooleanKind(), n.Value), true
	case *ast.StringLiteral:
		return values.Value{}, false
	case *ast.Identifier:
		if v, ok := c.lookup(n.Name); ok {
			return v, true
		}
		return c.host.Constant(n.Name, c.callee())
	case *ast.BinaryOperator:
		return c.binary(n)
	case *ast.UnaryOperator:
		return c.unary(n)
	case *ast.Call:
		return c.callExpression(n)
	case *ast.Cast:
		v, ok := c.expression(n.Value)
		if !ok {
			return values.Value{}, false
		}
		k, ok := c.host.Kind(n.To, c.callee())
		if !ok || types.ClassOf(k) == types.NotNumeric {
			return values.Value{}, false
		}
		return v.Convert(k), true
	case *ast.SizeOf:
		return c.host.SizeOf(n.Type, c.callee())
	case *ast.Index, *ast.Field, *ast.New, *ast.ConstructorCall, *ast.AddressOf, *ast.Dereference:
		return values.Value{}, false
	default:
		panic(diagnostics.Unexpected("evaluator.compute", e))
	}
}

func (c *Context) boolean(b bool) values.Value {
	return values.Bool(c.host.BooleanKind(), b)
}

func (c *Context) binary(n *ast.BinaryOperator) (values.Value, bool) {
	left, ok := c.expression(n.Left)
	if !ok {
		return values.Value{}, false
	}
	switch n.Operator {
	case "&&":
		if !left.IsTruthy() {
			return c.boolean(false), true
		}
		right, ok := c.expression(n.Right)
		if !ok {
			return values.Value{}, false
		}
		return c.boolean(right.IsTruthy()), true
	case "||":
		if left.IsTruthy() {
			return c.boolean(true), true
		}
		right, ok := c.expression(n.Right)
		if !ok {
			return values.Value{}, false
		}
		return c.boolean(right.IsTruthy()), true
	}
	right, ok := c.expression(n.Right)
	if !ok {
		return values.Value{}, false
	}
	left, right = c.adopt(n.Left, left, n.Right, right), c.adopt(n.Right, right, n.Left, left)
	if fn, ok := c.host.Operator(n.Operator, []values.Value{left, right}, c.callee()); ok {
		return c.call(fn, []values.Value{left, right})
	}
	v, err := values.Binary(n.Operator, left, right)
	if err != nil {
		return values.Value{}, false
	}
	if values.IsComparison(n.Operator) {
		v = v.Convert(c.host.BooleanKind())
	}
	return v, true
}

func (c *Context) unary(n *ast.UnaryOperator) (values.Value, bool) {
	operand, ok := c.expression(n.Operand)
	if !ok {
		return values.Value{}, false
	}
	if n.Operator != "-" || !ast.IsLiteral(n.Operand) {
		if fn, ok := c.host.Operator(n.Operator, []values.Value{operand}, c.callee()); ok {
			return c.call(fn, []values.Value{operand})
		}
	}
	v, err := values.Unary(n.Operator, operand)
	if err != nil {
		return values.Value{}, false
	}
	switch {
	case n.Operator == "!":
		v = v.Convert(c.host.BooleanKind())
	case ast.IsLiteral(n):
		if k, ok := c.host.LiteralKind(n); ok {
			v = v.Convert(k)
		}
	}
	return v, true
}

func (c *Context) arguments(call *ast.Call) ([]values.Value, bool) {
	args := make([]values.Value, len(call.Args))
	for i, a := range call.Args {
		if a.Modifier == config.ModifierRef {
			return nil, false
		}
		v, ok := c.expression(a.Value)
		if !ok {
			return nil, false
		}
		args[i] = v
	}
	return args, true
}

func (c *Context) callExpression(n *ast.Call) (values.Value, bool) {
	args, ok := c.arguments(n)
	if !ok {
		return values.Value{}, false
	}
	fn, ok := c.function(n, args)
	if !ok || fn.External {
		return values.Value{}, false
	}
	return c.call(fn, args)
}

// function resolves the callee of n. An untyped literal argument takes part
// in overload resolution with its default kind, as the checker types it
// before the parameter is known; args keep their full precision.
func (c *Context) function(n *ast.Call, args []values.Value) (*Function, bool) {
	typed := append([]values.Value(nil), args...)
	for i, a := range n.Args {
		if i >= len(typed) || !c.untyped(a.Value) {
			continue
		}
		if k, ok := naturalKind(a.Value, typed[i]); ok {
			typed[i] = typed[i].Convert(k)
		}
	}
	return c.host.Function(n, typed, c.callee())
}
