package compiler

import (
	"math"
	"strconv"

	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
	"github.com/BBpezsgo/Interpreter-sub004/internal/config"
	"github.com/BBpezsgo/Interpreter-sub004/internal/diagnostics"
	"github.com/BBpezsgo/Interpreter-sub004/internal/ir"
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
	"github.com/BBpezsgo/Interpreter-sub004/internal/types"
	"github.com/BBpezsgo/Interpreter-sub004/internal/values"
)

// literal is a numeric or character literal, negation folded in.
type literal struct {
	tok    token.Token
	float  bool
	char   bool
	i      int64
	f      float64
	suffix string
}

// literalOf recognizes integer, float and char literals and their negation.
func literalOf(e ast.Expression) (literal, bool) {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		return literal{tok: n.Token, i: n.Value, suffix: n.Suffix}, true
	case *ast.FloatLiteral:
		return literal{tok: n.Token, float: true, f: n.Value, suffix: n.Suffix}, true
	case *ast.CharLiteral:
		return literal{tok: n.Token, char: true, i: int64(n.Value)}, true
	case *ast.UnaryOperator:
		if n.Operator != "-" {
			return literal{}, false
		}
		lit, ok := literalOf(n.Operand)
		if !ok || lit.char {
			return literal{}, false
		}
		lit.i, lit.f = -lit.i, -lit.f
		lit.tok = n.Token
		return lit, true
	}
	return literal{}, false
}

func (l literal) String() string {
	if l.float {
		return strconv.FormatFloat(l.f, 'g', -1, 64)
	}
	if l.char {
		return strconv.QuoteRune(rune(l.i))
	}
	return strconv.FormatInt(l.i, 10)
}

// fits reports whether the literal can take kind k without changing value.
// Any integer fits a float kind; a float only fits float kinds.
func (l literal) fits(k types.Kind) bool {
	if l.suffix != "" {
		if sk, ok := types.ParseBuiltin(l.suffix); !ok || sk != k {
			return false
		}
		l.suffix = ""
		return l.fits(k)
	}
	if l.float {
		switch k {
		case types.F64:
			return true
		case types.F32:
			return math.Abs(l.f) <= math.MaxFloat32
		}
		return false
	}
	return values.Int(types.I64, l.i).Fits(k)
}

// natural is the kind of the literal without an expected type.
func (l literal) natural() types.Kind {
	name := config.DefaultIntegerType
	switch {
	case l.suffix != "":
		name = l.suffix
	case l.float:
		name = config.DefaultFloatType
	case l.char:
		name = config.DefaultCharType
	}
	k, ok := types.ParseBuiltin(name)
	if !ok {
		return types.I32
	}
	return k
}

// defaultKind is the natural kind, widened to f64, u32 or i64 when an
// unsuffixed literal does not fit it.
func (l literal) defaultKind() types.Kind {
	k := l.natural()
	if l.suffix != "" || l.fits(k) {
		return k
	}
	switch {
	case l.float:
		return types.F64
	case l.char:
		return types.U32
	}
	return types.I64
}

// untypedKind is the kind lowering gives e, of value v, without an
// expected type, when e is built from unsuffixed literals only.
func untypedKind(e ast.Expression, v values.Value) (types.Kind, bool) {
	if !untypedExpression(e) {
		return 0, false
	}
	if lit, ok := literalOf(e); ok {
		return lit.defaultKind(), true
	}
	lit := literal{float: types.ClassOf(v.Kind()) == types.Float, i: v.Int64(), f: v.Float64()}
	return lit.defaultKind(), true
}

func untypedExpression(e ast.Expression) bool {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		return n.Suffix == ""
	case *ast.FloatLiteral:
		return n.Suffix == ""
	case *ast.CharLiteral:
		return true
	case *ast.UnaryOperator:
		return n.Operator == "-" && untypedExpression(n.Operand)
	case *ast.BinaryOperator:
		return !values.IsComparison(n.Operator) && untypedExpression(n.Left) && untypedExpression(n.Right)
	}
	return false
}

// value builds the compile-time value of the literal as kind k.
func (l literal) value(k types.Kind) values.Value {
	if l.float {
		return values.Float(types.F64, l.f).Convert(k)
	}
	return values.Int(types.I64, l.i).Convert(k)
}

// literalKind types a literal against the expected type. A literal that
// fits the expected numeric type adopts it; otherwise it falls back to its
// default kind, widened so the value survives, with a warning when an expected numeric type was rejected
// and a hint when there was no expected type at all.
func (c *Compiler) literalKind(l literal, expected types.Type) types.Kind {
	if l.suffix != "" {
		k := l.natural()
		if !l.fits(k) {
			c.report(diagnostics.ErrT002, l.tok, l, k, k)
		}
		return k
	}
	if expected == nil {
		k := l.defaultKind()
		c.report(diagnostics.ErrT004, l.tok, l, k)
		return k
	}
	k, ok := types.Numeric(expected)
	if !ok {
		return l.defaultKind()
	}
	if l.fits(k) {
		return k
	}
	fallback := l.defaultKind()
	c.report(diagnostics.ErrT002, l.tok, l, k, fallback)
	return fallback
}

// lowerLiteral produces the typed constant of a numeric or char literal.
func (c *Compiler) lowerLiteral(l literal, expected types.Type) ir.Value {
	k := c.literalKind(l, expected)
	return &ir.Evaluated{ValueBase: ir.At(l.tok, types.Builtin{Kind: k}, true), Value: l.value(k)}
}
