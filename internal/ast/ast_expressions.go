package ast

import (
	"strconv"
	"strings"

	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
)

// IntegerLiteral is a decimal/hex/binary integer literal; Value is already parsed.
// Suffix is an explicit builtin type name (10u8) that fixes the literal's type.
type IntegerLiteral struct {
	Token  token.Token
	Value  int64
	Suffix string
}

func (il *IntegerLiteral) expressionNode() {}
func (il *IntegerLiteral) GetToken() token.Token {
	if il == nil {
		return token.Token{}
	}
	return il.Token
}

type FloatLiteral struct {
	Token  token.Token
	Value  float64
	Suffix string
}

func (fl *FloatLiteral) expressionNode() {}
func (fl *FloatLiteral) GetToken() token.Token {
	if fl == nil {
		return token.Token{}
	}
	return fl.Token
}

type CharLiteral struct {
	Token token.Token
	Value rune
}

func (cl *CharLiteral) expressionNode() {}
func (cl *CharLiteral) GetToken() token.Token {
	if cl == nil {
		return token.Token{}
	}
	return cl.Token
}

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode() {}
func (sl *StringLiteral) GetToken() token.Token {
	if sl == nil {
		return token.Token{}
	}
	return sl.Token
}

type BoolLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BoolLiteral) expressionNode() {}
func (bl *BoolLiteral) GetToken() token.Token {
	if bl == nil {
		return token.Token{}
	}
	return bl.Token
}

// Identifier refers to a variable, parameter, constant, function or label.
type Identifier struct {
	Token token.Token
	Name  string
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

type BinaryOperator struct {
	Token    token.Token
	Operator string
	Left     Expression
	Right    Expression
}

func (bo *BinaryOperator) expressionNode() {}
func (bo *BinaryOperator) GetToken() token.Token {
	if bo == nil {
		return token.Token{}
	}
	return bo.Token
}

type UnaryOperator struct {
	Token    token.Token
	Operator string
	Operand  Expression
}

func (uo *UnaryOperator) expressionNode() {}
func (uo *UnaryOperator) GetToken() token.Token {
	if uo == nil {
		return token.Token{}
	}
	return uo.Token
}

// Argument is one call argument with its passing modifier ("", "temp", "ref").
type Argument struct {
	Token    token.Token
	Modifier string
	Value    Expression
}

func (a *Argument) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Token
}

// Call is f(args), f<T>(args), x.f(args) or a call through a function value.
type Call struct {
	Token    token.Token
	Callee   Expression
	TypeArgs []Type
	Args     []*Argument
}

func (c *Call) expressionNode() {}
func (c *Call) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Token
}

// Index is Target[Index].
type Index struct {
	Token  token.Token
	Target Expression
	Index  Expression
}

func (ix *Index) expressionNode() {}
func (ix *Index) GetToken() token.Token {
	if ix == nil {
		return token.Token{}
	}
	return ix.Token
}

// Field is Target.Name.
type Field struct {
	Token  token.Token
	Target Expression
	Name   string
}

func (f *Field) expressionNode() {}
func (f *Field) GetToken() token.Token {
	if f == nil {
		return token.Token{}
	}
	return f.Token
}

// Cast is `Value as To`.
type Cast struct {
	Token token.Token
	Value Expression
	To    Type
}

func (c *Cast) expressionNode() {}
func (c *Cast) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return c.Token
}

// New is a heap allocation without a constructor: `new T`.
type New struct {
	Token token.Token
	Type  Type
}

func (n *New) expressionNode() {}
func (n *New) GetToken() token.Token {
	if n == nil {
		return token.Token{}
	}
	return n.Token
}

// ConstructorCall is `new T(args)`.
type ConstructorCall struct {
	Token token.Token
	Type  Type
	Args  []*Argument
}

func (cc *ConstructorCall) expressionNode() {}
func (cc *ConstructorCall) GetToken() token.Token {
	if cc == nil {
		return token.Token{}
	}
	return cc.Token
}

// AddressOf is &Operand.
type AddressOf struct {
	Token   token.Token
	Operand Expression
}

func (ao *AddressOf) expressionNode() {}
func (ao *AddressOf) GetToken() token.Token {
	if ao == nil {
		return token.Token{}
	}
	return ao.Token
}

// Dereference is *Operand.
type Dereference struct {
	Token   token.Token
	Operand Expression
}

func (d *Dereference) expressionNode() {}
func (d *Dereference) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return d.Token
}

// SizeOf is sizeof(Type).
type SizeOf struct {
	Token token.Token
	Type  Type
}

func (so *SizeOf) expressionNode() {}
func (so *SizeOf) GetToken() token.Token {
	if so == nil {
		return token.Token{}
	}
	return so.Token
}

// ExpressionString renders an expression back to source-like text for messages.
func ExpressionString(e Expression) string {
	switch n := e.(type) {
	case nil:
		return ""
	case *IntegerLiteral:
		return strconv.FormatInt(n.Value, 10) + n.Suffix
	case *FloatLiteral:
		if n.Suffix != "" {
			return strconv.FormatFloat(n.Value, 'g', -1, 64) + n.Suffix
		}
		return strconv.FormatFloat(n.Value, 'g', -1, 64) + "f"
	case *CharLiteral:
		return strconv.QuoteRune(n.Value)
	case *StringLiteral:
		return strconv.Quote(n.Value)
	case *BoolLiteral:
		return strconv.FormatBool(n.Value)
	case *Identifier:
		return n.Name
	case *BinaryOperator:
		return "(" + ExpressionString(n.Left) + " " + n.Operator + " " + ExpressionString(n.Right) + ")"
	case *UnaryOperator:
		return n.Operator + ExpressionString(n.Operand)
	case *Call:
		return ExpressionString(n.Callee) + "(" + argumentsString(n.Args) + ")"
	case *Index:
		return ExpressionString(n.Target) + "[" + ExpressionString(n.Index) + "]"
	case *Field:
		return ExpressionString(n.Target) + "." + n.Name
	case *Cast:
		return ExpressionString(n.Value) + " as " + n.To.String()
	case *New:
		return "new " + n.Type.String()
	case *ConstructorCall:
		return "new " + n.Type.String() + "(" + argumentsString(n.Args) + ")"
	case *AddressOf:
		return "&" + ExpressionString(n.Operand)
	case *Dereference:
		return "*" + ExpressionString(n.Operand)
	case *SizeOf:
		return "sizeof(" + n.Type.String() + ")"
	default:
		return "?"
	}
}

func argumentsString(args []*Argument) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = ExpressionString(a.Value)
		if a.Modifier != "" {
			parts[i] = a.Modifier + " " + parts[i]
		}
	}
	return strings.Join(parts, ", ")
}
