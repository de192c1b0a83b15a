package ast

import "github.com/BBpezsgo/Interpreter-sub004/internal/token"

// Synthesized nodes reuse the token of the node they replace so that
// diagnostics keep pointing at user source.

func NewIdentifier(tok token.Token, name string) *Identifier {
	return &Identifier{Token: tok, Name: name}
}

func NewInteger(tok token.Token, v int64) *IntegerLiteral {
	return &IntegerLiteral{Token: tok, Value: v}
}

func NewFloat(tok token.Token, v float64) *FloatLiteral {
	return &FloatLiteral{Token: tok, Value: v}
}

func NewBinary(tok token.Token, op string, left, right Expression) *BinaryOperator {
	return &BinaryOperator{Token: tok, Operator: op, Left: left, Right: right}
}

// IsLiteral reports whether e is a literal, optionally negated.
func IsLiteral(e Expression) bool {
	switch n := e.(type) {
	case *IntegerLiteral, *FloatLiteral, *CharLiteral, *StringLiteral, *BoolLiteral:
		return true
	case *UnaryOperator:
		return n.Operator == "-" && IsLiteral(n.Operand)
	default:
		return false
	}
}

// Desugar rewrites compound assignments and increments into plain assignments.
// Other statements are returned unchanged.
func Desugar(s Statement) Statement {
	switch n := s.(type) {
	case *CompoundAssignment:
		return &Assignment{
			Token:  n.Token,
			Target: n.Target,
			Value:  NewBinary(n.Token, n.Operator, n.Target, n.Value),
		}
	case *Increment:
		op := "+"
		if n.Decrement {
			op = "-"
		}
		return &Assignment{
			Token:  n.Token,
			Target: n.Target,
			Value:  NewBinary(n.Token, op, n.Target, NewInteger(n.Token, 1)),
		}
	default:
		return s
	}
}
