package ast

import (
	"fmt"
	"strings"

	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
)

// Type is the syntax of a type as written in source.
type Type interface {
	Node
	typeNode()
	String() string
}

// TypeName is a named type, optionally with type arguments: i32, Vec<T>.
type TypeName struct {
	Token    token.Token
	Name     string
	TypeArgs []Type
}

func (tn *TypeName) typeNode() {}
func (tn *TypeName) GetToken() token.Token {
	if tn == nil {
		return token.Token{}
	}
	return tn.Token
}
func (tn *TypeName) String() string {
	if len(tn.TypeArgs) == 0 {
		return tn.Name
	}
	args := make([]string, len(tn.TypeArgs))
	for i, a := range tn.TypeArgs {
		args[i] = a.String()
	}
	return tn.Name + "<" + strings.Join(args, ", ") + ">"
}

// PointerType is T*.
type PointerType struct {
	Token token.Token
	To    Type
}

func (pt *PointerType) typeNode() {}
func (pt *PointerType) GetToken() token.Token {
	if pt == nil {
		return token.Token{}
	}
	return pt.Token
}
func (pt *PointerType) String() string { return pt.To.String() + "*" }

// ArrayType is T[] (Length nil) or T[n].
type ArrayType struct {
	Token  token.Token
	Of     Type
	Length Expression
}

func (at *ArrayType) typeNode() {}
func (at *ArrayType) GetToken() token.Token {
	if at == nil {
		return token.Token{}
	}
	return at.Token
}
func (at *ArrayType) String() string {
	if at.Length == nil {
		return at.Of.String() + "[]"
	}
	return fmt.Sprintf("%s[%s]", at.Of.String(), ExpressionString(at.Length))
}

// FunctionType is Ret(P1, P2).
type FunctionType struct {
	Token  token.Token
	Return Type
	Params []Type
}

func (ft *FunctionType) typeNode() {}
func (ft *FunctionType) GetToken() token.Token {
	if ft == nil {
		return token.Token{}
	}
	return ft.Token
}
func (ft *FunctionType) String() string {
	params := make([]string, len(ft.Params))
	for i, p := range ft.Params {
		params[i] = p.String()
	}
	return ft.Return.String() + "(" + strings.Join(params, ", ") + ")"
}
