package types

import (
	"fmt"
	"strings"

	"github.com/BBpezsgo/Interpreter-sub004/internal/ast"
)

// Type is the closed set of semantic types. Values are immutable once built.
type Type interface {
	String() string
	typeNode()
}

// Kind enumerates the builtin scalar types.
type Kind int

const (
	Void Kind = iota
	Any
	U8
	I8
	U16
	I16
	U32
	I32
	U64
	I64
	F32
	F64
)

var kindNames = [...]string{
	Void: "void",
	Any:  "any",
	U8:   "u8",
	I8:   "i8",
	U16:  "u16",
	I16:  "i16",
	U32:  "u32",
	I32:  "i32",
	U64:  "u64",
	I64:  "i64",
	F32:  "f32",
	F64:  "f64",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseBuiltin looks up a builtin type keyword. `char` is an alias for u16.
func ParseBuiltin(name string) (Kind, bool) {
	if name == "char" {
		return U16, true
	}
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Builtin is a scalar type.
type Builtin struct {
	Kind Kind
}

func (b Builtin) typeNode()      {}
func (b Builtin) String() string { return b.Kind.String() }

// Pointer is T*.
type Pointer struct {
	To Type
}

func (p Pointer) typeNode()      {}
func (p Pointer) String() string { return p.To.String() + "*" }

// Array is T[] or T[n]. ComputedLength is set only when Length was
// constant folded.
type Array struct {
	Of             Type
	Length         ast.Expression
	ComputedLength *int
}

func (a Array) typeNode() {}
func (a Array) String() string {
	switch {
	case a.ComputedLength != nil:
		return fmt.Sprintf("%s[%d]", a.Of, *a.ComputedLength)
	case a.Length != nil:
		return fmt.Sprintf("%s[%s]", a.Of, ast.ExpressionString(a.Length))
	default:
		return a.Of.String() + "[]"
	}
}

// Sized reports whether the array length is known at compile time.
func (a Array) Sized() bool { return a.ComputedLength != nil }

// Field is one named member of a struct declaration. Its type may refer
// to the declaration's type parameters.
type Field struct {
	Name string
	Type Type
}

// StructDeclaration is what a struct type needs from its declaration.
// Identity of the declaration is what makes two struct types the same.
type StructDeclaration interface {
	Identifier() string
	TypeParameters() []string
	FieldList() []Field
}

// Struct is a struct declaration applied to type arguments.
type Struct struct {
	Decl          StructDeclaration
	TypeArguments []Type
}

func (s *Struct) typeNode() {}
func (s *Struct) String() string {
	if len(s.TypeArguments) == 0 {
		return s.Decl.Identifier()
	}
	return s.Decl.Identifier() + "<" + join(s.TypeArguments) + ">"
}

// Bindings maps the declaration's type parameters to the type arguments.
func (s *Struct) Bindings() map[string]Type {
	params := s.Decl.TypeParameters()
	if len(params) == 0 {
		return nil
	}
	b := make(map[string]Type, len(params))
	for i, p := range params {
		if i < len(s.TypeArguments) {
			b[p] = s.TypeArguments[i]
		}
	}
	return b
}

// Field returns the named field with type arguments substituted.
func (s *Struct) Field(name string) (Type, int, bool) {
	for i, f := range s.Decl.FieldList() {
		if f.Name == name {
			return Substitute(f.Type, s.Bindings()), i, true
		}
	}
	return nil, -1, false
}

// Generic is an unbound type parameter.
type Generic struct {
	Name string
}

func (g Generic) typeNode()      {}
func (g Generic) String() string { return g.Name }

// Function is the type of a function value.
type Function struct {
	Return Type
	Params []Type
}

func (f *Function) typeNode() {}
func (f *Function) String() string {
	return f.Return.String() + "(" + join(f.Params) + ")"
}

// Alias names another type.
type Alias struct {
	Name   string
	Target Type
}

func (a *Alias) typeNode()      {}
func (a *Alias) String() string { return a.Name }

func join(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// Frequently used builtins
var (
	VoidType = Builtin{Kind: Void}
	AnyType  = Builtin{Kind: Any}
	U8Type   = Builtin{Kind: U8}
	U16Type  = Builtin{Kind: U16}
	I32Type  = Builtin{Kind: I32}
	F32Type  = Builtin{Kind: F32}
)
