package ast

import (
	"github.com/BBpezsgo/Interpreter-sub004/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	GetToken() token.Token
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node the parser produces for one source file.
type Program struct {
	File       string // Source file URI
	Functions  []*FunctionDefinition
	Structs    []*StructDefinition
	Aliases    []*AliasDefinition
	Statements []Statement // Top-level statements, in source order
}

// Attribute is a bracketed annotation such as [External("stdout")].
type Attribute struct {
	Token     token.Token
	Name      string
	Arguments []string
}

func (a *Attribute) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Token
}

// Modifiers is the list of keyword modifiers in front of a declaration,
// parameter or argument (export, inline, temp, ref, this, const).
type Modifiers []string

func (m Modifiers) Has(name string) bool {
	for _, v := range m {
		if v == name {
			return true
		}
	}
	return false
}

// DefinitionKind distinguishes the callable declarations that share
// the FunctionDefinition shape.
type DefinitionKind int

const (
	KindFunction    DefinitionKind = iota
	KindOperator                   // Name is the operator symbol ("+", "==", ...)
	KindGeneral                    // destructor, indexer_get, indexer_set
	KindConstructor                // Return is the instance type
)

func (k DefinitionKind) String() string {
	switch k {
	case KindOperator:
		return "operator"
	case KindGeneral:
		return "general function"
	case KindConstructor:
		return "constructor"
	default:
		return "function"
	}
}

// Parameter is a declared parameter of a callable.
type Parameter struct {
	Token     token.Token
	Name      string
	Type      Type
	Modifiers Modifiers
}

func (p *Parameter) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// FunctionDefinition is a function, operator, general function or constructor.
// Body is nil for declarations implemented by the host ([External(...)]).
type FunctionDefinition struct {
	Token      token.Token
	Kind       DefinitionKind
	Name       string
	Modifiers  Modifiers
	Attributes []*Attribute
	TypeParams []string
	Params     []*Parameter
	Return     Type
	Body       *Block
}

func (fd *FunctionDefinition) GetToken() token.Token {
	if fd == nil {
		return token.Token{}
	}
	return fd.Token
}

// Attribute returns the first attribute with the given name.
func (fd *FunctionDefinition) Attribute(name string) (*Attribute, bool) {
	for _, a := range fd.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// FieldDefinition is a named, typed struct field.
type FieldDefinition struct {
	Token token.Token
	Name  string
	Type  Type
}

func (fd *FieldDefinition) GetToken() token.Token {
	if fd == nil {
		return token.Token{}
	}
	return fd.Token
}

// StructDefinition declares a struct together with its methods, operators,
// general functions and constructors. Methods receive an implicit `this`.
type StructDefinition struct {
	Token      token.Token
	Name       string
	Modifiers  Modifiers
	Attributes []*Attribute
	TypeParams []string
	Fields     []*FieldDefinition
	Methods    []*FunctionDefinition
}

func (sd *StructDefinition) GetToken() token.Token {
	if sd == nil {
		return token.Token{}
	}
	return sd.Token
}

// AliasDefinition declares `alias Name Type;`.
type AliasDefinition struct {
	Token     token.Token
	Name      string
	Modifiers Modifiers
	Type      Type
}

func (ad *AliasDefinition) GetToken() token.Token {
	if ad == nil {
		return token.Token{}
	}
	return ad.Token
}
